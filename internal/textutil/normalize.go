// Package textutil holds the text primitives shared by the fetcher and the
// heuristic extractor: accent folding, HTML reduction and rune-safe truncation.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text and strips combining diacritical marks so that
// "Responsabilidades" and "RESPONSABILIDADES" or "Posição" and "posicao"
// compare equal.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	// transform.Chain keeps state, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, lowered)
	if err != nil {
		return lowered
	}

	return result
}

// Folded is a normalized copy of a text that remembers where every folded
// byte came from, so matches found in the folded form can be mapped back to
// the original string.
type Folded struct {
	original string
	folded   string
	offsets  []int
}

// Fold builds the Folded form of text.
func Fold(text string) *Folded {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)

	for i, r := range text {
		part := foldRune(r)
		for j := 0; j < len(part); j++ {
			offsets = append(offsets, i)
		}
		b.WriteString(part)
	}
	offsets = append(offsets, len(text))

	return &Folded{original: text, folded: b.String(), offsets: offsets}
}

// String returns the folded text.
func (f *Folded) String() string {
	return f.folded
}

// Index returns the byte offset in the original text of the first
// accent/case-insensitive occurrence of substr and the offset right after it.
// It returns -1, -1 when substr does not occur.
func (f *Folded) Index(substr string) (int, int) {
	needle := Normalize(substr)
	if needle == "" {
		return -1, -1
	}

	idx := strings.Index(f.folded, needle)
	if idx < 0 {
		return -1, -1
	}

	return f.offsets[idx], f.offsets[idx+len(needle)]
}

func foldRune(r rune) string {
	if r < utf8.RuneSelf {
		return string(unicode.ToLower(r))
	}

	var b strings.Builder
	for _, d := range norm.NFD.String(strings.ToLower(string(r))) {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		b.WriteRune(d)
	}

	return b.String()
}

// Truncate caps s at limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	return string([]rune(s)[:limit])
}
