// Package heuristics implements the deterministic text heuristics used when no
// language model is available: keyword ranking, section slicing and
// company/title guessing.
package heuristics

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spigell/jobfit/internal/textutil"
)

const (
	// MaxKeywords caps the ranked keyword list.
	MaxKeywords = 30

	minTokenLength = 3
)

var tokenRe = regexp.MustCompile(`[a-z0-9+#\-]{3,}`)

// Tokenize normalizes text and returns its alphanumeric runs (with + # -)
// of at least three characters, stopwords included. Runs made only of
// punctuation, like "---", are skipped.
func Tokenize(text string) []string {
	matches := tokenRe.FindAllString(textutil.Normalize(text), -1)

	tokens := matches[:0]
	for _, m := range matches {
		if strings.IndexFunc(m, isAlnum) >= 0 {
			tokens = append(tokens, m)
		}
	}
	return tokens
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// ExtractKeywords returns the MaxKeywords most frequent unigrams and bigrams
// of text.
func ExtractKeywords(text string) []string {
	return ExtractKeywordsN(text, MaxKeywords)
}

// ExtractKeywordsN ranks unigrams and bigrams of text by frequency and returns
// at most limit of them. Ties keep first-seen order, unigrams before bigrams.
func ExtractKeywordsN(text string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	tokens := Tokenize(text)

	type entry struct {
		term  string
		count int
	}

	index := make(map[string]int, len(tokens))
	entries := make([]entry, 0, len(tokens))
	add := func(term string) {
		if i, ok := index[term]; ok {
			entries[i].count++
			return
		}
		index[term] = len(entries)
		entries = append(entries, entry{term: term, count: 1})
	}

	for _, token := range tokens {
		if !IsStopword(token) {
			add(token)
		}
	}

	for i := 0; i+1 < len(tokens); i++ {
		first, second := tokens[i], tokens[i+1]
		if IsStopword(first) || IsStopword(second) {
			continue
		}
		add(first + " " + second)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	keywords := make([]string, 0, min(limit, len(entries)))
	for _, e := range entries {
		if utf8.RuneCountInString(e.term) < minTokenLength {
			continue
		}
		keywords = append(keywords, e.term)
		if len(keywords) == limit {
			break
		}
	}

	return keywords
}
