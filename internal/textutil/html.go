package textutil

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Bullet prefixes every list item produced by StripHTML.
const Bullet = "• "

var (
	inlineSpaceRe = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

// StripHTML reduces an HTML document to plain text. Script and style blocks
// are dropped, block level tags become line breaks and list items become
// bulleted lines. When the markup cannot be tokenized the input is returned
// unchanged.
func StripHTML(raw string) string {
	text, err := reduceHTML(raw)
	if err != nil {
		return raw
	}
	return text
}

func reduceHTML(raw string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(raw))

	var b strings.Builder
	b.Grow(len(raw) / 2)
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return CollapseWhitespace(b.String()), nil

		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}

		case html.StartTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			if isSkipped(tag) {
				skipDepth++
				continue
			}
			writeBreak(&b, tag)

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			writeBreak(&b, atom.Lookup(name))

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			if isSkipped(tag) {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			switch {
			case isBlock(tag) || isHeading(tag):
				b.WriteByte('\n')
			case tag == atom.Td || tag == atom.Th:
				b.WriteByte(' ')
			}
		}
	}
}

func writeBreak(b *strings.Builder, tag atom.Atom) {
	switch {
	case tag == atom.Li:
		b.WriteString("\n" + Bullet)
	case tag == atom.Br, isBlock(tag), isHeading(tag):
		b.WriteByte('\n')
	}
}

func isSkipped(tag atom.Atom) bool {
	switch tag {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	}
	return false
}

func isHeading(tag atom.Atom) bool {
	switch tag {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func isBlock(tag atom.Atom) bool {
	switch tag {
	case atom.P, atom.Div, atom.Ul, atom.Ol, atom.Tr, atom.Section, atom.Article,
		atom.Header, atom.Footer, atom.Table, atom.Blockquote, atom.Dl, atom.Dd, atom.Dt,
		atom.Title:
		return true
	}
	return false
}

// CollapseWhitespace squeezes runs of spaces and tabs into one space, trims
// every line and keeps at most one blank line between paragraphs.
func CollapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = inlineSpaceRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	s = strings.Join(lines, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
