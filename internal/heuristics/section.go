package heuristics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/jobfit/internal/textutil"
)

const (
	// MaxSectionItems caps the lines returned by ExtractSection.
	MaxSectionItems = 20

	sectionWindow     = 4000
	minSectionLineLen = 5
)

// ResponsibilityHeadings are the phrasings that open a responsibilities block.
var ResponsibilityHeadings = []string{
	"responsabilidades",
	"atribuições",
	"atividades",
	"o que você vai fazer",
	"o que voce fara",
	"suas atividades",
	"responsibilities",
	"what you'll do",
	"what you will do",
	"your role",
	"duties",
}

// RequirementHeadings are the phrasings that open a requirements block.
var RequirementHeadings = []string{
	"requisitos",
	"qualificações",
	"o que buscamos",
	"o que esperamos",
	"pré-requisitos",
	"requirements",
	"qualifications",
	"what we're looking for",
	"what we are looking for",
	"must have",
	"skills",
}

var sectionSplitRe = regexp.MustCompile(`\n|•|·|▪|●| - |\* `)

// ExtractSection returns the list items that follow the earliest heading of
// headings in text, or the items of the whole text when no heading occurs.
func ExtractSection(text string, headings []string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	folded := textutil.Fold(text)

	first, start := -1, 0
	for _, heading := range headings {
		idx, end := folded.Index(heading)
		if idx < 0 {
			continue
		}
		if first < 0 || idx < first || (idx == first && end > start) {
			first, start = idx, end
		}
	}

	window := textutil.Truncate(text[start:], sectionWindow)

	items := make([]string, 0, MaxSectionItems)
	for _, part := range sectionSplitRe.Split(window, -1) {
		line := cleanSectionLine(part)
		if utf8.RuneCountInString(line) < minSectionLineLen {
			continue
		}
		items = append(items, line)
		if len(items) == MaxSectionItems {
			break
		}
	}

	return items
}

func cleanSectionLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, ":;-*•·▪● \t")
	return strings.TrimSpace(line)
}
