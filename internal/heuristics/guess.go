package heuristics

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/jobfit/internal/textutil"
)

const (
	// MaxCompanyLength caps a guessed company name.
	MaxCompanyLength = 120
	// MaxTitleLength caps a guessed title.
	MaxTitleLength = 140

	headScanLines  = 30
	titleScanLines = 8
)

var (
	companyLineRe = regexp.MustCompile(`(?i)^\s*(company|empresa)\s*:\s*(.+)$`)
	// Matched against normalized lines, so "Posição" arrives as "posicao".
	titleLineRe     = regexp.MustCompile(`\b(cargo|posicao|vaga|job title)\b`)
	sentenceBoundRe = regexp.MustCompile(`[.!?](\s|$)`)
)

// GuessCompany looks for a "Company:" or "Empresa:" line near the top of text
// and falls back to the first label of rawURL's host.
func GuessCompany(text, rawURL string) string {
	for i, line := range strings.Split(text, "\n") {
		if i == headScanLines {
			break
		}
		m := companyLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if name := strings.TrimSpace(m[2]); name != "" {
			return textutil.Truncate(name, MaxCompanyLength)
		}
	}

	return companyFromURL(rawURL)
}

func companyFromURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + strings.TrimPrefix(rawURL, "//")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}

// GuessTitle picks the posting title from its lines: a line naming the role
// ("Cargo: ...", "Vaga ...", "Job title: ..."), else the longest of the first
// non-empty lines. A longest line that is really a paragraph is cut to its
// first sentence.
func GuessTitle(lines []string) string {
	for i, line := range lines {
		if i == headScanLines {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || !titleLineRe.MatchString(textutil.Normalize(line)) {
			continue
		}
		if _, value, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(value) != "" {
			line = value
		}
		return textutil.Truncate(strings.TrimSpace(line), MaxTitleLength)
	}

	longest := ""
	seen := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > utf8.RuneCountInString(longest) {
			longest = line
		}
		seen++
		if seen == titleScanLines {
			break
		}
	}
	if utf8.RuneCountInString(longest) > MaxTitleLength {
		longest = firstSentence(longest)
	}

	return textutil.Truncate(longest, MaxTitleLength)
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if loc := sentenceBoundRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]+1]
	}
	return strings.TrimSpace(text)
}
