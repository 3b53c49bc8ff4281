// Package jobs turns job postings into structured analyses and scores
// candidate profiles against them, with a language model when one is
// configured and deterministic heuristics otherwise.
package jobs

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/spigell/jobfit/internal/heuristics"
	"github.com/spigell/jobfit/internal/textutil"
)

const (
	MaxRequiredSkills   = heuristics.MaxSectionItems
	MaxResponsibilities = heuristics.MaxSectionItems
	MaxKeywords         = heuristics.MaxKeywords
	MaxTitleLength      = heuristics.MaxTitleLength
	MaxCompanyLength    = heuristics.MaxCompanyLength
	MaxMissingKeywords  = 20
	MaxScoreNotes       = 10

	SourceAI    = "ai"
	SourceLocal = "local"
)

// JobAnalysis is the structured extraction of one job posting.
type JobAnalysis struct {
	ID               string   `json:"id"`
	Company          string   `json:"company"`
	Title            string   `json:"title"`
	RequiredSkills   []string `json:"requiredSkills"`
	Responsibilities []string `json:"responsibilities"`
	Keywords         []string `json:"keywords"`
	Source           string   `json:"source,omitempty"`
	URL              string   `json:"url,omitempty"`
}

// ScoreResult is the compatibility of a profile with a JobAnalysis.
type ScoreResult struct {
	Score           int      `json:"score"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	MissingKeywords []string `json:"missingKeywords"`
}

// Profile is the caller's candidate record. It is only ever read and
// serialized to text.
type Profile map[string]any

// Text returns the profile serialized as JSON, or an empty string for an
// empty profile.
func (p Profile) Text() string {
	if len(p) == 0 {
		return ""
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(p)); err != nil {
		return ""
	}

	return strings.TrimSpace(buf.String())
}

// bound enforces the size limits of every field and replaces nil lists with
// empty ones.
func (a *JobAnalysis) bound() {
	a.ID = strings.TrimSpace(a.ID)
	a.Company = textutil.Truncate(strings.TrimSpace(a.Company), MaxCompanyLength)
	a.Title = textutil.Truncate(strings.TrimSpace(a.Title), MaxTitleLength)
	a.RequiredSkills = cleanList(a.RequiredSkills, MaxRequiredSkills)
	a.Responsibilities = cleanList(a.Responsibilities, MaxResponsibilities)
	a.Keywords = cleanKeywords(a.Keywords)
}

func (r *ScoreResult) bound() {
	r.Score = clampScore(r.Score)
	r.Strengths = cleanList(r.Strengths, -1)
	r.Weaknesses = cleanList(r.Weaknesses, -1)
	r.MissingKeywords = cleanList(r.MissingKeywords, MaxMissingKeywords)
}

// cleanList trims items, drops blank ones and caps the list at limit
// (no cap for a negative limit).
func cleanList(items []string, limit int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if limit >= 0 && len(out) == limit {
			break
		}
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// cleanKeywords drops short terms, duplicates and any keyword with a
// stopword among its words from model provided keywords.
func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, min(len(keywords), MaxKeywords))
	seen := make(map[string]struct{}, len(keywords))

	for _, kw := range keywords {
		if len(out) == MaxKeywords {
			break
		}

		kw = strings.Join(strings.Fields(strings.ToLower(kw)), " ")
		if utf8.RuneCountInString(kw) < 3 || hasStopword(kw) {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}

	return out
}

func hasStopword(keyword string) bool {
	for _, word := range strings.Fields(textutil.Normalize(keyword)) {
		if heuristics.IsStopword(word) {
			return true
		}
	}
	return false
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
