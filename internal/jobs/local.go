package jobs

import (
	"strings"

	"github.com/lithammer/shortuuid/v4"

	"github.com/spigell/jobfit/internal/heuristics"
)

const localIDPrefix = "local-"

// LocalExtractor builds a JobAnalysis from text with heuristics only. It
// never fails, empty text included.
type LocalExtractor struct {
	newID func() string
}

func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{newID: shortuuid.New}
}

// Extract analyses text. rawURL, when known, helps to guess the company.
func (e *LocalExtractor) Extract(text, rawURL string) *JobAnalysis {
	newID := shortuuid.New
	if e != nil && e.newID != nil {
		newID = e.newID
	}

	analysis := &JobAnalysis{
		ID:               localIDPrefix + newID(),
		Company:          heuristics.GuessCompany(text, rawURL),
		Title:            heuristics.GuessTitle(strings.Split(text, "\n")),
		RequiredSkills:   heuristics.ExtractSection(text, heuristics.RequirementHeadings),
		Responsibilities: heuristics.ExtractSection(text, heuristics.ResponsibilityHeadings),
		Keywords:         heuristics.ExtractKeywords(text),
		Source:           SourceLocal,
		URL:              strings.TrimSpace(rawURL),
	}
	analysis.RequiredSkills = cleanList(analysis.RequiredSkills, MaxRequiredSkills)
	analysis.Responsibilities = cleanList(analysis.Responsibilities, MaxResponsibilities)

	return analysis
}
