// Package model contains domain models passed between layers.
package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldSeparator joins categorical fields and list entries in combined-feature
// text. Candidates and postings must use the same separator.
const FieldSeparator = ", "

// CandidateProfile is one candidate asking for role recommendations.
// It is built per request and never persisted.
type CandidateProfile struct {
	Skills              []string `json:"skills"`
	CurrentRole         string   `json:"current_role"`
	CourseUniversity    string   `json:"course_university"`
	LanguageProficiency []string `json:"language_proficiency"`
	PreviousInternship  string   `json:"previous_internship,omitempty"`
	ExperienceYears     float64  `json:"experience_years"`
}

// CombinedFeatures returns the lower-cased text compared against the catalog:
// skills, current role, course/university and languages joined in that order.
// Previous internship and experience are carried but not part of the text.
func (c CandidateProfile) CombinedFeatures() string {
	return CombineFeatures(
		strings.Join(c.Skills, FieldSeparator),
		c.CurrentRole,
		c.CourseUniversity,
		strings.Join(c.LanguageProficiency, FieldSeparator),
	)
}

// CombineFeatures lower-cases and joins already flattened fields.
// Empty fields are kept so the field positions stay stable.
func CombineFeatures(fields ...string) string {
	return Lower(strings.Join(fields, FieldSeparator))
}

// Lower applies Unicode full lower-case mapping.
func Lower(s string) string {
	// cases.Caser is stateful; one per call.
	return cases.Lower(language.Und).String(s)
}
