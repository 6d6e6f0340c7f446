package report

import "strings"

// SectionKey identifies one of the fixed MET report sections.
// The set is closed: sections are never added or removed at runtime.
type SectionKey string

const (
	SectionReferral     SectionKey = "Referral"
	SectionBackground   SectionKey = "Background"
	SectionTransition   SectionKey = "Transition"
	SectionPrevious     SectionKey = "Previous"
	SectionObservations SectionKey = "Observations"
	SectionCurrent      SectionKey = "Current"
	SectionOther        SectionKey = "Other"
	SectionSummary      SectionKey = "Summary"
)

// SectionKeys lists all sections in report order.
var SectionKeys = []SectionKey{
	SectionReferral,
	SectionBackground,
	SectionTransition,
	SectionPrevious,
	SectionObservations,
	SectionCurrent,
	SectionOther,
	SectionSummary,
}

var sectionTitles = map[SectionKey]string{
	SectionReferral:     "Reason for Referral",
	SectionBackground:   "Background, Medical & Developmental History",
	SectionTransition:   "Transition Planning",
	SectionPrevious:     "Previous Evaluation Results",
	SectionObservations: "Observations & Strengths",
	SectionCurrent:      "Current Assessment Results",
	SectionOther:        "Other Specialty Evaluations",
	SectionSummary:      "Summary & Recommendations",
}

func (k SectionKey) Valid() bool {
	_, ok := sectionTitles[k]
	return ok
}

func (k SectionKey) Title() string {
	return sectionTitles[k]
}

// Marker returns the tag embedded in a note line to associate it with this
// section, e.g. "[REPORT-REFERRAL]".
func (k SectionKey) Marker() string {
	return "[REPORT-" + strings.ToUpper(string(k)) + "]"
}

// ParseSectionKey resolves a case-insensitive section name ("referral",
// "SUMMARY", ...) to its SectionKey.
func ParseSectionKey(s string) (SectionKey, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range SectionKeys {
		if strings.ToLower(string(k)) == s {
			return k, true
		}
	}
	return "", false
}
