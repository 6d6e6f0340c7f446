package report

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func TestNewReport(t *testing.T) {
	rep := NewReport(testNow)

	if len(rep.Sections) != len(SectionKeys) {
		t.Fatalf("len(Sections) = %d, want %d", len(rep.Sections), len(SectionKeys))
	}
	for _, key := range SectionKeys {
		s, ok := rep.Sections[key]
		if !ok {
			t.Fatalf("section %s missing", key)
		}
		if s.Title != key.Title() {
			t.Errorf("section %s title = %q, want %q", key, s.Title, key.Title())
		}
		if s.Content != "" || s.Completed {
			t.Errorf("section %s not empty: %+v", key, s)
		}
	}
	if rep.Demographics.EvaluationType != "Initial Evaluation" {
		t.Errorf("EvaluationType = %q", rep.Demographics.EvaluationType)
	}
	if rep.Demographics.ReportDate != "5/1/2025" {
		t.Errorf("ReportDate = %q", rep.Demographics.ReportDate)
	}
}

func TestApply_updateSection(t *testing.T) {
	rep := NewReport(testNow)

	tests := []struct {
		name          string
		content       string
		wantCompleted bool
	}{
		{name: "non-empty completes", content: "Referred by classroom teacher", wantCompleted: true},
		{name: "single space still completes", content: " ", wantCompleted: true},
		{name: "empty clears", content: "", wantCompleted: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := Apply(rep, UpdateSection{Key: SectionReferral, Content: tt.content})
			s := next.Sections[SectionReferral]
			if s.Content != tt.content || s.Completed != tt.wantCompleted {
				t.Errorf("section = %+v, want content %q completed %v", s, tt.content, tt.wantCompleted)
			}
		})
	}
}

func TestApply_unknownKeysAreNoOps(t *testing.T) {
	rep := NewReport(testNow)

	next := Apply(rep, UpdateSection{Key: "Bogus", Content: "x"})
	if len(next.Sections) != len(SectionKeys) {
		t.Errorf("unknown section key added a section")
	}

	next = Apply(rep, SetDemographic{Field: "bogus", Value: "x"})
	if next.Demographics != rep.Demographics {
		t.Errorf("unknown demographic field changed demographics")
	}
}

func TestApply_inputNeverMutated(t *testing.T) {
	rep := NewReport(testNow)
	_ = Apply(rep, UpdateSection{Key: SectionSummary, Content: "changed"})

	if s := rep.Sections[SectionSummary]; s.Content != "" || s.Completed {
		t.Errorf("input report mutated: %+v", s)
	}
}

func TestApply_setDemographic(t *testing.T) {
	rep := NewReport(testNow)
	next := Apply(rep, SetDemographic{Field: "name", Value: "Jordan P."})
	next = Apply(next, SetDemographic{Field: "grade", Value: "4"})

	if next.Demographics.Name != "Jordan P." || next.Demographics.Grade != "4" {
		t.Errorf("demographics = %+v", next.Demographics)
	}
	// untouched fields keep their defaults
	if next.Demographics.EvaluationType != "Initial Evaluation" {
		t.Errorf("EvaluationType = %q", next.Demographics.EvaluationType)
	}
}

func TestApply_hydrate(t *testing.T) {
	rep := NewReport(testNow)
	rep = Apply(rep, UpdateSection{Key: SectionReferral, Content: "kept"})
	rep = Apply(rep, SetDemographic{Field: "school", Value: "Lincoln Elementary"})

	clientID := "42"
	clientName := "Jordan P."
	next := Apply(rep, Hydrate{Partial: Partial{
		ClientID:   &clientID,
		ClientName: &clientName,
		Sections: map[SectionKey]Section{
			SectionBackground: {Content: "Full-term birth"},
			"Bogus":           {Content: "dropped"},
		},
		Demographics: map[string]string{"grade": "4"},
	}})

	if next.ClientID != clientID || next.ClientName != clientName {
		t.Errorf("client = %q/%q", next.ClientID, next.ClientName)
	}
	// merged section is completed and titled
	bg := next.Sections[SectionBackground]
	if bg.Content != "Full-term birth" || !bg.Completed || bg.Title != SectionBackground.Title() {
		t.Errorf("background = %+v", bg)
	}
	// shallow merge: untouched section and demographic survive
	if next.Sections[SectionReferral].Content != "kept" {
		t.Errorf("referral lost on hydrate")
	}
	if next.Demographics.School != "Lincoln Elementary" || next.Demographics.Grade != "4" {
		t.Errorf("demographics = %+v", next.Demographics)
	}
	if _, ok := next.Sections["Bogus"]; ok {
		t.Errorf("invalid hydrate key added a section")
	}
}

func TestCompletedSections(t *testing.T) {
	rep := NewReport(testNow)
	if got := rep.CompletedSections(); got != 0 {
		t.Fatalf("CompletedSections() = %d, want 0", got)
	}

	rep = Apply(rep, UpdateSection{Key: SectionReferral, Content: "a"})
	rep = Apply(rep, UpdateSection{Key: SectionBackground, Content: "   "}) // whitespace only
	rep = Apply(rep, UpdateSection{Key: SectionSummary, Content: "b"})

	// the save-gate counter trims, even though the Completed flag does not
	if got := rep.CompletedSections(); got != 2 {
		t.Errorf("CompletedSections() = %d, want 2", got)
	}
	if !rep.Sections[SectionBackground].Completed {
		t.Errorf("whitespace content should still flip the Completed flag")
	}
}
