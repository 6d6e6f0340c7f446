package report

import "time"

type (
	// Section holds the editable draft content for one named section.
	// Completed is derived from Content on every edit and is never
	// independently settable.
	Section struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		Completed bool   `json:"completed"`
	}

	Demographics struct {
		Name           string `json:"name"`
		DateOfBirth    string `json:"dateOfBirth"`
		Age            string `json:"age"`
		Gender         string `json:"gender"`
		School         string `json:"school"`
		EvaluationType string `json:"evaluationType"`
		Grade          string `json:"grade"`
		ReportDate     string `json:"reportDate"`
		Parent         string `json:"parent"`
		Phone          string `json:"phone"`
		Address        string `json:"address"`
	}

	// Report is the in-memory writer aggregate. It is constructed fresh per
	// writing session, hydrated from a selected client's evaluation, and
	// funnels back into the evaluation's reportDrafts field on save; it is
	// never persisted as a distinct record.
	Report struct {
		ClientID     string                 `json:"clientId"`
		ClientName   string                 `json:"clientName"`
		CreatedAt    time.Time              `json:"createdAt"`
		UpdatedAt    time.Time              `json:"updatedAt"`
		DueDate      string                 `json:"dueDate"`
		Sections     map[SectionKey]Section `json:"sections"`
		Demographics Demographics           `json:"demographics"`
	}
)

// NewReport returns an empty report with all eight sections present.
func NewReport(now time.Time) Report {
	sections := make(map[SectionKey]Section, len(SectionKeys))
	for _, k := range SectionKeys {
		sections[k] = Section{Title: k.Title()}
	}
	return Report{
		CreatedAt: now,
		UpdatedAt: now,
		Sections:  sections,
		Demographics: Demographics{
			EvaluationType: "Initial Evaluation",
			ReportDate:     now.Format("1/2/2006"),
		},
	}
}

// CompletedSections counts sections whose trimmed content is non-empty.
func (r Report) CompletedSections() int {
	var n int
	for _, s := range r.Sections {
		if trimmed(s.Content) != "" {
			n++
		}
	}
	return n
}

// Action is a tagged state transition request for Apply.
type Action interface{ isAction() }

type (
	// UpdateSection replaces a section's content and recomputes Completed.
	UpdateSection struct {
		Key     SectionKey
		Content string
	}

	// SetDemographic sets a single demographic field by its JSON name.
	// Independent of everything else; no cross-validation.
	SetDemographic struct {
		Field string
		Value string
	}

	// Hydrate merges a partial report in, preserving anything the partial
	// does not supply. Sections merge per key; demographics merge per field.
	Hydrate struct {
		Partial Partial
	}
)

func (UpdateSection) isAction()  {}
func (SetDemographic) isAction() {}
func (Hydrate) isAction()       {}

// Partial carries the subset of report fields supplied by a hydrate.
// Nil pointers / absent map keys leave the current value untouched.
type Partial struct {
	ClientID     *string
	ClientName   *string
	DueDate      *string
	Sections     map[SectionKey]Section
	Demographics map[string]string
}

// Apply is the pure transition function over the report state. Unknown
// section keys and unknown demographic fields are no-ops; the input report
// is never mutated.
func Apply(state Report, action Action) Report {
	switch a := action.(type) {
	case UpdateSection:
		if !a.Key.Valid() {
			return state
		}
		next := cloneReport(state)
		s := next.Sections[a.Key]
		s.Content = a.Content
		s.Completed = len(a.Content) > 0 // raw length: a single space counts
		next.Sections[a.Key] = s
		return next

	case SetDemographic:
		next := cloneReport(state)
		setDemographicField(&next.Demographics, a.Field, a.Value)
		return next

	case Hydrate:
		next := cloneReport(state)
		if a.Partial.ClientID != nil {
			next.ClientID = *a.Partial.ClientID
		}
		if a.Partial.ClientName != nil {
			next.ClientName = *a.Partial.ClientName
		}
		if a.Partial.DueDate != nil {
			next.DueDate = *a.Partial.DueDate
		}
		for k, s := range a.Partial.Sections {
			if !k.Valid() {
				continue
			}
			s.Title = k.Title()
			s.Completed = len(s.Content) > 0
			next.Sections[k] = s
		}
		for field, value := range a.Partial.Demographics {
			setDemographicField(&next.Demographics, field, value)
		}
		return next
	}
	return state
}

func cloneReport(r Report) Report {
	sections := make(map[SectionKey]Section, len(r.Sections))
	for k, s := range r.Sections {
		sections[k] = s
	}
	r.Sections = sections
	return r
}

func setDemographicField(d *Demographics, field, value string) {
	switch field {
	case "name":
		d.Name = value
	case "dateOfBirth":
		d.DateOfBirth = value
	case "age":
		d.Age = value
	case "gender":
		d.Gender = value
	case "school":
		d.School = value
	case "evaluationType":
		d.EvaluationType = value
	case "grade":
		d.Grade = value
	case "reportDate":
		d.ReportDate = value
	case "parent":
		d.Parent = value
	case "phone":
		d.Phone = value
	case "address":
		d.Address = value
	}
}
