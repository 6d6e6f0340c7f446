package evaluation

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/report"
)

// Daily Hub quick capture: classify free-text input by type and append a
// timestamped line to the evaluation's notes blob, optionally tagged with a
// report-section marker. The read-modify-write happens here in one service
// call so a stale client copy of the notes can no longer clobber newer
// entries.

type InputType string

const (
	InputObservation   InputType = "observation"
	InputPrivateNote   InputType = "private-note"
	InputSessionNote   InputType = "session-note"
	InputReportSection InputType = "report-section"
)

func (t InputType) Valid() bool {
	switch t {
	case InputObservation, InputPrivateNote, InputSessionNote, InputReportSection:
		return true
	}
	return false
}

var ErrSectionRequired = errors.New("please select a report section to target")

type QuickCapture struct {
	Type    InputType `json:"type" validate:"required,inputtype"`
	Section string    `json:"section" validate:"omitempty,sectionkey"`
	Text    string    `json:"text" validate:"required"`
}

func (qc *QuickCapture) Validate(validate *validator.Validate) error {
	qc.Text = core.CleanString(qc.Text)
	if err := validate.Struct(qc); err != nil {
		return err
	}
	if qc.Type == InputReportSection && qc.Section == "" {
		return core.NewValidationError(ErrSectionRequired, core.FieldError{Field: "section", Error: ErrSectionRequired.Error()})
	}
	return nil
}

// AddNote appends a quick-capture entry to the evaluation's clinician notes
// and returns the updated record. Report-section entries carry the section
// marker; observations, session notes and private notes are stamped plain.
func (svc *Service) AddNote(evaluationID int, qc QuickCapture) (Evaluation, error) {
	ev, err := svc.repo.GetEvaluationByID(evaluationID)
	if err != nil {
		return Evaluation{}, err
	}

	var section report.SectionKey
	if qc.Type == InputReportSection {
		key, ok := report.ParseSectionKey(qc.Section)
		if !ok {
			return Evaluation{}, core.NewValidationError(ErrSectionRequired, core.FieldError{Field: "section", Error: ErrSectionRequired.Error()})
		}
		section = key
	}

	now := time.Now()
	ev.ClinicianNotes = report.AppendNote(ev.ClinicianNotes, section, qc.Text, report.NoteTimestamp(now))
	ev.UpdatedAt = now.UTC()
	return svc.repo.SaveEvaluation(ev)
}

// checkReportDrafts applies the report writer's save gate to drafts being
// written back onto the evaluation: drafts must parse as a JSON object of
// section contents and carry at least the minimum number of non-blank
// sections. The client gate always holds here since drafts land on a
// concrete record.
func (svc *Service) checkReportDrafts(ev Evaluation, drafts string) error {
	var contents map[report.SectionKey]string
	if err := json.Unmarshal([]byte(drafts), &contents); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "reportDrafts", Error: "must be a JSON object of section contents"})
	}

	rep := report.NewReport(time.Now())
	rep.ClientID = strconv.Itoa(ev.ID)
	rep.ClientName = ev.DisplayName()
	for key, content := range contents {
		rep = report.Apply(rep, report.UpdateSection{Key: key, Content: content})
	}
	return report.ValidateReport(rep, 0)
}

// ExtractReportSections recovers staged per-section content from the
// evaluation's notes blob.
func (svc *Service) ExtractReportSections(evaluationID int) (map[report.SectionKey]string, error) {
	ev, err := svc.repo.GetEvaluationByID(evaluationID)
	if err != nil {
		return nil, err
	}
	return report.ExtractSections(ev.ClinicianNotes), nil
}
