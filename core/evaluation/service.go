package evaluation

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pivotpoint/platform/core"
)

var (
	// errors
	ErrNotFound         = errors.New("evaluation not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrStudentIDExists  = errors.New("an evaluation with this student ID already exists")
)

// dueDateOffset is how long after consent an evaluation is due.
const dueDateOffset = 60 * 24 * time.Hour

type (
	Repository interface {
		CheckStudentIDUniqueness(studentID string, excluded ...Evaluation) error
		CreateEvaluation(ev Evaluation) (Evaluation, error)
		QueryAllEvaluations() ([]Evaluation, error)
		GetEvaluationByID(id int) (Evaluation, error)
		GetEvaluationByStudentID(studentID string) (Evaluation, error)
		// FilterEvaluations applies AND over the filter toggles, then the
		// orderings, then the offset/limit window. The second result is the
		// total match count before windowing.
		FilterEvaluations(filter QueryFilter, orderings []core.DBOrdering, offset, limit int) ([]Evaluation, int, error)
		SaveEvaluation(ev Evaluation) (Evaluation, error)
		DeleteEvaluationsByID(ids ...int) error

		AddDocument(doc Document) (Document, error)
		QueryDocuments(evaluationID int) ([]Document, error)
		GetDocument(evaluationID int, docID string) (Document, error)
		DeleteDocument(evaluationID int, docID string) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (svc *Service) checkStudentIDUniqueness(studentID string, excl ...Evaluation) error {
	if err := svc.repo.CheckStudentIDUniqueness(studentID, excl...); err != nil {
		if errors.Is(err, ErrStudentIDExists) {
			return core.NewValidationError(err, core.FieldError{Field: "studentId", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ne NewEvaluation) (Evaluation, error) {
	now := time.Now().UTC()
	ev := Evaluation{
		StudentID:            ne.StudentID,
		FirstName:            ne.FirstName,
		LastName:             ne.LastName,
		Pseudonym:            ne.Pseudonym,
		School:               ne.School,
		Grade:                ne.Grade,
		Service:              ne.Service,
		Status:               StatusInProgress,
		DateOfBirth:          ne.DateOfBirth,
		LogDate:              ne.LogDate,
		PermissionDate:       ne.PermissionDate,
		ConsentDate:          ne.ConsentDate,
		DueDate:              ne.DueDate,
		ReportDate:           ne.ReportDate,
		ParentName:           ne.ParentName,
		ParentPhone:          ne.ParentPhone,
		ParentEmail:          ne.ParentEmail,
		ParentAddress:        ne.ParentAddress,
		ExaminerName:         ne.ExaminerName,
		ExaminerTitle:        ne.ExaminerTitle,
		ReasonForReferral:    ne.ReasonForReferral,
		EducationalHistory:   ne.EducationalHistory,
		DevelopmentalHistory: ne.DevelopmentalHistory,
		MedicalHistory:       ne.MedicalHistory,
		InterventionHistory:  ne.InterventionHistory,
		Observations:         ne.Observations,
		Recommendations:      ne.Recommendations,
		Summary:              ne.Summary,
		ClinicianNotes:       ne.ClinicianNotes,
		Assessments:          ne.Assessments,
		Demographics:         ne.Demographics,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	// due date defaults to 60 days after consent
	if ev.DueDate == nil && ev.ConsentDate != nil {
		due := ev.ConsentDate.Add(dueDateOffset)
		ev.DueDate = &due
	}
	return svc.repo.CreateEvaluation(ev)
}

func (svc *Service) QueryAll() ([]Evaluation, error) {
	return svc.repo.QueryAllEvaluations()
}

func (svc *Service) Filter(filter QueryFilter, orderings []core.DBOrdering, offset, limit int) ([]Evaluation, int, error) {
	return svc.repo.FilterEvaluations(filter, orderings, offset, limit)
}

func (svc *Service) GetByID(id int) (Evaluation, error) {
	return svc.repo.GetEvaluationByID(id)
}

func (svc *Service) Update(id int, ue UpdateEvaluation) (Evaluation, error) {
	ev, err := svc.repo.GetEvaluationByID(id)
	if err != nil {
		return Evaluation{}, err
	}
	if ue.ReportDrafts != nil && *ue.ReportDrafts != "" {
		if err = svc.checkReportDrafts(ev, *ue.ReportDrafts); err != nil {
			return Evaluation{}, err
		}
	}
	ue.apply(&ev)
	ev.UpdatedAt = time.Now().UTC()
	return svc.repo.SaveEvaluation(ev)
}

// Delete removes evaluations in bulk, best-effort. N=0 is a no-op.
func (svc *Service) Delete(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	return svc.repo.DeleteEvaluationsByID(ids...)
}

// Documents

func (svc *Service) AddDocument(evaluationID int, doc Document) (Document, error) {
	if _, err := svc.repo.GetEvaluationByID(evaluationID); err != nil {
		return Document{}, err
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.EvaluationID = evaluationID
	doc.UploadedAt = time.Now().UTC()
	return svc.repo.AddDocument(doc)
}

func (svc *Service) QueryDocuments(evaluationID int) ([]Document, error) {
	return svc.repo.QueryDocuments(evaluationID)
}

func (svc *Service) GetDocument(evaluationID int, docID string) (Document, error) {
	return svc.repo.GetDocument(evaluationID, docID)
}

func (svc *Service) DeleteDocument(evaluationID int, docID string) error {
	return svc.repo.DeleteDocument(evaluationID, docID)
}
