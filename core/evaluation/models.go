package evaluation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pivotpoint/platform/core"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusInProgress || s == StatusCompleted
}

type (
	Score struct {
		Name        string   `json:"name"`
		Value       float64  `json:"value"`
		Percentile  *float64 `json:"percentile,omitempty"`
		Description string   `json:"description,omitempty"`
		Category    string   `json:"category,omitempty"`
	}

	Assessment struct {
		Name           string  `json:"name"`
		Date           string  `json:"date"`
		Category       string  `json:"category"`
		Interpretation string  `json:"interpretation,omitempty"`
		Scores         []Score `json:"scores,omitempty"`
	}

	Demographics struct {
		Age               *int   `json:"age,omitempty"`
		Grade             string `json:"grade,omitempty"`
		Gender            string `json:"gender,omitempty"`
		Ethnicity         string `json:"ethnicity,omitempty"`
		PrimaryLanguage   string `json:"primaryLanguage,omitempty"`
		SecondaryLanguage string `json:"secondaryLanguage,omitempty"`
		Handedness        string `json:"handedness,omitempty"`
		SpecialEducation  *bool  `json:"specialEducation,omitempty"`
		IEP               *bool  `json:"iep,omitempty"`
		Section504        *bool  `json:"section504,omitempty"`
		Medicaid          *bool  `json:"medicaid,omitempty"`
		FreeReducedLunch  *bool  `json:"freeReducedLunch,omitempty"`
	}

	// Evaluation is a school-psychology case record tracked through intake,
	// assessment and reporting. ClinicianNotes is a single unstructured
	// blob; tagged note lines inside it are the only structuring mechanism
	// (see the report package). ReportDrafts holds JSON-encoded section
	// contents written back by the report writer.
	Evaluation struct {
		ID        int    `json:"id"`
		StudentID string `json:"studentId"`
		FirstName string `json:"firstName,omitempty"`
		LastName  string `json:"lastName,omitempty"`
		Pseudonym string `json:"pseudonym,omitempty"`
		School    string `json:"school,omitempty"`
		Grade     string `json:"grade,omitempty"`
		Service   string `json:"service,omitempty"`
		Status    Status `json:"status"`

		DateOfBirth     string     `json:"dateOfBirth,omitempty"`
		LogDate         *time.Time `json:"logDate,omitempty"`
		PermissionDate  *time.Time `json:"permissionDate,omitempty"`
		ConsentDate     *time.Time `json:"consentDate,omitempty"`
		DueDate         *time.Time `json:"dueDate,omitempty"`
		EligibilityDate *time.Time `json:"eligibilityDate,omitempty"`
		ReportDate      *time.Time `json:"reportDate,omitempty"`

		ParentName    string `json:"parentName,omitempty"`
		ParentPhone   string `json:"parentPhone,omitempty"`
		ParentEmail   string `json:"parentEmail,omitempty"`
		ParentAddress string `json:"parentAddress,omitempty"`
		ExaminerName  string `json:"examinerName,omitempty"`
		ExaminerTitle string `json:"examinerTitle,omitempty"`

		ReasonForReferral    string `json:"reasonForReferral,omitempty"`
		EducationalHistory   string `json:"educationalHistory,omitempty"`
		DevelopmentalHistory string `json:"developmentalHistory,omitempty"`
		MedicalHistory       string `json:"medicalHistory,omitempty"`
		InterventionHistory  string `json:"interventionHistory,omitempty"`
		Observations         string `json:"observations,omitempty"`
		Recommendations      string `json:"recommendations,omitempty"`
		Summary              string `json:"summary,omitempty"`

		ClinicianNotes string       `json:"clinicianNotes"`
		ReportDrafts   string       `json:"reportDrafts,omitempty"`
		Assessments    []Assessment `json:"assessments,omitempty"`
		Demographics   Demographics `json:"demographics"`

		CreatedAt time.Time `json:"createdAt"` // UTC
		UpdatedAt time.Time `json:"updatedAt"` // UTC
	}

	// Document is an uploaded file attached to an evaluation.
	Document struct {
		ID           string    `json:"id"`
		EvaluationID int       `json:"evaluationId"`
		Name         string    `json:"name"`
		ContentType  string    `json:"contentType"`
		Size         int64     `json:"size"`
		UploadedAt   time.Time `json:"uploadedAt"`
		Content      []byte    `json:"-"`
	}
)

// DisplayName is the client-facing label: pseudonym first, then student ID.
func (ev Evaluation) DisplayName() string {
	if ev.Pseudonym != "" {
		return ev.Pseudonym
	}
	return ev.StudentID
}

// IsCompleted reports whether the case reached eligibility determination.
func (ev Evaluation) IsCompleted() bool {
	return ev.EligibilityDate != nil
}

// IsInProgress reports whether permission is on file but eligibility is not
// yet determined.
func (ev Evaluation) IsInProgress() bool {
	return ev.PermissionDate != nil && ev.EligibilityDate == nil
}

// NewEvaluation contains information needed to create a new Evaluation.
type NewEvaluation struct {
	StudentID string `json:"studentId" validate:"required,alphanum_"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Pseudonym string `json:"pseudonym"`
	School    string `json:"schoolName"`
	Grade     string `json:"grade"`
	Service   string `json:"service"`

	DateOfBirth    string     `json:"dateOfBirth"`
	EvaluationType string     `json:"evaluationType"`
	LogDate        *time.Time `json:"logDate"`
	PermissionDate *time.Time `json:"permissionDate"`
	ConsentDate    *time.Time `json:"consentDate"`
	DueDate        *time.Time `json:"dueDate"`
	ReportDate     *time.Time `json:"reportDate"`

	ParentName    string `json:"parentName"`
	ParentPhone   string `json:"parentPhone"`
	ParentEmail   string `json:"parentEmail" validate:"omitempty,email"`
	ParentAddress string `json:"parentAddress"`
	ExaminerName  string `json:"examinerName"`
	ExaminerTitle string `json:"examinerTitle"`

	ReasonForReferral    string       `json:"reasonForReferral"`
	EducationalHistory   string       `json:"educationalHistory"`
	DevelopmentalHistory string       `json:"developmentalHistory"`
	MedicalHistory       string       `json:"medicalHistory"`
	InterventionHistory  string       `json:"interventionHistory"`
	Observations         string       `json:"observations"`
	Recommendations      string       `json:"recommendations"`
	Summary              string       `json:"summary"`
	ClinicianNotes       string       `json:"clinicianNotes"`
	Assessments          []Assessment `json:"assessments"`
	Demographics         Demographics `json:"demographics"`
}

func (ne *NewEvaluation) Validate(validate *validator.Validate, svc *Service) error {
	ne.StudentID = core.CleanString(ne.StudentID)
	ne.FirstName = core.CleanString(ne.FirstName)
	ne.LastName = core.CleanString(ne.LastName)
	ne.Pseudonym = core.CleanString(ne.Pseudonym)
	ne.School = core.CleanString(ne.School)
	ne.ParentEmail = core.CleanString(ne.ParentEmail, true /* lower */)

	if err := validate.Struct(ne); err != nil {
		return err
	}
	return svc.checkStudentIDUniqueness(ne.StudentID)
}

// UpdateEvaluation defines what information may be provided to modify an
// existing Evaluation. Every UI surface mutates records through this
// partial-update shape; nil means "leave unchanged".
type UpdateEvaluation struct {
	Pseudonym *string `json:"pseudonym"`
	School    *string `json:"school"`
	Grade     *string `json:"grade"`
	Service   *string `json:"service"`
	Status    *Status `json:"status" validate:"omitempty,evalstatus"`

	LogDate         *time.Time `json:"logDate"`
	PermissionDate  *time.Time `json:"permissionDate"`
	ConsentDate     *time.Time `json:"consentDate"`
	DueDate         *time.Time `json:"dueDate"`
	EligibilityDate *time.Time `json:"eligibilityDate"`
	ReportDate      *time.Time `json:"reportDate"`

	ParentName    *string `json:"parentName"`
	ParentPhone   *string `json:"parentPhone"`
	ParentEmail   *string `json:"parentEmail" validate:"omitempty,email"`
	ParentAddress *string `json:"parentAddress"`
	ExaminerName  *string `json:"examinerName"`
	ExaminerTitle *string `json:"examinerTitle"`

	ReasonForReferral *string `json:"reasonForReferral"`
	Observations      *string `json:"observations"`
	Recommendations   *string `json:"recommendations"`
	Summary           *string `json:"summary"`

	ClinicianNotes *string       `json:"clinicianNotes"`
	ReportDrafts   *string       `json:"reportDrafts"`
	Assessments    []Assessment  `json:"assessments"`
	Demographics   *Demographics `json:"demographics"`
}

func (ue *UpdateEvaluation) Validate(validate *validator.Validate) error {
	if ue.ParentEmail != nil {
		cleaned := core.CleanString(*ue.ParentEmail, true /* lower */)
		ue.ParentEmail = &cleaned
	}
	return validate.Struct(ue)
}

// apply merges the set fields onto ev.
func (ue *UpdateEvaluation) apply(ev *Evaluation) {
	if ue.Pseudonym != nil {
		ev.Pseudonym = *ue.Pseudonym
	}
	if ue.School != nil {
		ev.School = *ue.School
	}
	if ue.Grade != nil {
		ev.Grade = *ue.Grade
	}
	if ue.Service != nil {
		ev.Service = *ue.Service
	}
	if ue.Status != nil {
		ev.Status = *ue.Status
	}
	if ue.LogDate != nil {
		ev.LogDate = ue.LogDate
	}
	if ue.PermissionDate != nil {
		ev.PermissionDate = ue.PermissionDate
	}
	if ue.ConsentDate != nil {
		ev.ConsentDate = ue.ConsentDate
	}
	if ue.DueDate != nil {
		ev.DueDate = ue.DueDate
	}
	if ue.EligibilityDate != nil {
		ev.EligibilityDate = ue.EligibilityDate
	}
	if ue.ReportDate != nil {
		ev.ReportDate = ue.ReportDate
	}
	if ue.ParentName != nil {
		ev.ParentName = *ue.ParentName
	}
	if ue.ParentPhone != nil {
		ev.ParentPhone = *ue.ParentPhone
	}
	if ue.ParentEmail != nil {
		ev.ParentEmail = *ue.ParentEmail
	}
	if ue.ParentAddress != nil {
		ev.ParentAddress = *ue.ParentAddress
	}
	if ue.ExaminerName != nil {
		ev.ExaminerName = *ue.ExaminerName
	}
	if ue.ExaminerTitle != nil {
		ev.ExaminerTitle = *ue.ExaminerTitle
	}
	if ue.ReasonForReferral != nil {
		ev.ReasonForReferral = *ue.ReasonForReferral
	}
	if ue.Observations != nil {
		ev.Observations = *ue.Observations
	}
	if ue.Recommendations != nil {
		ev.Recommendations = *ue.Recommendations
	}
	if ue.Summary != nil {
		ev.Summary = *ue.Summary
	}
	if ue.ClinicianNotes != nil {
		ev.ClinicianNotes = *ue.ClinicianNotes
	}
	if ue.ReportDrafts != nil {
		ev.ReportDrafts = *ue.ReportDrafts
	}
	if ue.Assessments != nil {
		ev.Assessments = ue.Assessments
	}
	if ue.Demographics != nil {
		ev.Demographics = *ue.Demographics
	}
}

// QueryFilter narrows the evaluation list. Both toggles may be active; they
// combine with AND.
type QueryFilter struct {
	Search         string `query:"search"`
	CompletedOnly  bool   `query:"completed"`
	InProgressOnly bool   `query:"in_progress"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && !qf.CompletedOnly && !qf.InProgressOnly
}
