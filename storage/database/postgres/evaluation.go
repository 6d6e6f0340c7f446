package postgresrepos

import (
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/evaluation"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type evaluationRepository struct {
	db *sqlx.DB
}

func NewEvaluationRepository(db *sqlx.DB) evaluation.Repository {
	return &evaluationRepository{db: db}
}

type evaluationRow struct {
	ID                   int        `db:"id"`
	StudentID            string     `db:"student_id"`
	FirstName            string     `db:"first_name"`
	LastName             string     `db:"last_name"`
	Pseudonym            string     `db:"pseudonym"`
	School               string     `db:"school"`
	Grade                string     `db:"grade"`
	Service              string     `db:"service"`
	Status               string     `db:"status"`
	DateOfBirth          string     `db:"date_of_birth"`
	LogDate              *time.Time `db:"log_date"`
	PermissionDate       *time.Time `db:"permission_date"`
	ConsentDate          *time.Time `db:"consent_date"`
	DueDate              *time.Time `db:"due_date"`
	EligibilityDate      *time.Time `db:"eligibility_date"`
	ReportDate           *time.Time `db:"report_date"`
	ParentName           string     `db:"parent_name"`
	ParentPhone          string     `db:"parent_phone"`
	ParentEmail          string     `db:"parent_email"`
	ParentAddress        string     `db:"parent_address"`
	ExaminerName         string     `db:"examiner_name"`
	ExaminerTitle        string     `db:"examiner_title"`
	ReasonForReferral    string     `db:"reason_for_referral"`
	EducationalHistory   string     `db:"educational_history"`
	DevelopmentalHistory string     `db:"developmental_history"`
	MedicalHistory       string     `db:"medical_history"`
	InterventionHistory  string     `db:"intervention_history"`
	Observations         string     `db:"observations"`
	Recommendations      string     `db:"recommendations"`
	Summary              string     `db:"summary"`
	ClinicianNotes       string     `db:"clinician_notes"`
	ReportDrafts         string     `db:"report_drafts"`
	Assessments          []byte     `db:"assessments"`
	Demographics         []byte     `db:"demographics"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

var evaluationColumns = []string{
	"id", "student_id", "first_name", "last_name", "pseudonym", "school", "grade", "service", "status",
	"date_of_birth", "log_date", "permission_date", "consent_date", "due_date", "eligibility_date", "report_date",
	"parent_name", "parent_phone", "parent_email", "parent_address", "examiner_name", "examiner_title",
	"reason_for_referral", "educational_history", "developmental_history", "medical_history", "intervention_history",
	"observations", "recommendations", "summary", "clinician_notes", "report_drafts",
	"assessments", "demographics", "created_at", "updated_at",
}

// orderColumns maps API field names to sortable columns.
var orderColumns = map[string]string{
	"id":              "id",
	"studentId":       "student_id",
	"pseudonym":       "pseudonym",
	"school":          "school",
	"grade":           "grade",
	"service":         "service",
	"status":          "status",
	"logDate":         "log_date",
	"permissionDate":  "permission_date",
	"consentDate":     "consent_date",
	"dueDate":         "due_date",
	"eligibilityDate": "eligibility_date",
	"reportDate":      "report_date",
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
}

func toRow(ev evaluation.Evaluation) (evaluationRow, error) {
	assessments, err := json.Marshal(ev.Assessments)
	if err != nil {
		return evaluationRow{}, errors.Wrap(err, "marshalling assessments")
	}
	demographics, err := json.Marshal(ev.Demographics)
	if err != nil {
		return evaluationRow{}, errors.Wrap(err, "marshalling demographics")
	}
	return evaluationRow{
		ID:                   ev.ID,
		StudentID:            ev.StudentID,
		FirstName:            ev.FirstName,
		LastName:             ev.LastName,
		Pseudonym:            ev.Pseudonym,
		School:               ev.School,
		Grade:                ev.Grade,
		Service:              ev.Service,
		Status:               string(ev.Status),
		DateOfBirth:          ev.DateOfBirth,
		LogDate:              ev.LogDate,
		PermissionDate:       ev.PermissionDate,
		ConsentDate:          ev.ConsentDate,
		DueDate:              ev.DueDate,
		EligibilityDate:      ev.EligibilityDate,
		ReportDate:           ev.ReportDate,
		ParentName:           ev.ParentName,
		ParentPhone:          ev.ParentPhone,
		ParentEmail:          ev.ParentEmail,
		ParentAddress:        ev.ParentAddress,
		ExaminerName:         ev.ExaminerName,
		ExaminerTitle:        ev.ExaminerTitle,
		ReasonForReferral:    ev.ReasonForReferral,
		EducationalHistory:   ev.EducationalHistory,
		DevelopmentalHistory: ev.DevelopmentalHistory,
		MedicalHistory:       ev.MedicalHistory,
		InterventionHistory:  ev.InterventionHistory,
		Observations:         ev.Observations,
		Recommendations:      ev.Recommendations,
		Summary:              ev.Summary,
		ClinicianNotes:       ev.ClinicianNotes,
		ReportDrafts:         ev.ReportDrafts,
		Assessments:          assessments,
		Demographics:         demographics,
		CreatedAt:            ev.CreatedAt,
		UpdatedAt:            ev.UpdatedAt,
	}, nil
}

func fromRow(row evaluationRow) (evaluation.Evaluation, error) {
	ev := evaluation.Evaluation{
		ID:                   row.ID,
		StudentID:            row.StudentID,
		FirstName:            row.FirstName,
		LastName:             row.LastName,
		Pseudonym:            row.Pseudonym,
		School:               row.School,
		Grade:                row.Grade,
		Service:              row.Service,
		Status:               evaluation.Status(row.Status),
		DateOfBirth:          row.DateOfBirth,
		LogDate:              row.LogDate,
		PermissionDate:       row.PermissionDate,
		ConsentDate:          row.ConsentDate,
		DueDate:              row.DueDate,
		EligibilityDate:      row.EligibilityDate,
		ReportDate:           row.ReportDate,
		ParentName:           row.ParentName,
		ParentPhone:          row.ParentPhone,
		ParentEmail:          row.ParentEmail,
		ParentAddress:        row.ParentAddress,
		ExaminerName:         row.ExaminerName,
		ExaminerTitle:        row.ExaminerTitle,
		ReasonForReferral:    row.ReasonForReferral,
		EducationalHistory:   row.EducationalHistory,
		DevelopmentalHistory: row.DevelopmentalHistory,
		MedicalHistory:       row.MedicalHistory,
		InterventionHistory:  row.InterventionHistory,
		Observations:         row.Observations,
		Recommendations:      row.Recommendations,
		Summary:              row.Summary,
		ClinicianNotes:       row.ClinicianNotes,
		ReportDrafts:         row.ReportDrafts,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
	if len(row.Assessments) > 0 {
		if err := json.Unmarshal(row.Assessments, &ev.Assessments); err != nil {
			return evaluation.Evaluation{}, errors.Wrap(err, "unmarshalling assessments")
		}
	}
	if len(row.Demographics) > 0 {
		if err := json.Unmarshal(row.Demographics, &ev.Demographics); err != nil {
			return evaluation.Evaluation{}, errors.Wrap(err, "unmarshalling demographics")
		}
	}
	return ev, nil
}

func (repo *evaluationRepository) rowValues(row evaluationRow) []interface{} {
	return []interface{}{
		row.StudentID, row.FirstName, row.LastName, row.Pseudonym, row.School, row.Grade, row.Service, row.Status,
		row.DateOfBirth, row.LogDate, row.PermissionDate, row.ConsentDate, row.DueDate, row.EligibilityDate, row.ReportDate,
		row.ParentName, row.ParentPhone, row.ParentEmail, row.ParentAddress, row.ExaminerName, row.ExaminerTitle,
		row.ReasonForReferral, row.EducationalHistory, row.DevelopmentalHistory, row.MedicalHistory, row.InterventionHistory,
		row.Observations, row.Recommendations, row.Summary, row.ClinicianNotes, row.ReportDrafts,
		row.Assessments, row.Demographics, row.CreatedAt, row.UpdatedAt,
	}
}

func (repo *evaluationRepository) CheckStudentIDUniqueness(studentID string, excluded ...evaluation.Evaluation) error {
	q := psql.Select("COUNT(*)").From("evaluations").Where(sq.Eq{"student_id": studentID})
	if len(excluded) > 0 {
		ids := make([]int, 0, len(excluded))
		for _, ev := range excluded {
			ids = append(ids, ev.ID)
		}
		q = q.Where(sq.NotEq{"id": ids})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var count int
	if err = repo.db.Get(&count, query, args...); err != nil {
		return errors.Wrap(err, "checking student ID uniqueness")
	}
	if count > 0 {
		return evaluation.ErrStudentIDExists
	}
	return nil
}

func (repo *evaluationRepository) CreateEvaluation(ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	row, err := toRow(ev)
	if err != nil {
		return evaluation.Evaluation{}, err
	}

	query, args, err := psql.Insert("evaluations").
		Columns(evaluationColumns[1:]...).
		Values(repo.rowValues(row)...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "building insert query")
	}

	if err = repo.db.Get(&ev.ID, query, args...); err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "creating evaluation")
	}
	return ev, nil
}

func (repo *evaluationRepository) QueryAllEvaluations() ([]evaluation.Evaluation, error) {
	query, args, err := psql.Select(evaluationColumns...).From("evaluations").OrderBy("id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []evaluationRow
	if err = repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying evaluations")
	}
	return repo.fromRows(rows)
}

func (repo *evaluationRepository) fromRows(rows []evaluationRow) ([]evaluation.Evaluation, error) {
	evals := make([]evaluation.Evaluation, 0, len(rows))
	for _, row := range rows {
		ev, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	return evals, nil
}

func (repo *evaluationRepository) getBy(pred interface{}) (evaluation.Evaluation, error) {
	query, args, err := psql.Select(evaluationColumns...).From("evaluations").Where(pred).ToSql()
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "building query")
	}

	var row evaluationRow
	if err = repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return evaluation.Evaluation{}, evaluation.ErrNotFound
		}
		return evaluation.Evaluation{}, errors.Wrap(err, "getting evaluation")
	}
	return fromRow(row)
}

func (repo *evaluationRepository) GetEvaluationByID(id int) (evaluation.Evaluation, error) {
	return repo.getBy(sq.Eq{"id": id})
}

func (repo *evaluationRepository) GetEvaluationByStudentID(studentID string) (evaluation.Evaluation, error) {
	return repo.getBy(sq.Eq{"student_id": studentID})
}

func filterPredicates(filter evaluation.QueryFilter) []sq.Sqlizer {
	var preds []sq.Sqlizer
	if filter.CompletedOnly {
		preds = append(preds, sq.NotEq{"eligibility_date": nil})
	}
	if filter.InProgressOnly {
		preds = append(preds, sq.And{sq.NotEq{"permission_date": nil}, sq.Eq{"eligibility_date": nil}})
	}
	if filter.Search != "" {
		needle := "%" + filter.Search + "%"
		preds = append(preds, sq.Or{
			sq.ILike{"pseudonym": needle},
			sq.ILike{"student_id": needle},
			sq.ILike{"school": needle},
			sq.ILike{"grade": needle},
		})
	}
	return preds
}

func (repo *evaluationRepository) FilterEvaluations(
	filter evaluation.QueryFilter,
	orderings []core.DBOrdering,
	offset, limit int,
) ([]evaluation.Evaluation, int, error) {
	preds := filterPredicates(filter)

	countQ := psql.Select("COUNT(*)").From("evaluations")
	for _, p := range preds {
		countQ = countQ.Where(p)
	}
	query, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "building count query")
	}
	var total int
	if err = repo.db.Get(&total, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting evaluations")
	}

	q := psql.Select(evaluationColumns...).From("evaluations")
	for _, p := range preds {
		q = q.Where(p)
	}
	// nulls last ascending, first descending; both directions consistent
	for _, ord := range orderings {
		col, ok := orderColumns[ord.Field]
		if !ok {
			continue
		}
		if ord.Ascending {
			q = q.OrderBy(col + " ASC NULLS LAST")
		} else {
			q = q.OrderBy(col + " DESC NULLS FIRST")
		}
	}
	q = q.OrderBy("id ASC")
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err = q.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "building filter query")
	}
	var rows []evaluationRow
	if err = repo.db.Select(&rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering evaluations")
	}
	evals, err := repo.fromRows(rows)
	return evals, total, err
}

func (repo *evaluationRepository) SaveEvaluation(ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	row, err := toRow(ev)
	if err != nil {
		return evaluation.Evaluation{}, err
	}

	update := psql.Update("evaluations").Where(sq.Eq{"id": ev.ID})
	values := repo.rowValues(row)
	for i, col := range evaluationColumns[1:] {
		update = update.Set(col, values[i])
	}
	query, args, err := update.ToSql()
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "building update query")
	}

	res, err := repo.db.Exec(query, args...)
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "saving evaluation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return evaluation.Evaluation{}, evaluation.ErrNotFound
	}
	return ev, nil
}

func (repo *evaluationRepository) DeleteEvaluationsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete("evaluations").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(query, args...); err != nil {
		return errors.Wrap(err, "deleting evaluations")
	}
	return nil
}
