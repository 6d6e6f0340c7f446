package evaluation

import (
	"errors"
	"time"

	"github.com/pivotpoint/platform/core"
)

// Roster import: rows parsed from an uploaded workbook are upserted by
// student ID. Parsing itself lives in services/excel; this is the domain
// half of the operation.

type (
	ImportRow struct {
		StudentID string
		Pseudonym string
		School    string
		Grade     string
		Service   string
	}

	ImportResult struct {
		Updated int `json:"updated"`
		Created int `json:"created"`
	}
)

// Import upserts roster rows by student ID. Rows without a student ID are
// skipped. Best-effort: the first storage failure aborts with the counts so
// far.
func (svc *Service) Import(rows []ImportRow) (ImportResult, error) {
	var res ImportResult
	for _, row := range rows {
		row.StudentID = core.CleanString(row.StudentID)
		if row.StudentID == "" {
			continue
		}

		now := time.Now().UTC()
		ev, err := svc.repo.GetEvaluationByStudentID(row.StudentID)
		switch {
		case err == nil:
			if row.Pseudonym != "" {
				ev.Pseudonym = row.Pseudonym
			}
			if row.School != "" {
				ev.School = row.School
			}
			if row.Grade != "" {
				ev.Grade = row.Grade
			}
			if row.Service != "" {
				ev.Service = row.Service
			}
			ev.UpdatedAt = now
			if _, err = svc.repo.SaveEvaluation(ev); err != nil {
				return res, err
			}
			res.Updated++

		case errors.Is(err, ErrNotFound):
			ev = Evaluation{
				StudentID: row.StudentID,
				Pseudonym: row.Pseudonym,
				School:    row.School,
				Grade:     row.Grade,
				Service:   row.Service,
				Status:    StatusInProgress,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err = svc.repo.CreateEvaluation(ev); err != nil {
				return res, err
			}
			res.Created++

		default:
			return res, err
		}
	}
	return res, nil
}
