package evaluation

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pivotpoint/platform/core"
)

// List-view derivation: filtering, sorting and tracking metrics over an
// evaluation collection. Pure functions; the in-memory repository and the
// API list endpoint are built on these.

// Matches applies the filter toggles to one evaluation. When both toggles
// are active the result is their AND (an evaluation cannot be both, so the
// combination yields nothing; this mirrors sequential filtering).
func (qf QueryFilter) Matches(ev Evaluation) bool {
	if qf.CompletedOnly && !ev.IsCompleted() {
		return false
	}
	if qf.InProgressOnly && !ev.IsInProgress() {
		return false
	}
	if qf.Search != "" {
		needle := strings.ToLower(qf.Search)
		if !strings.Contains(strings.ToLower(ev.DisplayName()), needle) &&
			!strings.Contains(strings.ToLower(ev.StudentID), needle) &&
			!strings.Contains(strings.ToLower(ev.School), needle) &&
			!strings.Contains(strings.ToLower(ev.Grade), needle) {
			return false
		}
	}
	return true
}

// Filter returns the evaluations matching qf, preserving order.
func Filter(evals []Evaluation, qf QueryFilter) []Evaluation {
	out := make([]Evaluation, 0, len(evals))
	for _, ev := range evals {
		if qf.Matches(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// sortValue projects one sortable field of an evaluation. Dates compare
// numerically; everything else compares as a case-insensitive string.
// null reports an absent value: nulls sort last ascending, first descending.
func sortValue(ev Evaluation, field string) (str string, ts int64, isDate, null bool) {
	date := func(t *time.Time) (string, int64, bool, bool) {
		if t == nil {
			return "", 0, true, true
		}
		return "", t.UnixMilli(), true, false
	}

	switch field {
	case "id":
		return strconv.Itoa(ev.ID), 0, false, false
	case "studentId":
		return strings.ToLower(ev.StudentID), 0, false, false
	case "pseudonym":
		return strings.ToLower(ev.Pseudonym), 0, false, false
	case "school":
		return strings.ToLower(ev.School), 0, false, false
	case "grade":
		return strings.ToLower(ev.Grade), 0, false, false
	case "service":
		return strings.ToLower(ev.Service), 0, false, false
	case "status":
		return strings.ToLower(string(ev.Status)), 0, false, false
	case "logDate":
		return date(ev.LogDate)
	case "permissionDate":
		return date(ev.PermissionDate)
	case "consentDate":
		return date(ev.ConsentDate)
	case "dueDate":
		return date(ev.DueDate)
	case "eligibilityDate":
		return date(ev.EligibilityDate)
	case "reportDate":
		return date(ev.ReportDate)
	case "createdAt":
		t := ev.CreatedAt
		return date(&t)
	case "updatedAt":
		t := ev.UpdatedAt
		return date(&t)
	}
	// unknown field: everything compares equal
	return "", 0, false, true
}

// SortBy stable-sorts a copy of evals by one field. Nulls sort last in
// ascending order and first in descending order; sorting an already-sorted
// slice by the same field and direction is a no-op.
func SortBy(evals []Evaluation, field string, ascending bool) []Evaluation {
	out := make([]Evaluation, len(evals))
	copy(out, evals)

	sort.SliceStable(out, func(i, j int) bool {
		aStr, aTS, aDate, aNull := sortValue(out[i], field)
		bStr, bTS, _, bNull := sortValue(out[j], field)

		if aNull && bNull {
			return false
		}
		if aNull {
			return !ascending // null goes last asc, first desc
		}
		if bNull {
			return ascending
		}

		if aDate {
			if ascending {
				return aTS < bTS
			}
			return aTS > bTS
		}
		if ascending {
			return aStr < bStr
		}
		return aStr > bStr
	})
	return out
}

// SortByOrderings applies multiple ORDER BY terms, least significant last.
func SortByOrderings(evals []Evaluation, orderings []core.DBOrdering) []Evaluation {
	out := evals
	for i := len(orderings) - 1; i >= 0; i-- {
		out = SortBy(out, orderings[i].Field, orderings[i].Ascending)
	}
	return out
}

// ListMetrics are the tracking indicators shown above the list.
type ListMetrics struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}

// Metrics derives tracking counts. Overdue means the due date passed with
// no eligibility determination on file.
func Metrics(evals []Evaluation, now time.Time) ListMetrics {
	m := ListMetrics{Total: len(evals)}
	for _, ev := range evals {
		if ev.IsCompleted() {
			m.Completed++
		}
		if ev.IsInProgress() {
			m.InProgress++
		}
		if ev.DueDate != nil && ev.DueDate.Before(now) && ev.EligibilityDate == nil {
			m.Overdue++
		}
	}
	return m
}
