package evaluation

import (
	"reflect"
	"testing"
	"time"

	"github.com/pivotpoint/platform/core"
)

func tp(t time.Time) *time.Time { return &t }

func testEvaluations() []Evaluation {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	return []Evaluation{
		{
			ID: 1, StudentID: "S-100", Pseudonym: "Alpha", School: "Lincoln", Grade: "3",
			PermissionDate: tp(now.AddDate(0, -2, 0)),
			DueDate:        tp(now.AddDate(0, 0, -5)), // overdue
		},
		{
			ID: 2, StudentID: "S-200", Pseudonym: "Bravo", School: "Roosevelt", Grade: "5",
			PermissionDate:  tp(now.AddDate(0, -3, 0)),
			EligibilityDate: tp(now.AddDate(0, -1, 0)), // completed
			DueDate:         tp(now.AddDate(0, 0, 10)),
		},
		{
			ID: 3, StudentID: "S-300", Pseudonym: "Charlie", School: "Lincoln", Grade: "K",
			// no permission, no eligibility: neither bucket
		},
	}
}

func ids(evals []Evaluation) []int {
	out := make([]int, 0, len(evals))
	for _, ev := range evals {
		out = append(out, ev.ID)
	}
	return out
}

func TestQueryFilter_Matches(t *testing.T) {
	evals := testEvaluations()

	tests := []struct {
		name   string
		filter QueryFilter
		want   []int
	}{
		{name: "no filters", want: []int{1, 2, 3}},
		{name: "completed", filter: QueryFilter{CompletedOnly: true}, want: []int{2}},
		{name: "in progress", filter: QueryFilter{InProgressOnly: true}, want: []int{1}},
		{
			// both toggles AND together; no record satisfies both
			name: "completed and in progress", filter: QueryFilter{CompletedOnly: true, InProgressOnly: true},
			want: []int{},
		},
		{name: "search studentId", filter: QueryFilter{Search: "s-2"}, want: []int{2}},
		{name: "search school", filter: QueryFilter{Search: "lincoln"}, want: []int{1, 3}},
		{name: "search pseudonym case-insensitive", filter: QueryFilter{Search: "BRAVO"}, want: []int{2}},
		{name: "search no match", filter: QueryFilter{Search: "zzz"}, want: []int{}},
		{
			name: "search AND status", filter: QueryFilter{Search: "lincoln", InProgressOnly: true},
			want: []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Filter(evals, tt.filter)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortBy(t *testing.T) {
	evals := testEvaluations()

	tests := []struct {
		name      string
		field     string
		ascending bool
		want      []int
	}{
		{name: "studentId asc", field: "studentId", ascending: true, want: []int{1, 2, 3}},
		{name: "studentId desc", field: "studentId", want: []int{3, 2, 1}},
		{name: "grade asc", field: "grade", ascending: true, want: []int{1, 2, 3}}, // "3" < "5" < "k"
		// dates: ID 3 has no due date
		{name: "dueDate asc nulls last", field: "dueDate", ascending: true, want: []int{1, 2, 3}},
		{name: "dueDate desc nulls first", field: "dueDate", want: []int{3, 2, 1}},
		// unknown field: stable no-op
		{name: "unknown field", field: "nope", ascending: true, want: []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortBy(evals, tt.field, tt.ascending)
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("SortBy() = %v, want %v", ids(got), tt.want)
			}
			// input order untouched
			if !reflect.DeepEqual(ids(evals), []int{1, 2, 3}) {
				t.Errorf("SortBy() mutated input: %v", ids(evals))
			}
		})
	}
}

func TestSortBy_idempotent(t *testing.T) {
	evals := testEvaluations()
	once := SortBy(evals, "pseudonym", true)
	twice := SortBy(once, "pseudonym", true)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("re-sort changed order: %v vs %v", ids(once), ids(twice))
	}
}

func TestSortByOrderings(t *testing.T) {
	evals := testEvaluations()

	got := SortByOrderings(evals, []core.DBOrdering{
		{Field: "school", Ascending: true},
		{Field: "studentId", Ascending: false},
	})
	// Lincoln (S-300, S-100) then Roosevelt (S-200)
	if !reflect.DeepEqual(ids(got), []int{3, 1, 2}) {
		t.Errorf("SortByOrderings() = %v", ids(got))
	}
}

func TestMetrics(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	m := Metrics(testEvaluations(), now)

	want := ListMetrics{Total: 3, Completed: 1, InProgress: 1, Overdue: 1}
	if m != want {
		t.Errorf("Metrics() = %+v, want %+v", m, want)
	}
}

func TestStatusPredicates(t *testing.T) {
	now := time.Now()

	ev := Evaluation{}
	if ev.IsCompleted() || ev.IsInProgress() {
		t.Errorf("empty evaluation should be neither bucket")
	}

	ev.PermissionDate = tp(now)
	if !ev.IsInProgress() || ev.IsCompleted() {
		t.Errorf("permission only should be in progress")
	}

	ev.EligibilityDate = tp(now)
	if !ev.IsCompleted() || ev.IsInProgress() {
		t.Errorf("eligibility date should complete the evaluation")
	}
}
