package excelsvc

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/evaluation"
)

var ErrNoStudentIDColumn = errors.New("workbook has no student ID column")

// headerAliases maps normalized header cells to roster fields. Real logs
// come from several districts with slightly different headings.
var headerAliases = map[string]string{
	"student id":    "studentId",
	"studentid":     "studentId",
	"id":            "studentId",
	"student":       "pseudonym",
	"student name":  "pseudonym",
	"name":          "pseudonym",
	"pseudonym":     "pseudonym",
	"school":        "school",
	"building":      "school",
	"grade":         "grade",
	"grade level":   "grade",
	"service":       "service",
	"service type":  "service",
	"eval type":     "service",
	"referral type": "service",
}

// ParseRoster reads the first sheet of an Excel workbook into roster rows.
// The first row is treated as headers; unrecognized columns are ignored.
func ParseRoster(r io.Reader) ([]evaluation.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "reading sheet")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	fields := make(map[int]string, len(rows[0]))
	var hasStudentID bool
	for i, cell := range rows[0] {
		if field, ok := headerAliases[core.CleanString(cell, true /* lower */)]; ok {
			fields[i] = field
			hasStudentID = hasStudentID || field == "studentId"
		}
	}
	if !hasStudentID {
		return nil, ErrNoStudentIDColumn
	}

	parsed := make([]evaluation.ImportRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		var row evaluation.ImportRow
		for i, cell := range cells {
			value := strings.TrimSpace(cell)
			switch fields[i] {
			case "studentId":
				row.StudentID = value
			case "pseudonym":
				row.Pseudonym = value
			case "school":
				row.School = value
			case "grade":
				row.Grade = value
			case "service":
				row.Service = value
			}
		}
		if row.StudentID == "" {
			continue
		}
		parsed = append(parsed, row)
	}
	return parsed, nil
}
