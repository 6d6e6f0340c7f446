package postgresrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pivotpoint/platform/core/practicum"
)

type practicumRepository struct {
	db *sqlx.DB
}

func NewPracticumRepository(db *sqlx.DB) practicum.Repository {
	return &practicumRepository{db: db}
}

type practicumRow struct {
	ID         int       `db:"id"`
	Date       string    `db:"date"`
	Activity   string    `db:"activity"`
	Category   string    `db:"category"`
	Hours      float64   `db:"hours"`
	Supervisor string    `db:"supervisor"`
	Notes      string    `db:"notes"`
	CreatedAt  time.Time `db:"created_at"`
}

var practicumColumns = []string{"id", "date", "activity", "category", "hours", "supervisor", "notes", "created_at"}

func (repo *practicumRepository) CreateEntry(entry practicum.Entry) (practicum.Entry, error) {
	query, args, err := psql.Insert("practicum_entries").
		Columns(practicumColumns[1:]...).
		Values(entry.Date, entry.Activity, entry.Category, entry.Hours, entry.Supervisor, entry.Notes, entry.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return practicum.Entry{}, errors.Wrap(err, "building insert query")
	}

	if err = repo.db.Get(&entry.ID, query, args...); err != nil {
		return practicum.Entry{}, errors.Wrap(err, "creating practicum entry")
	}
	return entry, nil
}

func (repo *practicumRepository) QueryAllEntries() ([]practicum.Entry, error) {
	query, args, err := psql.Select(practicumColumns...).
		From("practicum_entries").
		OrderBy("date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []practicumRow
	if err = repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying practicum entries")
	}

	entries := make([]practicum.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, practicum.Entry(row))
	}
	return entries, nil
}
