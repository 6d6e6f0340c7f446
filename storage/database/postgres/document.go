package postgresrepos

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/pivotpoint/platform/core/evaluation"
)

type documentRow struct {
	ID           string    `db:"id"`
	EvaluationID int       `db:"evaluation_id"`
	Name         string    `db:"name"`
	ContentType  string    `db:"content_type"`
	Size         int64     `db:"size"`
	UploadedAt   time.Time `db:"uploaded_at"`
	Content      []byte    `db:"content"`
}

var documentColumns = []string{"id", "evaluation_id", "name", "content_type", "size", "uploaded_at", "content"}

func (repo *evaluationRepository) AddDocument(doc evaluation.Document) (evaluation.Document, error) {
	query, args, err := psql.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.EvaluationID, doc.Name, doc.ContentType, doc.Size, doc.UploadedAt, doc.Content).
		ToSql()
	if err != nil {
		return evaluation.Document{}, errors.Wrap(err, "building insert query")
	}
	if _, err = repo.db.Exec(query, args...); err != nil {
		return evaluation.Document{}, errors.Wrap(err, "adding document")
	}
	return doc, nil
}

func (repo *evaluationRepository) QueryDocuments(evaluationID int) ([]evaluation.Document, error) {
	// content stays out of listings, it is only fetched for downloads
	query, args, err := psql.Select(documentColumns[:6]...).
		From("documents").
		Where(sq.Eq{"evaluation_id": evaluationID}).
		OrderBy("uploaded_at", "id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []documentRow
	if err = repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying documents")
	}

	docs := make([]evaluation.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, evaluation.Document(row))
	}
	return docs, nil
}

func (repo *evaluationRepository) GetDocument(evaluationID int, docID string) (evaluation.Document, error) {
	query, args, err := psql.Select(documentColumns...).
		From("documents").
		Where(sq.Eq{"evaluation_id": evaluationID, "id": docID}).
		ToSql()
	if err != nil {
		return evaluation.Document{}, errors.Wrap(err, "building query")
	}

	var row documentRow
	if err = repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return evaluation.Document{}, evaluation.ErrDocumentNotFound
		}
		return evaluation.Document{}, errors.Wrap(err, "getting document")
	}
	return evaluation.Document(row), nil
}

func (repo *evaluationRepository) DeleteDocument(evaluationID int, docID string) error {
	query, args, err := psql.Delete("documents").
		Where(sq.Eq{"evaluation_id": evaluationID, "id": docID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}

	res, err := repo.db.Exec(query, args...)
	if err != nil {
		return errors.Wrap(err, "deleting document")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return evaluation.ErrDocumentNotFound
	}
	return nil
}
