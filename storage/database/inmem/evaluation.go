package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/evaluation"
)

type evaluationRepository struct {
	db *evaluationTable
}

func NewEvaluationRepository(db *DB) evaluation.Repository {
	return &evaluationRepository{db: db.evaluations}
}

func (repo *evaluationRepository) query() []evaluation.Evaluation {
	evals := make([]evaluation.Evaluation, 0, len(repo.db.table))
	for _, ev := range repo.db.table {
		evals = append(evals, *ev)
	}
	sort.Slice(evals, func(i, j int) bool { return evals[i].ID < evals[j].ID })
	return evals
}

func (repo *evaluationRepository) CheckStudentIDUniqueness(studentID string, excluded ...evaluation.Evaluation) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, ev := range repo.db.table {
		if ev.StudentID != studentID {
			continue
		}
		var excl bool
		for _, x := range excluded {
			if x.ID == ev.ID {
				excl = true
				break
			}
		}
		if !excl {
			return evaluation.ErrStudentIDExists
		}
	}
	return nil
}

func (repo *evaluationRepository) CreateEvaluation(ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	ev.ID = repo.db.pkCount
	repo.db.table[ev.ID] = &ev
	return ev, nil
}

func (repo *evaluationRepository) QueryAllEvaluations() ([]evaluation.Evaluation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *evaluationRepository) GetEvaluationByID(id int) (evaluation.Evaluation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ev, ok := repo.db.table[id]; ok {
		return *ev, nil
	}
	return evaluation.Evaluation{}, evaluation.ErrNotFound
}

func (repo *evaluationRepository) GetEvaluationByStudentID(studentID string) (evaluation.Evaluation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, ev := range repo.db.table {
		if ev.StudentID == studentID {
			return *ev, nil
		}
	}
	return evaluation.Evaluation{}, evaluation.ErrNotFound
}

func (repo *evaluationRepository) FilterEvaluations(
	filter evaluation.QueryFilter,
	orderings []core.DBOrdering,
	offset, limit int,
) ([]evaluation.Evaluation, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	evals := evaluation.Filter(repo.query(), filter)
	total := len(evals)
	evals = evaluation.SortByOrderings(evals, orderings)

	if offset > len(evals) {
		offset = len(evals)
	}
	evals = evals[offset:]
	if limit > 0 && limit < len(evals) {
		evals = evals[:limit]
	}
	return evals, total, nil
}

func (repo *evaluationRepository) SaveEvaluation(ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[ev.ID]; !ok {
		return evaluation.Evaluation{}, evaluation.ErrNotFound
	}
	repo.db.table[ev.ID] = &ev
	return ev, nil
}

func (repo *evaluationRepository) DeleteEvaluationsByID(ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
		for docID, doc := range repo.db.documents {
			if doc.EvaluationID == id {
				delete(repo.db.documents, docID)
			}
		}
	}
	return nil
}

// Documents

func (repo *evaluationRepository) AddDocument(doc evaluation.Document) (evaluation.Document, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	repo.db.documents[doc.ID] = &doc
	return doc, nil
}

func (repo *evaluationRepository) QueryDocuments(evaluationID int) ([]evaluation.Document, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	docs := make([]evaluation.Document, 0)
	for _, doc := range repo.db.documents {
		if doc.EvaluationID == evaluationID {
			docs = append(docs, *doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].UploadedAt.Before(docs[j].UploadedAt) })
	return docs, nil
}

func (repo *evaluationRepository) GetDocument(evaluationID int, docID string) (evaluation.Document, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if doc, ok := repo.db.documents[docID]; ok && doc.EvaluationID == evaluationID {
		return *doc, nil
	}
	return evaluation.Document{}, evaluation.ErrDocumentNotFound
}

func (repo *evaluationRepository) DeleteDocument(evaluationID int, docID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if doc, ok := repo.db.documents[docID]; ok && doc.EvaluationID == evaluationID {
		delete(repo.db.documents, docID)
		return nil
	}
	return evaluation.ErrDocumentNotFound
}
