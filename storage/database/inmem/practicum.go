package inmemdb

import (
	"sort"

	"github.com/pivotpoint/platform/core/practicum"
)

type practicumRepository struct {
	db *practicumTable
}

func NewPracticumRepository(db *DB) practicum.Repository {
	return &practicumRepository{db: db.practicum}
}

func (repo *practicumRepository) CreateEntry(entry practicum.Entry) (practicum.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	entry.ID = repo.db.pkCount
	repo.db.table[entry.ID] = &entry
	return entry, nil
}

func (repo *practicumRepository) QueryAllEntries() ([]practicum.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]practicum.Entry, 0, len(repo.db.table))
	for _, entry := range repo.db.table {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}
