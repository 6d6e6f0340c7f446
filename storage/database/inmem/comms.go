package inmemdb

import (
	"sort"
	"time"

	"github.com/pivotpoint/platform/core/comms"
)

type commsRepository struct {
	db *emailTable
}

func NewCommsRepository(db *DB) comms.Repository {
	return &commsRepository{db: db.emails}
}

func (repo *commsRepository) CreateScheduledEmail(se comms.ScheduledEmail) (comms.ScheduledEmail, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[se.ID] = &se
	return se, nil
}

func (repo *commsRepository) QueryDueScheduledEmails(now time.Time) ([]comms.ScheduledEmail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	due := make([]comms.ScheduledEmail, 0)
	for _, se := range repo.db.table {
		if !se.Sent() && !se.SendAt.After(now) {
			due = append(due, *se)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].SendAt.Before(due[j].SendAt) })
	return due, nil
}

func (repo *commsRepository) MarkSent(id string, sentAt time.Time) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if se, ok := repo.db.table[id]; ok {
		se.SentAt = &sentAt
		return nil
	}
	return nil // already gone; best-effort
}
