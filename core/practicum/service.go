package practicum

import "time"

type (
	Repository interface {
		CreateEntry(entry Entry) (Entry, error)
		QueryAllEntries() ([]Entry, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ne NewEntry) (Entry, error) {
	return svc.repo.CreateEntry(Entry{
		Date:       ne.Date,
		Activity:   ne.Activity,
		Category:   ne.Category,
		Hours:      ne.Hours,
		Supervisor: ne.Supervisor,
		Notes:      ne.Notes,
		CreatedAt:  time.Now().UTC(),
	})
}

func (svc *Service) QueryAll() ([]Entry, error) {
	return svc.repo.QueryAllEntries()
}
