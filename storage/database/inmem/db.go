package inmemdb

import (
	"sync"

	"github.com/pivotpoint/platform/core/comms"
	"github.com/pivotpoint/platform/core/evaluation"
	"github.com/pivotpoint/platform/core/practicum"
)

// DB is a mutex-guarded in-memory store used by tests and the demo seed.
type DB struct {
	evaluations *evaluationTable
	practicum   *practicumTable
	emails      *emailTable
}

type (
	evaluationTable struct {
		mutex     sync.RWMutex
		pkCount   int
		table     map[int]*evaluation.Evaluation
		documents map[string]*evaluation.Document
	}

	practicumTable struct {
		mutex   sync.RWMutex
		pkCount int
		table   map[int]*practicum.Entry
	}

	emailTable struct {
		mutex sync.RWMutex
		table map[string]*comms.ScheduledEmail
	}
)

func Open() (*DB, error) {
	return &DB{
		evaluations: &evaluationTable{
			table:     make(map[int]*evaluation.Evaluation),
			documents: make(map[string]*evaluation.Document),
		},
		practicum: &practicumTable{table: make(map[int]*practicum.Entry)},
		emails:    &emailTable{table: make(map[string]*comms.ScheduledEmail)},
	}, nil
}
