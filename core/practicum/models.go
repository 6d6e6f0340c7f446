package practicum

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pivotpoint/platform/core"
)

// Entry is a supervision/training-hours record. Unrelated to the
// evaluation lifecycle, but cross-referenced from assessment entry.
type Entry struct {
	ID         int       `json:"id"`
	Date       string    `json:"date"`
	Activity   string    `json:"activity"`
	Category   string    `json:"category,omitempty"`
	Hours      float64   `json:"hours"`
	Supervisor string    `json:"supervisor,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"` // UTC
}

// NewEntry contains information needed to log practicum hours.
type NewEntry struct {
	Date       string  `json:"date" validate:"required"`
	Activity   string  `json:"activity" validate:"required"`
	Category   string  `json:"category"`
	Hours      float64 `json:"hours" validate:"required,gt=0"`
	Supervisor string  `json:"supervisor"`
	Notes      string  `json:"notes"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.Activity = core.CleanString(ne.Activity)
	ne.Supervisor = core.CleanString(ne.Supervisor)
	return validate.Struct(ne)
}
