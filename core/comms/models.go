package comms

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pivotpoint/platform/core"
)

var ErrSendAtPast = errors.New("send date must be in the future")

// ScheduledEmail is an outreach message queued for later dispatch.
type ScheduledEmail struct {
	ID         string     `json:"id"`
	Recipients []string   `json:"recipients"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	SendAt     time.Time  `json:"sendAt"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"` // UTC
}

func (se ScheduledEmail) Sent() bool {
	return se.SentAt != nil
}

// NewScheduledEmail contains information needed to schedule an email.
// Missing recipients or a past send date are user-input errors.
type NewScheduledEmail struct {
	Recipients []string  `json:"recipients" validate:"required,min=1,dive,email"`
	Subject    string    `json:"subject" validate:"required"`
	Body       string    `json:"body" validate:"required"`
	SendAt     time.Time `json:"sendAt" validate:"required"`
}

func (ns *NewScheduledEmail) Validate(validate *validator.Validate, now time.Time) error {
	ns.Subject = core.CleanString(ns.Subject)
	for i, rcpt := range ns.Recipients {
		ns.Recipients[i] = core.CleanString(rcpt, true /* lower */)
	}
	if err := validate.Struct(ns); err != nil {
		return err
	}
	if !ns.SendAt.After(now) {
		return core.NewValidationError(ErrSendAtPast, core.FieldError{Field: "sendAt", Error: ErrSendAtPast.Error()})
	}
	return nil
}
