package comms

import (
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/pivotpoint/platform/core"
)

type (
	Repository interface {
		CreateScheduledEmail(se ScheduledEmail) (ScheduledEmail, error)
		QueryDueScheduledEmails(now time.Time) ([]ScheduledEmail, error)
		MarkSent(id string, sentAt time.Time) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, logger: logger}
}

// Schedule queues a validated email for dispatch at its send date.
func (svc *Service) Schedule(ns NewScheduledEmail) (ScheduledEmail, error) {
	return svc.repo.CreateScheduledEmail(ScheduledEmail{
		ID:         uuid.NewString(),
		Recipients: ns.Recipients,
		Subject:    ns.Subject,
		Body:       ns.Body,
		SendAt:     ns.SendAt,
		CreatedAt:  time.Now().UTC(),
	})
}

// DispatchDue sends every queued email whose send date has arrived and
// marks it sent. Best-effort; send failures are the mail service's to
// report. Returns the number of messages handed off.
func (svc *Service) DispatchDue(now time.Time) (int, error) {
	due, err := svc.repo.QueryDueScheduledEmails(now)
	if err != nil {
		return 0, err
	}

	var sent int
	for _, se := range due {
		to := make([]mail.Address, 0, len(se.Recipients))
		for _, rcpt := range se.Recipients {
			to = append(to, mail.Address{Address: rcpt})
		}
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      to,
			Subject: se.Subject,
			BodyStr: se.Body,
		})
		if err = svc.repo.MarkSent(se.ID, now.UTC()); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
