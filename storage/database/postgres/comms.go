package postgresrepos

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/pivotpoint/platform/core/comms"
)

type commsRepository struct {
	db *sqlx.DB
}

func NewCommsRepository(db *sqlx.DB) comms.Repository {
	return &commsRepository{db: db}
}

type scheduledEmailRow struct {
	ID         string         `db:"id"`
	Recipients pq.StringArray `db:"recipients"`
	Subject    string         `db:"subject"`
	Body       string         `db:"body"`
	SendAt     time.Time      `db:"send_at"`
	SentAt     *time.Time     `db:"sent_at"`
	CreatedAt  time.Time      `db:"created_at"`
}

var scheduledEmailColumns = []string{"id", "recipients", "subject", "body", "send_at", "sent_at", "created_at"}

func (repo *commsRepository) CreateScheduledEmail(se comms.ScheduledEmail) (comms.ScheduledEmail, error) {
	query, args, err := psql.Insert("scheduled_emails").
		Columns(scheduledEmailColumns...).
		Values(se.ID, pq.StringArray(se.Recipients), se.Subject, se.Body, se.SendAt, se.SentAt, se.CreatedAt).
		ToSql()
	if err != nil {
		return comms.ScheduledEmail{}, errors.Wrap(err, "building insert query")
	}
	if _, err = repo.db.Exec(query, args...); err != nil {
		return comms.ScheduledEmail{}, errors.Wrap(err, "creating scheduled email")
	}
	return se, nil
}

func (repo *commsRepository) QueryDueScheduledEmails(now time.Time) ([]comms.ScheduledEmail, error) {
	query, args, err := psql.Select(scheduledEmailColumns...).
		From("scheduled_emails").
		Where(sq.And{sq.Eq{"sent_at": nil}, sq.LtOrEq{"send_at": now}}).
		OrderBy("send_at", "id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []scheduledEmailRow
	if err = repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying due scheduled emails")
	}

	emails := make([]comms.ScheduledEmail, 0, len(rows))
	for _, row := range rows {
		emails = append(emails, comms.ScheduledEmail{
			ID:         row.ID,
			Recipients: row.Recipients,
			Subject:    row.Subject,
			Body:       row.Body,
			SendAt:     row.SendAt,
			SentAt:     row.SentAt,
			CreatedAt:  row.CreatedAt,
		})
	}
	return emails, nil
}

func (repo *commsRepository) MarkSent(id string, sentAt time.Time) error {
	query, args, err := psql.Update("scheduled_emails").
		Set("sent_at", sentAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building update query")
	}
	if _, err = repo.db.Exec(query, args...); err != nil {
		return errors.Wrap(err, "marking scheduled email sent")
	}
	return nil
}
