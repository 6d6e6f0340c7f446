package comms_test

import (
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/comms"
	inmemdb "github.com/pivotpoint/platform/storage/database/inmem"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

type mailSpy struct {
	mu       sync.Mutex
	messages []core.EmailMessage
}

func (spy *mailSpy) SendMessages(messages ...*core.EmailMessage) {
	spy.mu.Lock()
	defer spy.mu.Unlock()
	for _, msg := range messages {
		spy.messages = append(spy.messages, *msg)
	}
}

func newValidator() *validator.Validate {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

func setup(t *testing.T) (*comms.Service, *mailSpy) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	spy := &mailSpy{}
	return comms.NewService(inmemdb.NewCommsRepository(db), spy, nopLogger{}), spy
}

func TestNewScheduledEmail_Validate(t *testing.T) {
	validate := newValidator()
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ns      comms.NewScheduledEmail
		wantErr bool
	}{
		{
			name: "valid",
			ns: comms.NewScheduledEmail{
				Recipients: []string{"Parent@Test.cd "},
				Subject:    "Re-evaluation meeting",
				Body:       "See attached schedule.",
				SendAt:     now.Add(time.Hour),
			},
		},
		{
			name: "no recipients",
			ns: comms.NewScheduledEmail{
				Subject: "s", Body: "b", SendAt: now.Add(time.Hour),
			},
			wantErr: true,
		},
		{
			name: "bad recipient address",
			ns: comms.NewScheduledEmail{
				Recipients: []string{"not-an-email"},
				Subject:    "s", Body: "b", SendAt: now.Add(time.Hour),
			},
			wantErr: true,
		},
		{
			name: "send date in the past",
			ns: comms.NewScheduledEmail{
				Recipients: []string{"parent@test.cd"},
				Subject:    "s", Body: "b", SendAt: now.Add(-time.Minute),
			},
			wantErr: true,
		},
		{
			name: "send date exactly now",
			ns: comms.NewScheduledEmail{
				Recipients: []string{"parent@test.cd"},
				Subject:    "s", Body: "b", SendAt: now,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate(validate, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewScheduledEmail_ValidateCleansRecipients(t *testing.T) {
	ns := comms.NewScheduledEmail{
		Recipients: []string{"  Parent@Test.CD "},
		Subject:    "s", Body: "b",
		SendAt: time.Now().Add(time.Hour),
	}
	if err := ns.Validate(newValidator(), time.Now()); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if ns.Recipients[0] != "parent@test.cd" {
		t.Errorf("recipient = %q", ns.Recipients[0])
	}
}

func TestService_DispatchDue(t *testing.T) {
	svc, spy := setup(t)
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	due, err := svc.Schedule(comms.NewScheduledEmail{
		Recipients: []string{"parent@test.cd"},
		Subject:    "Meeting reminder",
		Body:       "Tomorrow at 9.",
		SendAt:     now.Add(-time.Hour), // already due by dispatch time
	})
	if err != nil {
		t.Fatalf("Schedule() failed: %v", err)
	}
	if due.ID == "" || due.Sent() {
		t.Fatalf("scheduled = %+v", due)
	}

	_, err = svc.Schedule(comms.NewScheduledEmail{
		Recipients: []string{"teacher@test.cd"},
		Subject:    "Later",
		Body:       "Not yet.",
		SendAt:     now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Schedule() failed: %v", err)
	}

	sent, err := svc.DispatchDue(now)
	if err != nil {
		t.Fatalf("DispatchDue() failed: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if len(spy.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(spy.messages))
	}
	msg := spy.messages[0]
	if msg.Subject != "Meeting reminder" || msg.BodyStr != "Tomorrow at 9." {
		t.Errorf("message = %+v", msg)
	}
	if len(msg.To) != 1 || msg.To[0].Address != "parent@test.cd" {
		t.Errorf("recipients = %+v", msg.To)
	}

	// a second dispatch finds nothing due
	sent, err = svc.DispatchDue(now)
	if err != nil || sent != 0 {
		t.Errorf("second DispatchDue() = %d, %v", sent, err)
	}

	// the future one goes out once its time arrives
	sent, err = svc.DispatchDue(now.Add(25 * time.Hour))
	if err != nil || sent != 1 {
		t.Errorf("later DispatchDue() = %d, %v", sent, err)
	}
}

func TestService_ScheduleAssignsID(t *testing.T) {
	svc, _ := setup(t)

	a, err := svc.Schedule(comms.NewScheduledEmail{
		Recipients: []string{"a@test.cd"}, Subject: "s", Body: "b", SendAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Schedule() failed: %v", err)
	}
	b, err := svc.Schedule(comms.NewScheduledEmail{
		Recipients: []string{"b@test.cd"}, Subject: "s", Body: "b", SendAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Schedule() failed: %v", err)
	}
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Errorf("IDs = %q, %q", a.ID, b.ID)
	}
}
