package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/pivotpoint/platform/core/comms"
)

func Test_commsApi_schedule(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)

	tests := []httpTest{
		{
			name: "missing required fields",
			method: http.MethodPost, path: "/api/communications/schedule",
			body:     marchallObj(t, jsonMap{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, jsonMap{
				"recipients": "this field is required",
				"subject":    "this field is required",
				"body":       "this field is required",
				"sendAt":     "this field is required",
			}),
		},
		{
			name: "invalid recipient address",
			method: http.MethodPost, path: "/api/communications/schedule",
			body: marchallObj(t, jsonMap{
				"recipients": []string{"not-an-email"}, "subject": "Re-eval consent",
				"body": "Please sign the attached form.", "sendAt": future,
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, jsonMap{"recipients[0]": "recipients[0] must be a valid email address"}),
		},
		{
			name: "send date in the past",
			method: http.MethodPost, path: "/api/communications/schedule",
			body: marchallObj(t, jsonMap{
				"recipients": []string{"parent@test.cd"}, "subject": "Re-eval consent",
				"body": "Please sign the attached form.", "sendAt": past,
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, jsonMap{"sendAt": comms.ErrSendAtPast.Error()}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("schedule", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/communications/schedule", marchallObj(t, jsonMap{
			"recipients": []string{"  Parent@Test.CD "}, "subject": "Re-eval consent",
			"body": "Please sign the attached form.", "sendAt": future,
		}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
		}

		var se comms.ScheduledEmail
		if err := json.Unmarshal(rec.Body.Bytes(), &se); err != nil {
			t.Fatalf("decoding scheduled email: %v", err)
		}
		if se.ID == "" {
			t.Error("scheduled email has no ID")
		}
		if len(se.Recipients) != 1 || se.Recipients[0] != "parent@test.cd" {
			t.Errorf("Recipients = %v, want cleaned lowercase address", se.Recipients)
		}
		if se.SentAt != nil {
			t.Error("SentAt set on a freshly scheduled email")
		}
	})
}
