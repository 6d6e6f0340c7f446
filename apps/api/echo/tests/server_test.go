package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func Test_home(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); body != "Welcome to PivotPoint API!" {
		t.Errorf("body = %q", body)
	}
}

func Test_health(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/api/health")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
	}

	var got struct {
		Status    string   `json:"status"`
		Timestamp string   `json:"timestamp"`
		Version   string   `json:"version"`
		Modules   []string `json:"modules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if got.Status != "ok" {
		t.Errorf("status = %q", got.Status)
	}
	if got.Version != "test" {
		t.Errorf("version = %q", got.Version)
	}
	if _, err := time.Parse(time.RFC3339, got.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", got.Timestamp, err)
	}
	want := []string{"evaluations", "daily-hub", "report-writer", "practicum", "communications"}
	if len(got.Modules) != len(want) {
		t.Fatalf("modules = %v, want %v", got.Modules, want)
	}
	for i, m := range want {
		if got.Modules[i] != m {
			t.Errorf("modules[%d] = %q, want %q", i, got.Modules[i], m)
		}
	}
}
