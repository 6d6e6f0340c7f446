package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pivotpoint/platform/core"
)

type stubRewriter struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{} // when set, Rewrite waits until closed
	failErr error
}

func (rw *stubRewriter) Rewrite(ctx context.Context, sectionTitle, content string) (string, error) {
	rw.mu.Lock()
	rw.calls++
	rw.mu.Unlock()
	if rw.block != nil {
		select {
		case <-rw.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if rw.failErr != nil {
		return "", rw.failErr
	}
	return "[AI-Enhanced] " + content, nil
}

type stubExporter struct {
	mu      sync.Mutex
	done    chan struct{}
	reports []Report
	formats []ExportFormat
}

func (ex *stubExporter) Export(ctx context.Context, rep Report, format ExportFormat) error {
	ex.mu.Lock()
	ex.reports = append(ex.reports, rep)
	ex.formats = append(ex.formats, format)
	ex.mu.Unlock()
	if ex.done != nil {
		close(ex.done)
	}
	return nil
}

func newTestWriter(rw Rewriter, ex Exporter) *Writer {
	return NewWriter(rw, ex, 0 /* default */, testNow)
}

func checkValidationError(t *testing.T, err, want error) {
	t.Helper()
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *core.ValidationError", err)
	}
	if vErr.Error() != want.Error() {
		t.Errorf("error = %q, want %q", vErr.Error(), want.Error())
	}
}

func TestWriter_Rewrite(t *testing.T) {
	rw := &stubRewriter{}
	w := newTestWriter(rw, &stubExporter{})

	t.Run("unknown section", func(t *testing.T) {
		checkValidationError(t, w.Rewrite(context.Background(), "Bogus"), ErrUnknownSection)
	})

	t.Run("empty section rejected, rewriter untouched", func(t *testing.T) {
		checkValidationError(t, w.Rewrite(context.Background(), SectionReferral), ErrNoContent)
		if rw.calls != 0 {
			t.Errorf("rewriter called %d times", rw.calls)
		}
	})

	t.Run("whitespace-only section rejected", func(t *testing.T) {
		w.Dispatch(UpdateSection{Key: SectionReferral, Content: "   "})
		checkValidationError(t, w.Rewrite(context.Background(), SectionReferral), ErrNoContent)
	})

	t.Run("success replaces content", func(t *testing.T) {
		w.Dispatch(UpdateSection{Key: SectionReferral, Content: "raw draft"})
		if err := w.Rewrite(context.Background(), SectionReferral); err != nil {
			t.Fatalf("Rewrite() error = %v", err)
		}
		s := w.Report().Sections[SectionReferral]
		if s.Content != "[AI-Enhanced] raw draft" || !s.Completed {
			t.Errorf("section = %+v", s)
		}
		if w.IsRewriting(SectionReferral) {
			t.Errorf("busy flag not cleared")
		}
	})
}

func TestWriter_RewriteFailureKeepsContent(t *testing.T) {
	rw := &stubRewriter{failErr: errors.New("backend down")}
	w := newTestWriter(rw, &stubExporter{})
	w.Dispatch(UpdateSection{Key: SectionSummary, Content: "original"})

	if err := w.Rewrite(context.Background(), SectionSummary); err == nil {
		t.Fatal("Rewrite() expected error")
	}
	if got := w.Report().Sections[SectionSummary].Content; got != "original" {
		t.Errorf("content = %q, want original preserved", got)
	}
	if w.IsRewriting(SectionSummary) {
		t.Errorf("busy flag not cleared after failure")
	}
}

func TestWriter_RewriteBusyPerSection(t *testing.T) {
	block := make(chan struct{})
	rw := &stubRewriter{block: block}
	w := newTestWriter(rw, &stubExporter{})
	w.Dispatch(UpdateSection{Key: SectionReferral, Content: "a"})
	w.Dispatch(UpdateSection{Key: SectionSummary, Content: "b"})

	firstDone := make(chan error, 1)
	go func() { firstDone <- w.Rewrite(context.Background(), SectionReferral) }()

	// wait for the first rewrite to take the busy flag
	deadline := time.After(2 * time.Second)
	for !w.IsRewriting(SectionReferral) {
		select {
		case <-deadline:
			t.Fatal("first rewrite never started")
		case <-time.After(time.Millisecond):
		}
	}

	// same section: rejected while in flight
	checkValidationError(t, w.Rewrite(context.Background(), SectionReferral), ErrRewriteBusy)

	// a different section is free to proceed
	secondDone := make(chan error, 1)
	go func() { secondDone <- w.Rewrite(context.Background(), SectionSummary) }()

	close(block)
	for i, ch := range []chan error{firstDone, secondDone} {
		select {
		case err := <-ch:
			if err != nil {
				t.Errorf("rewrite %d error = %v", i, err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("rewrite %d never finished", i)
		}
	}
}

func TestWriter_Validate(t *testing.T) {
	fill := func(w *Writer, n int) {
		for i := 0; i < n; i++ {
			w.Dispatch(UpdateSection{Key: SectionKeys[i], Content: "content"})
		}
	}

	tests := []struct {
		name        string
		client      bool
		sections    int
		minSections int
		wantErr     error
	}{
		{name: "no client", sections: 3, wantErr: ErrClientRequired},
		{name: "client but 2 of 3 sections", client: true, sections: 2, wantErr: ErrInsufficientContent},
		{name: "client and exactly 3 sections", client: true, sections: 3},
		{name: "client and 5 sections", client: true, sections: 5},
		{name: "higher configured minimum", client: true, sections: 3, minSections: 5, wantErr: ErrInsufficientContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(&stubRewriter{}, &stubExporter{}, tt.minSections, testNow)
			if tt.client {
				w.Dispatch(SetDemographic{Field: "name", Value: "Jordan P."})
			}
			fill(w, tt.sections)

			err := w.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			checkValidationError(t, err, tt.wantErr)
		})
	}
}

func TestWriter_ValidateAcceptsAnyClientIdentifier(t *testing.T) {
	for _, field := range []Action{
		Hydrate{Partial: Partial{ClientID: strPtr("42")}},
		Hydrate{Partial: Partial{ClientName: strPtr("Jordan P.")}},
		SetDemographic{Field: "name", Value: "Jordan P."},
	} {
		w := newTestWriter(&stubRewriter{}, &stubExporter{})
		w.Dispatch(field)
		for i := 0; i < DefaultMinCompletedSections; i++ {
			w.Dispatch(UpdateSection{Key: SectionKeys[i], Content: "x"})
		}
		if err := w.Validate(); err != nil {
			t.Errorf("Validate() error = %v for %T", err, field)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestWriter_Export(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		w := newTestWriter(&stubRewriter{}, &stubExporter{})
		checkValidationError(t, w.Export(context.Background(), "docx"), ErrUnknownFormat)
	})

	t.Run("dispatches snapshot", func(t *testing.T) {
		ex := &stubExporter{done: make(chan struct{})}
		w := newTestWriter(&stubRewriter{}, ex)
		w.Dispatch(UpdateSection{Key: SectionReferral, Content: "before export"})

		if err := w.Export(context.Background(), ExportPDF); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		select {
		case <-ex.done:
		case <-time.After(2 * time.Second):
			t.Fatal("exporter never called")
		}

		ex.mu.Lock()
		defer ex.mu.Unlock()
		if ex.formats[0] != ExportPDF {
			t.Errorf("format = %v", ex.formats[0])
		}
		if ex.reports[0].Sections[SectionReferral].Content != "before export" {
			t.Errorf("exported stale report")
		}
	})
}
