package report

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/pivotpoint/platform/core"
)

// DefaultMinCompletedSections is the save gate's section minimum.
// An arbitrary policy constant; callers may override it through config.
const DefaultMinCompletedSections = 3

type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportWord ExportFormat = "word"
)

func (f ExportFormat) Valid() bool {
	return f == ExportPDF || f == ExportWord
}

var (
	ErrNoContent           = errors.New("please add some content before using rewriting")
	ErrRewriteBusy         = errors.New("a rewrite is already in progress for this section")
	ErrUnknownSection      = errors.New("unknown report section")
	ErrClientRequired      = errors.New("please select a client before saving the report")
	ErrInsufficientContent = errors.New("please complete more report sections before saving")
	ErrUnknownFormat       = errors.New("unknown export format")
)

type (
	// Rewriter transforms draft section text into professional clinical
	// language. The default service is a fixed-latency echo transform;
	// production wires a text-generation backend.
	Rewriter interface {
		Rewrite(ctx context.Context, sectionTitle, content string) (string, error)
	}

	// Exporter renders a report to an external format. Export jobs are
	// fire-and-forget from the writer's point of view.
	Exporter interface {
		Export(ctx context.Context, rep Report, format ExportFormat) error
	}

	// Writer holds one report-writing session: the report state plus
	// per-section rewrite busy flags. Two different sections may rewrite
	// concurrently; the same section may not.
	Writer struct {
		mu          sync.Mutex
		report      Report
		rewriting   map[SectionKey]bool
		rewriter    Rewriter
		exporter    Exporter
		minSections int
	}
)

func NewWriter(rewriter Rewriter, exporter Exporter, minSections int, now time.Time) *Writer {
	if minSections <= 0 {
		minSections = DefaultMinCompletedSections
	}
	return &Writer{
		report:      NewReport(now),
		rewriting:   make(map[SectionKey]bool, len(SectionKeys)),
		rewriter:    rewriter,
		exporter:    exporter,
		minSections: minSections,
	}
}

// Report returns a snapshot of the current state.
func (w *Writer) Report() Report {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneReport(w.report)
}

// Dispatch applies an action to the session state.
func (w *Writer) Dispatch(action Action) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.report = Apply(w.report, action)
}

func (w *Writer) IsRewriting(key SectionKey) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rewriting[key]
}

// Rewrite runs the rewriter over one section and replaces its content with
// the transformed text. It is a user-input error when the section has no
// content, and a no-op error while a rewrite for the same section is still
// in flight. On rewriter failure the content is left unchanged.
func (w *Writer) Rewrite(ctx context.Context, key SectionKey) error {
	if !key.Valid() {
		return core.NewValidationError(ErrUnknownSection)
	}

	w.mu.Lock()
	if w.rewriting[key] {
		w.mu.Unlock()
		return core.NewValidationError(ErrRewriteBusy)
	}
	section := w.report.Sections[key]
	if trimmed(section.Content) == "" {
		w.mu.Unlock()
		return core.NewValidationError(ErrNoContent)
	}
	w.rewriting[key] = true
	w.mu.Unlock()

	rewritten, err := w.rewriter.Rewrite(ctx, section.Title, section.Content)

	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.rewriting, key)
	if err != nil {
		return pkgerrors.Wrap(err, "rewriting "+string(key))
	}
	w.report = Apply(w.report, UpdateSection{Key: key, Content: rewritten})
	return nil
}

// Validate is the save gate: a client must be identified and at least
// minSections sections must have non-empty (trimmed) content. Rejections
// are user-input errors; no state changes either way.
func (w *Writer) Validate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return validateReport(w.report, w.minSections)
}

// Export dispatches a fire-and-forget export job. Only the format is
// checked up front; rendering is the exporter collaborator's problem.
func (w *Writer) Export(ctx context.Context, format ExportFormat) error {
	if !format.Valid() {
		return core.NewValidationError(ErrUnknownFormat)
	}
	rep := w.Report()
	go func() { _ = w.exporter.Export(ctx, rep, format) }()
	return nil
}

func validateReport(rep Report, minSections int) error {
	if rep.ClientID == "" && rep.ClientName == "" && trimmed(rep.Demographics.Name) == "" {
		return core.NewValidationError(ErrClientRequired)
	}
	if rep.CompletedSections() < minSections {
		return core.NewValidationError(ErrInsufficientContent)
	}
	return nil
}

// ValidateReport applies the save gate to a detached report snapshot.
func ValidateReport(rep Report, minSections int) error {
	if minSections <= 0 {
		minSections = DefaultMinCompletedSections
	}
	return validateReport(rep, minSections)
}

func trimmed(s string) string { return strings.TrimSpace(s) }
