package exportsvc

import (
	"context"
	"time"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/report"
)

const defaultExportDelay = 2 * time.Second

// LogExporter simulates report rendering: after a fixed delay it logs
// the export instead of producing a file. Document generation proper is
// a separate pipeline.
type LogExporter struct {
	Delay  time.Duration
	logger core.Logger
}

var _ report.Exporter = (*LogExporter)(nil)

func NewLogExporter(logger core.Logger) *LogExporter {
	return &LogExporter{Delay: defaultExportDelay, logger: logger}
}

func (ex *LogExporter) Export(ctx context.Context, rep report.Report, format report.ExportFormat) error {
	select {
	case <-time.After(ex.Delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	name := rep.ClientName
	if name == "" {
		name = rep.Demographics.Name
	}
	ex.logger.Info("exported report", map[string]interface{}{
		"client": name,
		"format": string(format),
	})
	return nil
}
