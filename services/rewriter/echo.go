package rewritersvc

import (
	"context"
	"time"

	"github.com/pivotpoint/platform/core/report"
)

const defaultEchoLatency = 1500 * time.Millisecond

// EchoRewriter is the offline stand-in: after a fixed latency it returns
// the draft prefixed with an enhancement tag. Useful in development and
// tests where no text-generation endpoint is configured.
type EchoRewriter struct {
	Latency time.Duration
}

var _ report.Rewriter = (*EchoRewriter)(nil)

func NewEchoRewriter() *EchoRewriter {
	return &EchoRewriter{Latency: defaultEchoLatency}
}

func (rw *EchoRewriter) Rewrite(ctx context.Context, sectionTitle, content string) (string, error) {
	latency := rw.Latency
	if latency < 0 {
		latency = 0
	}
	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "[AI-Enhanced] " + content, nil
}
