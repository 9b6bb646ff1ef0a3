package llm

import (
	"context"
	"time"

	"skillsync-backend/internal/domain"
)

const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Recorder receives one observation per completion call.
type Recorder interface {
	ObserveCompletion(provider, outcome string, elapsed time.Duration)
}

type instrumented struct {
	next     domain.CompletionClient
	provider string
	rec      Recorder
}

// Instrument reports the outcome and latency of every call on next to rec.
func Instrument(next domain.CompletionClient, provider string, rec Recorder) domain.CompletionClient {
	return &instrumented{next: next, provider: provider, rec: rec}
}

func (i *instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := i.next.Complete(ctx, prompt)

	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeError
	case out == NoResponse:
		outcome = OutcomeEmpty
	}
	i.rec.ObserveCompletion(i.provider, outcome, time.Since(start))
	return out, err
}
