// Package history exports per-record and per-run outcomes of an
// automation batch to an external store for later auditing.
package history

import (
	"context"
	"time"
)

// Status of one exported outcome row.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSummary Status = "summary"
)

// Outcome is one exported row: a processed record or the final run
// summary. Detail carries the failure reason or the summary text.
type Outcome struct {
	OccurredAt time.Time `json:"occurred_at"`
	Name       string    `json:"name"`
	IDCard     string    `json:"id_card"`
	Status     Status    `json:"status"`
	Detail     string    `json:"detail"`
}

// Sink is a destination for outcomes. The workflow calls it from a single
// goroutine.
type Sink interface {
	Send(ctx context.Context, o Outcome) error
	Close() error
}

// Nop discards all outcomes.
type Nop struct{}

func (Nop) Send(context.Context, Outcome) error { return nil }
func (Nop) Close() error                        { return nil }
