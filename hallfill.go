// Package hallfill batch-feeds synthetic user records into the
// business-hall console program by driving its text menus over a
// pseudo-terminal.
package hallfill

import (
	"context"
	"math/rand"
	"time"

	"github.com/loykin/hallfill/internal/console"
	"github.com/loykin/hallfill/internal/history"
	"github.com/loykin/hallfill/internal/prompt"
	"github.com/loykin/hallfill/internal/record"
	"github.com/loykin/hallfill/internal/transcript"
	"github.com/loykin/hallfill/internal/workflow"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Record = record.Record

type Vocabulary = prompt.Vocabulary

type Timings = workflow.Timings

type Waits = workflow.Waits

type Recorder = transcript.Recorder

type Event = transcript.Event

type Sink = history.Sink

type Outcome = history.Outcome

// Options configures one automation run. Executable is required;
// everything else has working defaults.
type Options struct {
	Executable string
	Args       []string
	Count      int

	Vocabulary *Vocabulary
	Timings    *Timings
	Waits      *Waits
	Recorder   Recorder
	Sink       Sink

	// Seed for the record pool; 0 seeds from the clock.
	Seed int64
}

// Run drives the target program through Count add-user cycles, then
// saves and exits. It returns whether the run as a whole succeeded and
// how many records were imported.
func Run(ctx context.Context, opts Options) (ok bool, successes int) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := record.New(rand.NewSource(seed))

	ctl := workflow.New(workflow.Config{
		Launch: func() (console.Channel, error) {
			p, err := console.Spawn(opts.Executable, opts.Args...)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		Source:     gen,
		Vocabulary: opts.Vocabulary,
		Recorder:   opts.Recorder,
		Sink:       opts.Sink,
		Timings:    opts.Timings,
		Waits:      opts.Waits,
	})
	return ctl.Run(ctx, opts.Count)
}
