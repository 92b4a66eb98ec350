// Package workflow drives the target program end-to-end: boot, main-menu
// confirmation, the per-record add-user flow with its optional phone
// registration sub-flow, save and exit. The controller is deliberately
// tolerant: every bounded wait that times out is advisory and the happy
// path send sequence proceeds anyway, because the target's prompt text is
// unreliable and progress must not stall on a single missed match.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/loykin/hallfill/internal/console"
	"github.com/loykin/hallfill/internal/history"
	"github.com/loykin/hallfill/internal/prompt"
	"github.com/loykin/hallfill/internal/record"
	"github.com/loykin/hallfill/internal/transcript"
)

// Phase of the run state machine.
type Phase int

const (
	Booting Phase = iota
	AtMainMenu
	InFieldEntry
	AwaitingPhoneChoice
	Saving
	Exiting
	Done
)

func (p Phase) String() string {
	switch p {
	case Booting:
		return "booting"
	case AtMainMenu:
		return "at-main-menu"
	case InFieldEntry:
		return "in-field-entry"
	case AwaitingPhoneChoice:
		return "awaiting-phone-choice"
	case Saving:
		return "saving"
	case Exiting:
		return "exiting"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Menu command vocabulary of the target program.
const (
	cmdAddUser     = "1"
	cmdSave        = "8"
	cmdExit        = "9"
	cmdPhoneYes    = "1"
	cmdPhoneRandom = "2"
	anyKey         = "" // blank line acknowledges "press any key"
)

const (
	bootRounds       = 4
	ensureMenuRounds = 2
)

// Timings are the pacing pauses inserted after sends so the line-buffered
// target keeps up. Settle is the extra pause after a blank-line
// acknowledgment during boot and menu recovery.
type Timings struct {
	Menu      time.Duration
	Input     time.Duration
	Operation time.Duration
	Settle    time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Menu:      2 * time.Second,
		Input:     time.Second,
		Operation: 3 * time.Second,
		Settle:    1500 * time.Millisecond,
	}
}

// Waits are the bounded wait timeouts per prompt category.
type Waits struct {
	Init        time.Duration
	AnyKey      time.Duration
	Menu        time.Duration
	EnsureMenu  time.Duration
	Field       time.Duration
	PhoneOffer  time.Duration
	PhoneChoice time.Duration
	PhoneResult time.Duration
	Save        time.Duration
	Exit        time.Duration
}

func DefaultWaits() Waits {
	return Waits{
		Init:        20 * time.Second,
		AnyKey:      5 * time.Second,
		Menu:        6 * time.Second,
		EnsureMenu:  5 * time.Second,
		Field:       8 * time.Second,
		PhoneOffer:  8 * time.Second,
		PhoneChoice: 6 * time.Second,
		PhoneResult: 10 * time.Second,
		Save:        10 * time.Second,
		Exit:        8 * time.Second,
	}
}

// Source supplies the records to feed. *record.Generator satisfies it.
type Source interface {
	Get(n int) []record.Record
}

// Config assembles a Controller. Launch and Source are required; nil
// Recorder and Sink default to no-ops, a zero Vocabulary to the built-in
// one, zero Timings/Waits to the defaults.
type Config struct {
	Launch     func() (console.Channel, error)
	Source     Source
	Vocabulary *prompt.Vocabulary
	Recorder   transcript.Recorder
	Sink       history.Sink
	Timings    *Timings
	Waits      *Waits
}

// Controller owns the run: the channel, the waiter, the phase and the
// success counter. It is single-goroutine; operations against the child
// are strictly sequential.
type Controller struct {
	launch  func() (console.Channel, error)
	src     Source
	vocab   prompt.Vocabulary
	rec     transcript.Recorder
	sink    history.Sink
	timings Timings
	waits   Waits

	ch        console.Channel
	waiter    *prompt.Waiter
	phase     Phase
	fieldIdx  int
	successes int
}

func New(cfg Config) *Controller {
	c := &Controller{
		launch:  cfg.Launch,
		src:     cfg.Source,
		vocab:   prompt.Default(),
		rec:     cfg.Recorder,
		sink:    cfg.Sink,
		timings: DefaultTimings(),
		waits:   DefaultWaits(),
	}
	if cfg.Vocabulary != nil {
		c.vocab = *cfg.Vocabulary
	}
	if c.rec == nil {
		c.rec = transcript.Nop{}
	}
	if c.sink == nil {
		c.sink = history.Nop{}
	}
	if cfg.Timings != nil {
		c.timings = *cfg.Timings
	}
	if cfg.Waits != nil {
		c.waits = *cfg.Waits
	}
	return c
}

// Phase returns the controller's current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Run processes n records: boot, the batch loop with per-record failure
// isolation, then save and exit. A launch failure aborts immediately with
// (false, 0); any single record failure is logged, answered with one
// recovery keypress, and the batch continues.
func (c *Controller) Run(ctx context.Context, n int) (ok bool, successes int) {
	c.phase = Booting
	ch, err := c.launch()
	if err != nil {
		c.record(transcript.KindError, "failed to start target", err.Error())
		return false, 0
	}
	c.ch = ch
	c.waiter = prompt.NewWaiter(ch, c.rec)
	defer func() {
		if cerr := ch.Close(); cerr != nil {
			c.record(transcript.KindError, "closing target channel", cerr.Error())
		}
	}()

	c.boot()

	records := c.src.Get(n)
	for i, r := range records {
		c.record(transcript.KindInfo, fmt.Sprintf("processing record %d/%d: %s", i+1, n, r.Name), "")
		if err := c.addRecord(r); err != nil {
			c.record(transcript.KindError, "record failed: "+r.Name, err.Error())
			// Nudge the target back toward the menu and keep going.
			c.pressAnyKey()
			c.export(ctx, history.Outcome{
				OccurredAt: time.Now(),
				Name:       r.Name,
				IDCard:     r.IDCard,
				Status:     history.StatusFailed,
				Detail:     err.Error(),
			})
			continue
		}
		c.successes++
		c.export(ctx, history.Outcome{
			OccurredAt: time.Now(),
			Name:       r.Name,
			IDCard:     r.IDCard,
			Status:     history.StatusSuccess,
		})
	}

	c.exitSystem()
	c.phase = Done

	summary := fmt.Sprintf("%d/%d records imported", c.successes, n)
	c.record(transcript.KindSummary, summary, "")
	c.export(ctx, history.Outcome{
		OccurredAt: time.Now(),
		Status:     history.StatusSummary,
		Detail:     summary,
	})
	return true, c.successes
}

// boot waits for the initialization banner, then alternates between
// skipping "press any key" pauses and probing for the main menu. If all
// rounds exhaust it still assumes the menu is up: menu text varies
// between builds of the target and a missed banner is not a hard failure.
func (c *Controller) boot() {
	c.waiter.WaitFor(c.vocab.InitBanner, c.waits.Init)

	for i := 0; i < bootRounds; i++ {
		if c.waiter.WaitFor(c.vocab.PressAnyKey, c.waits.AnyKey).OK() {
			c.pressAnyKey()
			c.pause(c.timings.Settle)
		}
		if c.waiter.WaitFor(c.vocab.MainMenu, c.waits.Menu).OK() {
			c.record(transcript.KindInfo, "main menu reached", "")
			c.phase = AtMainMenu
			return
		}
	}
	c.record(transcript.KindTimeout, "main menu not confirmed after boot; continuing optimistically", "")
	c.phase = AtMainMenu
}

// ensureMainMenu probes for the main menu, nudging with a blank line
// between rounds. It reports whether the menu was confirmed; callers
// proceed regardless, the result is advisory.
func (c *Controller) ensureMainMenu() bool {
	for i := 0; i < ensureMenuRounds; i++ {
		if c.waiter.WaitFor(c.vocab.MainMenu, c.waits.EnsureMenu).OK() {
			c.phase = AtMainMenu
			return true
		}
		c.pressAnyKey()
		c.pause(c.timings.Settle)
	}
	c.record(transcript.KindTimeout, "main menu not confirmed; proceeding", "")
	return false
}

// addRecord runs the add-user flow for one record. Field values are sent
// in the fixed order name, gender, age, id number, job, address whether
// or not the matching prompt was detected; detection failures only change
// what gets logged. Send failures and a broken channel propagate to the
// batch loop's failure boundary.
func (c *Controller) addRecord(r record.Record) error {
	c.ensureMainMenu()

	if err := c.send(cmdAddUser, c.timings.Menu); err != nil {
		return err
	}
	c.phase = InFieldEntry
	c.fieldIdx = 0
	if _, err := c.wait(c.vocab.FieldEntry, c.waits.Field); err != nil {
		return err
	}

	for i, val := range r.Fields() {
		c.fieldIdx = i
		d, err := c.wait(c.vocab.Fields[i], c.waits.Field)
		if err != nil {
			return err
		}
		if !d.OK() {
			c.record(transcript.KindInfo, "field prompt missed, sending value anyway: "+c.vocab.Fields[i].Name(), "")
		}
		if err := c.send(val, c.timings.Input); err != nil {
			return err
		}
	}

	c.phase = AwaitingPhoneChoice
	d, err := c.wait(c.vocab.PhoneOffer, c.waits.PhoneOffer)
	if err != nil {
		return err
	}
	if d.OK() {
		if err := c.send(cmdPhoneYes, c.timings.Input); err != nil {
			return err
		}
		d, err := c.wait(c.vocab.PhoneChoice, c.waits.PhoneChoice)
		if err != nil {
			return err
		}
		if d.OK() {
			if err := c.send(cmdPhoneRandom, c.timings.Input); err != nil {
				return err
			}
			if _, err := c.wait(c.vocab.PhoneResult, c.waits.PhoneResult); err != nil {
				return err
			}
		}
	}

	d, err = c.wait(c.vocab.PressAnyKey, c.waits.AnyKey)
	if err != nil {
		return err
	}
	if d.OK() {
		c.pressAnyKey()
	}
	return nil
}

// saveData sends the save command and confirms best-effort.
func (c *Controller) saveData() {
	c.phase = Saving
	c.ensureMainMenu()
	_ = c.send(cmdSave, c.timings.Operation)
	c.waiter.WaitFor(c.vocab.SaveConfirm, c.waits.Save)
	if c.waiter.WaitFor(c.vocab.PressAnyKey, c.waits.AnyKey).OK() {
		c.pressAnyKey()
	}
}

// exitSystem saves, then sends the exit command and confirms best-effort.
func (c *Controller) exitSystem() {
	c.saveData()
	c.phase = Exiting
	c.ensureMainMenu()
	_ = c.send(cmdExit, c.timings.Input)
	c.waiter.WaitFor(c.vocab.ExitConfirm, c.waits.Exit)
}

// wait performs one bounded prompt wait. Timeouts are absorbed (the
// detection says so); only a broken channel comes back as an error.
func (c *Controller) wait(set prompt.Set, timeout time.Duration) (prompt.Detection, error) {
	d := c.waiter.WaitFor(set, timeout)
	if d.Result == prompt.ChannelFailed {
		return d, d.Err
	}
	return d, nil
}

func (c *Controller) send(line string, pause time.Duration) error {
	if err := c.ch.SendLine(line); err != nil {
		c.record(transcript.KindError, "send failed", err.Error())
		return err
	}
	c.record(transcript.KindSend, "sent line", line)
	c.pause(pause)
	return nil
}

func (c *Controller) pressAnyKey() {
	if err := c.ch.SendLine(anyKey); err != nil {
		c.record(transcript.KindError, "acknowledge keypress failed", err.Error())
		return
	}
	c.record(transcript.KindSend, "acknowledged prompt with blank line", "")
	c.pause(c.timings.Input)
}

func (c *Controller) pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func (c *Controller) record(kind transcript.Kind, msg, detail string) {
	c.rec.Record(transcript.Event{Time: time.Now(), Kind: kind, Message: msg, Detail: detail})
}

func (c *Controller) export(ctx context.Context, o history.Outcome) {
	if err := c.sink.Send(ctx, o); err != nil {
		c.record(transcript.KindError, "history sink", err.Error())
	}
}
