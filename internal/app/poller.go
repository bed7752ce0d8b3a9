// internal/app/poller.go
package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// State is the position of the poll loop in its lifecycle.
type State int

const (
	StateStarting State = iota
	StatePolling
	StateBackoff
	// StateStopped is terminal and only reached when credentials are missing at startup.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StatePolling:
		return "polling"
	case StateBackoff:
		return "backoff"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CycleOutcome summarises what a single poll cycle did.
type CycleOutcome int

const (
	CycleNotified CycleOutcome = iota + 1
	CycleDeliveryFailed
	CycleNoWork
	CycleFailed
)

func (o CycleOutcome) String() string {
	switch o {
	case CycleNotified:
		return "notified"
	case CycleDeliveryFailed:
		return "delivery_failed"
	case CycleNoWork:
		return "no_work"
	case CycleFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Cycle is the report of one poll cycle.
type Cycle struct {
	Outcome CycleOutcome
	Message string // Rendered notification, if any
	Err     error  // Classified failure for CycleFailed and CycleDeliveryFailed
	Cursor  int64  // Cursor after the cycle
}

// Fetcher retrieves the raw status response for homeworks changed since fromDate.
type Fetcher interface {
	Fetch(ctx context.Context, fromDate int64) (json.RawMessage, error)
}

// Sender delivers a rendered message.
type Sender interface {
	Notify(ctx context.Context, message string) error
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Snapshot is a copy of the poller's observable state.
type Snapshot struct {
	State         State
	Cursor        int64
	Cycles        int
	Notifications int
	Failures      int
	LastSuccess   time.Time
	LastError     string
}

// Poller runs the poll, validate, notify loop for one subject.
// Only the goroutine calling Run or RunCycle touches the cursor.
type Poller struct {
	fetcher  Fetcher
	sender   Sender
	logger   logrus.FieldLogger
	interval time.Duration
	sleep    SleepFunc
	now      func() time.Time

	cursor      int64
	startCursor *int64

	mu   sync.Mutex
	snap Snapshot
}

// PollerOption customises a Poller.
type PollerOption func(*Poller)

// WithSleep replaces the wait between cycles.
func WithSleep(fn SleepFunc) PollerOption {
	return func(p *Poller) { p.sleep = fn }
}

// WithCursor starts polling from the given unix timestamp instead of now.
func WithCursor(fromDate int64) PollerOption {
	return func(p *Poller) { p.startCursor = &fromDate }
}

// WithClock replaces the wall clock used for the initial cursor and timestamps.
func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) { p.now = now }
}

func NewPoller(fetcher Fetcher, sender Sender, interval time.Duration, logger logrus.FieldLogger, opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		sender:   sender,
		logger:   logger.WithField("component", "poller"),
		interval: interval,
		sleep:    sleepContext,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cursor = p.now().Unix()
	if p.startCursor != nil {
		p.cursor = *p.startCursor
	}
	p.snap = Snapshot{State: StateStarting, Cursor: p.cursor}
	return p
}

// Cursor returns the current from_date boundary.
func (p *Poller) Cursor() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Cursor
}

// State returns the current loop state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.State
}

// Snapshot returns a copy of the loop's counters. Safe for concurrent use.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Run polls forever, waiting the fixed interval after every cycle.
// Recoverable errors never end the loop; it returns only when ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	p.transition(StatePolling)
	p.logger.WithFields(logrus.Fields{
		"cursor":   p.cursor,
		"interval": p.interval.String(),
	}).Info("Poll loop started")

	for {
		cycle := p.RunCycle(ctx)
		if cycle.Outcome == CycleFailed {
			p.transition(StateBackoff)
			p.logger.WithError(cycle.Err).WithField("retry_in", p.interval.String()).Warn("Backing off before retrying the same window")
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			p.logger.WithError(err).Info("Poll loop terminated")
			return err
		}

		if p.State() == StateBackoff {
			p.transition(StatePolling)
		}
	}
}

// RunCycle performs one fetch, extract, render, notify pass.
// The cursor moves only when the response was fetched and validated,
// whether or not the notification was delivered.
func (p *Poller) RunCycle(ctx context.Context) Cycle {
	log := p.logger.WithField("cursor", p.cursor)
	log.Debug("Starting new poll cycle")

	body, err := p.fetcher.Fetch(ctx, p.cursor)
	if err != nil {
		return p.fail(log, "fetch", err)
	}

	ext, err := homework.Extract(body)
	if err != nil {
		return p.fail(log, "extract", err)
	}

	if ext.Outcome == homework.OutcomeEmpty {
		log.Info("No homework status changes since last poll")
		return p.finish(ext, Cycle{Outcome: CycleNoWork})
	}
	log.Info("Homework list received")

	message, err := homework.Render(ext.Item)
	if err != nil {
		return p.fail(log, "render", err)
	}

	cycle := Cycle{Outcome: CycleNotified, Message: message}
	if err := p.sender.Notify(ctx, message); err != nil {
		log.WithError(err).Error("Notification was not delivered; the status change is still marked as seen")
		cycle.Outcome = CycleDeliveryFailed
		cycle.Err = err
	}
	return p.finish(ext, cycle)
}

func (p *Poller) fail(log logrus.FieldLogger, stage string, err error) Cycle {
	log.WithError(err).WithFields(logrus.Fields{
		"stage": stage,
		"kind":  errorKind(err),
	}).Error("Poll cycle failed")

	p.mu.Lock()
	p.snap.Cycles++
	p.snap.Failures++
	p.snap.LastError = err.Error()
	p.mu.Unlock()

	return Cycle{Outcome: CycleFailed, Err: err, Cursor: p.cursor}
}

func (p *Poller) finish(ext homework.Extraction, cycle Cycle) Cycle {
	if _, ok := ext.CurrentDate(); !ok {
		p.logger.WithField("cursor", p.cursor).Warn("Response has no usable current_date; keeping cursor")
	}
	p.cursor = ext.NextCursor(p.cursor)
	cycle.Cursor = p.cursor

	p.mu.Lock()
	p.snap.Cycles++
	p.snap.Cursor = p.cursor
	p.snap.LastSuccess = p.now()
	if cycle.Outcome == CycleNotified {
		p.snap.Notifications++
	}
	if cycle.Err != nil {
		p.snap.LastError = cycle.Err.Error()
	}
	p.mu.Unlock()

	p.logger.WithFields(logrus.Fields{
		"outcome": cycle.Outcome.String(),
		"cursor":  p.cursor,
	}).Debug("Poll cycle finished")
	return cycle
}

func (p *Poller) transition(to State) {
	p.mu.Lock()
	from := p.snap.State
	p.snap.State = to
	p.mu.Unlock()

	if from != to {
		p.logger.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Info("Poll loop state changed")
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, homework.ErrTransport):
		return "transport"
	case errors.Is(err, homework.ErrStructure):
		return "structure"
	case errors.Is(err, homework.ErrUnknownStatus):
		return "unknown_status"
	case errors.Is(err, homework.ErrDelivery):
		return "delivery"
	default:
		return "unexpected"
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
