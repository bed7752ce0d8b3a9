package scheduler

import (
	"fmt"
	"time"

	"homework_status_bot/internal/app" // For the poller Snapshot type

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SnapshotSource exposes the poll loop's state to the heartbeat job.
type SnapshotSource interface {
	Snapshot() app.Snapshot
}

// HeartbeatScheduler periodically logs the poll loop's progress so operators
// can tell a quiet loop from a stuck one.
type HeartbeatScheduler struct {
	cronEngine *cron.Cron
	source     SnapshotSource
	logger     logrus.FieldLogger
	spec       string
	now        func() time.Time
}

func NewHeartbeatScheduler(source SnapshotSource, logger logrus.FieldLogger, spec string) *HeartbeatScheduler {
	return &HeartbeatScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		source:     source,
		logger:     logger.WithField("component", "scheduler"),
		spec:       spec, // e.g., "@every 1h"
		now:        time.Now,
	}
}

// Start registers the heartbeat job and starts the cron engine.
func (s *HeartbeatScheduler) Start() error {
	s.logger.Info("Starting heartbeat scheduler...")

	_, err := s.cronEngine.AddFunc(s.spec, s.beat)
	if err != nil {
		return fmt.Errorf("could not add heartbeat cron job %q: %w", s.spec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.spec).Info("Heartbeat scheduler started")
	return nil
}

func (s *HeartbeatScheduler) beat() {
	snap := s.source.Snapshot()
	fields := logrus.Fields{
		"state":         snap.State.String(),
		"cursor":        snap.Cursor,
		"cycles":        snap.Cycles,
		"notifications": snap.Notifications,
		"failures":      snap.Failures,
	}
	if !snap.LastSuccess.IsZero() {
		fields["since_last_success"] = s.now().Sub(snap.LastSuccess).Round(time.Second).String()
	}
	if snap.LastError != "" {
		fields["last_error"] = snap.LastError
	}
	s.logger.WithFields(fields).Info("Heartbeat")
}

func (s *HeartbeatScheduler) Stop() {
	s.logger.Info("Stopping heartbeat scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Heartbeat scheduler gracefully stopped.")
}
