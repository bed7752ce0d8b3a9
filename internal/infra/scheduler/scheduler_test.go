package scheduler

import (
	"testing"
	"time"

	"homework_status_bot/internal/app"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct{ snap app.Snapshot }

func (s staticSource) Snapshot() app.Snapshot { return s.snap }

func TestBeatLogsSnapshot(t *testing.T) {
	logger, hook := test.NewNullLogger()
	src := staticSource{snap: app.Snapshot{
		State:         app.StateBackoff,
		Cursor:        1000,
		Cycles:        3,
		Notifications: 1,
		Failures:      2,
		LastSuccess:   time.Unix(1000, 0),
		LastError:     "status api request failed: unexpected http status 502",
	}}
	s := NewHeartbeatScheduler(src, logger, "@every 1h")
	s.now = func() time.Time { return time.Unix(1600, 0) }

	s.beat()

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Heartbeat", entry.Message)
	assert.Equal(t, "backoff", entry.Data["state"])
	assert.EqualValues(t, 1000, entry.Data["cursor"])
	assert.Equal(t, 2, entry.Data["failures"])
	assert.Equal(t, "10m0s", entry.Data["since_last_success"])
	assert.Contains(t, entry.Data["last_error"], "502")
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewHeartbeatScheduler(staticSource{}, logger, "every now and then")
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewHeartbeatScheduler(staticSource{}, logger, "@every 1h")
	require.NoError(t, s.Start())
	s.Stop()
	assert.Equal(t, "Heartbeat scheduler gracefully stopped.", hook.LastEntry().Message)
}
