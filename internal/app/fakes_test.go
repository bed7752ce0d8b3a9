package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"gopkg.in/telebot.v3"
)

type fetchResult struct {
	body string
	err  error
}

type fakeFetcher struct {
	mu       sync.Mutex
	results  []fetchResult
	cursors  []int64
	inFlight int
	maxInUse int
}

func (f *fakeFetcher) Fetch(ctx context.Context, fromDate int64) (json.RawMessage, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInUse {
		f.maxInUse = f.inFlight
	}
	f.cursors = append(f.cursors, fromDate)
	var r fetchResult
	if len(f.results) > 0 {
		r = f.results[0]
		if len(f.results) > 1 {
			f.results = f.results[1:]
		}
	}
	f.inFlight--
	f.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	return json.RawMessage(r.body), nil
}

type fakeSender struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (s *fakeSender) Notify(ctx context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return s.err
}

func (s *fakeSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// sleepRecorder returns immediately and cancels the run after limit sleeps.
type sleepRecorder struct {
	mu     sync.Mutex
	calls  []time.Duration
	limit  int
	cancel context.CancelFunc
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.calls = append(s.calls, d)
	n := len(s.calls)
	s.mu.Unlock()
	if n >= s.limit {
		s.cancel()
		return ctx.Err()
	}
	return nil
}

type fakeTelegramClient struct {
	chatIDs []int64
	texts   []string
	err     error
}

func (c *fakeTelegramClient) SendMessage(chatID int64, text string, options *telebot.SendOptions) error {
	c.chatIDs = append(c.chatIDs, chatID)
	c.texts = append(c.texts, text)
	return c.err
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:443: connect: connection refused")

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0) }
}
