package impl

import (
	"context"
	"sync"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type sentMail struct {
	subject   string
	recipient string
	body      string
}

// stubEmailService records outbound mail and optionally fails.
type stubEmailService struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *stubEmailService) Send(ctx context.Context, subject, recipient, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{subject: subject, recipient: recipient, body: body})
	return nil
}

func (s *stubEmailService) last() (sentMail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return sentMail{}, false
	}
	return s.sent[len(s.sent)-1], true
}

func (s *stubEmailService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}
