package core

import (
	"context"
	"sync"
	"time"

	"storefront-account-go/internal/mailer"
)

func now() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.messages == nil {
		p.messages = make(map[string][][]byte)
	}
	p.messages[queue] = append(p.messages[queue], body)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
