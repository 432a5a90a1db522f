package services

import (
	"fmt"
	"sync"
)

// MockMailer is a recording Mailer for tests. It can be told to fail for
// specific recipient addresses to exercise independent-send semantics.
type MockMailer struct {
	mu       sync.Mutex
	sent     []SentEmail
	failFor  map[string]bool
	failNext bool
}

// SentEmail captures one recorded send with its transport.
type SentEmail struct {
	Config  SMTPConfig
	Message EmailMessage
}

// NewMockMailer creates a new recording mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{failFor: make(map[string]bool)}
}

// FailFor makes sends to the given recipient address return an error.
func (m *MockMailer) FailFor(address string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFor[address] = true
}

// FailAll makes every send return an error.
func (m *MockMailer) FailAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}

// Send records the message, or fails if configured to.
func (m *MockMailer) Send(cfg SMTPConfig, msg *EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		return fmt.Errorf("mock mailer: send disabled")
	}
	for _, to := range msg.To {
		if m.failFor[to] {
			return fmt.Errorf("mock mailer: configured to fail for %s", to)
		}
	}

	m.sent = append(m.sent, SentEmail{Config: cfg, Message: *msg})
	return nil
}

// Sent returns a copy of all recorded sends.
func (m *MockMailer) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Clear removes all recorded sends.
func (m *MockMailer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
