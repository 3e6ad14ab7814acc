package services

import (
	"context"
	"fmt"
	"sync"
)

// SentMessage is a message recorded by MockMessageSender
type SentMessage struct {
	To   string
	Body string
}

// MockMessageSender is a mock implementation of MessageSender for testing
type MockMessageSender struct {
	sent []SentMessage
	err  error
	mu   sync.RWMutex
}

// NewMockMessageSender creates a new mock sender
func NewMockMessageSender() *MockMessageSender {
	return &MockMessageSender{}
}

// SetAsMockForTesting sets this mock as the global sender instance for testing
func (m *MockMessageSender) SetAsMockForTesting() {
	SetMessageSender(m)
}

// FailWith makes every subsequent send return err
func (m *MockMessageSender) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// SendMessage records the message instead of sending it
func (m *MockMessageSender) SendMessage(ctx context.Context, to, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, SentMessage{To: to, Body: body})
	return fmt.Sprintf("SM_mock_%d", len(m.sent)), nil
}

// GetSentMessages returns all recorded messages (for testing assertions)
func (m *MockMessageSender) GetSentMessages() []SentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent race conditions
	sent := make([]SentMessage, len(m.sent))
	copy(sent, m.sent)
	return sent
}
