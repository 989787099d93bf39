package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrNoMockReply is returned when a MockProvider runs out of replies.
var ErrNoMockReply = errors.New("mock provider: no reply queued")

// MockReply is one canned reply for MockProvider.
type MockReply struct {
	Text string
	Err  error
}

// MockCall records the prompts a MockProvider received.
type MockCall struct {
	System string
	User   string
}

// MockProvider is a deterministic provider for tests. Replies are served in
// FIFO order and every call is recorded.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockReply
	Calls   []MockCall
}

func NewMockProvider(replies ...MockReply) *MockProvider {
	return &MockProvider{replies: replies}
}

// Reply is shorthand for a successful canned reply.
func Reply(text string) MockReply { return MockReply{Text: text} }

func (m *MockProvider) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{System: systemPrompt, User: userPrompt})
	if len(m.replies) == 0 {
		return "", ErrNoMockReply
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r.Text, r.Err
}

func (m *MockProvider) AddReply(r MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent call, or a zero MockCall.
func (m *MockProvider) LastCall() MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return MockCall{}
	}
	return m.Calls[len(m.Calls)-1]
}
