package llmsvc

import (
	"context"
	"sync"

	"github.com/trezcool/tutoria/core"
)

// Mock replies with scripted answers, in order, and records every request.
// Once the script runs out, the last reply is repeated.
type Mock struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []core.CompletionRequest
}

func NewMock(replies ...string) *Mock {
	return &Mock{replies: replies}
}

func (m *Mock) Complete(_ context.Context, req core.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Mock) Requests() []core.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.CompletionRequest(nil), m.requests...)
}
