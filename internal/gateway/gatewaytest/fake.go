// Package gatewaytest provides a scriptable in-memory gateway.Model.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/MikeSquared-Agency/brief/internal/gateway"
)

// Model replies with Reply, or calls Respond when set. Requests are recorded.
type Model struct {
	Reply   string
	Err     error
	Respond func(ctx context.Context, req gateway.Request) (string, error)

	mu       sync.Mutex
	requests []gateway.Request
}

func (m *Model) Name() string { return "fake" }

func (m *Model) Complete(ctx context.Context, req gateway.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	respond := m.Respond
	m.mu.Unlock()

	if respond != nil {
		return respond(ctx, req)
	}
	return m.Reply, m.Err
}

// Requests returns a copy of every request seen so far.
func (m *Model) Requests() []gateway.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]gateway.Request(nil), m.requests...)
}

// Calls is len(Requests()).
func (m *Model) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
