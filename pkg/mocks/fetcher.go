package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/framesnap/pkg/ports"
)

// Fetcher is a mock implementation of ports.Fetcher that serves Files by
// locator unless FetchFunc is set.
type Fetcher struct {
	mu sync.Mutex

	FetchFunc func(ctx context.Context, locator string) ([]byte, error)
	Files     map[string][]byte
	Calls     []string
}

func (m *Fetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, locator)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, locator)
	}
	if data, ok := m.Files[locator]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("mock fetcher: %s not found", locator)
}

var _ ports.Fetcher = (*Fetcher)(nil)
