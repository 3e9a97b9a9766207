package mocks

import (
	"context"
	"sync"

	"ezmode_site/internal/app"
)

// MockFetcher is a test double for feed.Fetcher
type MockFetcher struct {
	// Response to return
	Feed app.StatusFeed

	// Error to return
	Err error

	// Call tracking
	mutex     sync.Mutex
	callCount int
}

// NewMockFetcher creates a mock that returns the given feed
func NewMockFetcher(feed app.StatusFeed) *MockFetcher {
	return &MockFetcher{Feed: feed}
}

func (m *MockFetcher) Fetch(ctx context.Context) (app.StatusFeed, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.callCount++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Feed, nil
}

// SetResponse replaces the feed and error returned by later calls
func (m *MockFetcher) SetResponse(feed app.StatusFeed, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Feed = feed
	m.Err = err
}

// CallCount returns how many times Fetch was called
func (m *MockFetcher) CallCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.callCount
}
