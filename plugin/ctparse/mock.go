package ctparse

import (
	"context"
	"sync"
	"time"

	"github.com/hrygo/ctparse/plugin/ctparse/chart"
)

// MockTimeService is a mock implementation of TimeService for testing.
type MockTimeService struct {
	mu sync.Mutex
	// Outcomes maps an input text to the outcome returned for it.
	Outcomes map[string]Outcome
	// Err, when set, is returned by every call.
	Err error
	// Calls records the texts seen, in order.
	Calls []string
}

// NewMockTimeService creates a new MockTimeService.
func NewMockTimeService() *MockTimeService {
	return &MockTimeService{Outcomes: make(map[string]Outcome)}
}

// ParseAll returns the configured outcome for text, or an empty one.
func (m *MockTimeService) ParseAll(_ context.Context, text string, _ time.Time, _ string) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, text)
	if m.Err != nil {
		return Outcome{}, m.Err
	}
	out, ok := m.Outcomes[text]
	if !ok {
		return Outcome{Results: []chart.Result{}}, nil
	}
	return out, nil
}

// Parse returns the first configured result for text.
func (m *MockTimeService) Parse(ctx context.Context, text string, ref time.Time, lang string) (chart.Result, error) {
	out, err := m.ParseAll(ctx, text, ref, lang)
	if err != nil {
		return chart.Result{}, err
	}
	if len(out.Results) == 0 {
		return chart.Result{}, ErrNoParse
	}
	return out.Results[0], nil
}

// ParseNaturalTime converts the first configured result for text.
func (m *MockTimeService) ParseNaturalTime(ctx context.Context, text string, reference time.Time) (TimeRange, error) {
	best, err := m.Parse(ctx, text, reference, "")
	if err != nil {
		return TimeRange{}, err
	}
	return RangeOf(best.Value, reference.Location())
}

var _ TimeService = (*MockTimeService)(nil)
