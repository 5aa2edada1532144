package media

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker in front of a Store.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns settings suited to a slow remote store.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      2,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

type breakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps a Store so that a failing backend is short-circuited
// instead of being hit by every update. An open breaker surfaces as a
// StoreError like any other backend failure.
func WithBreaker(next Store, cfg BreakerConfig) Store {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Media store circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &breakerStore{next: next, cb: cb}
}

func (b *breakerStore) Append(ctx context.Context, rec Record) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Append(ctx, rec)
	})
	return Wrap("append", err)
}

func (b *breakerStore) Query(ctx context.Context, key FilterKey, value string, kind Kind) ([]string, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Query(ctx, key, value, kind)
	})
	if err != nil {
		return nil, Wrap("query", err)
	}
	ids, _ := res.([]string)
	return ids, nil
}

func (b *breakerStore) DistinctCategories(ctx context.Context, ct CategoryType) ([]string, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.DistinctCategories(ctx, ct)
	})
	if err != nil {
		return nil, Wrap("categories", err)
	}
	names, _ := res.([]string)
	return names, nil
}

func (b *breakerStore) ClearAll(ctx context.Context) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.ClearAll(ctx)
	})
	return Wrap("clear", err)
}

// Records passes through to the wrapped store when it can list records.
func (b *breakerStore) Records(ctx context.Context) ([]Record, error) {
	lister, ok := b.next.(Lister)
	if !ok {
		return nil, Wrap("records", ErrNotListable)
	}
	res, err := b.cb.Execute(func() (interface{}, error) {
		return lister.Records(ctx)
	})
	if err != nil {
		return nil, Wrap("records", err)
	}
	records, _ := res.([]Record)
	return records, nil
}
