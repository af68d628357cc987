package featurestore

import (
	"context"
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

type BreakerConfig struct {
	Name             string
	Timeout          time.Duration // per call
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// GuardedReader bounds every lookup with a timeout and stops calling the store
// after consecutive failures until the open timeout elapses.
type GuardedReader struct {
	next    Reader
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[*OnlineResponse]
}

var _ Reader = (*GuardedReader)(nil)

func NewGuardedReader(next Reader, cfg BreakerConfig) *GuardedReader {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// unknown refs are caller bugs, not store health
			return err == nil || !isStoreFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("feature store breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &GuardedReader{
		next:    next,
		timeout: cfg.Timeout,
		cb:      gobreaker.NewCircuitBreaker[*OnlineResponse](settings),
	}
}

func (g *GuardedReader) GetOnlineFeatures(ctx context.Context, refs []string, rows []EntityRow) (*OnlineResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	resp, err := g.cb.Execute(func() (*OnlineResponse, error) {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		return g.next.GetOnlineFeatures(callCtx, refs, rows)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeatureStoreUnavailable, err)
	}
	return resp, err
}

func (g *GuardedReader) Ping(ctx context.Context) error {
	if p, ok := g.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (g *GuardedReader) State() string {
	return g.cb.State().String()
}

func isStoreFailure(err error) bool {
	var refErr *RefError
	return !errors.As(err, &refErr)
}

// RefError reports a feature reference the registry does not know.
type RefError struct {
	Ref string
	Msg string
}

func (e *RefError) Error() string {
	return fmt.Sprintf("feature reference %q: %s", e.Ref, e.Msg)
}
