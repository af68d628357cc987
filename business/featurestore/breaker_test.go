package featurestore

import (
	"context"
	"easy11ML/domain"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type flakyReader struct {
	calls int
	err   error
	delay time.Duration
}

func (f *flakyReader) GetOnlineFeatures(ctx context.Context, _ []string, rows []EntityRow) (*OnlineResponse, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return NewOnlineResponse(len(rows)), nil
}

func TestGuardedReader_OpensAfterFailures(t *testing.T) {
	next := &flakyReader{err: errors.New("connection refused")}
	g := NewGuardedReader(next, BreakerConfig{Name: "test", FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := g.GetOnlineFeatures(context.Background(), nil, nil)
		assert.EqualError(t, err, "connection refused")
	}

	_, err := g.GetOnlineFeatures(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, domain.ErrFeatureStoreUnavailable))
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, "open", g.State())
}

func TestGuardedReader_RefErrorsDoNotTrip(t *testing.T) {
	next := &flakyReader{err: &RefError{Ref: "x", Msg: "bad"}}
	g := NewGuardedReader(next, BreakerConfig{Name: "test", FailureThreshold: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		_, _ = g.GetOnlineFeatures(context.Background(), nil, nil)
	}
	assert.Equal(t, 3, next.calls)
	assert.Equal(t, "closed", g.State())
}

func TestGuardedReader_Timeout(t *testing.T) {
	next := &flakyReader{delay: time.Second}
	g := NewGuardedReader(next, BreakerConfig{Name: "test", Timeout: 10 * time.Millisecond, OpenTimeout: time.Minute})

	_, err := g.GetOnlineFeatures(context.Background(), nil, []EntityRow{{"user_id": "u1"}})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
