package governance

import (
	"context"
	"easy11ML/domain"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAudit struct {
	entries   []domain.AuditLogEntry
	lastLimit int
	err       error
}

func (f *fakeAudit) Create(_ context.Context, e *domain.AuditLogEntry) error {
	if f.err != nil {
		return f.err
	}
	e.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAudit) ListRecent(_ context.Context, limit int) ([]domain.AuditLogEntry, error) {
	f.lastLimit = limit
	out := append([]domain.AuditLogEntry(nil), f.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAudit) Count(context.Context) (int64, error) {
	return int64(len(f.entries)), f.err
}

func fixedService(repo AuditRepository) *Service {
	s := NewService(repo)
	s.now = func() time.Time { return time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestModelCards(t *testing.T) {
	s := fixedService(&fakeAudit{})

	cards := s.ModelCards()
	require.Len(t, cards, 3)
	assert.Equal(t, "recommendation-hybrid", cards[0].ModelID)
	assert.Equal(t, "v2.0.0", cards[0].Version)
	assert.Equal(t, "2025-03-06T12:00:00.000000Z", cards[0].CreatedAt)
	assert.Equal(t, "pricing-hybrid-v1.2.0", cards[1].Version)
	assert.Equal(t, "demand-forecast-v2.1.0", cards[2].Version)

	card, err := s.ModelCard("forecast-prophet")
	require.NoError(t, err)
	assert.Equal(t, "Supply Analytics", card.Owner)

	_, err = s.ModelCard("nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDriftStatus(t *testing.T) {
	drift := fixedService(&fakeAudit{}).DriftStatus()
	require.Len(t, drift, 3)

	assert.Equal(t, "warning", drift[1].Status)
	assert.Equal(t, "stock_velocity", drift[1].MonitoredFeatures[0].Feature)
	assert.Len(t, drift[1].RecommendedActions, 2)
	assert.Empty(t, drift[0].RecommendedActions)
	assert.Equal(t, "2025-04-20T09:00:00.000000Z", drift[1].LastEvaluatedAt)
}

func TestClampAuditLimit(t *testing.T) {
	assert.Equal(t, 25, ClampAuditLimit(0))
	assert.Equal(t, 1, ClampAuditLimit(-4))
	assert.Equal(t, 100, ClampAuditLimit(1000))
	assert.Equal(t, 7, ClampAuditLimit(7))
}

func TestSeedAndAuditLog(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAudit{}
	s := fixedService(repo)

	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))
	assert.Len(t, repo.entries, 4)

	entries, err := s.AuditLog(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "vendor_admin_482", entries[0].Actor)
	assert.Equal(t, "customer_9021", entries[1].Actor)

	_, err = s.AuditLog(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastLimit)
}

func TestRecordAudit(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAudit{}
	s := fixedService(repo)

	saved, err := s.RecordAudit(ctx, domain.AuditLogEntry{ModelID: "pricing-hybrid", Action: "override", Actor: "ops"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC), saved.Timestamp)
	assert.NotZero(t, saved.ID)

	_, err = s.RecordAudit(ctx, domain.AuditLogEntry{ModelID: "pricing-hybrid"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	repo.err = errors.New("db down")
	_, err = s.RecordAudit(ctx, domain.AuditLogEntry{ModelID: "m", Action: "a", Actor: "b"})
	assert.Error(t, err)
}
