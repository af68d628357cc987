// Package memory holds process-local repositories used when Postgres is disabled.
package memory

import (
	"context"
	"easy11ML/business/governance"
	"easy11ML/domain"
	"fmt"
	"sort"
	"sync"
)

type AuditRepository struct {
	mu      sync.RWMutex
	entries []domain.AuditLogEntry
	nextID  uint
}

var _ governance.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{nextID: 1}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, *entry)
	return nil
}

// ListRecent returns entries newest first; insertion order breaks timestamp ties.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	out := make([]domain.AuditLogEntry, len(r.entries))
	copy(out, r.entries)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AuditRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entries)), nil
}
