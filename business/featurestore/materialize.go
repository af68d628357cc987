package featurestore

import (
	"context"
	"easy11ML/pkg/logger"
	"fmt"
	"time"
)

// OfflineRow is one record of a batch source.
type OfflineRow struct {
	EntityID       string
	EventTimestamp time.Time
	CreatedAt      time.Time
	Values         map[string]float64
}

// OfflineSource reads the rows of a batch source for the given fields.
type OfflineSource interface {
	ReadRows(ctx context.Context, src FileSource, joinKey string, fields []string) ([]OfflineRow, error)
}

type Materializer struct {
	registry *Registry
	offline  OfflineSource
	online   Writer
}

func NewMaterializer(registry *Registry, offline OfflineSource, online Writer) *Materializer {
	return &Materializer{registry: registry, offline: offline, online: online}
}

// MaterializeIncremental loads, for every online view, the latest row per entity whose
// event timestamp falls inside (end-ttl, end] and writes it to the online store.
// It returns the number of entities written per view.
func (m *Materializer) MaterializeIncremental(ctx context.Context, end time.Time) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	counts := make(map[string]int, len(m.registry.FeatureViews))
	for _, view := range m.registry.FeatureViews {
		if !view.Online {
			continue
		}

		n, err := m.materializeView(ctx, view, end)
		if err != nil {
			return counts, fmt.Errorf("materialize %s: %w", view.Name, err)
		}
		counts[view.Name] = n

		logger.Info("feature view materialized",
			"view", view.Name,
			"entities", n,
			"end", end.Format(time.RFC3339),
		)
	}

	return counts, nil
}

func (m *Materializer) materializeView(ctx context.Context, view FeatureView, end time.Time) (int, error) {
	src, ok := m.registry.Source(view.Source)
	if !ok {
		return 0, fmt.Errorf("unknown source %q", view.Source)
	}
	joinKey, err := m.registry.JoinKey(view.Name)
	if err != nil {
		return 0, err
	}

	rows, err := m.offline.ReadRows(ctx, src, joinKey, view.FieldNames())
	if err != nil {
		return 0, fmt.Errorf("read offline rows: %w", err)
	}

	latest := LatestPerEntity(rows, end.Add(-view.TTL), end)
	for id, row := range latest {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("context error: %w", err)
		}
		if err := m.online.WriteFeatures(ctx, view.Name, joinKey, id, row.Values, view.TTL); err != nil {
			return 0, fmt.Errorf("write %s=%s: %w", joinKey, id, err)
		}
	}

	return len(latest), nil
}

// LatestPerEntity keeps rows with start < event_timestamp <= end and picks, per entity,
// the most recent event; equal events are decided by the later created_at.
func LatestPerEntity(rows []OfflineRow, start, end time.Time) map[string]OfflineRow {
	out := make(map[string]OfflineRow)
	for _, row := range rows {
		if !row.EventTimestamp.After(start) || row.EventTimestamp.After(end) {
			continue
		}
		cur, ok := out[row.EntityID]
		if !ok || newer(row, cur) {
			out[row.EntityID] = row
		}
	}
	return out
}

func newer(a, b OfflineRow) bool {
	if a.EventTimestamp.Equal(b.EventTimestamp) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.EventTimestamp.After(b.EventTimestamp)
}
