package redis

import (
	"context"
	"easy11ML/business/featurestore"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// FeatureRepository is the online store: one hash per (view, entity) with a field per feature.
type FeatureRepository struct {
	client   *redis.Client
	registry *featurestore.Registry
}

var (
	_ featurestore.Reader = (*FeatureRepository)(nil)
	_ featurestore.Writer = (*FeatureRepository)(nil)
	_ featurestore.Pinger = (*FeatureRepository)(nil)
)

func NewFeatureRepository(client *redis.Client, registry *featurestore.Registry) *FeatureRepository {
	return &FeatureRepository{
		client:   client,
		registry: registry,
	}
}

// key format: "fs:{project}:{view}:{join_key}={id}"
func (r *FeatureRepository) key(view, joinKey, id string) string {
	return fmt.Sprintf("fs:%s:%s:%s=%s", r.registry.Project, view, joinKey, id)
}

func (r *FeatureRepository) WriteFeatures(ctx context.Context, view, joinKey, id string, values map[string]float64, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(values) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	key := r.key(view, joinKey, id)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store features in Redis: %w", err)
	}

	return nil
}

type lookup struct {
	row  int
	refs []featurestore.FeatureRef
	cmd  *redis.SliceCmd
}

func (r *FeatureRepository) GetOnlineFeatures(ctx context.Context, refs []string, rows []featurestore.EntityRow) (*featurestore.OnlineResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	parsed := make([]featurestore.FeatureRef, 0, len(refs))
	byView := make(map[string][]featurestore.FeatureRef)
	var views []string
	for _, raw := range refs {
		ref, err := featurestore.ParseRef(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, ref)
		if _, seen := byView[ref.View]; !seen {
			views = append(views, ref.View)
		}
		byView[ref.View] = append(byView[ref.View], ref)
	}
	if err := r.registry.CheckRefs(parsed); err != nil {
		return nil, err
	}

	resp := featurestore.NewOnlineResponse(len(rows))
	pipe := r.client.Pipeline()
	var lookups []lookup

	for _, view := range views {
		joinKey, err := r.registry.JoinKey(view)
		if err != nil {
			return nil, err
		}
		viewRefs := byView[view]
		fields := make([]string, 0, len(viewRefs))
		for _, ref := range viewRefs {
			fields = append(fields, ref.Feature)
		}

		for i, row := range rows {
			id, ok := row[joinKey]
			if !ok || id == "" {
				continue
			}
			lookups = append(lookups, lookup{
				row:  i,
				refs: viewRefs,
				cmd:  pipe.HMGet(ctx, r.key(view, joinKey, id), fields...),
			})
		}
	}

	if len(lookups) == 0 {
		return resp, nil
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read features from Redis: %w", err)
	}

	for _, l := range lookups {
		vals, err := l.cmd.Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read features from Redis: %w", err)
		}
		for j, raw := range vals {
			s, ok := raw.(string)
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			resp.Set(l.refs[j].Column(), l.row, v)
		}
	}

	return resp, nil
}

func (r *FeatureRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
