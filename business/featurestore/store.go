package featurestore

import (
	"context"
	"easy11ML/domain"
	"fmt"
	"math"
	"strings"
	"time"
)

// EntityRow maps a join key (user_id, product_id...) to an entity id.
type EntityRow map[string]string

// Reader serves online feature lookups.
type Reader interface {
	GetOnlineFeatures(ctx context.Context, refs []string, rows []EntityRow) (*OnlineResponse, error)
}

// Writer stores the latest feature values of one entity in the online store.
type Writer interface {
	WriteFeatures(ctx context.Context, view, joinKey, entityID string, values map[string]float64, ttl time.Duration) error
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OnlineResponse holds one column per requested feature, one slot per entity row.
type OnlineResponse struct {
	rows    int
	columns map[string][]*float64
}

func NewOnlineResponse(rows int) *OnlineResponse {
	return &OnlineResponse{rows: rows, columns: make(map[string][]*float64)}
}

func (r *OnlineResponse) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

// Set records a value; out of range rows and non-finite values are ignored.
func (r *OnlineResponse) Set(column string, row int, v float64) {
	if row < 0 || row >= r.rows || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	col, ok := r.columns[column]
	if !ok {
		col = make([]*float64, r.rows)
		r.columns[column] = col
	}
	val := v
	col[row] = &val
}

// Value accepts either "view:feature" or the "view__feature" column name.
func (r *OnlineResponse) Value(ref string, row int) (float64, bool) {
	if r == nil || row < 0 || row >= r.rows {
		return 0, false
	}
	column := ref
	if strings.Contains(ref, ":") {
		parsed, err := ParseRef(ref)
		if err != nil {
			return 0, false
		}
		column = parsed.Column()
	}
	col, ok := r.columns[column]
	if !ok || col[row] == nil {
		return 0, false
	}
	return *col[row], true
}

func (r *OnlineResponse) ValueOr(ref string, row int, fallback float64) float64 {
	if v, ok := r.Value(ref, row); ok {
		return v
	}
	return fallback
}

// ToDict mirrors the column layout of a Feast online response; missing values are nil.
func (r *OnlineResponse) ToDict() map[string][]*float64 {
	out := make(map[string][]*float64, len(r.columns))
	for k, v := range r.columns {
		cp := make([]*float64, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// NullStore is used when no online store is configured.
type NullStore struct{}

var _ Reader = NullStore{}

func (NullStore) GetOnlineFeatures(ctx context.Context, _ []string, _ []EntityRow) (*OnlineResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return nil, domain.ErrFeatureStoreUnavailable
}

func (NullStore) Ping(context.Context) error {
	return domain.ErrFeatureStoreUnavailable
}
