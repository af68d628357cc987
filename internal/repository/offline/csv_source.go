package offline

import (
	"context"
	"easy11ML/business/featurestore"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CSVSource reads file batch sources relative to a base directory.
type CSVSource struct {
	baseDir string
}

var _ featurestore.OfflineSource = (*CSVSource)(nil)

func NewCSVSource(baseDir string) *CSVSource {
	return &CSVSource{baseDir: baseDir}
}

func (s *CSVSource) path(src featurestore.FileSource) string {
	if filepath.IsAbs(src.Path) {
		return src.Path
	}
	return filepath.Join(s.baseDir, src.Path)
}

// ReadRows returns every row of the source. Empty or unparsable feature cells are left
// out of Values so they read as missing downstream.
func (s *CSVSource) ReadRows(ctx context.Context, src featurestore.FileSource, joinKey string, fields []string) ([]featurestore.OfflineRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	f, err := os.Open(s.path(src))
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", src.Name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", src.Name, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	keyIdx, ok := cols[joinKey]
	if !ok {
		return nil, fmt.Errorf("source %s has no %s column", src.Name, joinKey)
	}
	tsIdx, ok := cols[src.TimestampField]
	if !ok {
		return nil, fmt.Errorf("source %s has no %s column", src.Name, src.TimestampField)
	}
	createdIdx := -1
	if src.CreatedTimestampColumn != "" {
		if i, ok := cols[src.CreatedTimestampColumn]; ok {
			createdIdx = i
		}
	}

	var rows []featurestore.OfflineRow
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", src.Name, line, err)
		}

		ts, err := parseTime(rec[tsIdx])
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", src.Name, line, err)
		}
		row := featurestore.OfflineRow{
			EntityID:       strings.TrimSpace(rec[keyIdx]),
			EventTimestamp: ts,
			Values:         make(map[string]float64, len(fields)),
		}
		if createdIdx >= 0 {
			if created, err := parseTime(rec[createdIdx]); err == nil {
				row.CreatedAt = created
			}
		}
		for _, field := range fields {
			i, ok := cols[field]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			row.Values[field] = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// CountRows reports the number of data rows of a source without parsing them.
func (s *CSVSource) CountRows(ctx context.Context, src featurestore.FileSource) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	f, err := os.Open(s.path(src))
	if err != nil {
		return 0, fmt.Errorf("open source %s: %w", src.Name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	n := -1
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", src.Name, err)
		}
		n++
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}
