package store

import (
	"fmt"
	"strconv"
	"time"
)

// Row is one relational record read with SELECT * semantics, keyed by column name
type Row map[string]any

// Int64 returns the column as an integer
func (r Row) Int64(col string) (int64, bool) {
	switch v := r[col].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		return int64(v), true
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// String returns the column as text; missing or NULL columns yield ""
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Time returns the column as a timestamp
func (r Row) Time(col string) (time.Time, bool) {
	switch v := r[col].(type) {
	case time.Time:
		return v, true
	case int64:
		return time.Unix(v, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// Merge returns a new row with other's columns layered over r's
func (r Row) Merge(other Row) Row {
	merged := make(Row, len(r)+len(other))
	for k, v := range r {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

func toRows(raw []map[string]any) []Row {
	rows := make([]Row, len(raw))
	for i, m := range raw {
		rows[i] = normalizeRow(m)
	}
	return rows
}

// normalizeRow turns driver byte slices into strings so rows serialize as text
func normalizeRow(m map[string]any) Row {
	for k, v := range m {
		if b, ok := v.([]byte); ok {
			m[k] = string(b)
		}
	}
	return Row(m)
}

// GroupByInt64 groups rows by an integer column. Rows without the column are dropped.
// Ids with no rows are absent from the result.
func GroupByInt64(rows []Row, col string) map[int64][]Row {
	grouped := make(map[int64][]Row)
	for _, row := range rows {
		id, ok := row.Int64(col)
		if !ok {
			continue
		}
		grouped[id] = append(grouped[id], row)
	}
	return grouped
}

// IndexFirstByString indexes rows by a text column keeping the first row per key
func IndexFirstByString(rows []Row, col string) map[string]Row {
	index := make(map[string]Row)
	for _, row := range rows {
		key := row.String(col)
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = row
		}
	}
	return index
}

// DedupeByInt64 keeps the first row per integer column value, preserving order
func DedupeByInt64(rows []Row, col string) []Row {
	seen := make(map[int64]struct{}, len(rows))
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		id, ok := row.Int64(col)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, row)
	}
	return out
}
