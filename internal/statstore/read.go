package statstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ClassCount implements schemainfo.Statistics.
func (s *Store) ClassCount(vertexType string) (int64, bool) {
	var count int64
	err := s.db.QueryRow(
		`SELECT row_count FROM class_counts WHERE vertex_type = ?`, vertexType,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) || err != nil {
		return 0, false
	}
	return count, true
}

// FieldQuantiles implements schemainfo.Statistics. A sample is returned
// only when all 101 percentiles are present; a partial import reads as
// "no statistics collected".
func (s *Store) FieldQuantiles(vertexType, fieldName string) ([]any, bool) {
	rows, err := s.db.Query(`
		SELECT value_kind, value_text FROM field_quantiles
		WHERE vertex_type = ? AND field_name = ?
		ORDER BY percentile
	`, vertexType, fieldName)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var sample []any
	for rows.Next() {
		var kind, text string
		if err := rows.Scan(&kind, &text); err != nil {
			return nil, false
		}
		value, err := decodeValue(kind, text)
		if err != nil {
			return nil, false
		}
		sample = append(sample, value)
	}
	if rows.Err() != nil || len(sample) != 101 {
		return nil, false
	}
	return sample, true
}

// ListClassCounts returns every stored class count keyed by vertex type.
func (s *Store) ListClassCounts() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT vertex_type, row_count FROM class_counts ORDER BY vertex_type`)
	if err != nil {
		return nil, fmt.Errorf("list class counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var vertexType string
		var count int64
		if err := rows.Scan(&vertexType, &count); err != nil {
			return nil, fmt.Errorf("list class counts: %w", err)
		}
		counts[vertexType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list class counts: %w", err)
	}
	return counts, nil
}

// QuantileField names a field with an imported quantile sample.
type QuantileField struct {
	VertexType  string
	FieldName   string
	Percentiles int
}

// ListQuantileFields returns every (vertex, field) pair with stored
// quantiles and how many percentile rows each holds.
func (s *Store) ListQuantileFields() ([]QuantileField, error) {
	rows, err := s.db.Query(`
		SELECT vertex_type, field_name, COUNT(*) FROM field_quantiles
		GROUP BY vertex_type, field_name
		ORDER BY vertex_type, field_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list quantile fields: %w", err)
	}
	defer rows.Close()

	var fields []QuantileField
	for rows.Next() {
		var f QuantileField
		if err := rows.Scan(&f.VertexType, &f.FieldName, &f.Percentiles); err != nil {
			return nil, fmt.Errorf("list quantile fields: %w", err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quantile fields: %w", err)
	}
	return fields, nil
}

func decodeValue(kind, text string) (any, error) {
	switch kind {
	case "int":
		return strconv.ParseInt(text, 10, 64)
	case "timestamp":
		return time.Parse(time.RFC3339Nano, text)
	default:
		return text, nil
	}
}
