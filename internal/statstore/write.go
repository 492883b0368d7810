package statstore

import (
	"fmt"
	"time"
)

// SetClassCount upserts the row count for a vertex type.
func (s *Store) SetClassCount(vertexType string, rowCount int64) error {
	if rowCount < 0 {
		return fmt.Errorf("row count for %q must be non-negative, got %d", vertexType, rowCount)
	}
	_, err := s.db.Exec(`
		INSERT INTO class_counts (vertex_type, row_count) VALUES (?, ?)
		ON CONFLICT (vertex_type) DO UPDATE SET row_count = excluded.row_count
	`, vertexType, rowCount)
	if err != nil {
		return fmt.Errorf("set class count for %q: %w", vertexType, err)
	}
	return nil
}

// PutQuantiles replaces the quantile sample of a field. The sample must
// hold one value per percentile, 0 through 100, sorted ascending; values
// must be int64, time.Time, or string.
func (s *Store) PutQuantiles(vertexType, fieldName string, sample []any) error {
	if len(sample) != 101 {
		return fmt.Errorf("quantile sample for %s.%s must have 101 values (percentiles 0-100), got %d",
			vertexType, fieldName, len(sample))
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin quantile import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM field_quantiles WHERE vertex_type = ? AND field_name = ?`,
		vertexType, fieldName,
	); err != nil {
		return fmt.Errorf("clear quantiles for %s.%s: %w", vertexType, fieldName, err)
	}

	for percentile, value := range sample {
		kind, text, err := encodeValue(value)
		if err != nil {
			return fmt.Errorf("quantile %d of %s.%s: %w", percentile, vertexType, fieldName, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO field_quantiles (vertex_type, field_name, percentile, value_kind, value_text)
			VALUES (?, ?, ?, ?, ?)
		`, vertexType, fieldName, percentile, kind, text); err != nil {
			return fmt.Errorf("insert quantile %d of %s.%s: %w", percentile, vertexType, fieldName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit quantile import: %w", err)
	}
	return nil
}

func encodeValue(value any) (kind, text string, err error) {
	switch v := value.(type) {
	case int:
		return "int", fmt.Sprintf("%d", v), nil
	case int64:
		return "int", fmt.Sprintf("%d", v), nil
	case time.Time:
		return "timestamp", v.UTC().Format(time.RFC3339Nano), nil
	case string:
		return "string", v, nil
	default:
		return "", "", fmt.Errorf("unsupported quantile value type %T", value)
	}
}
