package schemainfo

// FieldKey identifies a field of a vertex type in statistics lookups.
type FieldKey struct {
	VertexType string
	FieldName  string
}

// LocalStatistics is an in-memory Statistics implementation, handy for tests
// and for callers that already hold their statistics in process.
type LocalStatistics struct {
	classCounts    map[string]int64
	fieldQuantiles map[FieldKey][]any
}

// NewLocalStatistics builds a LocalStatistics over the given class counts
// and quantile samples. Either map may be nil. The maps are not copied; the
// caller must not modify them afterwards.
func NewLocalStatistics(classCounts map[string]int64, fieldQuantiles map[FieldKey][]any) *LocalStatistics {
	return &LocalStatistics{
		classCounts:    classCounts,
		fieldQuantiles: fieldQuantiles,
	}
}

// ClassCount implements Statistics.
func (s *LocalStatistics) ClassCount(vertexType string) (int64, bool) {
	count, ok := s.classCounts[vertexType]
	return count, ok
}

// FieldQuantiles implements Statistics.
func (s *LocalStatistics) FieldQuantiles(vertexType, fieldName string) ([]any, bool) {
	quantiles, ok := s.fieldQuantiles[FieldKey{VertexType: vertexType, FieldName: fieldName}]
	return quantiles, ok
}
