// Package schemainfo carries the schema and statistics context that query
// planning reads. The context is passed explicitly to every call that needs
// it and is never mutated after construction.
package schemainfo

import "fmt"

// SchemaInfo describes the queryable schema as far as pagination cares:
// which field orders each vertex type, which fields hold uniformly
// distributed uuid4 identifiers, how edge fields map to their target vertex
// types, and where statistics come from.
type SchemaInfo struct {
	// PaginationKeys maps vertex type name to the field used as that
	// vertex's ordering/splitting key.
	PaginationKeys map[string]string

	// UUID4Fields maps vertex type name to the set of fields holding
	// random uuid4 identifiers. Such fields need no collected statistics:
	// boundaries are computed from the uniform-distribution assumption.
	UUID4Fields map[string]map[string]bool

	// EdgeTargets maps an edge field name (e.g. "out_Animal_BornAt") to
	// the vertex type it traverses to.
	EdgeTargets map[string]string

	// Statistics supplies collected class counts and quantile samples.
	Statistics Statistics
}

// IsUUID4Field reports whether the field on the vertex type is a uuid4 field.
func (s *SchemaInfo) IsUUID4Field(vertexType, fieldName string) bool {
	return s.UUID4Fields[vertexType][fieldName]
}

// VertexTypeAtPath resolves the vertex type reached by following a path of
// field names from the query root. The first segment is a root vertex type;
// each further segment must be a known edge field.
func (s *SchemaInfo) VertexTypeAtPath(path []string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("empty vertex path")
	}
	vertexType := path[0]
	for _, edge := range path[1:] {
		target, ok := s.EdgeTargets[edge]
		if !ok {
			return "", fmt.Errorf("unknown edge field %q on path to %q", edge, vertexType)
		}
		vertexType = target
	}
	return vertexType, nil
}

// Statistics supplies collected statistics for query planning.
//
// Implementations must be safe for concurrent readers; the pagination core
// only ever reads.
type Statistics interface {
	// ClassCount returns the total number of rows of the vertex type, if
	// collected.
	ClassCount(vertexType string) (int64, bool)

	// FieldQuantiles returns a sorted sample of the field's values
	// spanning the 0th through 100th percentile in 101 equal steps
	// (index i holds the value at percentile i), if collected.
	FieldQuantiles(vertexType, fieldName string) ([]any, bool)
}
