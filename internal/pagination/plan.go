package pagination

import (
	"github.com/pagecut/pagecut/internal/queryast"
	"github.com/pagecut/pagecut/internal/schemainfo"
)

// VertexPartitionPlan names where and how to split a query: the path of
// field names from the query root to the target vertex, the field at that
// vertex to use as the pagination key, and how many partitions to aim for.
//
// The path and field are produced by the partition planner and must exist in
// the analyzed query's tree; the rewriter assumes this and treats a mismatch
// as an invariant violation.
type VertexPartitionPlan struct {
	Path            []string
	PaginationField string
	PartitionCount  int
}

// PaginationPlan is an ordered collection of vertex partitions. The current
// rewriter supports zero or one; more than one is a recognized but
// unsupported shape.
type PaginationPlan struct {
	VertexPartitions []VertexPartitionPlan
}

// AdvisoryCode categorizes missed pagination opportunities.
type AdvisoryCode string

const (
	// AdvisoryNoPaginationKey: the vertex type has no configured
	// pagination key, so no split location could be chosen.
	AdvisoryNoPaginationKey AdvisoryCode = "NO_PAGINATION_KEY"

	// AdvisoryMissingClassCount: no row count is collected for the vertex
	// type, so its share of the result set could not be reasoned about.
	AdvisoryMissingClassCount AdvisoryCode = "MISSING_CLASS_COUNT"

	// AdvisoryMissingQuantiles: the pagination field has neither a
	// quantile sample nor a uuid4 uniform-distribution fallback.
	AdvisoryMissingQuantiles AdvisoryCode = "MISSING_QUANTILES"
)

// Advisory is an informational record describing a missed pagination
// opportunity. Advisories ride alongside results and never affect control
// flow; improving the named statistic makes future pagination better.
type Advisory struct {
	Code       AdvisoryCode `json:"code"`
	Message    string       `json:"message"`
	VertexType string       `json:"vertex_type,omitempty"`
	Field      string       `json:"field,omitempty"`
}

// Analysis is a query bundled with everything planning needs to know about
// it: the schema/statistics context and the externally estimated result
// cardinality. The cardinality is an opaque, possibly inaccurate input.
type Analysis struct {
	Query       queryast.Query
	Schema      *schemainfo.SchemaInfo
	Cardinality float64
}

// PartitionPlanner chooses which vertex and field to partition on. The
// pagination core consumes it only through its output; directives it returns
// must name paths and fields valid within the analyzed query.
type PartitionPlanner interface {
	PlanPartitions(analysis *Analysis, targetPageCount int) (PaginationPlan, []Advisory, error)
}

// Analyzer turns raw query text into an Analysis with a non-negative
// cardinality estimate. The estimator's internals are outside this core.
type Analyzer interface {
	Analyze(schema *schemainfo.SchemaInfo, queryText string, parameters map[string]any) (*Analysis, error)
}

// PageAndRemainder wraps a pagination result: the original query, the
// requested page size, the page query (equal to the original when no split
// occurred), and the remainder queries (empty when no split occurred; at
// most one element, since a single invocation performs one binary split).
type PageAndRemainder[Q any] struct {
	WholeQuery Q
	PageSize   int
	Page       Q
	Remainder  []Q
}

// TextQuery is a query in text form together with its parameter mapping.
type TextQuery struct {
	Text       string
	Parameters map[string]any
}
