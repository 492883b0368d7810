package pagination

import (
	"fmt"
	"iter"

	"github.com/pagecut/pagecut/internal/gql"
	"github.com/pagecut/pagecut/internal/queryast"
	"github.com/pagecut/pagecut/internal/schemainfo"
)

// Paginator composes the pagination pipeline with its collaborators: the
// partition planner, and (for the text entry point) the query analyzer.
type Paginator struct {
	Planner  PartitionPlanner
	Analyzer Analyzer
}

// Paginate rewrites the analyzed query into a page of roughly pageSize rows
// plus a remainder covering everything else. When no split is needed or
// possible the page query is the original query and the remainder is empty.
//
// The cost estimate may be off in either direction, so expect the actual
// page to be within an order of magnitude of pageSize, not exact.
//
// Failure modes: ErrCodeInvalidPageSize for pageSize < 1,
// ErrCodeNegativeCardinality for a broken estimate, ErrCodeUnsupportedPlan
// when the planner returns more than one vertex partition (no partial result
// is produced), and ErrCodeInvariantViolation when the plan does not match
// the query tree.
func (p *Paginator) Paginate(analysis *Analysis, pageSize int) (PageAndRemainder[queryast.Query], []Advisory, error) {
	var zero PageAndRemainder[queryast.Query]

	if pageSize < 1 {
		return zero, nil, &Error{
			Code:    ErrCodeInvalidPageSize,
			Message: fmt.Sprintf("cannot paginate with page size lower than 1: %d", pageSize),
		}
	}

	numPages, err := EstimatePageCount(analysis.Cardinality, pageSize)
	if err != nil {
		return zero, nil, err
	}

	// Until proven otherwise the query fits in one page.
	result := PageAndRemainder[queryast.Query]{
		WholeQuery: analysis.Query,
		PageSize:   pageSize,
		Page:       analysis.Query,
	}
	if numPages <= 1 {
		return result, nil, nil
	}

	plan, advisories, err := p.Planner.PlanPartitions(analysis, numPages)
	if err != nil {
		return zero, nil, fmt.Errorf("partition planning: %w", err)
	}

	switch len(plan.VertexPartitions) {
	case 0:
		// Planner declined; the query stays whole.
		return result, advisories, nil
	case 1:
		partition := plan.VertexPartitions[0]
		boundary, ok := firstBoundary(GenerateBoundaries(analysis.Schema, partition))
		if !ok {
			return result, advisories, nil
		}
		page, remainder, err := SplitQuery(analysis.Query, partition, boundary)
		if err != nil {
			return zero, nil, err
		}
		result.Page = page
		result.Remainder = []queryast.Query{remainder}
		return result, advisories, nil
	default:
		return zero, nil, &Error{
			Code: ErrCodeUnsupportedPlan,
			Message: fmt.Sprintf(
				"only pagination plans with one vertex partition are supported, received %d",
				len(plan.VertexPartitions)),
		}
	}
}

// PaginateText is the text companion of Paginate: it analyzes raw query
// text, paginates the result, and serializes both output queries back to
// text with their parameter mappings unchanged.
func (p *Paginator) PaginateText(schema *schemainfo.SchemaInfo, query TextQuery, pageSize int) (PageAndRemainder[TextQuery], []Advisory, error) {
	var zero PageAndRemainder[TextQuery]

	if p.Analyzer == nil {
		return zero, nil, &Error{
			Code:    ErrCodeInvariantViolation,
			Message: "PaginateText requires an Analyzer",
		}
	}

	analysis, err := p.Analyzer.Analyze(schema, query.Text, query.Parameters)
	if err != nil {
		return zero, nil, fmt.Errorf("analyze query: %w", err)
	}

	astResult, advisories, err := p.Paginate(analysis, pageSize)
	if err != nil {
		return zero, nil, err
	}

	textResult := PageAndRemainder[TextQuery]{
		WholeQuery: query,
		PageSize:   pageSize,
		Page: TextQuery{
			Text:       gql.Print(astResult.Page.Operation),
			Parameters: astResult.Page.Parameters,
		},
	}
	for _, remainder := range astResult.Remainder {
		textResult.Remainder = append(textResult.Remainder, TextQuery{
			Text:       gql.Print(remainder.Operation),
			Parameters: remainder.Parameters,
		})
	}
	return textResult, advisories, nil
}

// firstBoundary consumes only the first value of a boundary sequence. A
// single invocation performs one binary split; callers paginate further by
// re-invoking on the remainder.
func firstBoundary(boundaries iter.Seq[any]) (any, bool) {
	for boundary := range boundaries {
		return boundary, true
	}
	return nil, false
}
