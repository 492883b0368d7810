// Package planner provides the built-in pagination collaborators: a
// partition planner that splits on the query's root vertex, and an analyzer
// that estimates cardinality from collected class counts.
//
// Both implement interfaces defined in the pagination package; callers with
// smarter planners or estimators plug in their own.
package planner

import (
	"fmt"

	"github.com/pagecut/pagecut/internal/gql"
	"github.com/pagecut/pagecut/internal/pagination"
	"github.com/pagecut/pagecut/internal/queryast"
	"github.com/pagecut/pagecut/internal/schemainfo"
)

// RootVertex plans pagination on the root vertex of the query using the
// vertex's configured pagination key. It never returns more than one vertex
// partition, and it declines - with an advisory naming what was missing -
// rather than failing when the schema or statistics cannot support a split.
type RootVertex struct{}

// PlanPartitions implements pagination.PartitionPlanner.
func (RootVertex) PlanPartitions(analysis *pagination.Analysis, targetPageCount int) (pagination.PaginationPlan, []pagination.Advisory, error) {
	var plan pagination.PaginationPlan
	var advisories []pagination.Advisory

	rootName, ok := rootVertexName(analysis.Query.Operation)
	if !ok {
		advisories = append(advisories, pagination.Advisory{
			Code:    pagination.AdvisoryNoPaginationKey,
			Message: "query has no root vertex field to paginate on",
		})
		return plan, advisories, nil
	}

	key, ok := analysis.Schema.PaginationKeys[rootName]
	if !ok {
		advisories = append(advisories, pagination.Advisory{
			Code:       pagination.AdvisoryNoPaginationKey,
			Message:    fmt.Sprintf("vertex type %q has no pagination key configured", rootName),
			VertexType: rootName,
		})
		return plan, advisories, nil
	}

	if _, ok := analysis.Schema.Statistics.ClassCount(rootName); !ok {
		advisories = append(advisories, pagination.Advisory{
			Code:       pagination.AdvisoryMissingClassCount,
			Message:    fmt.Sprintf("no row count collected for vertex type %q; the page size bound is unreliable", rootName),
			VertexType: rootName,
		})
	}

	if !fieldSupportsBoundaries(analysis.Schema, rootName, key) {
		advisories = append(advisories, pagination.Advisory{
			Code:       pagination.AdvisoryMissingQuantiles,
			Message:    fmt.Sprintf("field %q on vertex type %q has neither quantile statistics nor a uuid4 distribution", key, rootName),
			VertexType: rootName,
			Field:      key,
		})
		return plan, advisories, nil
	}

	plan.VertexPartitions = []pagination.VertexPartitionPlan{{
		Path:            []string{rootName},
		PaginationField: key,
		PartitionCount:  targetPageCount,
	}}
	return plan, advisories, nil
}

func rootVertexName(op queryast.Operation) (string, bool) {
	for _, sel := range op.Selections {
		if field, ok := sel.(queryast.Field); ok {
			return field.Name, true
		}
	}
	return "", false
}

func fieldSupportsBoundaries(schema *schemainfo.SchemaInfo, vertexType, fieldName string) bool {
	if sample, ok := schema.Statistics.FieldQuantiles(vertexType, fieldName); ok && len(sample) >= 101 {
		return true
	}
	return schema.IsUUID4Field(vertexType, fieldName)
}

// CountAnalyzer estimates a query's cardinality as the collected row count
// of its root vertex type. Filters are ignored, so the estimate is an upper
// bound; a vertex type without a collected count estimates to zero rows.
type CountAnalyzer struct{}

// Analyze implements pagination.Analyzer.
func (CountAnalyzer) Analyze(schema *schemainfo.SchemaInfo, queryText string, parameters map[string]any) (*pagination.Analysis, error) {
	op, err := gql.Parse(queryText)
	if err != nil {
		return nil, err
	}

	var cardinality float64
	if rootName, ok := rootVertexName(op); ok {
		if count, ok := schema.Statistics.ClassCount(rootName); ok {
			cardinality = float64(count)
		}
	}

	return &pagination.Analysis{
		Query: queryast.Query{
			Operation:  op,
			Parameters: parameters,
		},
		Schema:      schema,
		Cardinality: cardinality,
	}, nil
}
