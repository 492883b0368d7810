package pagination

import (
	"fmt"

	"github.com/pagecut/pagecut/internal/queryast"
)

// boundaryParamBase is the base of generated boundary parameter names. The
// first free name of the form __paged_param_N (N starting at 0) is used.
const boundaryParamBase = "__paged_param"

// Comparators of the half-open range split.
const (
	pageComparator      = "<"
	remainderComparator = ">="
)

// SplitQuery rewrites q into a (page, remainder) pair split at the boundary
// value: the page query restricts the planned vertex's pagination field with
// "field < boundary" and the remainder with "field >= boundary". Both
// filters share one freshly generated parameter name, each query carrying
// its own mapping entry for it.
//
// Only nodes on the path from the root to the planned vertex are rebuilt;
// sibling subtrees are shared with the input. Existing filters on the
// pagination field with the same comparator are removed, and each branch
// prunes the parameters of its own removed filters independently.
//
// A path that does not match the query tree is an invariant violation: the
// plan and the query disagree, which is a planner bug, not a recoverable
// condition.
func SplitQuery(q queryast.Query, plan VertexPartitionPlan, boundary any) (queryast.Query, queryast.Query, error) {
	paramName := freshParamName(boundaryParamBase, q.Parameters)

	page, err := splitBranch(q, plan, queryast.NewBinaryFilter(pageComparator, paramName), paramName, boundary)
	if err != nil {
		return queryast.Query{}, queryast.Query{}, err
	}
	remainder, err := splitBranch(q, plan, queryast.NewBinaryFilter(remainderComparator, paramName), paramName, boundary)
	if err != nil {
		return queryast.Query{}, queryast.Query{}, err
	}
	return page, remainder, nil
}

func splitBranch(q queryast.Query, plan VertexPartitionPlan, filter queryast.Directive, paramName string, boundary any) (queryast.Query, error) {
	selections, removed, err := addPaginationFilter(q.Operation.Selections, plan.Path, plan.PaginationField, filter)
	if err != nil {
		return queryast.Query{}, err
	}

	params := q.CloneParameters()
	for _, name := range removed {
		delete(params, name)
	}
	params[paramName] = boundary

	return queryast.Query{
		Operation:  queryast.Operation{Selections: selections},
		Parameters: params,
	}, nil
}

// addPaginationFilter descends along path and injects the filter directive
// on the pagination field of the vertex at the path's end. It returns the
// rebuilt selection list and the parameter names of any same-comparator
// filters it removed.
func addPaginationFilter(selections []queryast.Selection, path []string, paginationField string, filter queryast.Directive) ([]queryast.Selection, []string, error) {
	if len(path) == 0 {
		return injectFieldFilter(selections, paginationField, filter)
	}

	found := false
	var removed []string
	newSelections := make([]queryast.Selection, len(selections))
	for i, sel := range selections {
		newSelections[i] = sel
		if queryast.SelectionName(sel) != path[0] {
			continue
		}
		found = true
		children, subRemoved, err := addPaginationFilter(queryast.ChildSelections(sel), path[1:], paginationField, filter)
		if err != nil {
			return nil, nil, err
		}
		newSelections[i] = queryast.WithSelections(sel, children)
		removed = append(removed, subRemoved...)
	}
	if !found {
		return nil, nil, &Error{
			Code:    ErrCodeInvariantViolation,
			Message: fmt.Sprintf("partition path segment %q not found in query", path[0]),
			Path:    path,
			Field:   paginationField,
		}
	}
	return newSelections, removed, nil
}

// injectFieldFilter rewrites the target vertex's direct selections: the
// filter lands on the selection of paginationField, displacing any existing
// filter with the same comparator. If the field is not selected at all, a
// new output-less selection is prepended purely to carry the filter.
func injectFieldFilter(selections []queryast.Selection, paginationField string, filter queryast.Directive) ([]queryast.Selection, []string, error) {
	filterOp, err := queryast.FilterOperation(filter)
	if err != nil {
		return nil, nil, &Error{Code: ErrCodeInvariantViolation, Message: err.Error(), Field: paginationField}
	}

	found := false
	var removed []string
	newSelections := make([]queryast.Selection, len(selections))
	for i, sel := range selections {
		newSelections[i] = sel
		if queryast.SelectionName(sel) != paginationField {
			continue
		}
		found = true

		var directives []queryast.Directive
		for _, d := range queryast.SelectionDirectives(sel) {
			if !d.IsFilter() {
				directives = append(directives, d)
				continue
			}
			op, err := queryast.FilterOperation(d)
			if err != nil {
				return nil, nil, &Error{Code: ErrCodeInvariantViolation, Message: err.Error(), Field: paginationField}
			}
			if op != filterOp {
				directives = append(directives, d)
				continue
			}
			param, err := queryast.FilterParameter(d)
			if err != nil {
				return nil, nil, &Error{Code: ErrCodeInvariantViolation, Message: err.Error(), Field: paginationField}
			}
			removed = append(removed, param)
		}
		directives = append(directives, filter)
		newSelections[i] = queryast.WithDirectives(sel, directives)
	}
	if !found {
		carrier := queryast.Field{
			Name:       paginationField,
			Directives: []queryast.Directive{filter},
		}
		newSelections = append([]queryast.Selection{carrier}, newSelections...)
	}
	return newSelections, removed, nil
}

// freshParamName returns the first name of the form base_N (N = 0, 1, ...)
// not present in taken.
func freshParamName(base string, taken map[string]any) string {
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s_%d", base, i)
		if _, exists := taken[name]; !exists {
			return name
		}
	}
}
