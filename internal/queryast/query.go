package queryast

// Query pairs an operation tree with the literal values of the parameters
// its filters reference. Parameter names are unique within a Query.
//
// A Query's parameter map contains exactly the names referenced by the
// filters remaining in its own tree: rewrites that remove a filter drop its
// parameter and rewrites that add a filter add one. Queries are never
// mutated in place; every rewrite returns a new Query value.
type Query struct {
	Operation  Operation
	Parameters map[string]any
}

// CloneParameters returns a shallow copy of the parameter map. Rewrites use
// this so the original Query's map is never written through.
func (q Query) CloneParameters() map[string]any {
	params := make(map[string]any, len(q.Parameters))
	for name, value := range q.Parameters {
		params[name] = value
	}
	return params
}
