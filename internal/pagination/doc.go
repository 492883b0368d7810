// Package pagination rewrites a query whose estimated result set is large
// into a bounded "page" query plus a "remainder" query whose combined result
// sets reconstruct the original exactly.
//
// The pipeline: EstimatePageCount decides how many pages the result set
// needs; a PartitionPlanner collaborator picks where to split (zero or one
// vertex partition; more than one is a recognized but unsupported shape);
// GenerateBoundaries produces the boundary values that cut the pagination
// field's value domain into roughly equal parts; SplitQuery injects the
// half-open range filter pair ("<" for the page, ">=" for the remainder) at
// the planned vertex. Paginate composes all of it.
//
// Everything here is pure and synchronous: inputs are never mutated, every
// rewrite returns a new Query, and no call retries anything - a failed
// operation would fail identically on retry.
package pagination
