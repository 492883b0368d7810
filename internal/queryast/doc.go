// Package queryast defines the immutable tree representation of a graph
// query in the compiler dialect: field selections carrying @output and
// @filter directives, plus the named-parameter mapping the filters refer to.
//
// Selection and Value are sealed interfaces using the marker method pattern.
// Only types in this package implement them, which keeps type switches in
// the rewrite passes exhaustive and makes a new node kind a compile-time
// decision point instead of a runtime type check.
//
// Nothing in this package mutates a node after construction. Rewrites build
// new nodes along the touched path and share every untouched subtree, so a
// Query remains valid and usable after any number of rewrites and concurrent
// reads of shared subtrees need no synchronization.
package queryast
