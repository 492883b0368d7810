// Package gql is the text boundary of the rewriter: it parses GraphQL query
// text into the immutable queryast representation and prints it back.
//
// Parsing is delegated to github.com/vektah/gqlparser/v2. Printing is done
// by a small deterministic printer of our own, because golden tests and
// callers diffing rewritten queries need byte-stable output in the compiler
// dialect's canonical shape, which a third-party formatter does not pin.
package gql
