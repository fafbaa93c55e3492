// Package query validates user supplied filters and executes them against an
// entity collection.
//
// Normalize turns raw (field, operator, value) triples into typed predicates
// and enforces the store's single inequality field rule. Indexed queries hand
// both predicate groups to the repository; Generic queries push only the
// equality predicates to the store and evaluate the rest in-process with
// Matches, which treats a missing attribute as a non-match.
package query
