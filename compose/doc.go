// Package compose combines lexeme vectors: Disambiguate adjusts a sequence
// in context and Aggregate folds a sequence into a single gist vector.
package compose
