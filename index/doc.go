// Package index defines a minimal abstraction for vector indexes that can be
// built from vectors and queried for the top-n matches. Implementations in
// this module include a brute-force dot-product baseline.
package index
