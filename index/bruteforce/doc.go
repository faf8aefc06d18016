// Package bruteforce provides a simple vector index that answers top-n
// queries by scanning all vectors and scoring each by dot product. Equal
// scores are ordered by id so results are deterministic.
package bruteforce
