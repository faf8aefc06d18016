package index

// Index defines a generic vector index with basic lifecycle methods.
// It enables building from (id, vector) pairs and top-n queries.
type Index interface {
	// Build constructs the index from the given ids and vectors.
	// ids and vectors must have the same length; vectors must be non-nil.
	Build(ids []string, vectors [][]float32) error

	// Query ranks the indexed vectors against query and returns up to k
	// matches as parallel slices of ids and scores, where higher score means
	// more similar. A k of zero or less returns every match.
	Query(query []float32, k int) (ids []string, scores []float64, err error)

	// Dimension returns the vector length the index was built with, or 0
	// for an empty index.
	Dimension() int
}
