package lexicon

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/viant/lexvec/snapshot"
)

// Export writes every record, ordered by key, to w.
func (s *Service) Export(ctx context.Context, w io.Writer, format snapshot.Format) (int, error) {
	recs, err := s.store.ScanAll(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "export")
	}
	if err := snapshot.Write(w, format, recs); err != nil {
		return 0, errors.Wrap(err, "export")
	}
	return len(recs), nil
}

// Import reads a snapshot from r and upserts its records in one
// transaction. The snapshot is validated as a whole first; an invalid
// record imports nothing. Existing records not in the snapshot are kept.
func (s *Service) Import(ctx context.Context, r io.Reader, format snapshot.Format) (int, error) {
	recs, err := snapshot.Read(r, format, s.store.Dimension())
	if err != nil {
		return 0, errors.Wrap(err, "import")
	}
	if err := s.putAll(ctx, recs); err != nil {
		return 0, errors.Wrap(err, "import")
	}
	s.logger.LogBatch(ctx, len(recs), 0, true)
	return len(recs), nil
}
