// Package lexicon is the ingestion and query service of lexvec.
//
// A Service classifies tagged words, encodes them with a feature table and
// keeps the resulting records in a vector.Store:
//
//	db, _ := engine.Open("lexicon.db")
//	store, _ := vector.NewSQLiteStore(ctx, db, 7)
//	svc, _ := lexicon.New(store, nil)
//	_, _ = svc.Ingest(ctx, lexicon.Entry{Word: "cattle", Tag: "NNS"})
//	recs, _ := svc.Find(ctx, "cat")
//
// Reads go through a bounded LRU cache that writes invalidate.
package lexicon
