// Package changelog maintains an append-only log of writes to the lexemes
// table. Triggers installed on the table record every insert, update and
// delete together with a JSON snapshot of the row (vector hex-encoded), and
// Read pages through the log by sequence number so downstream tools can
// replay or audit lexicon edits.
package changelog
