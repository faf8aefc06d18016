// Package vector defines the lexeme record model and the Store API used by
// lexvec, together with its durable implementations. It includes:
//   - Record/Match model and Store interface
//   - SQLiteStore: lexemes table on modernc.org/sqlite, dot-product ranking
//     through the vec_dot SQL function
//   - BoltStore: bbolt bucket of JSON records ranked by a brute-force index
//   - Vector encoding (BLOB) with dimension checks
package vector
