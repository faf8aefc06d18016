package engine

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// filePragmas are applied to file databases: WAL lets readers run next to a
// writer, busy_timeout makes a connection wait for a lock instead of failing
// with SQLITE_BUSY, and immediate transactions take the write lock up front.
var filePragmas = []struct{ key, param string }{
	{key: "busy_timeout", param: "_pragma=busy_timeout(10000)"},
	{key: "journal_mode", param: "_pragma=journal_mode(WAL)"},
	{key: "_txlock", param: "_txlock=immediate"},
}

// Open opens a SQLite database using the modernc.org/sqlite driver after
// registering the lexvec SQL functions, so every pooled connection sees them.
//
// For file-based databases, pass a path like "./lexicon.db"; WAL mode and a
// busy timeout are added unless the DSN already sets them. For in-memory
// databases, pass ":memory:"; the pool is then pinned to one connection
// because each SQLite connection would otherwise get its own empty database.
func Open(dsn string) (*sql.DB, error) {
	if err := RegisterVectorFunctions(nil); err != nil {
		return nil, err
	}
	memory := isMemory(dsn)
	if !memory {
		dsn = WithPragmas(dsn)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// WithPragmas appends the file database settings to dsn, merging with an
// existing query string. Settings the DSN already names are left alone.
func WithPragmas(dsn string) string {
	for _, p := range filePragmas {
		if strings.Contains(dsn, p.key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.param
	}
	return dsn
}
