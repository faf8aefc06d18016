package changelog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTable is the lexeme table written by vector.SQLiteStore.
	DefaultTable = "lexemes"

	// DefaultLogTable captures row-level change events.
	DefaultLogTable = "lexeme_log"
)

// LogTableDDL returns the DDL for the log table.
func LogTableDDL(logTable string) string {
	if logTable == "" {
		logTable = DefaultLogTable
	}
	return `CREATE TABLE IF NOT EXISTS ` + logTable + ` (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    op         TEXT NOT NULL,
    lexeme_key TEXT NOT NULL,
    payload    TEXT NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (CAST(strftime('%s','now') AS INTEGER))
);`
}

// SQLiteTriggers returns the trigger DDL statements required to capture
// inserts, updates, and deletes against table into logTable. The payload is
// serialized as JSON with a hex-encoded vector.
func SQLiteTriggers(table, logTable string) []string {
	cfg := Config{Table: table, LogTable: logTable}.withDefaults()
	base := sanitizeIdentifier(cfg.Table)
	payload := func(alias string) string {
		return fmt.Sprintf(`json_object(
        'key', %[1]s.key,
        'category', %[1]s.category,
        'particle_class', %[1]s.particle_class,
        'vector', lower(hex(%[1]s.vector)),
        'gloss', %[1]s.gloss
    )`, alias)
	}
	trigger := func(suffix, event, op, alias string) string {
		return fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s_%s AFTER %s ON %s
BEGIN
    INSERT INTO %s(op, lexeme_key, payload)
    VALUES ('%s', %s.key, %s);
END;`, base, suffix, event, cfg.Table, cfg.LogTable, op, alias, payload(alias))
	}
	return []string{
		trigger("ai", "INSERT", OpInsert, "NEW"),
		trigger("au", "UPDATE", OpUpdate, "NEW"),
		trigger("ad", "DELETE", OpDelete, "OLD"),
	}
}

// Install creates the log table and the triggers for cfg.
func Install(ctx context.Context, db *sql.DB, cfg Config) error {
	if db == nil {
		return fmt.Errorf("changelog: db is nil")
	}
	cfg = cfg.withDefaults()
	stmts := append([]string{LogTableDDL(cfg.LogTable)}, SQLiteTriggers(cfg.Table, cfg.LogTable)...)
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("changelog: install on %s: %w", cfg.Table, err)
		}
	}
	return nil
}

// Read returns up to limit entries with a sequence number greater than
// afterSeq, oldest first. A limit of zero or less returns every remaining
// entry.
func Read(ctx context.Context, db *sql.DB, logTable string, afterSeq int64, limit int) ([]Entry, error) {
	if db == nil {
		return nil, fmt.Errorf("changelog: db is nil")
	}
	if logTable == "" {
		logTable = DefaultLogTable
	}
	q := fmt.Sprintf(`SELECT seq, op, lexeme_key, payload, created_at FROM %s WHERE seq > ? ORDER BY seq`, logTable)
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = db.QueryContext(ctx, q+" LIMIT ?", afterSeq, limit)
	} else {
		rows, err = db.QueryContext(ctx, q, afterSeq)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			payload string
			created int64
		)
		if err := rows.Scan(&e.Seq, &e.Op, &e.Key, &payload, &created); err != nil {
			return nil, err
		}
		e.Payload = []byte(payload)
		e.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func sanitizeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return replacer.Replace(name)
}
