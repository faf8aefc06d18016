package changelog

import "time"

// Operation names recorded in the log.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Entry mirrors a single row of the log table.
type Entry struct {
	Seq       int64
	Op        string
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

// Config names the tables the triggers connect.
type Config struct {
	// Table is the logged table, normally "lexemes".
	Table string

	// LogTable receives the entries. Defaults to DefaultLogTable.
	LogTable string
}

func (c Config) withDefaults() Config {
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if c.LogTable == "" {
		c.LogTable = DefaultLogTable
	}
	return c
}
