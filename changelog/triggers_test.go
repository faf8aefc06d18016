package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteTriggers(t *testing.T) {
	trigs := SQLiteTriggers("lexemes", "")
	require.Len(t, trigs, 3)

	assert.True(t, strings.HasPrefix(trigs[0], "CREATE TRIGGER IF NOT EXISTS lexemes_ai AFTER INSERT ON lexemes"), trigs[0])
	assert.Contains(t, trigs[0], "INSERT INTO lexeme_log(op, lexeme_key, payload)")
	assert.Contains(t, trigs[1], "'update'")
	assert.Contains(t, trigs[2], "OLD.key")
	assert.Contains(t, trigs[0], "lower(hex(NEW.vector))")
}

func TestSQLiteTriggers_CustomNames(t *testing.T) {
	trigs := SQLiteTriggers("lex-archive", "archive_log")
	require.Len(t, trigs, 3)
	assert.Contains(t, trigs[0], "lex_archive_ai")
	assert.Contains(t, trigs[0], "INSERT INTO archive_log")
}

func TestLogTableDDL(t *testing.T) {
	assert.Contains(t, LogTableDDL(""), "CREATE TABLE IF NOT EXISTS lexeme_log")
	assert.Contains(t, LogTableDDL("audit"), "CREATE TABLE IF NOT EXISTS audit")
}
