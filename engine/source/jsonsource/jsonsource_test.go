package jsonsource_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/row"
	"github.com/omniql-engine/queryengine/engine/source/jsonsource"
	"github.com/omniql-engine/queryengine/engine/value"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func drain(t *testing.T, s interface {
	Next() (*row.Row, error, bool)
}) []*row.Row {
	t.Helper()
	var rows []*row.Row
	for {
		r, err, eof := s.Next()
		require.NoError(t, err)
		if eof {
			return rows
		}
		rows = append(rows, r)
	}
}

func TestJSONSourceDecodesScalars(t *testing.T) {
	path := writeTemp(t, `[
		{"name": "alice", "balance": 100, "active": true, "note": null},
		{"name": "bob", "balance": 12.5, "active": false, "note": "ok"}
	]`)

	s, err := jsonsource.Open(path)
	require.NoError(t, err)

	rows := drain(t, s)
	require.Len(t, rows, 2)

	assert.Equal(t, value.NewString("alice"), row.Eval(ast.NewColumn("name"), rows[0]))
	assert.Equal(t, value.NewInt(100), row.Eval(ast.NewColumn("balance"), rows[0]))
	assert.Equal(t, value.NewBool(true), row.Eval(ast.NewColumn("active"), rows[0]))
	assert.Equal(t, value.Null, row.Eval(ast.NewColumn("note"), rows[0]))

	assert.Equal(t, value.NewFloat(12.5), row.Eval(ast.NewColumn("balance"), rows[1]))
	assert.Equal(t, value.NewString("ok"), row.Eval(ast.NewColumn("note"), rows[1]))
}

func TestJSONSourceSkipsNonObjectElements(t *testing.T) {
	path := writeTemp(t, `[1, "skip", {"a": 1}]`)

	s, err := jsonsource.Open(path)
	require.NoError(t, err)

	rows := drain(t, s)
	require.Len(t, rows, 1)
	assert.Equal(t, value.NewInt(1), row.Eval(ast.NewColumn("a"), rows[0]))
}

func TestJSONSourceRejectsNonArrayTopLevel(t *testing.T) {
	path := writeTemp(t, `{"a": 1}`)

	_, err := jsonsource.Open(path)
	require.Error(t, err)
}

func TestJSONSourceMissingFile(t *testing.T) {
	_, err := jsonsource.Open(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
