package dashscript

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	mdwlog "github.com/msto63/dashscript/foundation/core/log"
)

func TestParseAndRun(t *testing.T) {
	prog := ParseCommands(`addGroup({"id":"g"}); addKPI(id: k; title: Receita)`)
	require.Empty(t, prog.Errors)

	res, err := RunCommands("<dashboard></dashboard>", prog.Commands)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Contains(t, res.NextCode, `<kpi id="k"`)
	assert.Len(t, res.Diagnostics, 2)
}

func TestIsDsl(t *testing.T) {
	assert.True(t, IsDsl("  <dashboard>"))
	assert.False(t, IsDsl(""))
	assert.False(t, IsDsl(`{"widgets":[]}`))
}

func TestEngineApplyRefusesCompileErrors(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)

	doc := "<dashboard></dashboard>"
	res, prog, err := e.Apply(doc, "addGroup({\"id\":\"g\"});\nnope()")
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeUnknownCommand))
	assert.Equal(t, doc, res.NextCode)
	assert.Empty(t, res.Diagnostics)
	require.Len(t, prog.Errors, 1)
	assert.Equal(t, 2, prog.Errors[0].Line)
}

func TestEngineLogsSummaries(t *testing.T) {
	var buf bytes.Buffer
	log := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatJSON, Output: &buf})
	e, err := New(Options{Logger: log})
	require.NoError(t, err)

	res, _, err := e.Apply("<dashboard></dashboard>", `addGroup({"id":"g"})`)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Contains(t, buf.String(), `"operation":"compile"`)
	assert.Contains(t, buf.String(), `"operation":"run"`)
}

func TestEngineCachesPrograms(t *testing.T) {
	e, err := New(Options{CacheSize: 8})
	require.NoError(t, err)

	script := `addGroup({"id":"g"})`
	first := e.Parse(script)
	second := e.Parse(script)
	assert.Equal(t, first, second)
	e.Parse("nope()")

	hits, misses := e.CacheStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)

	plain, err := New(Options{})
	require.NoError(t, err)
	plain.Parse(script)
	hits, misses = plain.CacheStats()
	assert.Zero(t, hits+misses)
}
