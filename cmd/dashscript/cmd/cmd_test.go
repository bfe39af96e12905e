package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
)

const board = "<dashboard>\n</dashboard>\n"

// setupEnv points the CLI at a config whose store lives in a temp dir
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "dashscript.toml")
	body := fmt.Sprintf("[log]\nlevel = \"error\"\n\n[store]\npath = %q\n", filepath.Join(dir, "store.db"))
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o644))
	t.Setenv("DASHSCRIPT_CONFIG", cfg)
	t.Setenv("NO_COLOR", "1")
	return dir
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dashscript 1.0.0"), out)
}

func TestCompileFormats(t *testing.T) {
	setupEnv(t)
	script := `addGroup({"id":"g","title":"KPIs"})`

	out, _, err := execute(t, script, "compile", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "addGroup"`)
	assert.Contains(t, out, `"id": "g"`)

	out, _, err = execute(t, script, "compile", "--format", "yaml", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: addGroup")

	out, _, err = execute(t, script, "compile", "-f", "msgpack", "-")
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, msgpack.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "addGroup", decoded[0]["kind"])
}

func TestCompileErrorsAreReported(t *testing.T) {
	setupEnv(t)
	out, errOut, err := execute(t, "nope()", "compile", "-")
	assert.ErrorIs(t, err, errReported)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "DSL_UNKNOWN_COMMAND")
	assert.Contains(t, errOut, "nothing was applied")
}

func TestCompileUnknownFormat(t *testing.T) {
	setupEnv(t)
	_, _, err := execute(t, `addGroup({"id":"g"})`, "compile", "--format", "xml", "-")
	require.Error(t, err)
	assert.Equal(t, mdwerror.CodeInvalidInput, mdwerror.GetCode(err))
}

func TestApplyDocFile(t *testing.T) {
	dir := setupEnv(t)
	doc := writeTemp(t, dir, "board.xml", board)
	script := writeTemp(t, dir, "edit.ds", `addGroup({"id":"g"})`)

	out, errOut, err := execute(t, "", "apply", "--doc", doc, "--dry-run", script)
	require.NoError(t, err)
	assert.Contains(t, out, `<group id="g"`)
	assert.Contains(t, errOut, "group 'g' created")
	unchanged, _ := os.ReadFile(doc)
	assert.Equal(t, board, string(unchanged))

	target := filepath.Join(dir, "out.xml")
	_, _, err = execute(t, "", "apply", "--doc", doc, "--out", target, script)
	require.NoError(t, err)
	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), `<group id="g"`)

	_, _, err = execute(t, "", "apply", "--doc", doc, script)
	require.NoError(t, err)
	inPlace, _ := os.ReadFile(doc)
	assert.Contains(t, string(inPlace), `<group id="g"`)
}

func TestApplyCompileErrorLeavesDocument(t *testing.T) {
	dir := setupEnv(t)
	doc := writeTemp(t, dir, "board.xml", board)
	script := writeTemp(t, dir, "edit.ds", "addGroup({\"id\":\"g\"})\nnope()")

	_, errOut, err := execute(t, "", "apply", "--doc", doc, script)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "edit.ds:2:")
	unchanged, _ := os.ReadFile(doc)
	assert.Equal(t, board, string(unchanged))
}

func TestApplyRequiresTarget(t *testing.T) {
	dir := setupEnv(t)
	script := writeTemp(t, dir, "edit.ds", `addGroup({"id":"g"})`)
	_, _, err := execute(t, "", "apply", script)
	assert.Error(t, err)
}

func TestStoreWorkflow(t *testing.T) {
	dir := setupEnv(t)
	doc := writeTemp(t, dir, "board.xml", board)
	first := writeTemp(t, dir, "one.ds", `addGroup({"id":"g1"})`)
	second := writeTemp(t, dir, "two.ds", `addGroup({"id":"g2"})`)

	out, _, err := execute(t, "", "create", "--title", "Sales", doc)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	_, errOut, err := execute(t, "", "apply", "--store", id, first)
	require.NoError(t, err)
	assert.Contains(t, errOut, "at revision 2")

	_, errOut, err = execute(t, "", "apply", "--store", id, second)
	require.NoError(t, err)
	assert.Contains(t, errOut, "at revision 3")

	out, _, err = execute(t, "", "history", id)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "3 "), lines[1])
	assert.Contains(t, lines[1], `addGroup({"id":"g2"})`)
	assert.Contains(t, lines[3], "(initial)")

	out, _, err = execute(t, "", "history", "undo", id)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("document %s at revision 2\n", id), out)

	_, _, err = execute(t, "", "history", "missing-id")
	require.Error(t, err)
	assert.Equal(t, mdwerror.CodeNotFound, mdwerror.GetCode(err))
}

func TestWatchOnce(t *testing.T) {
	dir := setupEnv(t)
	doc := writeTemp(t, dir, "board.xml", board)
	script := writeTemp(t, dir, "edit.ds", `addGroup({"id":"g"})`)

	_, _, err := execute(t, "", "version")
	require.NoError(t, err)
	watchDoc = doc

	var errOut bytes.Buffer
	rootCmd.SetErr(&errOut)
	engine, err := newEngine()
	require.NoError(t, err)

	require.NoError(t, watchOnce(rootCmd, engine, script, doc))
	written, _ := os.ReadFile(doc)
	assert.Contains(t, string(written), `<group id="g"`)

	require.NoError(t, os.WriteFile(script, []byte("nope()"), 0o644))
	require.NoError(t, watchOnce(rootCmd, engine, script, doc))
	assert.Contains(t, errOut.String(), "DSL_UNKNOWN_COMMAND")
	again, _ := os.ReadFile(doc)
	assert.Equal(t, string(written), string(again))
}

func TestInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "bad.toml", "[log]\nlevel = \"loud\"\n")
	_, _, err := execute(t, "", "--config", cfg, "version")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errReported))
	assert.Equal(t, mdwerror.CodeConfig, mdwerror.GetCode(err))
}
