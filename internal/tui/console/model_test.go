package console

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/dashscript/pkg/dashscript"
)

const emptyDoc = "<dashboard></dashboard>"

func newModel(t *testing.T, script string, commit CommitFunc) Model {
	t.Helper()
	engine, err := dashscript.New(dashscript.Options{})
	require.NoError(t, err)
	return New(Config{Engine: engine, Doc: emptyDoc, Script: script, Commit: commit})
}

func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(key)
	return next.(Model)
}

var (
	ctrlR = tea.KeyMsg{Type: tea.KeyCtrlR}
	ctrlP = tea.KeyMsg{Type: tea.KeyCtrlP}
	ctrlL = tea.KeyMsg{Type: tea.KeyCtrlL}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestPreviewKeepsDocument(t *testing.T) {
	m := newModel(t, `addGroup({"id":"g"})`, nil)
	m = press(t, m, ctrlP)

	assert.Equal(t, emptyDoc, m.Doc())
	require.Len(t, m.output, 1)
	assert.True(t, m.output[0].ok)
	assert.Equal(t, "L1: group 'g' created", m.output[0].text)
	assert.Contains(t, m.status, "preview")
	assert.Contains(t, m.preview, `<group id="g"`)
}

func TestExecuteReplacesDocumentAndCommits(t *testing.T) {
	var saved string
	m := newModel(t, `addGroup({"id":"g"})`, func(code, script string, diags []dashscript.Diagnostic) error {
		saved = code
		assert.Equal(t, `addGroup({"id":"g"})`, script)
		assert.Len(t, diags, 1)
		return nil
	})
	m = press(t, m, ctrlR)

	assert.Contains(t, m.Doc(), `<group id="g"`)
	assert.Equal(t, m.Doc(), saved)
	assert.Contains(t, m.status, "saved")
}

func TestExecuteCommitFailureKeepsDocument(t *testing.T) {
	m := newModel(t, `addGroup({"id":"g"})`, func(string, string, []dashscript.Diagnostic) error {
		return errors.New("disk full")
	})
	m = press(t, m, ctrlR)

	assert.Equal(t, emptyDoc, m.Doc())
	assert.Equal(t, "save failed: disk full", m.output[len(m.output)-1].text)
}

func TestCompileErrorsRunNothing(t *testing.T) {
	m := newModel(t, "addGroup({\"id\":\"g\"});\nnope()", nil)
	m = press(t, m, ctrlR)

	assert.Equal(t, emptyDoc, m.Doc())
	require.Len(t, m.output, 1)
	assert.False(t, m.output[0].ok)
	assert.Contains(t, m.output[0].text, "L2: ")
	assert.Contains(t, m.status, "nothing was run")
}

func TestClearAndToggleView(t *testing.T) {
	m := newModel(t, `addGroup({"id":"g"})`, nil)
	m = press(t, m, ctrlR)
	m = press(t, m, tab)
	assert.Equal(t, ViewDocument, m.view)
	assert.Contains(t, m.panelContent(), `<group id="g"`)

	m = press(t, m, tab)
	assert.Equal(t, ViewOutput, m.view)

	m = press(t, m, ctrlL)
	assert.Empty(t, m.textarea.Value())
	assert.Empty(t, m.output)
	assert.Contains(t, m.View(), "no output yet")
}

func TestWindowResize(t *testing.T) {
	m := newModel(t, "", nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	assert.True(t, m.ready)
	assert.Equal(t, 96, m.viewport.Width)
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, LightTheme, ThemeByName("light"))
	assert.Equal(t, DarkTheme, ThemeByName("dark"))
	assert.Equal(t, DarkTheme, ThemeByName(""))
}

func TestRunRequiresEngine(t *testing.T) {
	doc, err := Run(Config{Doc: emptyDoc})
	assert.Error(t, err)
	assert.Equal(t, emptyDoc, doc)
}
