// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     console
// Description: Bubbletea model of the interactive command console
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package console is an interactive editor for command scripts. Preview runs
// the script against the current document and shows the diagnostics;
// Execute does the same and then adopts the result as the new document.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/dashscript/pkg/dashscript"
)

// CommitFunc persists an executed script. A returned error is shown in the
// output and the document is not replaced.
type CommitFunc func(code, script string, diags []dashscript.Diagnostic) error

// Config holds console configuration
type Config struct {
	Engine *dashscript.Engine
	// Doc is the document the console starts on
	Doc string
	// Script prefills the editor
	Script string
	Theme  string
	// Commit is called on Execute; nil keeps results in memory only
	Commit CommitFunc
}

// View selects what the lower panel shows
type View int

const (
	ViewOutput View = iota
	ViewDocument
)

type logLine struct {
	ok   bool
	text string
}

// Model is the Bubbletea model of the console
type Model struct {
	width  int
	height int
	ready  bool

	textarea textarea.Model
	viewport viewport.Model
	styles   styles

	engine  *dashscript.Engine
	commit  CommitFunc
	doc     string
	preview string
	view    View
	output  []logLine
	status  string
}

// New creates a console model
func New(cfg Config) Model {
	ta := textarea.New()
	ta.Placeholder = "addGroup({\"id\": \"grp_kpis\"}); addKPI(id: kpi_receita; title: Receita)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(12)
	ta.ShowLineNumbers = true
	ta.SetValue(cfg.Script)

	return Model{
		textarea: ta,
		viewport: viewport.New(80, 8),
		styles:   newStyles(ThemeByName(cfg.Theme)),
		engine:   cfg.Engine,
		commit:   cfg.Commit,
		doc:      cfg.Doc,
		status:   "ready",
	}
}

// Doc returns the current document
func (m Model) Doc() string { return m.doc }

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.run(true)
			return m, nil
		case "ctrl+p":
			m.run(false)
			return m, nil
		case "ctrl+l":
			m.textarea.Reset()
			m.output = nil
			m.status = "cleared"
			m.refresh()
			return m, nil
		case "tab":
			if m.view == ViewOutput {
				m.view = ViewDocument
			} else {
				m.view = ViewOutput
			}
			m.refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		editorHeight := (msg.Height - headerHeight - footerHeight) / 2
		panelHeight := msg.Height - headerHeight - footerHeight - editorHeight - 4

		m.textarea.SetWidth(msg.Width - 4)
		m.textarea.SetHeight(max(editorHeight, 3))
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, max(panelHeight, 3))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = max(panelHeight, 3)
		}
		m.refresh()
	}

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// run compiles the editor text and runs it against the document. With apply
// set the result replaces the document after a successful commit.
func (m *Model) run(apply bool) {
	script := m.textarea.Value()
	m.output = nil

	prog := m.engine.Parse(script)
	if !prog.OK() {
		for _, e := range prog.Errors {
			m.output = append(m.output, logLine{text: fmt.Sprintf("L%d: %s", e.Line, e.Message)})
		}
		m.status = fmt.Sprintf("%d compile error(s); nothing was run", len(prog.Errors))
		m.refresh()
		return
	}

	res, err := m.engine.Run(m.doc, prog.Commands)
	for _, d := range res.Diagnostics {
		text := d.Message
		if d.Line > 0 {
			text = fmt.Sprintf("L%d: %s", d.Line, d.Message)
		}
		m.output = append(m.output, logLine{ok: d.OK, text: text})
	}
	if err != nil {
		m.output = append(m.output, logLine{text: err.Error()})
		m.status = "run aborted"
		m.refresh()
		return
	}
	m.preview = res.NextCode

	switch {
	case !apply:
		m.status = fmt.Sprintf("preview: %d command(s), %d failed", len(res.Diagnostics), res.Failed())
	case m.commit != nil:
		if err := m.commit(res.NextCode, script, res.Diagnostics); err != nil {
			m.output = append(m.output, logLine{text: "save failed: " + err.Error()})
			m.status = "execute failed"
			break
		}
		m.doc = res.NextCode
		m.status = fmt.Sprintf("executed and saved: %d command(s), %d failed", len(res.Diagnostics), res.Failed())
	default:
		m.doc = res.NextCode
		m.status = fmt.Sprintf("executed: %d command(s), %d failed", len(res.Diagnostics), res.Failed())
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.panelContent())
	m.viewport.GotoTop()
}

func (m Model) panelContent() string {
	if m.view == ViewDocument {
		if m.preview != "" {
			return m.preview
		}
		return m.doc
	}
	if len(m.output) == 0 {
		return m.styles.help.Render("no output yet")
	}
	var b strings.Builder
	for _, l := range m.output {
		if l.ok {
			b.WriteString(m.styles.ok.Render("✓ " + l.text))
		} else {
			b.WriteString(m.styles.err.Render("✗ " + l.text))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// View renders the console
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("dashscript console"))
	b.WriteString("  ")
	b.WriteString(m.styles.subtitle.Render("addGroup() addKPI() addChart() updateWidget() deleteWidget() ..."))
	b.WriteString("\n\n")
	b.WriteString(m.styles.editor.Render(m.textarea.View()))
	b.WriteByte('\n')

	label := "output"
	if m.view == ViewDocument {
		label = "document"
	}
	b.WriteString(m.styles.panel.Render(m.styles.help.Render(label) + "\n" + m.viewport.View()))
	b.WriteByte('\n')
	b.WriteString(m.styles.status.Render(m.status))
	b.WriteString("  ")
	b.WriteString(m.styles.help.Render("ctrl+r execute • ctrl+p preview • ctrl+l clear • tab output/document • esc quit"))
	return b.String()
}
