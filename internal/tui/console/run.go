package console

import (
	tea "github.com/charmbracelet/bubbletea"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
)

// Run starts the console on the alternate screen and returns the document
// as it stands when the user quits
func Run(cfg Config, opts ...tea.ProgramOption) (string, error) {
	if cfg.Engine == nil {
		return cfg.Doc, mdwerror.New("console requires an engine").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("console.Run")
	}
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(New(cfg), opts...).Run()
	if err != nil {
		return cfg.Doc, mdwerror.Wrap(err, "console failed").WithOperation("console.Run")
	}
	return final.(Model).Doc(), nil
}
