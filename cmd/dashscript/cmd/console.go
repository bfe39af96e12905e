package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/docstore"
	"github.com/msto63/dashscript/internal/tui/console"
	"github.com/msto63/dashscript/pkg/dashscript"
)

var (
	consoleDoc    string
	consoleStore  string
	consoleScript string
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Starts the interactive editor",
	Long: `Starts an interactive editor for scripts.

The document comes from --doc (a file, written back on execute) or
--store (a stored document, saved as a new revision on execute). Without
either the console starts on an empty dashboard and keeps results in memory.

Keys:
  Ctrl+R  - Execute and keep the result
  Ctrl+P  - Preview without changing the document
  Tab     - Switch between output and document
  Ctrl+L  - Clear
  Esc     - Quit`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().StringVar(&consoleDoc, "doc", "", "document file")
	consoleCmd.Flags().StringVar(&consoleStore, "store", "", "id of a stored document")
	consoleCmd.Flags().StringVar(&consoleScript, "script", "", "script file to prefill the editor")
	consoleCmd.MarkFlagsMutuallyExclusive("doc", "store")
}

func runConsole(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return mdwerror.New("console needs an interactive terminal").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("console")
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}
	cfg := console.Config{
		Engine: engine,
		Doc:    "<dashboard>\n</dashboard>\n",
		Theme:  appConfig.Console.Theme,
	}
	if consoleScript != "" {
		if cfg.Script, err = readFile(consoleScript); err != nil {
			return err
		}
	}

	switch {
	case consoleDoc != "":
		if cfg.Doc, err = readFile(consoleDoc); err != nil {
			return err
		}
		cfg.Commit = func(code, _ string, _ []dashscript.Diagnostic) error {
			return writeFile(consoleDoc, code)
		}

	case consoleStore != "":
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		doc, err := store.Get(cmd.Context(), consoleStore)
		if err != nil {
			return err
		}
		cfg.Doc = doc.Code
		cfg.Commit = storeCommit(cmd.Context(), store, doc)
	}

	_, err = console.Run(cfg)
	return err
}

// storeCommit saves each executed script as a revision on top of the
// previous one
func storeCommit(ctx context.Context, store docstore.Store, doc *docstore.Document) console.CommitFunc {
	head := doc.Head
	return func(code, script string, diags []dashscript.Diagnostic) error {
		rev := &docstore.Revision{
			DocID:       doc.ID,
			Parent:      head,
			Code:        code,
			Script:      script,
			Diagnostics: diags,
		}
		if err := store.Save(ctx, rev); err != nil {
			return err
		}
		head = rev.Number
		return nil
	}
}
