package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/dashscript/internal/watch"
	"github.com/msto63/dashscript/pkg/dashscript"
)

var (
	watchDoc string
	watchOut string
)

var watchCmd = &cobra.Command{
	Use:   "watch <script>",
	Short: "Re-applies a script whenever it changes",
	Long: `Applies a script to a document file and applies it again every time the
script file is saved. The document is re-read on each run, so the script
always runs against the current file.

Writes go to --out when set, otherwise back to --doc. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchDoc, "doc", "", "document file")
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "write results here instead of over --doc")
	_ = watchCmd.MarkFlagRequired("doc")
}

func runWatch(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scriptPath := args[0]
	target := watchDoc
	if watchOut != "" {
		target = watchOut
	}

	run := func() {
		if err := watchOnce(cmd, engine, scriptPath, target); err != nil {
			printError(cmd.ErrOrStderr(), err)
		}
	}
	run()
	return watch.File(ctx, scriptPath, appConfig.Watch.Debounce.Duration, appLog, run)
}

// watchOnce applies the script once. Compile errors are printed and leave
// the document untouched.
func watchOnce(cmd *cobra.Command, engine *dashscript.Engine, scriptPath, target string) error {
	script, err := readFile(scriptPath)
	if err != nil {
		return err
	}
	doc, err := readFile(watchDoc)
	if err != nil {
		return err
	}

	res, prog, err := engine.Apply(doc, script)
	p := printer(cmd.ErrOrStderr(), scriptPath)
	if !prog.OK() {
		p.CompileErrors(script, prog.Errors)
		return nil
	}
	if err != nil {
		return err
	}
	p.Diagnostics(res.Diagnostics)
	if res.NextCode == doc && target == watchDoc {
		return nil
	}
	return writeFile(target, res.NextCode)
}
