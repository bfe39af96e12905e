package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/dashscript/foundation/utils/stringx"
	"github.com/msto63/dashscript/internal/docstore"
)

var (
	historyLimit int
	createTitle  string
)

var historyCmd = &cobra.Command{
	Use:   "history <doc-id>",
	Short: "Lists the revisions of a stored document",
	Long: `Lists the revisions of a stored document, newest first.

Subcommands:
  undo  - Moves the document back one revision. The next apply discards
          the undone revisions.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var undoCmd = &cobra.Command{
	Use:   "undo <doc-id>",
	Short: "Moves a stored document back one revision",
	Args:  cobra.ExactArgs(1),
	RunE:  runUndo,
}

var createCmd = &cobra.Command{
	Use:   "create <doc-file>",
	Short: "Stores a document file and prints its id",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(createCmd)
	historyCmd.AddCommand(undoCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n revisions (0: config store.history_limit)")
	createCmd.Flags().StringVar(&createTitle, "title", "", "document title (default: file name)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	limit := historyLimit
	if limit <= 0 {
		limit = appConfig.Store.HistoryLimit
	}
	revs, err := store.History(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}
	printRevisions(cmd, revs)
	return nil
}

func printRevisions(cmd *cobra.Command, revs []docstore.Revision) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REV\tCREATED\tFAILED\tSCRIPT")
	for _, r := range revs {
		failed := 0
		for _, d := range r.Diagnostics {
			if !d.OK {
				failed++
			}
		}
		script := "(initial)"
		if !stringx.IsBlank(r.Script) {
			script = stringx.Truncate(strings.Join(strings.Fields(r.Script), " "), 60, "...")
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", r.Number, r.CreatedAt.Local().Format(time.DateTime), failed, script)
	}
	w.Flush()
}

func runUndo(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Undo(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "document %s at revision %d\n", doc.ID, doc.Head)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	code, err := readFile(args[0])
	if err != nil {
		return err
	}
	title := stringx.FirstNonBlank(createTitle, strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])))

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Create(cmd.Context(), title, code)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), doc.ID)
	return nil
}
