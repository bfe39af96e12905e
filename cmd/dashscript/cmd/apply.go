package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/server"
	coregrpc "github.com/msto63/dashscript/pkg/core/grpc"
)

var (
	applyDoc    string
	applyOut    string
	applyDryRun bool
	applyStore  string
	applyRemote string
)

var applyCmd = &cobra.Command{
	Use:   "apply <script>",
	Short: "Applies a script to a document",
	Long: `Compiles a script and applies it to a dashboard document.

The document is either a file (--doc) or a stored document (--store <id>),
in which case the result is saved as a new revision. With --remote the
script is sent to a running "dashscript serve" over gRPC instead of being
applied locally.

A script with compile errors is not applied at all. Commands that fail at
run time are reported and skipped; the others still apply.

Examples:
  dashscript apply --doc board.xml edit.ds
  dashscript apply --doc board.xml --dry-run edit.ds
  dashscript apply --store 3f0c... edit.ds
  dashscript apply --remote 127.0.0.1:8791 --store 3f0c... edit.ds`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVar(&applyDoc, "doc", "", "document file")
	applyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "write the result here instead of over --doc")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "print the result to stdout and write nothing")
	applyCmd.Flags().StringVar(&applyStore, "store", "", "id of a stored document; saves a revision")
	applyCmd.Flags().StringVar(&applyRemote, "remote", "", "gRPC address of a dashscript server")
	applyCmd.MarkFlagsMutuallyExclusive("doc", "store")
	applyCmd.MarkFlagsOneRequired("doc", "store")
}

type applyFunc func(ctx context.Context, req server.ApplyRequest) (*server.ApplyResponse, error)

func runApply(cmd *cobra.Command, args []string) error {
	script, err := readScript(cmd, args[0])
	if err != nil {
		return err
	}

	req := server.ApplyRequest{Script: script, DocID: applyStore}
	if applyDoc != "" {
		if req.Code, err = readFile(applyDoc); err != nil {
			return err
		}
	}
	if applyDryRun && applyStore != "" {
		return mdwerror.New("--dry-run works with --doc only").WithCode(mdwerror.CodeInvalidInput)
	}

	apply, closeFn, err := applier()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(cmd.Context(), appConfig.Server.ReadTimeout.Duration+5*time.Second)
	defer cancel()

	resp, err := apply(ctx, req)
	if err != nil {
		return err
	}
	return reportApply(cmd, args[0], script, resp)
}

// applier returns the local editor or, with --remote, a gRPC client
func applier() (applyFunc, func(), error) {
	if applyRemote != "" {
		conn, err := coregrpc.Dial(coregrpc.DefaultClientConfig(applyRemote))
		if err != nil {
			return nil, nil, err
		}
		client := server.NewEditorClient(conn)
		apply := func(ctx context.Context, req server.ApplyRequest) (*server.ApplyResponse, error) {
			return client.Apply(ctx, req)
		}
		return apply, func() { conn.Close() }, nil
	}

	engine, err := newEngine()
	if err != nil {
		return nil, nil, err
	}
	editorCfg := server.EditorConfig{
		MaxScriptBytes: appConfig.Server.MaxScriptBytes,
		HistoryLimit:   appConfig.Store.HistoryLimit,
	}
	if applyStore == "" {
		editor := server.NewEditor(engine, nil, editorCfg, appLog)
		return editor.Apply, func() {}, nil
	}

	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	editor := server.NewEditor(engine, store, editorCfg, appLog)
	return editor.Apply, func() { store.Close() }, nil
}

func reportApply(cmd *cobra.Command, scriptPath, script string, resp *server.ApplyResponse) error {
	stderr := cmd.ErrOrStderr()
	if len(resp.Errors) > 0 {
		printer(stderr, scriptPath).CompileErrors(script, resp.Errors)
		return errReported
	}
	printer(stderr, scriptPath).Diagnostics(resp.Diagnostics)

	switch {
	case applyDryRun:
		_, err := fmt.Fprint(cmd.OutOrStdout(), resp.NextCode)
		return err
	case resp.DocID != "":
		fmt.Fprintf(stderr, "document %s at revision %d\n", resp.DocID, resp.Revision)
		return nil
	}

	target := applyDoc
	if applyOut != "" {
		target = applyOut
	}
	return writeFile(target, resp.NextCode)
}
