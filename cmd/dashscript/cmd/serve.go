package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/dashscript/internal/docstore"
	"github.com/msto63/dashscript/internal/server"
	"github.com/msto63/dashscript/pkg/core/version"
)

var (
	serveHTTP    string
	serveGRPC    string
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the editor endpoints",
	Long: `Runs the editor over websocket and gRPC until interrupted.

Endpoints:
  HTTP  /ws       - websocket editor (apply, create, get, undo, history)
  HTTP  /healthz  - liveness probe
  gRPC  dashscript.v1.Editor/Apply

Addresses default to the [server] section of the config file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHTTP, "http", "", "HTTP listen address (overrides server.http_addr)")
	serveCmd.Flags().StringVar(&serveGRPC, "grpc", "", "gRPC listen address (overrides server.grpc_addr)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "serve stateless applies only")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := newEngine()
	if err != nil {
		return err
	}

	var store docstore.Store
	if !serveNoStore {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	editor := server.NewEditor(engine, store, server.EditorConfig{
		MaxScriptBytes: appConfig.Server.MaxScriptBytes,
		HistoryLimit:   appConfig.Store.HistoryLimit,
	}, appLog.With("component", "editor"))

	cfg := server.Config{
		HTTPAddr:        appConfig.Server.HTTPAddr,
		GRPCAddr:        appConfig.Server.GRPCAddr,
		ReadTimeout:     appConfig.Server.ReadTimeout.Duration,
		ShutdownTimeout: appConfig.Server.ShutdownTimeout.Duration,
	}
	if serveHTTP != "" {
		cfg.HTTPAddr = serveHTTP
	}
	if serveGRPC != "" {
		cfg.GRPCAddr = serveGRPC
	}

	srv := server.New(cfg, editor, appLog)
	if err := srv.Listen(); err != nil {
		return err
	}
	appLog.Info("dashscript server started",
		"version", version.Engine,
		"http", srv.HTTPAddr(),
		"grpc", srv.GRPCAddr(),
		"store", !serveNoStore,
	)
	return srv.Run(ctx)
}
