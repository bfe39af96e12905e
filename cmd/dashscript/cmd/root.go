// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     cmd
// Description: Cobra command tree of the dashscript CLI
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/diagfmt"
	"github.com/msto63/dashscript/internal/docstore"
	"github.com/msto63/dashscript/pkg/core/config"
	"github.com/msto63/dashscript/pkg/core/logging"
	"github.com/msto63/dashscript/pkg/dashscript"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	colorFlag string

	appConfig *config.Config
	appLog    *logging.Logger
)

// errReported marks failures whose details were already printed
var errReported = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:   "dashscript",
	Short: "dashscript - command language for dashboard documents",
	Long: `dashscript compiles scripts like

  addGroup({"id": "grp_kpis", "title": "KPIs"});
  addKPI(id: kpi_revenue; title: Revenue; measure: sum(amount))

into typed commands and applies them to a dashboard document.

Commands:
  compile  - Prints the compiled commands
  apply    - Applies a script to a document file or a stored document
  watch    - Re-applies a script whenever it changes
  serve    - Runs the websocket and gRPC editor endpoints
  console  - Interactive editor
  history  - Lists and undoes stored revisions`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $DASHSCRIPT_CONFIG or ./configs/dashscript.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "colorize diagnostics (auto, on, off)")
}

// setup loads the configuration and builds the logger every command uses
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if logLevel != "" {
		appConfig.Log.Level = logLevel
	}
	if logFormat != "" {
		appConfig.Log.Format = logFormat
	}
	if _, err := diagfmt.ParseColorMode(colorFlag); err != nil {
		return mdwerror.Wrap(err, "invalid --color").WithCode(mdwerror.CodeInvalidInput)
	}

	lc := logging.FromConfig("dashscript", appConfig.Log)
	lc.Output = cmd.ErrOrStderr()
	appLog = logging.Wrap(logging.NewLogger(lc), cmd.Name())
	return nil
}

func newEngine() (*dashscript.Engine, error) {
	return dashscript.New(dashscript.Options{
		Logger:    appLog.Logger,
		CacheSize: appConfig.Server.CompileCache,
	})
}

func openStore() (*docstore.SQLiteStore, error) {
	return docstore.Open(docstore.Config{
		Path:         appConfig.Store.Path,
		HistoryLimit: appConfig.Store.HistoryLimit,
	})
}

// printer renders diagnostics on w, colored when --color and w allow it
func printer(w io.Writer, path string) *diagfmt.Printer {
	mode, _ := diagfmt.ParseColorMode(colorFlag)
	f, _ := w.(*os.File)
	return diagfmt.New(w, diagfmt.PrettyOpts{
		Color: diagfmt.UseColor(mode, f),
		Path:  path,
		Width: 120,
	})
}

// readScript reads a script file, or stdin for "-"
func readScript(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", mdwerror.Wrap(err, "failed to read stdin").WithCode(mdwerror.CodeInvalidInput)
		}
		return string(b), nil
	}
	return readFile(path)
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if errors.Is(err, os.ErrNotExist) {
			code = mdwerror.CodeNotFound
		}
		return "", mdwerror.Wrap(err, "failed to read file").WithCode(code).WithDetail("path", path)
	}
	return string(b), nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return mdwerror.Wrap(err, "failed to write file").WithCode(mdwerror.CodeInvalidInput).WithDetail("path", path)
	}
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", strings.TrimSpace(err.Error()))
}
