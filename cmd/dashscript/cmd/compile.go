package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/pkg/dashscript"
)

var compileFormat string

var compileCmd = &cobra.Command{
	Use:   "compile <script>",
	Short: "Compiles a script and prints its commands",
	Long: `Compiles a script without running it and prints the typed commands.
Use "-" to read the script from stdin.

Formats:
  json     - indented JSON (default)
  yaml     - YAML
  msgpack  - MessagePack bytes

Compile errors are printed to stderr and nothing is written to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileFormat, "format", "f", "json", "output format (json, yaml, msgpack)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	script, err := readScript(cmd, args[0])
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	prog := engine.Parse(script)
	if !prog.OK() {
		printer(cmd.ErrOrStderr(), args[0]).CompileErrors(script, prog.Errors)
		return errReported
	}

	out, err := encodeCommands(prog.Commands, compileFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// encodeCommands renders cmds in format. YAML and MessagePack get the
// plain JSON form of the commands so argument values keep JSON types.
func encodeCommands(cmds []dashscript.Command, format string) ([]byte, error) {
	if cmds == nil {
		cmds = []dashscript.Command{}
	}
	if format == "json" {
		b, err := json.MarshalIndent(cmds, "", "  ")
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to encode commands").WithOperation("compile")
		}
		return append(b, '\n'), nil
	}

	raw, err := json.Marshal(cmds)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode commands").WithOperation("compile")
	}
	var plain []interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode commands").WithOperation("compile")
	}

	switch format {
	case "yaml":
		return yaml.Marshal(plain)
	case "msgpack":
		return msgpack.Marshal(plain)
	}
	return nil, mdwerror.Newf("unknown format %q (want json, yaml or msgpack)", format).
		WithCode(mdwerror.CodeInvalidInput).
		WithDetail("format", format)
}
