// Package commands implements the CLI commands for nnlower.
package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/nnlower/internal/config"
	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/lower"
	"github.com/born-ml/nnlower/internal/onnx"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the nnlower release, set at link time.
var Version = "v0.1.0-dev"

// CLI represents the command line interface for nnlower.
type CLI struct {
	rootCmd *cobra.Command
	cfg     *config.Config
	log     logr.Logger
}

// New creates a new CLI instance.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "nnlower",
		Short:         "Lower neural-network operator graphs onto accelerator primitives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to configuration file")
	flags.String("target", "", "Target profile (nnadapter, ascend)")
	flags.String("hardswish", "", "HardSwish decomposition strategy (relu6, clip)")
	flags.Bool("fuse-code", true, "Append a fuse-code operand to Add, Mul and Div")
	flags.IntP("verbosity", "v", 0, "Log verbosity (0-5)")

	c := &CLI{
		rootCmd: rootCmd,
		log:     logr.Discard(),
	}
	rootCmd.PersistentPreRunE = c.setup

	rootCmd.AddCommand(c.newLowerCmd())
	rootCmd.AddCommand(c.newEvalCmd())
	rootCmd.AddCommand(c.newOpsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output and logs. Used for testing.
func (c *CLI) SetOutput(stdout, stderr io.Writer) {
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	path, err := flags.GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if flags.Changed("target") {
		cfg.Target, _ = flags.GetString("target")
	}
	if flags.Changed("hardswish") {
		cfg.HardSwish, _ = flags.GetString("hardswish")
	}
	if flags.Changed("fuse-code") {
		fuse, _ := flags.GetBool("fuse-code")
		cfg.FuseCode = &fuse
	}
	if flags.Changed("verbosity") {
		cfg.LogLevel, _ = flags.GetInt("verbosity")
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.log = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	return nil
}

// newLogger returns a console logger enabling logr verbosity up to level.
func newLogger(w io.Writer, level int) logr.Logger {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.Level(-level))
	return zapr.NewLogger(zap.New(core))
}

// options returns the lowering options for the loaded configuration.
func (c *CLI) options() ([]lower.Option, error) {
	profile, err := c.cfg.Profile()
	if err != nil {
		return nil, err
	}
	return []lower.Option{lower.WithProfile(profile), lower.WithLogger(c.log)}, nil
}

// loadGraph reads a source graph from an ONNX model or a YAML document.
func loadGraph(path string) (*graph.Graph, error) {
	if strings.EqualFold(filepath.Ext(path), ".onnx") {
		g, err := onnx.ImportFile(path)
		if err != nil {
			return nil, errors.WithMessagef(err, "import %s", path)
		}
		return g, nil
	}

	f, err := os.Open(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, errors.Wrap(err, "failed to read graph")
	}
	defer f.Close()
	g, err := graph.Decode(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "load %s", path)
	}
	return g, nil
}
