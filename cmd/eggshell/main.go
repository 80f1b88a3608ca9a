// Package main provides the eggshell CLI: an interactive demo shell and a batch
// runner built on the eggshell command toolkit.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eggshell/internal/commands"
	"eggshell/internal/config"
	"eggshell/internal/console"
	"eggshell/internal/golden"
	"eggshell/internal/help"
	"eggshell/internal/logger"
	"eggshell/internal/output"
	"eggshell/internal/shell"
	"eggshell/internal/version"
	"eggshell/pkg/shelltypes"
)

var configFlags = []string{"log-level", "log-file", "test-mode", "color", "help-format", "line-editor", "history-file"}

// cli carries the state shared by the cobra commands of one invocation.
type cli struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config

	stdin  io.Reader
	stdout io.Writer
}

func main() {
	root, err := newRootCmd(os.Stdin, os.Stdout)
	if err == nil {
		err = root.Execute()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout io.Writer) (*cobra.Command, error) {
	c := &cli{v: config.New(), stdin: stdin, stdout: stdout}

	root := &cobra.Command{
		Use:   "eggshell",
		Short: "eggshell - line-mode command shell toolkit",
		Long: `eggshell turns plain functions into shell commands with typed arguments,
completions, help, error handlers and multi-step state flows.
Without a subcommand it starts the interactive demo shell.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		RunE:              c.runShell,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "Config file (default: ./eggshell.yaml or $XDG_CONFIG_HOME/eggshell/eggshell.yaml)")
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.Bool("test-mode", false, "Run in deterministic test mode")
	flags.String("color", "auto", "Colored output (auto|always|never|json)")
	flags.String("help-format", string(help.FormatMan), "Help format (man|list|markdown|yaml|json)")
	flags.String("line-editor", "ishell", "Line editor for the interactive shell (ishell|readline|plain)")
	flags.String("history-file", "", "History file for the readline editor")
	if err := config.BindFlags(c.v, flags, configFlags...); err != nil {
		return nil, err
	}

	root.AddCommand(&cobra.Command{
		Use:   "shell",
		Short: "Start interactive shell mode",
		Long:  `Start the interactive eggshell demo shell.`,
		Args:  cobra.NoArgs,
		RunE:  c.runShell,
	})
	root.AddCommand(&cobra.Command{
		Use:   "batch <script>",
		Short: "Execute a script file in batch mode",
		Long: `Execute each line of a script file as a shell command without entering
interactive mode. Blank lines and lines starting with # are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: c.runBatch,
	})
	root.AddCommand(c.newGoldenCmd())
	root.AddCommand(newVersionCmd())
	return root, nil
}

func newVersionCmd() *cobra.Command {
	var detailed bool
	var require string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if require != "" {
				ok, err := version.Satisfies(require)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("version %s does not satisfy %s", version.Version, require)
				}
			}
			if detailed {
				cmd.Println(version.Detailed())
			} else {
				cmd.Println(version.Short())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Show build details")
	cmd.Flags().StringVar(&require, "require", "", "Fail unless the version satisfies this semver constraint")
	return cmd
}

func (c *cli) setup(_ *cobra.Command, _ []string) error {
	cfg, src, err := config.Load(c.v, config.Options{ConfigFile: c.configFile})
	if err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		return fmt.Errorf("error configuring logger: %w", err)
	}
	c.cfg = cfg
	logger.Debug("Loaded configuration", "file", src.ConfigFile, "env_files", src.EnvFiles)
	return nil
}

func (c *cli) helpRenderer() (commands.HelpRenderer, error) {
	format, err := help.ParseFormat(c.cfg.HelpFormat)
	if err != nil {
		return nil, err
	}
	if c.cfg.TestMode {
		return help.NewRenderer(format, help.WithGlamourStyle("notty")), nil
	}
	return help.NewRenderer(format), nil
}

func (c *cli) colorSetting() string {
	switch {
	case c.cfg.TestMode:
		return "never"
	case c.cfg.Color == "auto" && output.ColorSupported(c.stdout):
		// The printer writes through the line editor, which is not a terminal itself.
		return "always"
	default:
		return c.cfg.Color
	}
}

func (c *cli) lineEditor() (shelltypes.LineIO, error) {
	editor := c.cfg.LineEditor
	if c.cfg.TestMode {
		editor = "plain"
	}
	switch editor {
	case "readline":
		rl, err := console.NewReadline(console.ReadlineConfig{HistoryFile: c.cfg.HistoryFile})
		if err != nil {
			return nil, err
		}
		return rl, nil
	case "plain":
		return console.NewReader(c.stdin, c.stdout, true), nil
	default:
		return console.NewIShell(), nil
	}
}

func (c *cli) runShell(_ *cobra.Command, _ []string) error {
	logger.Info("Starting eggshell", "version", version.Version)

	lio, err := c.lineEditor()
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	if closer, ok := lio.(io.Closer); ok {
		defer closer.Close()
	}
	renderer, err := c.helpRenderer()
	if err != nil {
		return err
	}

	app, err := newDemoApp(c.cfg,
		shell.WithIO(lio),
		shell.WithPrinter(output.ForWriter(console.Writer(lio), c.colorSetting())),
		shell.WithHelpRenderer(renderer),
	)
	if err != nil {
		return err
	}
	return app.Run()
}

func (c *cli) runBatch(_ *cobra.Command, args []string) error {
	path := args[0]
	logger.Info("Starting eggshell batch mode", "version", version.Version, "script", path)

	color := c.cfg.Color
	if c.cfg.TestMode {
		color = "never"
	}
	if err := c.batch(path, c.stdout, color); err != nil {
		return fmt.Errorf("batch %s: %w", path, err)
	}
	logger.Info("Batch completed", "script", path)
	return nil
}

// batch runs the script at path through a fresh demo app printing to w.
func (c *cli) batch(path string, w io.Writer, color string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	renderer, err := c.helpRenderer()
	if err != nil {
		return err
	}
	app, err := newDemoApp(c.cfg,
		shell.WithIO(console.NewReader(c.stdin, w, false)),
		shell.WithPrinter(output.ForWriter(w, color)),
		shell.WithHelpRenderer(renderer),
	)
	if err != nil {
		return err
	}
	return app.RunBatch(f)
}

func (c *cli) newGoldenCmd() *cobra.Command {
	var dir string
	var record bool
	cmd := &cobra.Command{
		Use:   "golden [test...]",
		Short: "Compare batch script output with recorded golden files",
		Long: `Run every <name>.egg script of the golden directory in batch mode and compare
its output with <name>.expected. With test names only those run; --record
saves the current output as the new recording.`,
		RunE: func(cmd *cobra.Command, names []string) error {
			r := golden.NewRunner(dir, func(path string) (string, error) {
				var buf bytes.Buffer
				err := c.batch(path, &buf, "never")
				return buf.String(), err
			})
			out := cmd.OutOrStdout()
			if len(names) == 0 && !record {
				return r.RunAll(out)
			}
			if len(names) == 0 {
				all, err := r.Tests()
				if err != nil {
					return err
				}
				names = all
			}
			var failed []string
			for _, name := range names {
				if record {
					if err := r.Record(name); err != nil {
						return err
					}
					fmt.Fprintf(out, "Recorded %s\n", name)
					continue
				}
				res, err := r.Test(name)
				if err != nil {
					return err
				}
				if res.Passed() {
					fmt.Fprintf(out, "PASS %s\n", name)
					continue
				}
				failed = append(failed, name)
				fmt.Fprintf(out, "FAIL %s\n%s", name, golden.Diff(res.Expected, res.Actual))
			}
			if len(failed) > 0 {
				return fmt.Errorf("%w: %s", golden.ErrFailed, strings.Join(failed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "testdata/golden", "Directory holding the .egg scripts and .expected files")
	cmd.Flags().BoolVar(&record, "record", false, "Record the current output instead of comparing")
	return cmd
}
