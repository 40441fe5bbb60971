// Package main is the entry point for the arb CLI.
// arb generates random values from named generators, lists the shrink
// candidates for a value, checks properties, and serves the same operations
// to AI agents over MCP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nomagicln/arbitrary/pkg/check"
	"github.com/nomagicln/arbitrary/pkg/cli"
	"github.com/nomagicln/arbitrary/pkg/completion"
	"github.com/nomagicln/arbitrary/pkg/config"
	"github.com/nomagicln/arbitrary/pkg/mcp"
	"github.com/nomagicln/arbitrary/pkg/report"
	"github.com/nomagicln/arbitrary/pkg/session"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Build information, set via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errCheckFailed signals a falsified property. The report is already printed.
var errCheckFailed = errors.New("property falsified")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, a.formatError(err))
		}
		stop()
		os.Exit(1)
	}
}

// app holds the global flags and the lazily built dependencies.
type app struct {
	out     io.Writer
	errOut  io.Writer
	cfgPath string
	output  string
	verbose bool

	logger  zerolog.Logger
	configs *config.Manager
	session *session.Session
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, logger: zerolog.Nop()}
}

func (a *app) setup() {
	level := zerolog.WarnLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
}

// sessionFor loads the configuration on first use.
func (a *app) sessionFor() (*session.Session, error) {
	if a.session != nil {
		return a.session, nil
	}

	var opts []config.ManagerOption
	if a.cfgPath != "" {
		opts = append(opts, config.WithConfigPath(a.cfgPath))
	}
	configs, err := config.NewManager(opts...)
	if err != nil {
		return nil, err
	}
	if configs.Loaded() {
		a.logger.Debug().Str("path", configs.Path()).Msg("loaded configuration")
	}

	a.configs = configs
	a.session = session.New(configs, session.WithLogger(a.logger))
	return a.session, nil
}

// formatError renders err for the terminal, suggesting known generators.
func (a *app) formatError(err error) string {
	var generators []string
	if a.configs != nil {
		generators = a.configs.Names()
	}
	return cli.NewErrorFormatter().FormatErrorWithContext(err, generators)
}

// completer returns a completion provider, or nil if the configuration cannot be loaded.
func (a *app) completer() *completion.Provider {
	if _, err := a.sessionFor(); err != nil {
		return nil
	}
	return completion.NewProvider(a.configs)
}

// completeGenerator completes the generator name in the first position.
func (a *app) completeGenerator(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	p := a.completer()
	if p == nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return p.CompleteGenerators(toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeCheckArgs completes the generator, then the property functions.
func (a *app) completeCheckArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return a.completeGenerator(cmd, args, toComplete)
	}
	if len(args) > 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	p := a.completer()
	if p == nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return p.CompleteProperties(args[0], toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func (a *app) printer() (*report.Printer, error) {
	format, err := report.ParseFormat(a.output)
	if err != nil {
		return nil, err
	}
	return report.NewPrinter(a.out, format), nil
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	return newApp(out, errOut).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arb",
		Short: "arb - value generation and shrinking for property-based tests",
		Long: `arb draws random values from named generators and lists the simpler
candidates a failing value shrinks to.

Generators are defined in arb.yaml (or the file named by ARB_CONFIG);
the built-in generators uint, int and int-slice are always available.`,
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) { a.setup() },
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Path to the configuration file (default ./arb.yaml)")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log shrink steps to stderr")
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completion.CompleteFormats(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newListCmd(a),
		newGenerateCmd(a),
		newShrinkCmd(a),
		newCheckCmd(a),
		newInitCmd(a),
		newMCPCmd(a),
		newCompletionCmd(a),
	)

	return rootCmd
}

// newListCmd creates the list subcommand
func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available generators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sessionFor()
			if err != nil {
				return err
			}
			p, err := a.printer()
			if err != nil {
				return err
			}

			infos, err := s.Generators()
			if err != nil {
				return err
			}
			return p.PrintGenerators(infos)
		},
	}
}

// newGenerateCmd creates the generate subcommand
func newGenerateCmd(a *app) *cobra.Command {
	var (
		count int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "generate <generator>",
		Short: "Generate random values",
		Long: `Generate random values from a named generator.
The same seed always yields the same values.

Example:
  arb generate uint -n 5
  arb generate int-slice --seed 42 -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeGenerator,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sessionFor()
			if err != nil {
				return err
			}
			p, err := a.printer()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("seed") {
				seed = s.CheckDefaults(check.DefaultConfig()).Seed
			}
			samples, err := s.Generate(args[0], count, seed)
			if err != nil {
				return err
			}
			return p.PrintSamples(samples)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of values to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the random source (default: configured or time-based)")

	return cmd
}

// newShrinkCmd creates the shrink subcommand
func newShrinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shrink <generator> <value>",
		Short: "List the shrink candidates for a value",
		Long: `List the simpler candidates a generator proposes for a value, simplest first.

Example:
  arb shrink uint 32
  arb shrink int -- -7
  arb shrink int-slice "[1, 2, 3]"`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: a.completeGenerator,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sessionFor()
			if err != nil {
				return err
			}
			p, err := a.printer()
			if err != nil {
				return err
			}

			list, err := s.Shrink(args[0], args[1])
			if err != nil {
				return err
			}
			return p.PrintShrink(list)
		},
	}
}

// newCheckCmd creates the check subcommand
func newCheckCmd(a *app) *cobra.Command {
	var (
		trials         int
		seed           uint64
		maxShrinkSteps int
		workers        int
	)

	cmd := &cobra.Command{
		Use:   "check <generator> <property>",
		Short: "Check a property against generated values",
		Long: `Check a property expression against values drawn from a generator.
A falsified property is minimized and the command exits non-zero.

Example:
  arb check uint "Below(100)"
  arb check int-slice "LenBelow(10) || Sorted()" --trials 1000 --seed 7`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: a.completeCheckArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sessionFor()
			if err != nil {
				return err
			}
			p, err := a.printer()
			if err != nil {
				return err
			}

			cfg := s.CheckDefaults(check.DefaultConfig())
			flags := cmd.Flags()
			if flags.Changed("trials") {
				cfg.Trials = trials
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("max-shrink-steps") {
				cfg.MaxShrinkSteps = maxShrinkSteps
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}

			result, err := s.Check(cmd.Context(), args[0], args[1], cfg)
			if err != nil {
				return err
			}
			if err := p.PrintCheck(result); err != nil {
				return err
			}
			if !result.Passed {
				return errCheckFailed
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&trials, "trials", 100, "Number of values to test")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the random source (default: configured or time-based)")
	cmd.Flags().IntVar(&maxShrinkSteps, "max-shrink-steps", 1000, "Maximum number of shrink steps")
	cmd.Flags().IntVar(&workers, "workers", 1, "Number of concurrent workers")

	return cmd
}

// newInitCmd creates the init subcommand
func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteStarter(path, force); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "✓ Wrote configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

// newMCPCmd creates the mcp subcommand
func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the generators as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sessionFor()
			if err != nil {
				return err
			}

			factory := mcp.NewServerFactory("arb", version)
			server := factory.CreateServer(mcp.NewHandler(s))

			// Use stderr for logs since stdout is used for JSON-RPC
			a.logger.Info().Msg("starting MCP server on stdio")
			return factory.RunServer(cmd.Context(), server, "stdio")
		},
	}
}

// newCompletionCmd creates the completion subcommand
func newCompletionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for arb.

Bash:
  source <(arb completion bash)

Zsh:
  arb completion zsh > "${fpath[1]}/_arb"

Fish:
  arb completion fish | source`,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(a.out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(a.out)
			case "fish":
				return cmd.Root().GenFishCompletion(a.out, true)
			}
			return nil
		},
	}

	return cmd
}
