package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gzhole/infostealer/internal/config"
	"github.com/gzhole/infostealer/internal/logger"
	"github.com/gzhole/infostealer/internal/netclient"
	"github.com/gzhole/infostealer/internal/probe"
	"github.com/gzhole/infostealer/internal/report"
	"github.com/gzhole/infostealer/internal/stealer"
)

// errReported marks errors that were already printed to stderr.
var errReported = errors.New("reported")

// options holds the state shared by the root command and its subcommands.
type options struct {
	configPath string
	v          *viper.Viper
}

func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath, o.v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "infostealer",
		Short: "Simulated infostealer payload for detection testing",
		Long: `infostealer emulates the reconnaissance and exfiltration stage of a
supply-chain compromise. It records host facts to a local JSON file and
sends 1KB of random data (never the collected information) to a
configurable destination so that network and endpoint controls have
something to detect.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to YAML config file (or set "+config.EnvConfigPath+")")
	flags.String("exfil-url", "", "Exfiltration destination (or set "+config.EnvExfilURL+", default "+config.DefaultExfilURL+")")
	flags.String("ip-harvester-url", "", "External IP discovery URL (or set "+config.EnvIPHarvesterURL+", default "+config.DefaultIPHarvesterURL+")")
	flags.String("exfil-site", "", "Named exfiltration destination: pastebin")
	flags.String("ip-harvester", "", "Named IP discovery service: ipinfo, ifconfig.me")
	flags.StringP("output", "o", "", "Report path (default: "+config.DefaultOutputFile+" next to the executable)")
	flags.Duration("timeout", 0, "Per-request network timeout (default 10s)")
	flags.String("user-agent", "", "User-Agent header for outbound requests")
	flags.String("journal", "", "Append a JSONL journal of the run to this path")
	flags.Bool("no-color", false, "Disable colored output")

	for key, name := range map[string]string{
		config.KeyExfilURL:       "exfil-url",
		config.KeyIPHarvesterURL: "ip-harvester-url",
		config.KeyExfilSite:      "exfil-site",
		config.KeyIPHarvester:    "ip-harvester",
		config.KeyOutput:         "output",
		config.KeyTimeout:        "timeout",
		config.KeyUserAgent:      "user-agent",
		config.KeyJournal:        "journal",
		config.KeyNoColor:        "no-color",
	} {
		_ = opts.v.BindPFlag(key, flags.Lookup(name))
	}
	config.BindEnv(opts.v)

	rootCmd.AddCommand(
		newRunCmd(opts),
		newStatusCmd(opts),
		newLogCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the simulation (same as running with no subcommand)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}
}

func runSimulation(cmd *cobra.Command, opts *options) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := opts.load()
	if err != nil {
		return err
	}

	log := logger.NewNarrator(out, errOut, colored(out, cfg))
	runID := uuid.NewString()

	if cfg.JournalPath != "" {
		journal, err := logger.NewJournal(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer journal.Close()
		log.AttachJournal(journal, runID)
	}

	runner := &stealer.Runner{
		Config: cfg,
		Host:   probe.OSHost{},
		Client: netclient.New(netclient.Config{
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
		}),
		Store: &report.Store{Path: cfg.OutputPath},
		Log:   log,
		RunID: runID,
	}
	if _, err := runner.Run(cmd.Context()); err != nil {
		log.Fatal(err)
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return nil
}

func colored(out io.Writer, cfg *config.Config) bool {
	return !cfg.NoColor && logger.IsTerminal(out)
}

// Execute runs the command line and returns the first error. Any error
// means the process should exit with status 1.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "%s Fatal error: %v\n", logger.MarkFailure, err)
	}
	return err
}
