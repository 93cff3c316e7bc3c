package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gzhole/infostealer/internal/logger"
)

type logOptions struct {
	path    string
	runID   string
	level   string
	last    int
	summary bool
}

func newLogCmd(opts *options) *cobra.Command {
	lo := &logOptions{}
	cmd := &cobra.Command{
		Use:   "log",
		Short: "View and filter the run journal",
		Long: `View the JSONL journal written by runs started with --journal.

Examples:
  infostealer log --path run.jsonl                  # Show all entries
  infostealer log --path run.jsonl --last 20        # Show last 20 entries
  infostealer log --path run.jsonl --level failure  # Show only failures
  infostealer log --path run.jsonl --summary        # Per-run summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return logCommand(cmd, opts, lo)
		},
	}
	cmd.Flags().StringVar(&lo.path, "path", "", "Journal path (default: the configured --journal)")
	cmd.Flags().StringVar(&lo.runID, "run", "", "Show only entries of this run ID")
	cmd.Flags().StringVar(&lo.level, "level", "", "Filter by level (info, success, failure, fatal)")
	cmd.Flags().IntVar(&lo.last, "last", 0, "Show last N entries")
	cmd.Flags().BoolVar(&lo.summary, "summary", false, "Show per-run summary")
	return cmd
}

func logCommand(cmd *cobra.Command, opts *options, lo *logOptions) error {
	out := cmd.OutOrStdout()

	path := lo.path
	if path == "" {
		cfg, err := opts.load()
		if err != nil {
			return err
		}
		path = cfg.JournalPath
	}
	if path == "" {
		return fmt.Errorf("no journal configured: pass --path or --journal")
	}

	events, err := logger.ReadJournal(path)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "No journal entries found.")
		return nil
	}

	filtered := filterEvents(events, lo)
	if lo.last > 0 && lo.last < len(filtered) {
		filtered = filtered[len(filtered)-lo.last:]
	}

	if lo.summary {
		printSummary(out, filtered)
		return nil
	}
	printEvents(out, filtered)
	return nil
}

func filterEvents(events []logger.Event, lo *logOptions) []logger.Event {
	if lo.level == "" && lo.runID == "" {
		return events
	}

	var filtered []logger.Event
	for _, e := range events {
		if lo.level != "" && !strings.EqualFold(e.Level, lo.level) {
			continue
		}
		if lo.runID != "" && e.RunID != lo.runID {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func printEvents(out io.Writer, events []logger.Event) {
	for _, e := range events {
		fmt.Fprintf(out, "%s %s %s\n", levelMark(e.Level), formatTimestamp(e.Timestamp), e.Message)
		if e.Error != "" {
			fmt.Fprintf(out, "     Error: %s\n", e.Error)
		}
	}
}

type runSummary struct {
	id          string
	first, last string
	counts      map[string]int
}

func printSummary(out io.Writer, events []logger.Event) {
	var runs []*runSummary
	byID := map[string]*runSummary{}
	for _, e := range events {
		s, ok := byID[e.RunID]
		if !ok {
			s = &runSummary{id: e.RunID, first: e.Timestamp, counts: map[string]int{}}
			byID[e.RunID] = s
			runs = append(runs, s)
		}
		s.last = e.Timestamp
		s.counts[e.Level]++
	}

	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "  Journal Summary")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "  Runs:     %d\n", len(runs))
	fmt.Fprintf(out, "  Entries:  %d\n", len(events))
	for _, s := range runs {
		id := s.id
		if id == "" {
			id = "(none)"
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Run %s\n", id)
		fmt.Fprintf(out, "    Started:   %s\n", formatTimestamp(s.first))
		fmt.Fprintf(out, "    Finished:  %s\n", formatTimestamp(s.last))
		fmt.Fprintf(out, "    Info: %d  Success: %d  Failure: %d  Fatal: %d\n",
			s.counts["info"], s.counts["success"], s.counts["failure"], s.counts["fatal"])
	}
}

func levelMark(level string) string {
	switch level {
	case "success":
		return logger.MarkSuccess
	case "failure", "fatal":
		return logger.MarkFailure
	default:
		return logger.MarkInfo
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
