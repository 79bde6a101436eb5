package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempus/internal/interval"
	"github.com/tempus/internal/report"
	"github.com/tempus/internal/schedule"
	"github.com/tempus/internal/stream"
)

var reportCmd = &cobra.Command{
	Use:     "report [range] [key=value ...]",
	Aliases: []string{"r", "hours"},
	Short:   "Report hours worked against target",
	Long: `Read a timewarrior export stream (config header plus JSON intervals) from
stdin and print a per-day table of worked hours against the exclusion-derived
target, with running totals, optional weekly summaries, and an excluded-time
summary.

The range defaults to the current month. Arguments containing "=" override
projected.* config keys for this run only, for example:

  timew export | tempus report 2026-01 projected.weekly_summary=yes --ignore Lunch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return fmt.Errorf("no input stream; pipe a timewarrior export: timew export | tempus report")
		}

		selector, overrides, err := splitArgs(args)
		if err != nil {
			return err
		}

		now := time.Now()
		from, to, err := parseRange(selector, now)
		if err != nil {
			return err
		}

		ignoreFlags, _ := cmd.Flags().GetStringArray("ignore")

		in, err := stream.Read(os.Stdin)
		if err != nil {
			return err
		}

		settings := cfg.RunSettings()
		warnings := settings.ApplyHeader(in.Header)
		if err := settings.ApplyOverrides(overrides, ignoreFlags); err != nil {
			return err
		}

		intervals, err := interval.Decode(in.Payload)
		if err != nil {
			return err
		}

		sched, schedWarnings := schedule.New(settings)
		warnings = append(warnings, schedWarnings...)

		normalizer := interval.NewNormalizer(now.Location(), now, settings.IgnoreTags)
		segments := normalizer.Normalize(intervals)

		days := report.BuildDays(segments, sched, from, to)
		rep := report.Assemble(days, report.Options{
			ShowWeekends:      settings.ShowWeekends,
			WeeklySummary:     settings.WeeklySummary,
			SummarizeExcluded: settings.SummarizeExcluded,
			IgnoredTags:       settings.SortedIgnoreTags(),
		})

		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, w)
		}
		report.Render(os.Stdout, rep)
		return nil
	},
}

// splitArgs separates the positional arguments of report: at most one range
// selector, plus any number of key=value overrides.
func splitArgs(args []string) (selector string, overrides []string, err error) {
	for _, arg := range args {
		if strings.Contains(arg, "=") {
			overrides = append(overrides, arg)
			continue
		}
		if selector != "" {
			return "", nil, fmt.Errorf("more than one range selector: %q and %q", selector, arg)
		}
		selector = arg
	}
	return selector, overrides, nil
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import intervals into the local store",
	Long:  `Read a timewarrior export stream from stdin and store its intervals in the local database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := stream.Read(os.Stdin)
		if err != nil {
			return err
		}
		intervals, err := interval.Decode(in.Payload)
		if err != nil {
			return err
		}

		database, err := ensureDB()
		if err != nil {
			return err
		}

		for _, iv := range intervals {
			if _, err := database.InsertInterval(iv); err != nil {
				return fmt.Errorf("failed to store interval: %w", err)
			}
		}

		fmt.Printf("Imported %d interval(s)\n", len(intervals))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [range]",
	Short: "Export stored intervals as JSON",
	Long: `Print stored intervals for the given range (default: current month) as a
timewarrior-format JSON array, pipeable back into "tempus report".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selector := ""
		if len(args) > 0 {
			selector = args[0]
		}
		now := time.Now()
		from, to, err := parseRange(selector, now)
		if err != nil {
			return err
		}

		database, err := ensureDB()
		if err != nil {
			return err
		}

		intervals, err := database.GetIntervalsInRange(from, to.AddDate(0, 0, 1))
		if err != nil {
			return err
		}

		type record struct {
			Start string   `json:"start"`
			End   string   `json:"end,omitempty"`
			Tags  []string `json:"tags,omitempty"`
		}
		records := make([]record, 0, len(intervals))
		for _, iv := range intervals {
			r := record{Start: iv.Start.UTC().Format(interval.TimewFormat), Tags: iv.Tags}
			if iv.End != nil {
				r.End = iv.End.UTC().Format(interval.TimewFormat)
			}
			records = append(records, r)
		}

		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long:  `Display the persisted configuration defaults used when the input stream header does not set a value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config: DB=%s | Hours/day: %.2f | Holiday region: %s\n",
			cfg.DatabasePath, cfg.HoursPerDay, orNone(cfg.HolidayRegion))
		fmt.Printf("Display: show_weekends=%v | weekly_summary=%v | summarize_excluded=%v\n",
			cfg.ShowWeekends, cfg.WeeklySummary, cfg.SummarizeExcluded)
		if len(cfg.IgnoreTags) > 0 {
			fmt.Printf("Ignore tags: %s\n", strings.Join(cfg.IgnoreTags, ", "))
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(any)"
	}
	return s
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for tempus.

To load completions:

Bash:
  $ source <(tempus completion bash)

Zsh:
  $ tempus completion zsh > "${fpath[1]}/_tempus"

Fish:
  $ tempus completion fish > ~/.config/fish/completions/tempus.fish

PowerShell:
  PS> tempus completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(os.Stdout)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringArrayP("ignore", "i", nil, "Additional tag to exclude from totals (repeatable, this run only)")
}
