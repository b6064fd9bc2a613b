package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tattlecode/tattle/internal/cache"
	"github.com/tattlecode/tattle/internal/output"
	"github.com/tattlecode/tattle/internal/progress"
	"github.com/tattlecode/tattle/internal/scanner"
	"github.com/tattlecode/tattle/pkg/detector"
	"github.com/tattlecode/tattle/pkg/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [corpus-dir]",
	Short: "Compare every assignment pair in a corpus",
	Long: `Scans the corpus directory (each immediate subdirectory is one
assignment), fingerprints every source file, and reports assignment pairs
whose similarity crosses the thresholds.

Examples:
  tattle check ./submissions
  tattle check ./submissions --details --format json
  tattle check ./submissions --file-threshold 0.6 --assignment-threshold 0.5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Int("k", 0, "Shingle size in tokens (0 = config default)")
	checkCmd.Flags().Int("window", 0, "Winnowing window size (0 = config default)")
	checkCmd.Flags().Float64("file-threshold", -1, "Per-file similarity threshold (0.0-1.0)")
	checkCmd.Flags().Float64("assignment-threshold", -1, "Fraction of matching files that flags a pair (0.0-1.0)")
	checkCmd.Flags().Int("top", 0, "Matches shown per direction in pair details")
	checkCmd.Flags().Int("workers", 0, "Fingerprinting parallelism (0 = auto)")
	checkCmd.Flags().Bool("details", false, "Show per-pair match details")
	checkCmd.Flags().Bool("no-cache", false, "Disable the fingerprint cache")
	checkCmd.Flags().StringP("format", "f", "", "Output format: text, json, markdown")
	checkCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if k, _ := cmd.Flags().GetInt("k"); k > 0 {
		cfg.Detect.ShingleSize = k
	}
	if w, _ := cmd.Flags().GetInt("window"); w > 0 {
		cfg.Detect.Window = w
	}
	if t, _ := cmd.Flags().GetFloat64("file-threshold"); t >= 0 {
		cfg.Detect.FileThreshold = t
	}
	if t, _ := cmd.Flags().GetFloat64("assignment-threshold"); t >= 0 {
		cfg.Detect.AssignmentThreshold = t
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		cfg.Detect.TopMatches = top
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Detect.Workers = workers
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	corpusDir := "."
	if len(args) > 0 {
		corpusDir = args[0]
	}

	assignments, err := scanner.New(cfg).ScanCorpus(corpusDir)
	if err != nil {
		return fmt.Errorf("scanning corpus: %w", err)
	}
	if len(assignments) < 2 {
		color.Yellow("Need at least two assignments to compare (found %d)", len(assignments))
		return nil
	}

	totalFiles := 0
	for _, a := range assignments {
		totalFiles += len(a.Files)
	}
	if totalFiles == 0 {
		color.Yellow("No source files found")
		return nil
	}

	fpCache, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	analyzer := detector.New(
		detector.WithShingleSize(cfg.Detect.ShingleSize),
		detector.WithWindow(cfg.Detect.Window),
		detector.WithFileThreshold(cfg.Detect.FileThreshold),
		detector.WithAssignmentThreshold(cfg.Detect.AssignmentThreshold),
		detector.WithTopMatches(cfg.Detect.TopMatches),
		detector.WithWorkers(cfg.Detect.Workers),
		detector.WithCache(fpCache),
	)

	tracker := progress.NewTracker("Fingerprinting files...", totalFiles)
	report, err := analyzer.Analyze(cmd.Context(), assignments,
		source.NewFilesystemAt(corpusDir), tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	tracker.FinishSuccess()

	format := getFormat(cmd, cfg.Output.Format)
	formatter, err := output.NewFormatter(output.ParseFormat(format), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	showDetails, _ := cmd.Flags().GetBool("details")
	view := &output.ReportView{Report: report, ShowDetails: showDetails}

	if verbose && formatter.Format() != output.FormatJSON {
		if err := formatter.Output(output.SummaryTable(report.Summary)); err != nil {
			return err
		}
	}

	return formatter.Output(view)
}
