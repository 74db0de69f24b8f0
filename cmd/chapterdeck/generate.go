package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/history"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/publish"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

var (
	graphsDir    string
	deckName     string
	publishDecks bool
)

var graphsCmd = &cobra.Command{
	Use:   "graphs",
	Short: "Render the charts as PNG files",
	Args:  cobra.NoArgs,
	RunE:  runGraphs,
}

var pptCmd = &cobra.Command{
	Use:   "ppt",
	Short: "Generate the review deck",
	Long: `Renders every chart and places it on the template slides:
  slide 3  maturity
  slide 4  dedication
  slide 5  development time (tribu and squad)
  slide 6+ quality, four squads per slide

Without a template a plain deck is built instead.`,
	Args: cobra.NoArgs,
	RunE: runPPT,
}

func init() {
	graphsCmd.Flags().StringVar(&graphsDir, "out", "", "PNG folder (default <output-dir>/graphs)")
	pptCmd.Flags().StringVar(&deckName, "name", "", "deck file name (default YYYY-MM-DD_Presentation.pptx)")
	pptCmd.Flags().BoolVar(&publishDecks, "publish", false, `copy the decks to "<month folder>/outputs"`)
}

func runGraphs(cmd *cobra.Command, args []string) error {
	opts, err := runOptions()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	_, res, err := chapterdeck.RenderFigures(ctx, opts)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}
	dir := graphsDir
	if dir == "" {
		dir = filepath.Join(opts.OutputDir, "graphs")
	}
	paths, err := chapterdeck.WriteFigures(dir, res.Figures)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	printWarnings(out, res)
	return nil
}

func runPPT(cmd *cobra.Command, args []string) error {
	opts, err := runOptions()
	if err != nil {
		return err
	}
	opts.OutputName = deckName
	ctx, cancel := signalContext()
	defer cancel()

	res, err := generate(ctx, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Deck: %s (%d charts)\n", res.DeckPath, len(res.Figures))
	if res.HandoutPath != "" {
		fmt.Fprintf(out, "Handout: %s\n", res.HandoutPath)
	}
	printWarnings(out, res)

	if publishDecks {
		dest := settings.PublishDir()
		copied, err := publish.CopyDecks(opts.OutputDir, dest, logger)
		if err != nil {
			return fmt.Errorf("publish failed: %w", err)
		}
		fmt.Fprintf(out, "Published %d deck(s) to %s\n", len(copied), dest)
	}
	return nil
}

// generate runs chapterdeck.Generate and records the run in the history ledger.
func generate(ctx context.Context, opts chapterdeck.Options) (*chapterdeck.Result, error) {
	res, err := chapterdeck.Generate(ctx, opts)
	recordRun(ctx, opts, res, err)
	if err != nil {
		return res, fmt.Errorf("generation failed: %w", err)
	}
	return res, nil
}

func recordRun(ctx context.Context, opts chapterdeck.Options, res *chapterdeck.Result, runErr error) {
	if settings.HistoryDB == "" {
		return
	}
	ledger, err := history.Open(settings.HistoryDB)
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return
	}
	defer ledger.Close()

	run, err := ledger.Record(context.WithoutCancel(ctx), history.NewRun(opts, monthOf(opts.DataDir), res, runErr))
	if err != nil {
		logger.Warn("run not recorded", zap.Error(err))
		return
	}
	logger.Debug("run recorded", zap.String("id", run.ID))
}

func monthOf(dir string) string {
	if base := filepath.Base(dir); source.IsMonthDir(base) {
		return base
	}
	return ""
}

func printWarnings(w io.Writer, res *chapterdeck.Result) {
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "Skipped: %s\n", s)
	}
	for _, msg := range res.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", msg)
	}
}
