package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

var watchQuiet time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the deck whenever a workbook of the month folder changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		out := cmd.OutOrStdout()
		build := func() {
			res, err := generate(ctx, opts)
			if err != nil {
				logger.Error("generation failed", zap.Error(err))
				return
			}
			fmt.Fprintf(out, "%s  %s (%d charts)\n", time.Now().Format(time.TimeOnly), res.DeckPath, len(res.Figures))
			printWarnings(out, res)
		}
		build()

		w := &source.Watcher{Dir: opts.DataDir, Quiet: watchQuiet, Logger: logger}
		return w.Run(ctx, func(paths []string) {
			logger.Info("workbooks changed", zap.Strings("files", paths))
			build()
		})
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchQuiet, "quiet", source.DefaultQuiet, "wait this long after the last change")
}
