// Package main provides the CLI entry point for chapterdeck.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/config"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/profile"
)

var (
	configPath  string
	verbose     bool
	profileID   string
	leader      string
	dataRoot    string
	month       string
	dataDir     string
	templateArg string
	outputDir   string
	threshold   float64
	dpi         float64
	handout     bool
	noCache     bool
	sectionArgs []string

	settings config.Settings
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chapterdeck",
	Short: "Build the chapter leader review deck from the monthly reports",
	Long: `chapterdeck reads the monthly quality, dedication, maturity and
development-time workbooks, charts the chapter leader's metrics and places
the charts on the review presentation.

Run "chapterdeck form" for the interactive form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		settings, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if profileID != "" {
			if err := applyProfile(profileID); err != nil {
				return err
			}
		}
		applyFlags(cmd)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ./chapterdeck.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVarP(&profileID, "profile", "p", "", "leader profile id")
	pf.StringVarP(&leader, "leader", "l", "", "chapter leader full name")
	pf.StringVar(&dataRoot, "data-root", "", `folder holding the "YYYY MM" month folders`)
	pf.StringVarP(&month, "month", "m", "", `month folder, e.g. "2025 05" (default: latest)`)
	pf.StringVar(&dataDir, "data-dir", "", "workbook folder, bypassing data-root and month")
	pf.StringVar(&templateArg, "template", "", "pptx template")
	pf.StringVarP(&outputDir, "output-dir", "o", "", "output folder")
	pf.Float64Var(&threshold, "threshold", 0, "development-time target in days")
	pf.Float64Var(&dpi, "dpi", 0, "chart resolution")
	pf.BoolVar(&handout, "handout", false, "also write a PDF handout")
	pf.BoolVar(&noCache, "no-cache", false, "parse workbooks without the sheet cache")
	pf.StringSliceVarP(&sectionArgs, "section", "s", nil, "sections to render: calidad, dedicacion, madurez, tiempo (default: all)")

	rootCmd.AddCommand(graphsCmd, pptCmd, formCmd, monthsCmd, profilesCmd, cacheCmd, historyCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext is canceled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// applyProfile fills the settings from a saved profile.
func applyProfile(id string) error {
	store, err := profile.Load(settings.ProfilesFile)
	if err != nil {
		return err
	}
	p, err := store.Get(id)
	if err != nil {
		return err
	}
	settings.ChapterLeader = p.Leader
	if p.DataRoot != "" {
		settings.DataRoot = p.DataRoot
	}
	if p.Template != "" {
		settings.TemplatePath = p.Template
	}
	if p.DefaultMonth != "" {
		settings.Month = p.DefaultMonth
	}
	return nil
}

// applyFlags lets explicitly set flags win over the config file and profile.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("leader") {
		settings.ChapterLeader = leader
	}
	if flags.Changed("data-root") {
		settings.DataRoot = dataRoot
	}
	if flags.Changed("month") {
		settings.Month = month
	}
	if flags.Changed("data-dir") {
		settings.DataDir = dataDir
	}
	if flags.Changed("template") {
		settings.TemplatePath = templateArg
	}
	if flags.Changed("output-dir") {
		settings.OutputDir = outputDir
	}
	if flags.Changed("threshold") {
		settings.TMDThreshold = threshold
	}
	if flags.Changed("dpi") {
		settings.DPI = dpi
	}
	if flags.Changed("handout") {
		settings.Handout = handout
	}
	if noCache {
		settings.CacheSubdir = ""
	}
}

// runOptions builds the run options from the settings and the section flag.
func runOptions() (chapterdeck.Options, error) {
	opts := settings.Options()
	opts.Logger = logger
	for _, s := range sectionArgs {
		sec, err := chapterdeck.ParseSection(s)
		if err != nil {
			return opts, err
		}
		opts.Sections = append(opts.Sections, sec)
	}
	return opts, nil
}
