// Package config loads chapterdeck settings from defaults, an optional
// chapterdeck.yaml and CHAPTERDECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/charts"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "CHAPTERDECK"

// FileName is the config file looked up in the working directory.
const FileName = "chapterdeck"

// Settings represents the chapterdeck configuration
type Settings struct {
	ChapterLeader string `yaml:"chapter_leader" mapstructure:"chapter_leader"`

	// DataRoot holds the "YYYY MM" month folders.
	DataRoot string `yaml:"data_root" mapstructure:"data_root"`
	// DataDir, when set, is used as is instead of a month folder of DataRoot.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	Month   string `yaml:"month" mapstructure:"month"`

	TemplatePath string  `yaml:"template_path" mapstructure:"template_path"`
	OutputDir    string  `yaml:"output_dir" mapstructure:"output_dir"`
	CacheSubdir  string  `yaml:"cache_subdir" mapstructure:"cache_subdir"`
	TMDThreshold float64 `yaml:"tmd_threshold" mapstructure:"tmd_threshold"`
	DPI          float64 `yaml:"dpi" mapstructure:"dpi"`
	Handout      bool    `yaml:"handout" mapstructure:"handout"`

	// HistoryDB is the run ledger; empty disables it.
	HistoryDB    string `yaml:"history_db" mapstructure:"history_db"`
	ProfilesFile string `yaml:"profiles_file" mapstructure:"profiles_file"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	opts := chapterdeck.DefaultOptions()
	return Settings{
		DataRoot:     ".",
		TemplatePath: opts.TemplatePath,
		OutputDir:    opts.OutputDir,
		CacheSubdir:  source.DefaultCacheSubdir,
		TMDThreshold: charts.DefaultThreshold,
		DPI:          charts.DefaultDPI,
		HistoryDB:    "chapterdeck.db",
		ProfilesFile: "profiles.yaml",
	}
}

// Load reads path, or chapterdeck.yaml in the working directory when path is
// empty, over the defaults. A missing default file is not an error.
// Environment variables override the file.
func Load(path string) (Settings, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("chapter_leader", d.ChapterLeader)
	v.SetDefault("data_root", d.DataRoot)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("month", d.Month)
	v.SetDefault("template_path", d.TemplatePath)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("cache_subdir", d.CacheSubdir)
	v.SetDefault("tmd_threshold", d.TMDThreshold)
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("handout", d.Handout)
	v.SetDefault("history_db", d.HistoryDB)
	v.SetDefault("profiles_file", d.ProfilesFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// ResolveDataDir returns DataDir if set, else the Month folder of DataRoot,
// else its latest month folder, else DataRoot itself.
func (s Settings) ResolveDataDir() string {
	if s.DataDir != "" {
		return s.DataDir
	}
	return source.DataDir(s.DataRoot, s.Month)
}

// Options converts the settings into run options.
func (s Settings) Options() chapterdeck.Options {
	opts := chapterdeck.DefaultOptions()
	opts.Leader = s.ChapterLeader
	opts.DataDir = s.ResolveDataDir()
	opts.TemplatePath = s.TemplatePath
	opts.OutputDir = s.OutputDir
	opts.CacheSubdir = s.CacheSubdir
	opts.Threshold = s.TMDThreshold
	opts.DPI = s.DPI
	opts.Handout = s.Handout
	return opts
}

// PublishDir is where generated decks are copied for the month in use.
func (s Settings) PublishDir() string {
	return filepath.Join(s.ResolveDataDir(), "outputs")
}
