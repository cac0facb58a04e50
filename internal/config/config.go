// SPDX-License-Identifier: EPL-2.0

// Package config loads pcmdown settings from defaults, an optional config
// file, PCMDOWN_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ik5/pcmdown/pcm"
)

const (
	envPrefix  = "PCMDOWN"
	configName = "pcmdown"
)

type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Decimate DecimateConfig `mapstructure:"decimate"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Log      LogConfig      `mapstructure:"log"`
}

type OutputConfig struct {
	DefaultPath string `mapstructure:"default_path"`
}

type DecimateConfig struct {
	// Indexing is "frames" or "samples".
	Indexing string `mapstructure:"indexing"`
}

type IngestConfig struct {
	MaxSamples  int  `mapstructure:"max_samples"`
	BlockFrames int  `mapstructure:"block_frames"`
	Fallback    bool `mapstructure:"fallback"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type LoadOptions struct {
	Flags      *pflag.FlagSet
	ConfigFile string
	Defaults   Config
}

func DefaultConfig() Config {
	return Config{
		Output:   OutputConfig{DefaultPath: "output.wav"},
		Decimate: DecimateConfig{Indexing: pcm.IndexFrames.String()},
		Ingest:   IngestConfig{Fallback: true},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// flags maps each config key to its command line flag.
var flags = map[string]string{
	"output.default_path": "output-default-path",
	"decimate.indexing":   "indexing",
	"ingest.max_samples":  "max-samples",
	"ingest.block_frames": "block-frames",
	"ingest.fallback":     "fallback",
	"log.level":           "log-level",
	"log.format":          "log-format",
	"log.file":            "log-file",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("output-default-path", defaults.Output.DefaultPath, "Output path used when none is given")
	fs.String("indexing", defaults.Decimate.Indexing, "Decimation index mapping (frames|samples)")
	fs.Int("max-samples", defaults.Ingest.MaxSamples, "Maximum decoded samples, 0 for no limit")
	fs.Int("block-frames", defaults.Ingest.BlockFrames, "Converter block size in frames, 0 to disable buffering")
	fs.Bool("fallback", defaults.Ingest.Fallback, "Retry undecodable input with the raw WAV reader")
	fs.String("log-level", defaults.Log.Level, "Log level (debug|info|warn|error)")
	fs.String("log-format", defaults.Log.Format, "Log format (text|json)")
	fs.String("log-file", defaults.Log.File, "Write logs to a rotating file instead of stderr")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)

	if opts.Flags != nil {
		for key, name := range flags {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects values the pipeline cannot use.
func (c Config) Validate() error {
	if _, err := pcm.ParseIndexing(c.Decimate.Indexing); err != nil {
		return fmt.Errorf("decimate.indexing: %w", err)
	}

	if c.Ingest.MaxSamples < 0 {
		return fmt.Errorf("ingest.max_samples must be >= 0, got %d", c.Ingest.MaxSamples)
	}

	if c.Ingest.BlockFrames < 0 {
		return fmt.Errorf("ingest.block_frames must be >= 0, got %d", c.Ingest.BlockFrames)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q (want text|json)", c.Log.Format)
	}

	return nil
}

// Indexing returns the parsed decimate.indexing value.
func (c Config) Indexing() pcm.Indexing {
	i, _ := pcm.ParseIndexing(c.Decimate.Indexing)
	return i
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("output.default_path", c.Output.DefaultPath)
	v.SetDefault("decimate.indexing", c.Decimate.Indexing)
	v.SetDefault("ingest.max_samples", c.Ingest.MaxSamples)
	v.SetDefault("ingest.block_frames", c.Ingest.BlockFrames)
	v.SetDefault("ingest.fallback", c.Ingest.Fallback)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.file", c.Log.File)
}
