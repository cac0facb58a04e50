// SPDX-License-Identifier: EPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/ik5/pcmdown/pcm"
)

func newFlagSet(defaults Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)
	return fs
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	want := Config{
		Output:   OutputConfig{DefaultPath: "output.wav"},
		Decimate: DecimateConfig{Indexing: "frames"},
		Ingest:   IngestConfig{Fallback: true},
		Log:      LogConfig{Level: "info", Format: "text"},
	}

	if diff := cmp.Diff(want, DefaultConfig()); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterFlags(t *testing.T) {
	t.Parallel()

	fs := newFlagSet(DefaultConfig())

	for _, name := range flags {
		if fs.Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}

	if got := fs.Lookup("indexing").DefValue; got != "frames" {
		t.Errorf("--indexing default = %q, want frames", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Flags: newFlagSet(DefaultConfig()), Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_NilFlags(t *testing.T) {
	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output.DefaultPath != "output.wav" {
		t.Errorf("Output.DefaultPath = %q, want output.wav", cfg.Output.DefaultPath)
	}
}

func TestLoad_FlagOverride(t *testing.T) {
	fs := newFlagSet(DefaultConfig())

	err := fs.Parse([]string{
		"--indexing=samples",
		"--max-samples=1024",
		"--block-frames=256",
		"--fallback=false",
		"--log-level=debug",
		"--log-format=json",
		"--log-file=/tmp/pcmdown.log",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(LoadOptions{Flags: fs, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		Output:   OutputConfig{DefaultPath: "output.wav"},
		Decimate: DecimateConfig{Indexing: "samples"},
		Ingest:   IngestConfig{MaxSamples: 1024, BlockFrames: 256, Fallback: false},
		Log:      LogConfig{Level: "debug", Format: "json", File: "/tmp/pcmdown.log"},
	}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if cfg.Indexing() != pcm.IndexSamples {
		t.Errorf("Indexing() = %v, want samples", cfg.Indexing())
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PCMDOWN_LOG_LEVEL", "warn")
	t.Setenv("PCMDOWN_INGEST_MAX_SAMPLES", "4096")
	t.Setenv("PCMDOWN_OUTPUT_DEFAULT_PATH", "down.wav")

	cfg, err := Load(LoadOptions{Flags: newFlagSet(DefaultConfig()), Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}

	if cfg.Ingest.MaxSamples != 4096 {
		t.Errorf("Ingest.MaxSamples = %d, want 4096", cfg.Ingest.MaxSamples)
	}

	if cfg.Output.DefaultPath != "down.wav" {
		t.Errorf("Output.DefaultPath = %q, want down.wav", cfg.Output.DefaultPath)
	}
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("PCMDOWN_DECIMATE_INDEXING", "samples")

	fs := newFlagSet(DefaultConfig())
	if err := fs.Parse([]string{"--indexing=frames"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(LoadOptions{Flags: fs, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Decimate.Indexing != "frames" {
		t.Errorf("Decimate.Indexing = %q, want frames", cfg.Decimate.Indexing)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcmdown.yaml")

	content := `
decimate:
  indexing: samples
ingest:
  block_frames: 1024
  fallback: false
log:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(LoadOptions{Flags: newFlagSet(DefaultConfig()), ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Decimate.Indexing != "samples" || cfg.Ingest.BlockFrames != 1024 || cfg.Ingest.Fallback || cfg.Log.Format != "json" {
		t.Errorf("config file values not applied: %+v", cfg)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want the default info", cfg.Log.Level)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("decimate: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	badValue := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badValue, []byte("decimate:\n  indexing: cubic\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name string
		file string
	}{
		{"missing explicit file", filepath.Join(dir, "missing.yaml")},
		{"malformed yaml", invalid},
		{"unknown indexing", badValue},
	}

	for _, tt := range tests {
		if _, err := Load(LoadOptions{ConfigFile: tt.file, Defaults: DefaultConfig()}); err == nil {
			t.Errorf("%s: Load() error = nil, want error", tt.name)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"samples indexing", func(c *Config) { c.Decimate.Indexing = "samples" }, false},
		{"unknown indexing", func(c *Config) { c.Decimate.Indexing = "linear" }, true},
		{"negative max samples", func(c *Config) { c.Ingest.MaxSamples = -1 }, true},
		{"negative block frames", func(c *Config) { c.Ingest.BlockFrames = -8 }, true},
		{"json format", func(c *Config) { c.Log.Format = "JSON" }, false},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)

			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
