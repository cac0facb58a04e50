// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/pcmdown"
	"github.com/ik5/pcmdown/audio"
	"github.com/ik5/pcmdown/formats"
	"github.com/ik5/pcmdown/ingest"
	"github.com/ik5/pcmdown/internal/config"
	"github.com/ik5/pcmdown/internal/logging"
)

const examples = `  pcmdown song.mp3 22050
  pcmdown audio.wav 16000 output.wav
  pcmdown music.flac 8000 low_quality.wav
  pcmdown --indexing=samples legacy.wav 11025 legacy-11k.wav`

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()
	reg := formats.Default()

	var (
		cfgFile  string
		cfg      config.Config
		logger   *slog.Logger
		closeLog = func() error { return nil }
	)

	cmd := &cobra.Command{
		Use:     "pcmdown <input_file> <target_sample_rate> [output_file]",
		Short:   "Downsample an audio file to a 16-bit stereo WAV",
		Long:    longHelp(reg),
		Example: examples,
		Args:    cobra.RangeArgs(2, 3),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Flags:      cmd.Flags(),
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			cfg = loaded

			logger, closeLog = logging.New(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				File:   cfg.Log.File,
				Stderr: cmd.ErrOrStderr(),
			})
			slog.SetDefault(logger)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = closeLog() }()

			target, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("target sample rate %q is not an integer", args[1])
			}

			output := cfg.Output.DefaultPath
			if len(args) == 3 {
				output = args[2]
			}

			// Arguments are valid from here on; failures are not usage errors.
			cmd.SilenceUsage = true

			pipeline := ingest.New(reg,
				ingest.WithLogger(logger),
				ingest.WithMaxSamples(cfg.Ingest.MaxSamples),
				ingest.WithBlockFrames(cfg.Ingest.BlockFrames),
			)

			rep, err := pcmdown.Convert(cmd.Context(), pcmdown.Options{
				Input:      args[0],
				Output:     output,
				TargetRate: target,
				Indexing:   cfg.Indexing(),
				Loader:     ingest.NewLoader(pipeline, cfg.Ingest.Fallback),
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Done! Output saved to: %s (%d Hz, %.3f s)\n",
				rep.Output, rep.OutputRate, rep.Duration.Seconds())
			return err
		},
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.Flags(), defaults)

	return cmd
}

func longHelp(reg *audio.Registry) string {
	var b strings.Builder

	b.WriteString("Convert an audio file into a lower-sample-rate, stereo, 16-bit PCM WAV.\n\n")
	b.WriteString("The input is decoded at its native rate, folded to stereo and reduced to\n")
	b.WriteString("the target rate by nearest-sample decimation (no anti-alias filter).\n")
	b.WriteString("The target must be lower than the input rate. The output defaults to\n")
	b.WriteString("output.wav.\n\n")
	fmt.Fprintf(&b, "Supported containers: %s\n", strings.Join(reg.Containers(), ", "))
	fmt.Fprintf(&b, "Supported codecs: %s\n", strings.Join(reg.Codecs(), ", "))

	return b.String()
}
