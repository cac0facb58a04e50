// SPDX-License-Identifier: EPL-2.0

package pcmdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/pcmdown/audio"
	"github.com/ik5/pcmdown/formats"
	"github.com/ik5/pcmdown/formats/wav"
	"github.com/ik5/pcmdown/ingest"
	"github.com/ik5/pcmdown/pcm"
)

// DefaultOutput is the output path used when none is given.
const DefaultOutput = "output.wav"

// Options describes one conversion.
type Options struct {
	Input      string
	Output     string // DefaultOutput when empty
	TargetRate int
	Indexing   pcm.Indexing

	// Loader reads the input. When nil, a loader over formats.Default()
	// with the WAV fallback enabled is used.
	Loader *ingest.Loader
	Logger *slog.Logger
}

// Report summarizes a finished conversion.
type Report struct {
	Input    audio.Descriptor
	Fallback bool
	Stats    ingest.Stats

	OriginalRate  int
	OutputRate    int
	Ratio         float64
	InputSamples  int
	OutputSamples int

	Output   string
	Duration time.Duration
}

// Convert loads opts.Input, lowers its rate to opts.TargetRate by decimation
// and writes the result as a 16-bit stereo WAV to opts.Output.
//
// An out of range target rate is logged and the input is written unchanged
// at its original rate. Every other failure is returned and leaves no
// output file behind.
func Convert(ctx context.Context, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	output := opts.Output
	if output == "" {
		output = DefaultOutput
	}

	loader := opts.Loader
	if loader == nil {
		loader = ingest.NewLoader(ingest.New(formats.Default(), ingest.WithLogger(log)), true)
	}

	log.Info("loading audio file", "input", opts.Input)

	res, err := loader.Load(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.Input, err)
	}

	rep := &Report{
		Input:        res.Descriptor,
		Fallback:     res.Fallback,
		Stats:        res.Stats,
		OriginalRate: res.Descriptor.SampleRate,
		InputSamples: len(res.Samples),
		Output:       output,
	}

	log.Info("input information",
		"codec", res.Descriptor.Codec,
		"sample_rate", res.Descriptor.SampleRate,
		"channels", res.Descriptor.Channels,
		"duration", res.Descriptor.Duration,
		"fallback", res.Fallback,
	)

	samples, err := pcm.Decimate(res.Samples, rep.OriginalRate, opts.TargetRate, pcm.WithIndexing(opts.Indexing))
	switch {
	case errors.Is(err, pcm.ErrInvalidRate):
		log.Error("keeping original rate", "error", err)
		rep.OutputRate = rep.OriginalRate
		rep.Ratio = 1
	case err != nil:
		return nil, fmt.Errorf("downsample: %w", err)
	default:
		rep.OutputRate = opts.TargetRate
		rep.Ratio = float64(rep.OriginalRate) / float64(opts.TargetRate)
	}

	rep.OutputSamples = len(samples)

	log.Info("downsampling",
		"original_rate", rep.OriginalRate,
		"target_rate", opts.TargetRate,
		"ratio", rep.Ratio,
		"indexing", opts.Indexing,
		"original_samples", rep.InputSamples,
		"new_samples", rep.OutputSamples,
	)

	if err := wav.WriteFile(output, samples, rep.OutputRate); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	frames := rep.OutputSamples / pcm.Channels
	rep.Duration = time.Duration(frames) * time.Second / time.Duration(rep.OutputRate)

	log.Info("saved audio",
		"output", output,
		"format", "16-bit PCM WAV",
		"sample_rate", rep.OutputRate,
		"channels", pcm.Channels,
		"duration_seconds", rep.Duration.Seconds(),
	)

	return rep, nil
}
