// SPDX-License-Identifier: EPL-2.0

package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/pcmdown/audio"
	"github.com/ik5/pcmdown/formats/wav"
)

// Loader runs the pipeline and, when it fails, retries the input with the
// raw WAV reader.
type Loader struct {
	Pipeline *Pipeline
	// Fallback enables the raw WAV reader.
	Fallback bool
}

func NewLoader(p *Pipeline, fallback bool) *Loader {
	return &Loader{Pipeline: p, Fallback: fallback}
}

// Load returns the canonical PCM of path. Context cancellation is returned
// as is and never triggers the fallback. When both paths fail the error
// joins both causes.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	res, err := l.Pipeline.Ingest(ctx, path)
	if err == nil {
		return res, nil
	}

	if !l.Fallback || ctx.Err() != nil {
		return nil, err
	}

	log := l.Pipeline.logger().With("input", path)
	log.Warn("decoder failed, trying WAV fallback", "error", err)

	samples, ferr := wav.ReadFallback(path)
	if ferr != nil {
		return nil, errors.Join(err, fmt.Errorf("wav fallback: %w", ferr))
	}

	if limit := l.Pipeline.MaxSamples; limit > 0 && len(samples) > limit {
		return nil, errors.Join(err, fmt.Errorf("wav fallback: %w: %d samples exceed limit %d",
			audio.ErrAllocation, len(samples), limit))
	}

	desc := audio.Descriptor{
		SampleRate: wav.FallbackSampleRate,
		Channels:   wav.FallbackChannels,
		Codec:      wav.FallbackCodec,
		Container:  "wav",
	}

	log.Info("input read by WAV fallback",
		"sample_rate", desc.SampleRate,
		"channels", desc.Channels,
		"samples", len(samples),
	)

	return &Result{
		Descriptor: desc,
		Samples:    samples,
		Stats:      Stats{Frames: len(samples) / wav.FallbackChannels},
		Fallback:   true,
	}, nil
}
