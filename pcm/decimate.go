// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"
	"strings"
)

// Indexing selects how Decimate maps output positions to input positions.
type Indexing int

const (
	// IndexFrames picks whole stereo frames, keeping left and right aligned.
	IndexFrames Indexing = iota
	// IndexSamples picks individual interleaved samples using the rate
	// ratio directly. This reproduces the legacy output bit for bit, but
	// channels shear whenever floor(i*ratio) lands on an odd index.
	IndexSamples
)

// String returns the configuration name of the indexing mode.
func (i Indexing) String() string {
	switch i {
	case IndexFrames:
		return "frames"
	case IndexSamples:
		return "samples"
	default:
		return fmt.Sprintf("Indexing(%d)", int(i))
	}
}

// ParseIndexing converts "frames" or "samples" into an Indexing.
func ParseIndexing(s string) (Indexing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "frames", "frame":
		return IndexFrames, nil
	case "samples", "sample":
		return IndexSamples, nil
	default:
		return IndexFrames, fmt.Errorf("unknown indexing %q (want frames|samples)", s)
	}
}

// DecimateOption configures Decimate.
type DecimateOption func(*decimateConfig)

type decimateConfig struct {
	indexing Indexing
}

// WithIndexing selects the index mapping used by Decimate.
func WithIndexing(i Indexing) DecimateOption {
	return func(c *decimateConfig) { c.indexing = i }
}

// Decimate lowers the sample rate of interleaved stereo samples from
// originalRate to targetRate by nearest-sample selection. No filtering is
// applied, so content above the new Nyquist frequency aliases.
//
// The result is always a new slice. When the rates are invalid (targetRate
// not in (0, originalRate)) samples is returned unchanged together with an
// error wrapping ErrInvalidRate. When the result would be empty, nil is
// returned with an error wrapping ErrEmptyResult.
//
// Decimate is a pure function of its inputs.
func Decimate(samples []int16, originalRate, targetRate int, opts ...DecimateOption) ([]int16, error) {
	cfg := decimateConfig{indexing: IndexFrames}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no audio data loaded", ErrEmptyResult)
	}

	if targetRate <= 0 || originalRate <= 0 || targetRate >= originalRate {
		return samples, fmt.Errorf("%w: target sample rate must be > 0 and < %d, got %d",
			ErrInvalidRate, originalRate, targetRate)
	}

	ratio := float64(originalRate) / float64(targetRate)

	var out []int16
	switch cfg.indexing {
	case IndexSamples:
		out = decimateSamples(samples, ratio)
	default:
		out = decimateFrames(samples, ratio)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: downsampling would produce empty output", ErrEmptyResult)
	}

	return out, nil
}

// OutputLen returns the number of samples Decimate produces for an input of
// n samples at the given ratio (originalRate / targetRate).
func OutputLen(n int, ratio float64, indexing Indexing) int {
	if n <= 0 || ratio <= 0 {
		return 0
	}

	if indexing == IndexSamples {
		return int(float64(n) / ratio)
	}

	return int(float64(n/Channels)/ratio) * Channels
}

func decimateSamples(samples []int16, ratio float64) []int16 {
	newSize := OutputLen(len(samples), ratio, IndexSamples)
	out := make([]int16, newSize)

	for i := range newSize {
		src := int(float64(i) * ratio)
		if src < len(samples) {
			out[i] = samples[src]
		}
	}

	return out
}

func decimateFrames(samples []int16, ratio float64) []int16 {
	newSize := OutputLen(len(samples), ratio, IndexFrames)
	out := make([]int16, newSize)
	frames := len(samples) / Channels

	for f := range newSize / Channels {
		src := int(float64(f) * ratio)
		if src >= frames {
			break
		}
		copy(out[f*Channels:(f+1)*Channels], samples[src*Channels:(src+1)*Channels])
	}

	return out
}
