// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/pcmdown/pcm"
)

// Converter turns decoded frames into interleaved stereo S16 at the input
// sample rate.
type Converter struct {
	sampleRate  int
	channels    int
	blockFrames int

	mixer   stereoMixer
	pending []int16
	scratch []int16
}

type ConverterOption func(*Converter)

// WithBlockFrames makes the converter emit output only in whole blocks of
// n frames. The remainder stays buffered until the next call or Flush.
func WithBlockFrames(n int) ConverterOption {
	return func(c *Converter) {
		if n > 0 {
			c.blockFrames = n
		}
	}
}

func NewConverter(in StreamInfo, opts ...ConverterOption) (*Converter, error) {
	if in.SampleRate <= 0 || in.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupportedFormat, in.SampleRate, in.Channels)
	}

	c := &Converter{
		sampleRate: in.SampleRate,
		channels:   in.Channels,
		mixer:      newStereoMixer(in.Channels),
		scratch:    make([]int16, in.Channels),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Converter) SampleRate() int { return c.sampleRate }
func (c *Converter) Channels() int   { return c.channels }

// OutSamples estimates how many stereo frames a frame of inFrames samples
// may produce, counting frames still buffered.
func (c *Converter) OutSamples(inFrames int) int {
	return len(c.pending)/pcm.Channels + inFrames
}

// Convert returns the stereo samples ready after consuming f. The result
// may be empty when output is held back for block alignment.
func (c *Converter) Convert(f *Frame) ([]int16, error) {
	if f == nil {
		return nil, nil
	}

	if f.SampleRate != c.sampleRate || f.Channels != c.channels {
		return nil, fmt.Errorf("%w: got %d Hz %d ch, want %d Hz %d ch",
			ErrFrameMismatch, f.SampleRate, f.Channels, c.sampleRate, c.channels)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	out := c.pending
	bps := f.Format.BytesPerSample()
	planar := f.Format.IsPlanar()

	for i := range f.NumSamples {
		for ch := range c.channels {
			var off int
			var src []byte
			if planar {
				src, off = f.Data[ch], i*bps
			} else {
				src, off = f.Data[0], (i*c.channels+ch)*bps
			}
			c.scratch[ch] = f.Format.toS16(src[off:])
		}

		l, r := c.mixer.mix(c.scratch)
		out = append(out, l, r)
	}

	if c.blockFrames == 0 {
		c.pending = nil
		return out, nil
	}

	ready := (len(out) / pcm.Channels / c.blockFrames) * c.blockFrames * pcm.Channels
	emit := make([]int16, ready)
	copy(emit, out[:ready])
	c.pending = append(out[:0:0], out[ready:]...)

	return emit, nil
}

// Flush returns every buffered frame. Call it once after the last Convert.
func (c *Converter) Flush() []int16 {
	out := c.pending
	c.pending = nil
	return out
}

// Canonicalize converts f and appends the result to buf, returning the
// number of stereo frames appended. Frames whose estimated output is empty
// are skipped.
func Canonicalize(c *Converter, f *Frame, buf *pcm.Buffer) (int, error) {
	if f == nil || c.OutSamples(f.NumSamples) <= 0 {
		return 0, nil
	}

	out, err := c.Convert(f)
	if err != nil {
		return 0, err
	}

	if len(out) == 0 {
		return 0, nil
	}

	if err := buf.Append(out); err != nil {
		return 0, fmt.Errorf("append converted frame: %w", err)
	}

	return len(out) / pcm.Channels, nil
}
