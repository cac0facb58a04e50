// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// NewPCMCodec returns a factory for codecs that pass raw samples through.
//
// Every packet must contain whole sample frames in format. For planar
// formats the packet holds the channel planes back to back, each of equal
// length. Container backends that decode inside the demuxer (mp3, vorbis,
// flac) hand their output to this codec as well.
func NewPCMCodec(format SampleFormat) CodecFactory {
	return func(info StreamInfo) (Codec, error) {
		if format.BytesPerSample() == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
		}

		if info.SampleRate <= 0 || info.Channels <= 0 {
			return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupportedFormat, info.SampleRate, info.Channels)
		}

		return &pcmCodec{
			format:     format,
			sampleRate: info.SampleRate,
			channels:   info.Channels,
		}, nil
	}
}

type pcmCodec struct {
	format     SampleFormat
	sampleRate int
	channels   int

	queue    []*Frame
	draining bool
}

func (c *pcmCodec) Send(p *Packet) error {
	if p == nil {
		c.draining = true
		return nil
	}

	if c.draining {
		return fmt.Errorf("%w: packet sent after end of stream", ErrInvalidPacket)
	}

	if len(p.Data) == 0 {
		return nil
	}

	frameSize := c.format.BytesPerSample() * c.channels
	if len(p.Data)%frameSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of the %d byte frame size",
			ErrInvalidPacket, len(p.Data), frameSize)
	}

	n := len(p.Data) / frameSize
	data := make([]byte, len(p.Data))
	copy(data, p.Data)

	f := &Frame{
		Format:     c.format,
		SampleRate: c.sampleRate,
		Channels:   c.channels,
		NumSamples: n,
	}

	if c.format.IsPlanar() {
		planeSize := n * c.format.BytesPerSample()
		f.Data = make([][]byte, c.channels)
		for ch := range c.channels {
			f.Data[ch] = data[ch*planeSize : (ch+1)*planeSize]
		}
	} else {
		f.Data = [][]byte{data}
	}

	c.queue = append(c.queue, f)

	return nil
}

func (c *pcmCodec) Receive() (*Frame, error) {
	if len(c.queue) > 0 {
		f := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		return f, nil
	}

	if c.draining {
		return nil, io.EOF
	}

	return nil, ErrAgain
}

func (c *pcmCodec) Close() error {
	c.queue = nil
	return nil
}
