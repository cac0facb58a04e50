// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	mflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/pcmdown/audio"
)

// ErrChannelCount is returned when a frame disagrees with the stream header.
var ErrChannelCount = errors.New("flac frame channel count differs from stream")

// Register adds the FLAC container and codec to reg.
func Register(reg *audio.Registry) {
	reg.Register(audio.Container{Name: "flac", Probe: Probe, Open: Open})
	reg.RegisterCodec("flac", audio.NewPCMCodec(audio.S32P))
}

func Probe(header []byte) bool {
	return bytes.HasPrefix(header, []byte("fLaC"))
}

// frameParser is the part of *flac.Stream used for decoding, to allow testing.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

// demuxer decodes one FLAC frame per packet. Packets carry S32P planes
// back to back, left-justified so every bit depth spans the full range.
type demuxer struct {
	stream frameParser
	info   audio.StreamInfo
	shift  uint
	done   bool
}

func Open(rs io.ReadSeeker) (audio.Demuxer, error) {
	stream, err := mflac.Parse(rs)
	if err != nil {
		return nil, fmt.Errorf("open flac: %w", err)
	}

	si := stream.Info
	info := audio.StreamInfo{
		Type:       audio.MediaAudio,
		Codec:      "flac",
		SampleRate: int(si.SampleRate),
		Channels:   int(si.NChannels),
		BitDepth:   int(si.BitsPerSample),
	}

	if si.NSamples > 0 && si.SampleRate > 0 {
		info.Duration = time.Duration(si.NSamples) * time.Second / time.Duration(si.SampleRate)
	}

	return newDemuxer(stream, info), nil
}

func newDemuxer(stream frameParser, info audio.StreamInfo) *demuxer {
	var shift uint
	if info.BitDepth > 0 && info.BitDepth < 32 {
		shift = uint(32 - info.BitDepth)
	}

	return &demuxer{stream: stream, info: info, shift: shift}
}

func (d *demuxer) Name() string                { return "flac" }
func (d *demuxer) Streams() []audio.StreamInfo { return []audio.StreamInfo{d.info} }
func (d *demuxer) Close() error                { return nil }

func (d *demuxer) ReadPacket() (*audio.Packet, error) {
	if d.done {
		return nil, io.EOF
	}

	f, err := d.stream.ParseNext()
	if err != nil {
		d.done = true
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decode flac frame: %w", err)
	}

	if len(f.Subframes) != d.info.Channels {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrChannelCount, len(f.Subframes), d.info.Channels)
	}

	n := f.Subframes[0].NSamples
	data := make([]byte, 0, n*4*d.info.Channels)

	for _, sub := range f.Subframes {
		for i := range n {
			data = binary.LittleEndian.AppendUint32(data, uint32(sub.Samples[i]<<d.shift))
		}
	}

	return &audio.Packet{StreamIndex: d.info.Index, Data: data}, nil
}
