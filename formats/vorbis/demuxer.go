// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/pcmdown/audio"
)

const packetFrames = 4096

// Register adds the Ogg Vorbis container and codec to reg.
func Register(reg *audio.Registry) {
	reg.Register(audio.Container{Name: "ogg", Probe: Probe, Open: Open})
	reg.RegisterCodec("vorbis", audio.NewPCMCodec(audio.F32))
}

func Probe(header []byte) bool {
	return bytes.HasPrefix(header, []byte("OggS"))
}

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Read([]float32) (int, error)
}

// demuxer decodes inside ReadPacket; packets carry interleaved F32 PCM.
type demuxer struct {
	dec  oggReader
	info audio.StreamInfo
	buf  []float32
	done bool
}

func Open(rs io.ReadSeeker) (audio.Demuxer, error) {
	dec, err := oggvorbis.NewReader(rs)
	if err != nil {
		return nil, fmt.Errorf("open ogg vorbis: %w", err)
	}

	return newDemuxer(dec), nil
}

func newDemuxer(dec oggReader) *demuxer {
	info := audio.StreamInfo{
		Type:       audio.MediaAudio,
		Codec:      "vorbis",
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
	}

	if n := dec.Length(); n > 0 && info.SampleRate > 0 {
		info.Duration = time.Duration(n) * time.Second / time.Duration(info.SampleRate)
	}

	return &demuxer{
		dec:  dec,
		info: info,
		buf:  make([]float32, packetFrames*max(info.Channels, 1)),
	}
}

func (d *demuxer) Name() string                { return "ogg" }
func (d *demuxer) Streams() []audio.StreamInfo { return []audio.StreamInfo{d.info} }
func (d *demuxer) Close() error                { return nil }

func (d *demuxer) ReadPacket() (*audio.Packet, error) {
	if d.done {
		return nil, io.EOF
	}

	n, err := d.dec.Read(d.buf)
	if err != nil {
		d.done = true
		if !errors.Is(err, io.EOF) && n == 0 {
			return nil, fmt.Errorf("decode vorbis: %w", err)
		}
	}

	if d.info.Channels > 0 {
		n -= n % d.info.Channels
	}

	if n == 0 {
		if d.done {
			return nil, io.EOF
		}
		// The decoder may return nothing between pages.
		return &audio.Packet{StreamIndex: d.info.Index}, nil
	}

	return &audio.Packet{
		StreamIndex: d.info.Index,
		Data:        audio.EncodeFloat32s(make([]byte, 0, n*4), d.buf[:n]),
	}, nil
}
