// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/pcmdown/audio"
)

const packetFrames = 4096

// Register adds the AIFF container and its codecs to reg. Samples are
// re-encoded little-endian by the demuxer.
func Register(reg *audio.Registry) {
	reg.Register(audio.Container{Name: "aiff", Probe: Probe, Open: Open})

	reg.RegisterCodec("pcm_s8", audio.NewPCMCodec(audio.U8))
	reg.RegisterCodec("pcm_s16be", audio.NewPCMCodec(audio.S16))
	reg.RegisterCodec("pcm_s24be", audio.NewPCMCodec(audio.S24))
	reg.RegisterCodec("pcm_s32be", audio.NewPCMCodec(audio.S32))
}

// Probe accepts FORM containers of type AIFF or AIFC.
func Probe(header []byte) bool {
	if len(header) < 12 || !bytes.HasPrefix(header, []byte("FORM")) {
		return false
	}

	kind := header[8:12]
	return bytes.Equal(kind, []byte("AIFF")) || bytes.Equal(kind, []byte("AIFC"))
}

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type demuxer struct {
	dec    aiffReader
	info   audio.StreamInfo
	format audio.SampleFormat

	buf     *goaudio.IntBuffer
	pending []int
	done    bool
}

func Open(rs io.ReadSeeker) (audio.Demuxer, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	info := audio.StreamInfo{
		Type:       audio.MediaAudio,
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   int(dec.BitDepth),
	}

	sf := audio.UnknownFormat
	switch dec.BitDepth {
	case 8:
		info.Codec, sf = "pcm_s8", audio.U8
	case 16:
		info.Codec, sf = "pcm_s16be", audio.S16
	case 24:
		info.Codec, sf = "pcm_s24be", audio.S24
	case 32:
		info.Codec, sf = "pcm_s32be", audio.S32
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	return newDemuxer(dec, info, sf), nil
}

func newDemuxer(dec aiffReader, info audio.StreamInfo, format audio.SampleFormat) *demuxer {
	return &demuxer{
		dec:    dec,
		info:   info,
		format: format,
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{NumChannels: info.Channels, SampleRate: info.SampleRate},
			Data:   make([]int, packetFrames*info.Channels),
		},
	}
}

func (d *demuxer) Name() string                { return "aiff" }
func (d *demuxer) Streams() []audio.StreamInfo { return []audio.StreamInfo{d.info} }
func (d *demuxer) Close() error                { return nil }

func (d *demuxer) ReadPacket() (*audio.Packet, error) {
	if d.done {
		return nil, io.EOF
	}

	n, err := d.dec.PCMBuffer(d.buf)
	if err != nil && n == 0 {
		d.done = true
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read aiff pcm: %w", err)
	}

	if n == 0 {
		d.done = true
		return nil, io.EOF
	}

	samples := d.buf.Data[:n]
	if d.format == audio.U8 {
		// AIFF 8-bit is signed.
		for i := range samples {
			samples[i] += 128
		}
	}

	d.pending = append(d.pending, samples...)
	whole := len(d.pending) - len(d.pending)%d.info.Channels

	data := audio.EncodeInts(make([]byte, 0, whole*d.format.BytesPerSample()), d.pending[:whole], d.format)
	d.pending = append(d.pending[:0], d.pending[whole:]...)

	return &audio.Packet{StreamIndex: d.info.Index, Data: data}, nil
}
