// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/pcmdown/audio"
)

// packetFrames is the number of sample frames per demuxed packet.
const packetFrames = 4096

const (
	formatPCM        = 0x0001
	formatFloat      = 0x0003
	formatExtensible = 0xfffe
)

// Register adds the WAV container and its PCM codecs to reg.
func Register(reg *audio.Registry) {
	reg.Register(audio.Container{Name: "wav", Probe: Probe, Open: Open})

	reg.RegisterCodec("pcm_u8", audio.NewPCMCodec(audio.U8))
	reg.RegisterCodec("pcm_s16le", audio.NewPCMCodec(audio.S16))
	reg.RegisterCodec("pcm_s24le", audio.NewPCMCodec(audio.S24))
	reg.RegisterCodec("pcm_s32le", audio.NewPCMCodec(audio.S32))
	reg.RegisterCodec("pcm_f32le", audio.NewPCMCodec(audio.F32))
	reg.RegisterCodec("pcm_f64le", audio.NewPCMCodec(audio.F64))
}

// Probe reports whether header starts a RIFF/WAVE file.
func Probe(header []byte) bool {
	return len(header) >= 12 &&
		bytes.HasPrefix(header, []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

// pcmReader is the part of *gowav.Decoder used after the headers are parsed.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type demuxer struct {
	info   audio.StreamInfo
	format audio.SampleFormat

	// Integer PCM goes through the decoder, float PCM is read raw.
	pcm pcmReader
	raw io.Reader

	buf     *goaudio.IntBuffer
	pending []int
	rawBuf  []byte
	done    bool
}

// Open parses the RIFF headers and positions rs at the start of the data chunk.
func Open(rs io.ReadSeeker) (audio.Demuxer, error) {
	dec := gowav.NewDecoder(rs)

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrNotWavFile
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDataChunk, err)
	}

	if dec.PCMChunk == nil {
		return nil, ErrMissingDataChunk
	}

	codec, format := codecFor(dec.WavAudioFormat, int(dec.BitDepth))

	info := audio.StreamInfo{
		Index:      0,
		Type:       audio.MediaAudio,
		Codec:      codec,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}

	info.Duration = pcmDuration(dec.PCMSize, info.SampleRate, info.Channels, info.BitDepth)

	return newDemuxer(info, format, dec, dec.PCMChunk.R), nil
}

func newDemuxer(info audio.StreamInfo, format audio.SampleFormat, pcm pcmReader, raw io.Reader) *demuxer {
	d := &demuxer{info: info, format: format}

	switch format {
	case audio.F32, audio.F64:
		d.raw = raw
		d.rawBuf = make([]byte, packetFrames*info.Channels*format.BytesPerSample())
	default:
		d.pcm = pcm
		d.buf = &goaudio.IntBuffer{
			Format: &goaudio.Format{NumChannels: info.Channels, SampleRate: info.SampleRate},
			Data:   make([]int, packetFrames*info.Channels),
		}
	}

	return d
}

// pcmDuration derives the play time from the data chunk size. The RIFF
// size would also count the header chunks.
func pcmDuration(size, sampleRate, channels, bits int) time.Duration {
	bytesPerSec := sampleRate * channels * bits / 8
	if size <= 0 || bytesPerSec <= 0 {
		return 0
	}

	return time.Duration(size) * time.Second / time.Duration(bytesPerSec)
}

// codecFor maps the fmt chunk to a registry codec name. Unknown layouts get
// a name no codec is registered under, so ingestion reports them as
// unsupported.
func codecFor(wavFormat uint16, bits int) (string, audio.SampleFormat) {
	switch wavFormat {
	case formatPCM, formatExtensible:
		switch bits {
		case 8:
			return "pcm_u8", audio.U8
		case 16:
			return "pcm_s16le", audio.S16
		case 24:
			return "pcm_s24le", audio.S24
		case 32:
			return "pcm_s32le", audio.S32
		}
	case formatFloat:
		switch bits {
		case 32:
			return "pcm_f32le", audio.F32
		case 64:
			return "pcm_f64le", audio.F64
		}
	}

	return fmt.Sprintf("wav_0x%04x_%d", wavFormat, bits), audio.UnknownFormat
}

func (d *demuxer) Name() string                { return "wav" }
func (d *demuxer) Streams() []audio.StreamInfo { return []audio.StreamInfo{d.info} }
func (d *demuxer) Close() error                { return nil }

func (d *demuxer) ReadPacket() (*audio.Packet, error) {
	if d.done {
		return nil, io.EOF
	}

	if d.format.BytesPerSample() == 0 {
		d.done = true
		return nil, fmt.Errorf("%w: %s", audio.ErrUnsupportedCodec, d.info.Codec)
	}

	if d.raw != nil {
		return d.readRaw()
	}

	return d.readInts()
}

func (d *demuxer) readInts() (*audio.Packet, error) {
	n, err := d.pcm.PCMBuffer(d.buf)
	if err != nil {
		d.done = true
		return nil, fmt.Errorf("read wav pcm: %w", err)
	}

	if n == 0 {
		// A trailing partial frame is dropped.
		d.done = true
		return nil, io.EOF
	}

	d.pending = append(d.pending, d.buf.Data[:n]...)
	whole := len(d.pending) - len(d.pending)%d.info.Channels

	data := audio.EncodeInts(make([]byte, 0, whole*d.format.BytesPerSample()), d.pending[:whole], d.format)
	d.pending = append(d.pending[:0], d.pending[whole:]...)

	return &audio.Packet{StreamIndex: d.info.Index, Data: data}, nil
}

func (d *demuxer) readRaw() (*audio.Packet, error) {
	frameSize := d.info.Channels * d.format.BytesPerSample()

	n, err := io.ReadFull(d.raw, d.rawBuf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		d.done = true
		return nil, fmt.Errorf("read wav pcm: %w", err)
	}

	if err != nil {
		d.done = true
	}

	n -= n % frameSize
	if n == 0 {
		d.done = true
		return nil, io.EOF
	}

	data := make([]byte, n)
	copy(data, d.rawBuf[:n])

	return &audio.Packet{StreamIndex: d.info.Index, Data: data}, nil
}
