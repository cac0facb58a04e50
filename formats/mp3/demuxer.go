// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/pcmdown/audio"
)

const (
	// go-mp3 always produces 16-bit little-endian stereo.
	channels  = 2
	frameSize = channels * 2

	packetFrames = 4096
)

// Register adds the MP3 container and codec to reg. MP3 is probed by frame
// sync, which is weak, so register it after the other containers.
func Register(reg *audio.Registry) {
	reg.Register(audio.Container{Name: "mp3", Probe: Probe, Open: Open})
	reg.RegisterCodec("mp3", audio.NewPCMCodec(audio.S16))
}

// Probe accepts an ID3v2 tag or an MPEG audio frame sync.
func Probe(header []byte) bool {
	if bytes.HasPrefix(header, []byte("ID3")) {
		return true
	}

	return len(header) >= 2 && header[0] == 0xff && header[1]&0xe0 == 0xe0
}

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

// demuxer decodes inside ReadPacket; packets carry S16 stereo PCM.
type demuxer struct {
	dec  mp3Reader
	info audio.StreamInfo
	buf  []byte
	done bool
}

func Open(rs io.ReadSeeker) (audio.Demuxer, error) {
	dec, err := gomp3.NewDecoder(rs)
	if err != nil {
		return nil, fmt.Errorf("open mp3: %w", err)
	}

	return newDemuxer(dec), nil
}

func newDemuxer(dec mp3Reader) *demuxer {
	info := audio.StreamInfo{
		Type:       audio.MediaAudio,
		Codec:      "mp3",
		SampleRate: dec.SampleRate(),
		Channels:   channels,
		BitDepth:   16,
	}

	if n := dec.Length(); n > 0 && info.SampleRate > 0 {
		info.Duration = time.Duration(n/frameSize) * time.Second / time.Duration(info.SampleRate)
	}

	return &demuxer{
		dec:  dec,
		info: info,
		buf:  make([]byte, packetFrames*frameSize),
	}
}

func (d *demuxer) Name() string                { return "mp3" }
func (d *demuxer) Streams() []audio.StreamInfo { return []audio.StreamInfo{d.info} }
func (d *demuxer) Close() error                { return nil }

func (d *demuxer) ReadPacket() (*audio.Packet, error) {
	if d.done {
		return nil, io.EOF
	}

	n, err := io.ReadFull(d.dec, d.buf)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		d.done = true
	case err != nil:
		d.done = true
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	n -= n % frameSize
	if n == 0 {
		return nil, io.EOF
	}

	data := make([]byte, n)
	copy(data, d.buf[:n])

	return &audio.Packet{StreamIndex: d.info.Index, Data: data}, nil
}
