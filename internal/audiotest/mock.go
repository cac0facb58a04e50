// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/pcmdown/audio"
)

// Magic is the probe header of the fake container.
const Magic = "FAKE"

// ErrSendFailed is returned by FakeCodec for rejected packets.
var ErrSendFailed = errors.New("fake codec rejected packet")

// Sine generates frames of interleaved S16 samples of a sine wave at half
// amplitude, the same value on every channel.
func Sine(sampleRate, channels, frames int, frequency float64) []int16 {
	out := make([]int16, 0, frames*channels)
	for i := range frames {
		t := float64(i) / float64(sampleRate)
		v := int16(16383 * math.Sin(2*math.Pi*frequency*t))
		for range channels {
			out = append(out, v)
		}
	}
	return out
}

// Ramp generates interleaved S16 samples counting up from 0.
func Ramp(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(i)
	}
	return out
}

// S16Bytes encodes samples as little-endian 16-bit.
func S16Bytes(samples []int16) []byte {
	b := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		b = binary.LittleEndian.AppendUint16(b, uint16(s))
	}
	return b
}

// S16Frame builds an interleaved S16 frame.
func S16Frame(sampleRate, channels int, samples []int16) *audio.Frame {
	return &audio.Frame{
		Format:     audio.S16,
		SampleRate: sampleRate,
		Channels:   channels,
		NumSamples: len(samples) / channels,
		Data:       [][]byte{S16Bytes(samples)},
	}
}

// FakeDemuxer replays a fixed packet list.
type FakeDemuxer struct {
	StreamList []audio.StreamInfo
	Packets    []*audio.Packet
	// ReadErr is returned once the packets are exhausted instead of io.EOF.
	ReadErr error

	Closed bool
	pos    int
}

func (d *FakeDemuxer) Name() string                { return "fake" }
func (d *FakeDemuxer) Streams() []audio.StreamInfo { return d.StreamList }

func (d *FakeDemuxer) ReadPacket() (*audio.Packet, error) {
	if d.pos >= len(d.Packets) {
		if d.ReadErr != nil {
			return nil, d.ReadErr
		}
		return nil, io.EOF
	}

	p := d.Packets[d.pos]
	d.pos++
	return p, nil
}

func (d *FakeDemuxer) Close() error {
	d.Closed = true
	return nil
}

// FakeCodec wraps a real codec and rejects packets matching Reject.
type FakeCodec struct {
	Inner  audio.Codec
	Reject func(p *audio.Packet) bool

	Closed bool
}

func (c *FakeCodec) Send(p *audio.Packet) error {
	if p != nil && c.Reject != nil && c.Reject(p) {
		return ErrSendFailed
	}
	return c.Inner.Send(p)
}

func (c *FakeCodec) Receive() (*audio.Frame, error) { return c.Inner.Receive() }

func (c *FakeCodec) Close() error {
	c.Closed = true
	return c.Inner.Close()
}

// Registry returns a registry whose only container yields d for files
// starting with Magic, with codec registered under name.
func Registry(d *FakeDemuxer, name string, codec audio.CodecFactory) *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(audio.Container{
		Name:  "fake",
		Probe: func(h []byte) bool { return bytes.HasPrefix(h, []byte(Magic)) },
		Open:  func(io.ReadSeeker) (audio.Demuxer, error) { return d, nil },
	})
	if codec != nil {
		reg.RegisterCodec(name, codec)
	}
	return reg
}

// WriteFile writes data into a fresh file under t.TempDir and returns its path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WAVBytes builds a canonical 44-byte-header 16-bit PCM WAV.
func WAVBytes(sampleRate, channels int, samples []int16) []byte {
	return RawWAV(1, sampleRate, channels, 16, S16Bytes(samples))
}

// RawWAV builds a 44-byte-header WAV with the given fmt fields and payload.
func RawWAV(format, sampleRate, channels, bits int, data []byte) []byte {
	blockAlign := channels * bits / 8

	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+len(data)))
	b.WriteString("WAVEfmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(format))
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate*blockAlign))
	_ = binary.Write(&b, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&b, binary.LittleEndian, uint16(bits))
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, uint32(len(data)))
	b.Write(data)

	return b.Bytes()
}
