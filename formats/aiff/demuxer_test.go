// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/google/go-cmp/cmp"

	"github.com/ik5/pcmdown/audio"
)

// mockAiffReader replays fixed PCMBuffer results
type mockAiffReader struct {
	chunks [][]int
	err    error
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if len(m.chunks) == 0 {
		return 0, m.err
	}

	n := copy(buf.Data, m.chunks[0])
	m.chunks = m.chunks[1:]
	return n, nil
}

func readAll(t *testing.T, d audio.Demuxer) []byte {
	t.Helper()

	var out []byte
	for {
		p, err := d.ReadPacket()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadPacket() error = %v", err)
		}
		out = append(out, p.Data...)
	}
}

func TestDemuxer_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   audio.SampleFormat
		channels int
		chunks   [][]int
		want     []byte
	}{
		{"s8 biased", audio.U8, 1, [][]int{{0, 127, -128}}, []byte{128, 255, 0}},
		{"s16 little endian", audio.S16, 2, [][]int{{1, -1}}, []byte{1, 0, 0xff, 0xff}},
		{"s24 packed", audio.S24, 1, [][]int{{0x123456}}, []byte{0x56, 0x34, 0x12}},
		{"partial frame carried", audio.S16, 2, [][]int{{1}, {2}}, []byte{1, 0, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := audio.StreamInfo{Type: audio.MediaAudio, SampleRate: 8000, Channels: tt.channels}
			d := newDemuxer(&mockAiffReader{chunks: tt.chunks}, info, tt.format)

			if diff := cmp.Diff(tt.want, readAll(t, d)); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDemuxer_ReadError(t *testing.T) {
	t.Parallel()

	readErr := errors.New("truncated SSND")
	info := audio.StreamInfo{Type: audio.MediaAudio, SampleRate: 8000, Channels: 1}
	d := newDemuxer(&mockAiffReader{err: readErr}, info, audio.S16)

	if _, err := d.ReadPacket(); !errors.Is(err, readErr) {
		t.Fatalf("ReadPacket() error = %v, want %v", err, readErr)
	}

	if _, err := d.ReadPacket(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadPacket() after failure = %v, want io.EOF", err)
	}
}

func TestOpen_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Open(bytes.NewReader([]byte("not an aiff file at all, just text")))
	if !errors.Is(err, ErrNotAiffFile) {
		t.Errorf("Open() error = %v, want ErrNotAiffFile", err)
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   bool
	}{
		{"FORM\x00\x00\x00\x00AIFF", true},
		{"FORM\x00\x00\x00\x00AIFC", true},
		{"FORM\x00\x00\x00\x00ILBM", false},
		{"FORM", false},
		{"RIFF\x00\x00\x00\x00WAVE", false},
	}

	for _, tt := range tests {
		if got := Probe([]byte(tt.header)); got != tt.want {
			t.Errorf("Probe(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
