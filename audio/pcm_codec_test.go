// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestCodec(t *testing.T, format SampleFormat, channels int) Codec {
	t.Helper()

	c, err := NewPCMCodec(format)(StreamInfo{Type: MediaAudio, SampleRate: 8000, Channels: channels})
	if err != nil {
		t.Fatalf("NewPCMCodec() error = %v", err)
	}
	return c
}

func TestPCMCodec_SendReceive(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, S16, 2)
	defer c.Close()

	if _, err := c.Receive(); !errors.Is(err, ErrAgain) {
		t.Fatalf("Receive() on empty codec error = %v, want ErrAgain", err)
	}

	if err := c.Send(&Packet{Data: []byte{1, 0, 2, 0, 3, 0, 4, 0}}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	f, err := c.Receive()
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}

	if f.NumSamples != 2 || f.Channels != 2 || f.SampleRate != 8000 || f.Format != S16 {
		t.Errorf("Receive() frame = %+v", f)
	}

	if _, err := c.Receive(); !errors.Is(err, ErrAgain) {
		t.Errorf("second Receive() error = %v, want ErrAgain", err)
	}

	if err := c.Send(nil); err != nil {
		t.Fatalf("Send(nil) error = %v", err)
	}

	if _, err := c.Receive(); !errors.Is(err, io.EOF) {
		t.Errorf("Receive() after flush error = %v, want io.EOF", err)
	}
}

func TestPCMCodec_DrainsQueueBeforeEOF(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, U8, 1)

	_ = c.Send(&Packet{Data: []byte{128}})
	_ = c.Send(&Packet{Data: []byte{129, 130}})
	_ = c.Send(nil)

	var got []int
	for {
		f, err := c.Receive()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Receive() error = %v", err)
		}
		got = append(got, f.NumSamples)
	}

	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("frame sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestPCMCodec_InvalidPackets(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, S16, 2)

	if err := c.Send(&Packet{Data: []byte{1, 2, 3}}); !errors.Is(err, ErrInvalidPacket) {
		t.Errorf("Send(3 bytes) error = %v, want ErrInvalidPacket", err)
	}

	if err := c.Send(&Packet{}); err != nil {
		t.Errorf("Send(empty) error = %v", err)
	}

	_ = c.Send(nil)
	if err := c.Send(&Packet{Data: make([]byte, 4)}); !errors.Is(err, ErrInvalidPacket) {
		t.Errorf("Send() after flush error = %v, want ErrInvalidPacket", err)
	}
}

func TestPCMCodec_PlanarSplit(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, S16P, 2)

	// Left plane 1,2 then right plane 3,4.
	if err := c.Send(&Packet{Data: []byte{1, 0, 2, 0, 3, 0, 4, 0}}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	f, err := c.Receive()
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}

	want := [][]byte{{1, 0, 2, 0}, {3, 0, 4, 0}}
	if diff := cmp.Diff(want, f.Data); diff != "" {
		t.Errorf("planes mismatch (-want +got):\n%s", diff)
	}
}

func TestPCMCodec_CopiesPacketData(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, S16, 1)
	data := []byte{1, 0}

	_ = c.Send(&Packet{Data: data})
	data[0] = 9

	f, _ := c.Receive()
	if f.Data[0][0] != 1 {
		t.Error("frame aliases packet data")
	}
}

func TestNewPCMCodec_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format SampleFormat
		info   StreamInfo
	}{
		{"unknown format", UnknownFormat, StreamInfo{SampleRate: 8000, Channels: 1}},
		{"zero rate", S16, StreamInfo{Channels: 1}},
		{"zero channels", S16, StreamInfo{SampleRate: 8000}},
	}

	for _, tt := range tests {
		if _, err := NewPCMCodec(tt.format)(tt.info); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: error = %v, want ErrUnsupportedFormat", tt.name, err)
		}
	}
}
