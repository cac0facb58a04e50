// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ik5/pcmdown/pcm"
)

// Parameters assumed for audio read by ReadFallback. The fmt chunk is
// never consulted.
const (
	FallbackSampleRate = 44100
	FallbackChannels   = 2
	FallbackCodec      = "pcm_s16le (assumed)"
)

const headerSize = 44

// ReadFallback reads a canonical 44-byte-header WAV without decoding its
// fmt chunk. The data chunk must start at offset 36 and its payload is
// returned as little-endian int16 samples, assumed to be 44.1 kHz stereo.
//
// A payload shorter than declared yields what could be read. A trailing
// partial stereo frame is dropped.
func ReadFallback(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer f.Close()

	return readFallback(f)
}

func readFallback(r io.Reader) ([]int16, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: short header: %w", ErrNotWavFile, err)
	}

	if !bytes.Equal(header[0:4], []byte("RIFF")) || !bytes.Equal(header[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	if !bytes.Equal(header[36:40], []byte("data")) {
		return nil, ErrMissingDataChunk
	}

	size := int64(binary.LittleEndian.Uint32(header[40:44]))

	payload, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, fmt.Errorf("%w: read data: %w", ErrIO, err)
	}

	n := len(payload) / 2
	n -= n % FallbackChannels
	if n == 0 {
		return nil, fmt.Errorf("%w: data chunk holds no complete frame", pcm.ErrEmptyResult)
	}

	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(payload[i*2:]))
	}

	return samples, nil
}
