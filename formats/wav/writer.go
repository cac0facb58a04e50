// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/pcmdown/pcm"
)

// WriteWAV16 writes a stereo 16-bit PCM WAV at sampleRate. samples are
// interleaved left/right. The data chunk always holds every sample, so
// dataSize may be an odd number of samples when the caller decimated per
// sample; readers drop the unpaired tail.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	numChannels := uint16(pcm.Channels)
	bitsPerSample := uint16(16)
	byteRate := uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample/8)
	blockAlign := numChannels * (bitsPerSample / 8)
	dataSize := uint32(len(samples) * 2)
	riffSize := 36 + dataSize

	header := make([]byte, headerSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w: write header: %w", ErrIO, err)
	}

	const chunkSize = 8192
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), chunkSize)*2)

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		buf = buf[:len(chunk)*2]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:], uint16(s))
		}

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w: write samples: %w", ErrIO, err)
		}
	}

	return nil
}

// WriteFile writes samples to path as a stereo 16-bit WAV. The file is
// written under a temporary name in the same directory and renamed into
// place, so path is either complete or untouched. Empty input is rejected
// before anything is created.
func WriteFile(path string, samples []int16, sampleRate int) (err error) {
	if len(samples) == 0 {
		return ErrEmptyData
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrIO, path, err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = WriteWAV16(tmp, sampleRate, samples); err != nil {
		return err
	}

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrIO, tmp.Name(), err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, tmp.Name(), err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", ErrIO, path, err)
	}

	return nil
}
