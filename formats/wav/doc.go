// SPDX-License-Identifier: EPL-2.0

// Package wav provides the WAV container backend, a raw fallback reader and
// the stereo 16-bit WAV writer.
//
// # Demuxing
//
// Open parses the RIFF chunks with github.com/go-audio/wav, so fmt and data
// may appear anywhere and extra chunks are skipped. Integer PCM of 8, 16,
// 24 and 32 bits and IEEE float of 32 and 64 bits are supported:
//
//	registry := audio.NewRegistry()
//	wav.Register(registry)
//
// # Fallback
//
// ReadFallback assumes the canonical 44-byte header. It checks the RIFF and
// WAVE tags and the data tag at offset 36, then returns the payload as
// int16 samples. The fmt chunk is ignored and the audio is reported as
// 44.1 kHz stereo, so files in any other layout come out wrong. It exists
// for inputs the demuxer rejects.
//
// # Writing
//
// WriteWAV16 writes the fixed 44-byte header followed by the samples:
//
//	err := wav.WriteWAV16(w, 8000, []int16{100, -100, 200, -200})
//
// WriteFile does the same into a temporary file and renames it over path,
// so a failed write leaves nothing behind.
//
// # Errors
//
// ErrNotWavFile and ErrMissingDataChunk both wrap ErrFormat. Filesystem
// failures wrap ErrIO, and WriteFile returns ErrEmptyData for empty input.
package wav
