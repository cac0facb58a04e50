// SPDX-License-Identifier: EPL-2.0

// Package pcmdown converts audio files into lower-rate 16-bit stereo WAV.
//
// A conversion runs in three stages:
//
//  1. ingest decodes the input with the first matching backend from
//     formats and folds every frame into interleaved stereo int16 at the
//     source rate. When decoding fails the raw WAV fallback reader is tried.
//  2. pcm.Decimate keeps the nearest source frame for every output
//     position. No low-pass filter is applied.
//  3. wav.WriteFile writes a 44-byte-header PCM WAV, replacing the target
//     atomically.
//
// Convert runs all three:
//
//	rep, err := pcmdown.Convert(ctx, pcmdown.Options{
//		Input:      "song.mp3",
//		Output:     "song-8k.wav",
//		TargetRate: 8000,
//	})
//
// # Supported Formats
//
//   - WAV (PCM 8/16/24/32-bit, IEEE float) via formats/wav
//   - AIFF (PCM 8/16/24/32-bit) via formats/aiff
//   - FLAC via formats/flac
//   - Ogg Vorbis via formats/vorbis
//   - MP3 via formats/mp3
//
// Each backend registers a container and its codecs into an audio.Registry.
// formats.Default returns a registry holding all of them.
package pcmdown
