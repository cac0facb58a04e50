// SPDX-License-Identifier: EPL-2.0

// Package aiff provides the AIFF container backend.
//
// github.com/go-audio/aiff parses the FORM chunks and decodes big-endian
// samples; the demuxer re-encodes them little-endian so the registered
// pcm_s8, pcm_s16be, pcm_s24be and pcm_s32be codecs are plain PCM
// pass-throughs. Signed 8-bit samples are biased to unsigned.
//
//	registry := audio.NewRegistry()
//	aiff.Register(registry)
//
// Compressed AIFC encodings are not supported.
package aiff
