// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides the Ogg Vorbis container backend.
//
// github.com/jfreymuth/oggvorbis decodes inside the demuxer and packets
// carry interleaved float32 PCM, which the "vorbis" pass-through codec
// frames as F32 for the canonicalizer.
//
//	registry := audio.NewRegistry()
//	vorbis.Register(registry)
//
// Ogg files holding other codecs (Opus, FLAC) fail in Open.
package vorbis
