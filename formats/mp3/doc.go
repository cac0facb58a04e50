// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides the MP3 container backend.
//
// Decoding is done by github.com/hajimehoshi/go-mp3 inside the demuxer, so
// every packet already holds 16-bit little-endian stereo PCM and the "mp3"
// codec is a pass-through. go-mp3 always outputs two channels; mono files
// come out with both channels equal.
//
//	registry := audio.NewRegistry()
//	mp3.Register(registry)
//
// Probe accepts an ID3v2 tag or a raw frame sync. The frame sync test is
// loose, so the container should be registered last.
package mp3
