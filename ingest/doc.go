// SPDX-License-Identifier: EPL-2.0

// Package ingest turns an input file into canonical PCM: interleaved
// stereo int16 at the file's own sample rate.
//
// Pipeline probes the container, picks the first audio stream, pushes its
// packets through the codec and canonicalizes every decoded frame. Packets
// the codec rejects are skipped and counted in Stats. Once the demuxer is
// exhausted the codec and then the converter are flushed so no trailing
// audio is lost.
//
//	p := ingest.New(formats.Default(), ingest.WithLogger(logger))
//	res, err := p.Ingest(ctx, "input.mp3")
//
// Loader wraps a Pipeline and falls back to wav.ReadFallback when decoding
// fails. Results from the fallback have Fallback set and always report
// 44.1 kHz stereo.
package ingest
