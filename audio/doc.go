// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoder capability interfaces and the format
// canonicalizer used by ingestion.
//
// # Demuxers and Codecs
//
// A container backend implements Demuxer, which exposes its streams and
// hands out packets. A Codec turns packets into frames with a push/pull
// protocol:
//
//	if err := codec.Send(packet); err != nil {
//	    // log and skip the packet
//	}
//	for {
//	    frame, err := codec.Receive()
//	    if errors.Is(err, audio.ErrAgain) {
//	        break // needs more input
//	    }
//	    ...
//	}
//
// Send(nil) marks end of stream, after which Receive drains the remaining
// frames and then returns io.EOF.
//
// # Registry
//
// Containers are probed in registration order against the first ProbeSize
// bytes of a file. Codecs are looked up by the name a demuxer reports in
// StreamInfo.Codec:
//
//	registry := audio.NewRegistry()
//	registry.Register(audio.Container{Name: "wav", Probe: probe, Open: open})
//	registry.RegisterCodec("pcm_s16le", audio.NewPCMCodec(audio.S16))
//	container, ok := registry.Probe(header)
//
// # Canonicalization
//
// Converter maps any supported sample format and channel layout to
// interleaved stereo int16 at the input sample rate. Mono is duplicated,
// stereo passes through and wider layouts are downmixed with centre and
// surround channels at -3 dB and LFE dropped:
//
//	conv, _ := audio.NewConverter(info)
//	frames, err := audio.Canonicalize(conv, frame, buf)
//	...
//	buf.Append(conv.Flush())
//
// With WithBlockFrames the converter holds output back until a whole block
// is ready, so Flush must be called after the last frame.
package audio
