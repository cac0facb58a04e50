// SPDX-License-Identifier: EPL-2.0

// Package pcm holds decoded audio as interleaved stereo 16-bit samples and
// lowers its sample rate by decimation.
//
// # Buffer
//
// Buffer is the single product of ingestion. Decoded frames are appended to
// it after they have been converted to stereo S16:
//
//	buf := pcm.NewBuffer(0)
//	_ = buf.Append([]int16{100, -100, 200, -200})
//	fmt.Println(buf.Frames()) // 2
//
// Appending an odd number of samples fails with ErrOddLength, and growing
// past the optional limit fails with ErrAllocation.
//
// # Decimation
//
// Decimate keeps every r-th frame, where r = originalRate / targetRate:
//
//	out, err := pcm.Decimate(buf.Samples(), 44100, 8000)
//
// There is no anti-aliasing filter. IndexSamples reproduces the older
// per-sample indexing for callers that need identical output.
package pcm
