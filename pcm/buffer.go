// SPDX-License-Identifier: EPL-2.0

package pcm

import "fmt"

// Channels is the channel count of every Buffer.
const Channels = 2

// Buffer is a growable interleaved stereo 16-bit sample sequence
// ([L0, R0, L1, R1, ...]). Its length is always even.
//
// A Buffer is filled by Append while audio is ingested and is treated as
// read-only afterwards.
type Buffer struct {
	data  []int16
	limit int // maximum number of samples, 0 means unlimited
}

// NewBuffer returns an empty Buffer. limit caps the number of samples the
// buffer may hold; zero or a negative value disables the cap.
func NewBuffer(limit int) *Buffer {
	if limit < 0 {
		limit = 0
	}

	return &Buffer{limit: limit}
}

// Append adds whole stereo frames to the end of the buffer.
func (b *Buffer) Append(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	if len(samples)%Channels != 0 {
		return fmt.Errorf("%w: got %d samples", ErrOddLength, len(samples))
	}

	if b.limit > 0 && len(b.data)+len(samples) > b.limit {
		return fmt.Errorf("%w: %d samples would exceed the limit of %d",
			ErrAllocation, len(b.data)+len(samples), b.limit)
	}

	b.data = append(b.data, samples...)

	return nil
}

// Len returns the number of samples (not frames) held.
func (b *Buffer) Len() int { return len(b.data) }

// Frames returns the number of stereo frames held.
func (b *Buffer) Frames() int { return len(b.data) / Channels }

// Empty reports whether the buffer holds no samples.
func (b *Buffer) Empty() bool { return len(b.data) == 0 }

// Samples returns the buffered samples. The returned slice aliases the
// buffer and must not be modified.
func (b *Buffer) Samples() []int16 { return b.data }

// Detach returns the buffered samples and leaves the buffer empty, handing
// ownership of the slice to the caller.
func (b *Buffer) Detach() []int16 {
	data := b.data
	b.data = nil

	return data
}
