// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	// ErrAllocation is returned when appending would grow a Buffer past its limit.
	ErrAllocation = errors.New("pcm buffer allocation failed")

	// ErrOddLength is returned when a slice that is not made of whole stereo
	// frames is appended to a Buffer.
	ErrOddLength = errors.New("sample count is not a whole number of stereo frames")

	// ErrInvalidRate is returned by Decimate when the target rate is not in (0, original).
	ErrInvalidRate = errors.New("invalid target sample rate")

	// ErrEmptyResult is returned when there is no audio to work with, or when
	// an operation would produce none.
	ErrEmptyResult = errors.New("empty audio result")
)
