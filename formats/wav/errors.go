// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat reports a file that is not a usable RIFF/WAVE container.
	ErrFormat           = errors.New("malformed WAV container")
	ErrNotWavFile       = fmt.Errorf("%w: not a RIFF/WAVE file", ErrFormat)
	ErrMissingDataChunk = fmt.Errorf("%w: data chunk not found", ErrFormat)

	ErrEmptyData = errors.New("no samples to write")
	ErrIO        = errors.New("wav i/o failure")
)
