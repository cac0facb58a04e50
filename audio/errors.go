// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"

	"github.com/ik5/pcmdown/pcm"
)

var (
	ErrOpen             = errors.New("cannot open input")
	ErrNoAudioStream    = fmt.Errorf("%w: no audio stream found", ErrOpen)
	ErrUnsupportedCodec = errors.New("unsupported codec")

	ErrAgain             = errors.New("codec needs more input")
	ErrInvalidPacket     = errors.New("invalid packet")
	ErrFrameMismatch     = errors.New("frame does not match converter configuration")
	ErrUnsupportedFormat = errors.New("unsupported sample format")

	ErrAllocation  = pcm.ErrAllocation
	ErrInvalidRate = pcm.ErrInvalidRate
	ErrEmptyResult = pcm.ErrEmptyResult
)
