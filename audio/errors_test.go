// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ik5/pcmdown/pcm"
)

func TestErrNoAudioStream_WrapsErrOpen(t *testing.T) {
	t.Parallel()

	if !errors.Is(ErrNoAudioStream, ErrOpen) {
		t.Error("errors.Is(ErrNoAudioStream, ErrOpen) = false")
	}

	if errors.Is(ErrOpen, ErrNoAudioStream) {
		t.Error("errors.Is(ErrOpen, ErrNoAudioStream) = true")
	}
}

func TestErrors_SharedWithPCM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"allocation", ErrAllocation, pcm.ErrAllocation},
		{"invalid rate", ErrInvalidRate, pcm.ErrInvalidRate},
		{"empty result", ErrEmptyResult, pcm.ErrEmptyResult},
	}

	for _, tt := range tests {
		wrapped := fmt.Errorf("context: %w", tt.err)
		if !errors.Is(wrapped, tt.want) {
			t.Errorf("%s: wrapped error does not match pcm sentinel", tt.name)
		}
	}
}

func TestErrors_Distinct(t *testing.T) {
	t.Parallel()

	errs := []error{ErrOpen, ErrUnsupportedCodec, ErrAgain, ErrInvalidPacket, ErrFrameMismatch, ErrUnsupportedFormat}

	for i, a := range errs {
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("errors.Is(%v, %v) = true", a, b)
			}
		}
	}
}
