// SPDX-License-Identifier: EPL-2.0

// Package formats wires every built-in container backend into a registry.
package formats

import (
	"github.com/ik5/pcmdown/audio"
	"github.com/ik5/pcmdown/formats/aiff"
	"github.com/ik5/pcmdown/formats/flac"
	"github.com/ik5/pcmdown/formats/mp3"
	"github.com/ik5/pcmdown/formats/vorbis"
	"github.com/ik5/pcmdown/formats/wav"
)

// Register adds all built-in containers and codecs to reg. MP3 goes last
// because its frame-sync probe would match too eagerly.
func Register(reg *audio.Registry) {
	wav.Register(reg)
	aiff.Register(reg)
	flac.Register(reg)
	vorbis.Register(reg)
	mp3.Register(reg)
}

// Default returns a new registry holding every built-in backend.
func Default() *audio.Registry {
	reg := audio.NewRegistry()
	Register(reg)
	return reg
}
