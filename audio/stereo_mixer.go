// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/pcmdown/utils"

// Channel positions in default order for an n-channel stream.
const (
	chFL = iota
	chFR
	chFC
	chLFE
	chBL
	chBR
	chSL
	chSR
)

const minus3dB = 0.7071

// stereoMixer folds one multi-channel sample frame into a stereo pair.
type stereoMixer struct {
	channels int
	left     []float64 // nil for mono and stereo
	right    []float64
}

func newStereoMixer(channels int) stereoMixer {
	m := stereoMixer{channels: channels}
	if channels <= 2 {
		return m
	}

	m.left = make([]float64, channels)
	m.right = make([]float64, channels)

	for ch := range channels {
		switch ch {
		case chFL:
			m.left[ch] = 1
		case chFR:
			m.right[ch] = 1
		case chLFE:
		case chBL, chSL:
			m.left[ch] = minus3dB
		case chBR, chSR:
			m.right[ch] = minus3dB
		default:
			// FC and anything past 7.1 go to both sides.
			m.left[ch] = minus3dB
			m.right[ch] = minus3dB
		}
	}

	normalize(m.left)
	normalize(m.right)

	return m
}

func normalize(row []float64) {
	var sum float64
	for _, v := range row {
		sum += v
	}

	if sum == 0 {
		return
	}

	for i := range row {
		row[i] /= sum
	}
}

// mix returns the stereo pair for one frame of per-channel samples.
func (m stereoMixer) mix(in []int16) (int16, int16) {
	switch m.channels {
	case 1:
		return in[0], in[0]
	case 2:
		return in[0], in[1]
	}

	var l, r float64
	for ch, v := range in {
		l += m.left[ch] * float64(v)
		r += m.right[ch] * float64(v)
	}

	return utils.ClampInt16(l), utils.ClampInt16(r)
}
