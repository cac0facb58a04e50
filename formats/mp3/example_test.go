// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"fmt"

	"github.com/ik5/pcmdown/formats/mp3"
)

func ExampleProbe() {
	fmt.Println(mp3.Probe([]byte("ID3\x03\x00\x00")))
	fmt.Println(mp3.Probe([]byte("OggS")))
	// Output:
	// true
	// false
}
