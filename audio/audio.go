// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"
)

// ProbeSize is the number of leading file bytes handed to Container.Probe.
const ProbeSize = 32

// MediaType is the kind of elementary stream inside a container.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaAudio
	MediaVideo
	MediaData
)

func (m MediaType) String() string {
	switch m {
	case MediaAudio:
		return "audio"
	case MediaVideo:
		return "video"
	case MediaData:
		return "data"
	default:
		return "unknown"
	}
}

// StreamInfo describes one elementary stream as reported by a Demuxer.
type StreamInfo struct {
	Index      int
	Type       MediaType
	Codec      string // registry key of the codec, e.g. "pcm_s16le", "mp3"
	SampleRate int
	Channels   int
	BitDepth   int           // 0 when the codec has no fixed depth
	Duration   time.Duration // 0 when unknown
}

// Descriptor returns the source descriptor for this stream.
func (s StreamInfo) Descriptor(container string) Descriptor {
	return Descriptor{
		SampleRate: s.SampleRate,
		Channels:   s.Channels,
		Codec:      s.Codec,
		Container:  container,
		Duration:   s.Duration,
	}
}

// Descriptor is captured once when an input is opened and never changes.
type Descriptor struct {
	SampleRate int
	Channels   int
	Codec      string
	Container  string
	Duration   time.Duration
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s/%s %d Hz %d ch", d.Container, d.Codec, d.SampleRate, d.Channels)
}

// Packet is a chunk of compressed or raw data belonging to one stream.
type Packet struct {
	StreamIndex int
	Data        []byte
}

// Frame is a block of decoded samples.
//
// Interleaved formats carry one entry in Data. Planar formats carry one
// entry per channel. NumSamples counts samples per channel.
type Frame struct {
	Format     SampleFormat
	SampleRate int
	Channels   int
	NumSamples int
	Data       [][]byte
}

// Validate checks that Data is sized for Format, Channels and NumSamples.
func (f *Frame) Validate() error {
	bps := f.Format.BytesPerSample()
	if bps == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Format)
	}

	if f.Channels <= 0 || f.NumSamples < 0 {
		return fmt.Errorf("%w: %d channels, %d samples", ErrFrameMismatch, f.Channels, f.NumSamples)
	}

	if f.Format.IsPlanar() {
		if len(f.Data) != f.Channels {
			return fmt.Errorf("%w: %d planes for %d channels", ErrFrameMismatch, len(f.Data), f.Channels)
		}
		for i, plane := range f.Data {
			if len(plane) < f.NumSamples*bps {
				return fmt.Errorf("%w: plane %d holds %d bytes, want %d",
					ErrFrameMismatch, i, len(plane), f.NumSamples*bps)
			}
		}
		return nil
	}

	if len(f.Data) != 1 {
		return fmt.Errorf("%w: %d data planes for interleaved format", ErrFrameMismatch, len(f.Data))
	}

	if want := f.NumSamples * f.Channels * bps; len(f.Data[0]) < want {
		return fmt.Errorf("%w: frame holds %d bytes, want %d", ErrFrameMismatch, len(f.Data[0]), want)
	}

	return nil
}

// Demuxer splits a container into packets.
type Demuxer interface {
	// Name of the container format, e.g. "wav".
	Name() string
	// Streams lists every stream found in the container.
	Streams() []StreamInfo
	// ReadPacket returns the next packet, or io.EOF when the container is exhausted.
	ReadPacket() (*Packet, error)
	// Close releases any resources.
	Close() error
}

// Codec turns packets into frames using a push/pull protocol.
//
// Send(nil) signals end of stream. Receive returns ErrAgain when it needs
// more input and io.EOF once it has been fully drained after Send(nil).
type Codec interface {
	Send(p *Packet) error
	Receive() (*Frame, error)
	Close() error
}

// CodecFactory constructs a Codec for a stream.
type CodecFactory func(info StreamInfo) (Codec, error)

// Container binds a container name to its probe and demuxer constructor.
type Container struct {
	Name  string
	Probe func(header []byte) bool
	Open  func(rs io.ReadSeeker) (Demuxer, error)
}

// Registry of containers (in probe order) and codecs (by name).
type Registry struct {
	containers []Container
	codecs     map[string]CodecFactory

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]CodecFactory),
		mtx:    &sync.Mutex{},
	}
}

// Register adds a container. A container with the same name is replaced
// in place, keeping its probe position.
func (r *Registry) Register(c Container) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for i := range r.containers {
		if r.containers[i].Name == c.Name {
			r.containers[i] = c
			return
		}
	}

	r.containers = append(r.containers, c)
}

func (r *Registry) Get(name string) (Container, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, c := range r.containers {
		if c.Name == name {
			return c, true
		}
	}

	return Container{}, false
}

// Probe returns the first registered container whose probe accepts header.
func (r *Registry) Probe(header []byte) (Container, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, c := range r.containers {
		if c.Probe != nil && c.Probe(header) {
			return c, true
		}
	}

	return Container{}, false
}

func (r *Registry) RegisterCodec(name string, f CodecFactory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[name] = f
}

func (r *Registry) Codec(name string) (CodecFactory, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.codecs[name]
	return f, ok
}

// Containers returns container names in probe order.
func (r *Registry) Containers() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	names := make([]string, 0, len(r.containers))
	for _, c := range r.containers {
		names = append(names, c.Name)
	}

	return names
}

// Codecs returns the sorted codec names.
func (r *Registry) Codecs() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
