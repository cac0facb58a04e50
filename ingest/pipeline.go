// SPDX-License-Identifier: EPL-2.0

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ik5/pcmdown/audio"
	"github.com/ik5/pcmdown/pcm"
)

// Stats counts what happened to packets and frames during one ingestion.
type Stats struct {
	Packets          int // packets of the selected stream
	DiscardedPackets int // packets of other streams
	SkippedPackets   int // packets the codec rejected
	Frames           int // stereo frames appended to the buffer
	SkippedFrames    int // decoded frames the converter rejected
}

// Result is the canonical PCM produced from one input.
type Result struct {
	Descriptor audio.Descriptor
	Samples    []int16
	Stats      Stats
	// Fallback is set when the samples came from the raw WAV reader.
	Fallback bool
}

// Pipeline decodes a file into interleaved stereo int16 at its native rate.
type Pipeline struct {
	Registry *audio.Registry
	Logger   *slog.Logger
	// MaxSamples caps the canonical buffer, 0 for no limit.
	MaxSamples int
	// BlockFrames makes the converter emit whole blocks only, 0 to disable.
	BlockFrames int
}

type Option func(*Pipeline)

func WithLogger(l *slog.Logger) Option { return func(p *Pipeline) { p.Logger = l } }
func WithMaxSamples(n int) Option      { return func(p *Pipeline) { p.MaxSamples = n } }
func WithBlockFrames(n int) Option     { return func(p *Pipeline) { p.BlockFrames = n } }

func New(reg *audio.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{Registry: reg, Logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// Ingest opens path, decodes its first audio stream and canonicalizes every
// frame. Per-packet failures are logged and counted. Structural failures
// (open, probe, no audio stream, unknown codec, allocation) are returned.
func (p *Pipeline) Ingest(ctx context.Context, path string) (*Result, error) {
	log := p.logger().With("input", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrOpen, err)
	}
	defer f.Close()

	header := make([]byte, audio.ProbeSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: read header: %w", audio.ErrOpen, err)
	}

	container, ok := p.Registry.Probe(header[:n])
	if !ok {
		return nil, fmt.Errorf("%w: unrecognised container", audio.ErrOpen)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: rewind: %w", audio.ErrOpen, err)
	}

	demux, err := container.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", audio.ErrOpen, container.Name, err)
	}
	defer demux.Close()

	info, ok := selectAudio(demux.Streams())
	if !ok {
		return nil, fmt.Errorf("%w (%d streams in %s)", audio.ErrNoAudioStream, len(demux.Streams()), demux.Name())
	}

	desc := info.Descriptor(demux.Name())
	log.Info("input opened",
		"container", desc.Container,
		"codec", desc.Codec,
		"sample_rate", desc.SampleRate,
		"channels", desc.Channels,
		"duration", desc.Duration,
	)

	factory, ok := p.Registry.Codec(info.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %s", audio.ErrUnsupportedCodec, info.Codec)
	}

	codec, err := factory(info)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", audio.ErrUnsupportedCodec, info.Codec, err)
	}
	defer codec.Close()

	conv, err := audio.NewConverter(info, audio.WithBlockFrames(p.BlockFrames))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrUnsupportedCodec, err)
	}

	run := &run{
		log:   log,
		codec: codec,
		conv:  conv,
		buf:   pcm.NewBuffer(p.MaxSamples),
		index: info.Index,
	}

	if err := run.packets(ctx, demux); err != nil {
		return nil, err
	}

	if err := run.flush(); err != nil {
		return nil, err
	}

	if run.buf.Empty() {
		return nil, fmt.Errorf("%w: no audio decoded from %s", audio.ErrEmptyResult, path)
	}

	log.Debug("ingestion finished",
		"packets", run.stats.Packets,
		"discarded_packets", run.stats.DiscardedPackets,
		"skipped_packets", run.stats.SkippedPackets,
		"frames", run.stats.Frames,
		"skipped_frames", run.stats.SkippedFrames,
	)

	if run.stats.SkippedPackets > 0 {
		log.Warn("some packets could not be decoded", "skipped_packets", run.stats.SkippedPackets)
	}

	return &Result{
		Descriptor: desc,
		Samples:    run.buf.Detach(),
		Stats:      run.stats,
	}, nil
}

func selectAudio(streams []audio.StreamInfo) (audio.StreamInfo, bool) {
	for _, s := range streams {
		if s.Type == audio.MediaAudio {
			return s, true
		}
	}
	return audio.StreamInfo{}, false
}

// run holds the state of one decode loop.
type run struct {
	log   *slog.Logger
	codec audio.Codec
	conv  *audio.Converter
	buf   *pcm.Buffer
	index int
	stats Stats
}

func (r *run) packets(ctx context.Context, demux audio.Demuxer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pkt, err := demux.ReadPacket()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			// A broken tail ends the stream; what was decoded is kept.
			r.log.Warn("demuxer read failed, treating as end of stream", "error", err)
			return nil
		}

		if pkt.StreamIndex != r.index {
			r.stats.DiscardedPackets++
			continue
		}

		r.stats.Packets++

		if err := r.codec.Send(pkt); err != nil {
			r.stats.SkippedPackets++
			r.log.Warn("skipping packet", "packet", r.stats.Packets, "error", err)
			continue
		}

		if err := r.drain(); err != nil {
			return err
		}
	}
}

func (r *run) flush() error {
	if err := r.codec.Send(nil); err != nil {
		r.log.Warn("codec flush failed", "error", err)
	} else if err := r.drain(); err != nil {
		return err
	}

	if err := r.buf.Append(r.conv.Flush()); err != nil {
		return fmt.Errorf("append flushed samples: %w", err)
	}

	r.stats.Frames = r.buf.Frames()

	return nil
}

// drain pulls frames until the codec needs more input or is exhausted.
func (r *run) drain() error {
	for {
		frame, err := r.codec.Receive()
		if errors.Is(err, audio.ErrAgain) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			r.log.Warn("codec receive failed", "error", err)
			return nil
		}

		if _, err := audio.Canonicalize(r.conv, frame, r.buf); err != nil {
			if errors.Is(err, audio.ErrAllocation) {
				return err
			}
			r.stats.SkippedFrames++
			r.log.Warn("skipping frame", "error", err)
		}
	}
}
