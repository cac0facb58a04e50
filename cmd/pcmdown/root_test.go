// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ik5/pcmdown/formats/wav"
	"github.com/ik5/pcmdown/internal/audiotest"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Converts(t *testing.T) {
	dir := t.TempDir()
	in := audiotest.WriteFile(t, "in.wav", audiotest.WAVBytes(16000, 2, []int16{1, -1, 2, -2, 3, -3, 4, -4}))
	out := filepath.Join(dir, "out.wav")

	stdout, stderr, err := run(t, in, "8000", out)
	if err != nil {
		t.Fatalf("Execute() error = %v\nstderr:\n%s", err, stderr)
	}

	if !strings.Contains(stdout, "Done! Output saved to: "+out) {
		t.Errorf("stdout = %q, want the saved path", stdout)
	}

	for _, want := range []string{"input information", "downsampling", "saved audio"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("log output missing %q:\n%s", want, stderr)
		}
	}

	got, err := wav.ReadFallback(out)
	if err != nil {
		t.Fatalf("ReadFallback() error = %v", err)
	}

	if diff := cmp.Diff([]int16{1, -1, 3, -3}, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRootCmd_SampleIndexingFlag(t *testing.T) {
	in := audiotest.WriteFile(t, "in.wav", audiotest.WAVBytes(16000, 2, []int16{1, -1, 2, -2, 3, -3, 4, -4}))
	out := filepath.Join(t.TempDir(), "out.wav")

	if _, stderr, err := run(t, "--indexing=samples", "--log-level=error", in, "8000", out); err != nil {
		t.Fatalf("Execute() error = %v\nstderr:\n%s", err, stderr)
	}

	got, err := wav.ReadFallback(out)
	if err != nil {
		t.Fatalf("ReadFallback() error = %v", err)
	}

	if diff := cmp.Diff([]int16{1, 2, 3, 4}, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRootCmd_DefaultOutput(t *testing.T) {
	dir := t.TempDir()
	in := audiotest.WriteFile(t, "in.wav", audiotest.WAVBytes(16000, 2, []int16{1, -1, 2, -2}))

	t.Chdir(dir)

	if _, stderr, err := run(t, in, "8000"); err != nil {
		t.Fatalf("Execute() error = %v\nstderr:\n%s", err, stderr)
	}

	if _, err := os.Stat(filepath.Join(dir, "output.wav")); err != nil {
		t.Errorf("output.wav not written: %v", err)
	}
}

func TestRootCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	in := audiotest.WriteFile(t, "in.wav", audiotest.WAVBytes(16000, 2, []int16{1, -1}))
	junk := audiotest.WriteFile(t, "junk.bin", []byte("definitely not an audio file"))

	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"missing rate", []string{in}},
		{"too many arguments", []string{in, "8000", "a.wav", "b.wav"}},
		{"rate not a number", []string{in, "fast", filepath.Join(dir, "a.wav")}},
		{"undecodable input", []string{junk, "8000", filepath.Join(dir, "b.wav")}},
		{"empty downsample", []string{in, "100", filepath.Join(dir, "c.wav")}},
		{"bad indexing", []string{"--indexing=cubic", in, "8000", filepath.Join(dir, "d.wav")}},
	}

	for _, tt := range tests {
		if _, _, err := run(t, tt.args...); err == nil {
			t.Errorf("%s: Execute() error = nil, want error", tt.name)
		}
	}

	for _, name := range []string{"a.wav", "b.wav", "c.wav", "d.wav"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			t.Errorf("%s written despite failure", name)
		}
	}
}

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		"pcmdown <input_file> <target_sample_rate> [output_file]",
		"pcmdown music.flac 8000 low_quality.wav",
		"Supported containers: wav, aiff, flac, ogg, mp3",
		"pcm_s16le",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help missing %q:\n%s", want, stdout)
		}
	}
}
