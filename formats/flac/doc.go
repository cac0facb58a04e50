// SPDX-License-Identifier: EPL-2.0

// Package flac provides the FLAC container backend built on
// github.com/mewkiz/flac.
//
// Each packet holds one decoded FLAC frame as S32P planes, shifted left so
// that 16- and 24-bit streams use the full 32-bit range:
//
//	registry := audio.NewRegistry()
//	flac.Register(registry)
package flac
