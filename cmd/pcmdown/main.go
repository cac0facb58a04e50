// SPDX-License-Identifier: EPL-2.0

// Command pcmdown converts an audio file into a lower-rate 16-bit stereo WAV.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "pcmdown:", err)

		os.Exit(1)
	}
}
