//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop the server gracefully: Ctrl-C and the SIGTERM sent
// by container runtimes and systemd.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
