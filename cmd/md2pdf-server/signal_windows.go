//go:build windows

package main

import "os"

// shutdownSignals stop the server gracefully. SIGTERM is not delivered on
// Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
