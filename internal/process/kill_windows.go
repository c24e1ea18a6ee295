//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree kills a browser process and its helpers with taskkill /T.
// Errors are ignored: the launcher's Cleanup runs afterwards.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
