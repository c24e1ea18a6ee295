//go:build !windows

package process

import "syscall"

// KillTree kills a browser process and its helpers by signalling the whole
// process group. Errors are ignored: the launcher's Cleanup runs afterwards.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
