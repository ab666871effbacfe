//go:build !windows

package subprocess

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the child in its own process group so Kill can
// terminate the whole tree, mirroring the original's
// psutil.Popen(..., start_new_session=True).
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) {
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		_ = cmd.Process.Kill()
		return
	}
	_ = syscall.Kill(-pgid, syscall.SIGKILL)
}
