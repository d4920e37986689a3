//go:build unix

package panel

import (
	"os/exec"
	"syscall"
)

// configureCommand puts the shell in its own process group so cancellation
// reaches every child it spawned
func configureCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
