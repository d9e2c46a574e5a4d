//go:build unix

package common

import (
	"errors"
	"os/exec"
	"syscall"
)

// configureProcessGroup hace que la cancelación mate al grupo completo, incluidos
// los hijos que la herramienta haya lanzado.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

// isResourceError reporta si err de cmd.Start se debe a falta de recursos.
func isResourceError(err error) bool {
	for _, errno := range []syscall.Errno{
		syscall.EAGAIN, syscall.ENOMEM, syscall.EMFILE, syscall.ENFILE, syscall.ETXTBSY,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
