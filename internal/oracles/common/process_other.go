//go:build !unix

package common

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}

func isResourceError(err error) bool { return false }
