package session

import (
	"os/exec"

	"github.com/creack/pty"
)

func spawnPTY(m *Manager, s *Session, onExit func(id string)) error {
	cmd := exec.Command(m.shell, "--login")
	cmd.Env = append(cmd.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	s.ptmx = ptmx
	s.cmd = cmd

	go func() {
		readLoop(m.logger, s, ptmx, onExit)
		// Reap the shell; its exit status is not reported anywhere.
		_ = cmd.Wait()
	}()
	return nil
}
