// Package terminal switches the controlling terminal in and out of the
// unbuffered, no-echo mode the machine's keyboard routines expect.
package terminal

import (
	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// State is the terminal configuration to restore on exit.
type State struct {
	fd                     uintptr
	originalTerminalConfig unix.Termios
}

func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// EnableRawMode turns off canonical input and echo on fd and returns the
// previous settings.
func EnableRawMode(fd uintptr) (*State, error) {
	s := &State{fd: fd}
	if err := termios.Tcgetattr(fd, &s.originalTerminalConfig); err != nil {
		return nil, errors.Wrap(err, "tcgetattr")
	}

	newTermios := s.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(fd, termios.TCSANOW, &newTermios); err != nil {
		return nil, errors.Wrap(err, "tcsetattr")
	}
	return s, nil
}

// Restore puts back the settings saved by EnableRawMode.
func (s *State) Restore() error {
	if s == nil {
		return nil
	}
	return errors.Wrap(termios.Tcsetattr(s.fd, termios.TCSANOW, &s.originalTerminalConfig), "tcsetattr")
}
