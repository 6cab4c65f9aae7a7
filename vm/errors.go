package vm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrDecode     = errors.New("illegal opcode")
	ErrTrap       = errors.New("undefined trap vector")
	ErrStopped    = errors.New("stop requested")
	ErrNotRunning = errors.New("machine is not running")
	ErrShortImage = errors.New("image too short")
)

// LoadError reports an image that could not be placed in memory.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load image: %v", e.Err)
	}
	return fmt.Sprintf("load image %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DecodeFault is raised when the executor fetches a reserved opcode.
type DecodeFault struct {
	PC    Word // address of the faulting instruction
	Instr Word
	Op    Opcode
}

func (e *DecodeFault) Error() string {
	return fmt.Sprintf("%04x: %v %s (0x%04x)", e.PC, ErrDecode, e.Op, e.Instr)
}

func (e *DecodeFault) Is(err error) bool {
	return err == ErrDecode
}

// TrapFault is raised by a TRAP whose vector names no routine.
type TrapFault struct {
	PC     Word
	Vector Word
}

func (e *TrapFault) Error() string {
	return fmt.Sprintf("%04x: %v 0x%02x", e.PC, ErrTrap, e.Vector)
}

func (e *TrapFault) Is(err error) bool {
	return err == ErrTrap
}
