package vm

import (
	"context"

	"github.com/sirupsen/logrus"
)

// VM owns one machine: its memory, register file and console.
type VM struct {
	memory *Memory
	cpu    *cpu
	log    *logrus.Logger
}

func NewVM(console Console, config Config) *VM {
	mem := NewMemory(console)
	cpu := newCpu(mem, console, config)
	return &VM{
		memory: mem,
		cpu:    cpu,
		log:    cpu.log,
	}
}

// Run executes instructions until the machine halts, faults, or is stopped.
// A halt returns nil; a fault returns the *DecodeFault or *TrapFault; a stop
// returns an error wrapping ErrStopped.
func (vm *VM) Run(ctx context.Context) error {
	vm.log.WithField("pc", vm.cpu.registers.PC).Info("starting")
	return vm.cpu.run(ctx)
}

// Step executes a single instruction.
func (vm *VM) Step() error {
	return vm.cpu.step()
}

// Stop asks a running machine to return at the next instruction boundary.
// It is safe to call from another goroutine.
func (vm *VM) Stop() {
	vm.cpu.stop.Store(true)
}

func (vm *VM) State() State {
	return vm.cpu.state
}

// Registers returns a copy of the register file.
func (vm *VM) Registers() Registers {
	return vm.cpu.registers
}

func (vm *VM) Memory() *Memory {
	return vm.memory
}
