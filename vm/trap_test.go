package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putString(vm *VM, addr Word, s string) {
	for i := 0; i < len(s); i++ {
		vm.memory.Write(addr+Word(i), Word(s[i]))
	}
	vm.memory.Write(addr+Word(len(s)), 0)
}

func TestTrapHaltSingleCycle(t *testing.T) {
	machine, console := newTestVM(t, 0xF025) // HALT
	before := machine.memory.ram

	require.NoError(t, machine.Step())

	regs := machine.Registers()
	assert.Equal(t, Halted, machine.State())
	assert.Equal(t, Word(0x3001), regs.PC)
	assert.Equal(t, Word(0x3001), regs.R[R7])
	assert.Equal(t, [RegisterCount]Word{R7: 0x3001}, regs.R)
	assert.Equal(t, FlagZro, regs.Cond)
	assert.True(t, before == machine.memory.ram, "memory changed")
	assert.Equal(t, "HALT\n", console.out.String())

	assert.ErrorIs(t, machine.Step(), ErrNotRunning)
}

func TestTrapOut(t *testing.T) {
	machine, console := newTestVM(t, 0xF021, 0xF021) // OUT; OUT
	machine.cpu.registers.R[R0] = 0x4241

	require.NoError(t, machine.Step())
	machine.cpu.registers.R[R0] = '\n'
	require.NoError(t, machine.Step())

	assert.Equal(t, "A\n", console.out.String())
}

func TestTrapPuts(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		text     string
		expected string
	}){
		{"empty", "", ""},
		{"one", "x", "x"},
		{"hello", "Hello, World!", "Hello, World!"},
	}

	for _, entry := range table {
		machine, console := newTestVM(t, 0xF022) // PUTS
		putString(machine, 0x4000, entry.text)
		machine.cpu.registers.R[R0] = 0x4000

		require.NoError(t, machine.Step(), entry.name)

		assert.Equal(entry.expected, console.out.String(), entry.name)
		assert.Equal(Word(0x4000), machine.Registers().R[R0], entry.name)
		assert.Equal(Running, machine.State(), entry.name)
	}
}

func TestTrapPutsHighByteIgnored(t *testing.T) {
	machine, console := newTestVM(t, 0xF022) // PUTS
	machine.memory.Write(0x4000, 0x4142)
	machine.cpu.registers.R[R0] = 0x4000

	require.NoError(t, machine.Step())
	assert.Equal(t, "B", console.out.String())
}

func TestTrapPutsp(t *testing.T) {
	machine, console := newTestVM(t, 0xF024) // PUTSP

	machine.memory.Write(0x4000, 0x6548) // "He"
	machine.memory.Write(0x4001, 0x6C6C) // "ll"
	machine.memory.Write(0x4002, 0x006F) // "o"
	machine.memory.Write(0x4003, 0x0000)
	machine.cpu.registers.R[R0] = 0x4000

	require.NoError(t, machine.Step())
	assert.Equal(t, "Hello", console.out.String())
}

func TestTrapGetc(t *testing.T) {
	machine, console := newTestVM(t, 0xF020, 0xF020) // GETC; GETC
	console.in = []byte{'a'}

	require.NoError(t, machine.Step())
	assert.Equal(t, Word('a'), machine.Registers().R[R0])
	assert.Equal(t, FlagPos, machine.Registers().Cond)
	assert.Empty(t, console.out.String())

	// Input exhausted.
	require.NoError(t, machine.Step())
	assert.Equal(t, Word(0), machine.Registers().R[R0])
	assert.Equal(t, FlagZro, machine.Registers().Cond)
}

func TestTrapIn(t *testing.T) {
	machine, console := newTestVM(t, 0xF023) // IN
	console.in = []byte{'q'}

	require.NoError(t, machine.Step())
	assert.Equal(t, Word('q'), machine.Registers().R[R0])
	assert.Equal(t, FlagPos, machine.Registers().Cond)
	assert.Equal(t, "Enter a character: q", console.out.String())
}

func TestTrapUndefined(t *testing.T) {
	for _, instr := range []Word{0xF000, 0xF026, 0xF0FF} {
		machine, _ := newTestVM(t, instr)

		err := machine.Step()

		assert.ErrorIs(t, err, ErrTrap)
		var fault *TrapFault
		if assert.ErrorAs(t, err, &fault) {
			assert.Equal(t, instr&0xFF, fault.Vector)
			assert.Equal(t, Word(0x3000), fault.PC)
		}
		assert.Equal(t, Faulted, machine.State())
		assert.Equal(t, Word(0x3001), machine.Registers().R[R7])
	}
}
