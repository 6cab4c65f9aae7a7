package vm

import (
	"bytes"
	goIO "io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReadByte(t *testing.T) {
	c := NewConsole(strings.NewReader("ab"), goIO.Discard)

	b, err := c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)

	b, err = c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('b'), b)

	_, err = c.ReadByte()
	assert.ErrorIs(t, err, goIO.EOF)

	_, ok := c.Poll()
	assert.False(t, ok)
}

func TestConsolePoll(t *testing.T) {
	c := NewConsole(strings.NewReader("p"), goIO.Discard)

	var got byte
	require.Eventually(t, func() bool {
		b, ok := c.Poll()
		got = b
		return ok
	}, time.Second, time.Millisecond)
	assert.Equal(t, byte('p'), got)
}

func TestConsolePollEmpty(t *testing.T) {
	r, w := goIO.Pipe()
	defer w.Close()

	c := NewConsole(r, goIO.Discard)

	_, ok := c.Poll()
	assert.False(t, ok)
}

func TestConsoleWrite(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out)

	require.NoError(t, c.WriteByte('o'))
	require.NoError(t, c.WriteByte('k'))
	assert.Empty(t, out.String())

	require.NoError(t, c.Flush())
	assert.Equal(t, "ok", out.String())
}

func TestConsoleMachine(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(strings.NewReader("A"), &out)
	machine := NewVM(console, DefaultConfig())

	machine.Memory().Write(0x3000, 0xF020) // GETC
	machine.Memory().Write(0x3001, 0x1021) // ADD R0, R0, #1
	machine.Memory().Write(0x3002, 0xF021) // OUT
	machine.Memory().Write(0x3003, 0xF025) // HALT

	for machine.State() == Running {
		require.NoError(t, machine.Step())
	}
	assert.Equal(t, "BHALT\n", out.String())
}

func TestConsoleOutputVisibleWhilePolling(t *testing.T) {
	r, w := goIO.Pipe()
	defer w.Close()

	var out bytes.Buffer
	machine := NewVM(NewConsole(r, &out), DefaultConfig())

	_, _, err := machine.LoadImage(bytes.NewReader(image(0x3000,
		0xE004, // LEA R0, #4
		0xF022, // PUTS
		0xA201, // LDI R1, #1
		0x05FE, // BRz #-2
		KBSR,
		'H', 'i', 0,
	)))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, machine.Step())
	}
	assert.Equal(t, "Hi", out.String())
	assert.Equal(t, Word(0x3002), machine.Registers().PC)
}

func TestTrapOutputFlushed(t *testing.T) {
	table := [](struct {
		name     string
		instr    Word
		expected string
	}){
		{"OUT", 0xF021, "A"},
		{"PUTS", 0xF022, "A"},
		{"PUTSP", 0xF024, "A"},
	}

	for _, entry := range table {
		var out bytes.Buffer
		machine := NewVM(NewConsole(strings.NewReader(""), &out), DefaultConfig())
		machine.Memory().Write(0x3000, entry.instr)
		machine.Memory().Write(0x4041, 'A')
		machine.cpu.registers.R[R0] = 0x4041

		require.NoError(t, machine.Step(), entry.name)
		assert.Equal(t, entry.expected, out.String(), entry.name)
	}
}
