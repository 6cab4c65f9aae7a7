package vm

const MemorySize = 1 << 16

const (
	TrapVectorTableStart       = 0x0000
	InterruptVectorTableStart  = 0x0100
	SystemSpaceStart           = 0x0200
	UserSpaceStart             = 0x3000
	MemoryMappedRegistersStart = 0xFE00
)

// memory mapped register addresses
const (
	KBSR Word = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR Word = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

const kbsrReady Word = 1 << 15

// Poller reports a pending input byte without blocking.
type Poller interface {
	Poll() (byte, bool)
}

// Memory is the flat 64K word store. Reading KBSR polls the keyboard and
// refreshes the KBSR/KBDR pair before the value is returned.
type Memory struct {
	ram      [MemorySize]Word
	keyboard Poller
}

func NewMemory(keyboard Poller) *Memory {
	return &Memory{keyboard: keyboard}
}

func (mem *Memory) Read(addr Word) Word {
	if addr == KBSR {
		mem.pollKeyboard()
	}
	return mem.ram[addr]
}

func (mem *Memory) Write(addr, value Word) {
	mem.ram[addr] = value
}

func (mem *Memory) pollKeyboard() {
	if mem.keyboard == nil {
		mem.ram[KBSR] = 0
		return
	}
	if c, ok := mem.keyboard.Poll(); ok {
		mem.ram[KBSR] = kbsrReady
		mem.ram[KBDR] = Word(c)
	} else {
		mem.ram[KBSR] = 0
	}
}
