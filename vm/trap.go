package vm

const (
	TrapGETC  Word = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TrapOUT   Word = 0x21 /* output a character */
	TrapPUTS  Word = 0x22 /* output a word string */
	TrapIN    Word = 0x23 /* get character from keyboard, echoed onto the terminal */
	TrapPUTSP Word = 0x24 /* output a byte string */
	TrapHALT  Word = 0x25 /* halt the program */
)

func (cpu *cpu) trap(vector Word) {
	r := &cpu.registers

	switch vector {
	case TrapGETC:
		r.R[R0] = Word(cpu.readByte())
		r.updateFlags(R0)

	case TrapOUT:
		cpu.writeByte(byte(r.R[R0]))
		cpu.flush()

	case TrapPUTS:
		for addr := r.R[R0]; ; addr++ {
			c := cpu.memory.Read(addr)
			if c == 0 {
				break
			}
			cpu.writeByte(byte(c))
		}
		cpu.flush()

	case TrapIN:
		cpu.writeString(cpu.config.Prompt)
		c := cpu.readByte()
		cpu.writeByte(c)
		cpu.flush()

		r.R[R0] = Word(c)
		r.updateFlags(R0)

	case TrapPUTSP:
		for addr := r.R[R0]; ; addr++ {
			w := cpu.memory.Read(addr)
			if w == 0 {
				break
			}
			cpu.writeByte(byte(w))
			if hi := byte(w >> 8); hi != 0 {
				cpu.writeByte(hi)
			}
		}
		cpu.flush()

	case TrapHALT:
		cpu.writeString(cpu.config.HaltMessage)
		cpu.flush()
		cpu.state = Halted
		cpu.log.Info("machine halted")

	default:
		cpu.raise(&TrapFault{PC: r.PC - 1, Vector: vector})
	}
}

// readByte blocks for the next input byte. Closed or failing input reads
// as zero.
func (cpu *cpu) readByte() byte {
	c, err := cpu.io.ReadByte()
	if err != nil {
		cpu.log.WithError(err).Debug("console read")
		return 0
	}
	return c
}

func (cpu *cpu) writeByte(c byte) {
	if err := cpu.io.WriteByte(c); err != nil {
		cpu.log.WithError(err).Debug("console write")
	}
}

func (cpu *cpu) writeString(s string) {
	for i := 0; i < len(s); i++ {
		cpu.writeByte(s[i])
	}
}

func (cpu *cpu) flush() {
	if err := cpu.io.Flush(); err != nil {
		cpu.log.WithError(err).Debug("console flush")
	}
}
