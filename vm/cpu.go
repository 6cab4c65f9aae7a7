package vm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// State is the executor's run state.
type State int

const (
	Running State = iota
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return "unknown"
}

type cpu struct {
	state     State
	fault     error
	memory    *Memory
	registers Registers
	io        Console
	config    Config
	log       *logrus.Logger
	stop      atomic.Bool
}

func newCpu(memory *Memory, console Console, config Config) *cpu {
	return &cpu{
		state:     Running,
		memory:    memory,
		registers: Registers{PC: config.Origin, Cond: FlagZro},
		io:        console,
		config:    config,
		log:       config.logger(),
	}
}

// run steps until the machine leaves the running state or a stop is
// requested. Stops are only observed between instructions.
func (cpu *cpu) run(ctx context.Context) error {
	defer cpu.flush()

	for cpu.state == Running {
		if cpu.stop.Load() {
			return ErrStopped
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrStopped, ctx.Err())
		default:
		}
		if err := cpu.step(); err != nil {
			return err
		}
	}
	return cpu.fault
}

func (cpu *cpu) step() error {
	if cpu.state != Running {
		return ErrNotRunning
	}

	instruction := cpu.memory.Read(cpu.registers.PC)
	cpu.registers.PC++
	cpu.decodeAndExecuteInstruction(instruction)

	return cpu.fault
}

func (cpu *cpu) trace(op Opcode, format string, args ...interface{}) {
	if !cpu.log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	cpu.log.WithFields(logrus.Fields{
		"pc": cpu.registers.PC - 1,
		"op": op.String(),
	}).Debugf(format, args...)
}

func (cpu *cpu) raise(err error) {
	cpu.state = Faulted
	cpu.fault = err
	cpu.log.WithError(err).Error("machine fault")
}

func (cpu *cpu) decodeAndExecuteInstruction(instruction Word) {
	r := &cpu.registers
	op := decodeOpcode(instruction)

	switch op {
	case OpADD:
		dr := (instruction >> 9) & 0b111
		sr1 := (instruction >> 6) & 0b111
		imm_flag := (instruction >> 5) & 0b1

		if imm_flag == 1 {
			imm5 := instruction & 0x1F
			cpu.trace(op, "dr=%03b sr1=%03b imm5=0x%02x", dr, sr1, imm5)
			r.R[dr] = r.R[sr1] + SignExtend(imm5, 5)
		} else {
			sr2 := instruction & 0b111
			cpu.trace(op, "dr=%03b sr1=%03b sr2=%03b", dr, sr1, sr2)
			r.R[dr] = r.R[sr1] + r.R[sr2]
		}

		r.updateFlags(dr)

	case OpAND:
		dr := (instruction >> 9) & 0b111
		sr1 := (instruction >> 6) & 0b111
		imm_flag := (instruction >> 5) & 0b1

		if imm_flag == 1 {
			imm5 := instruction & 0x1F
			cpu.trace(op, "dr=%03b sr1=%03b imm5=0x%02x", dr, sr1, imm5)
			r.R[dr] = r.R[sr1] & SignExtend(imm5, 5)
		} else {
			sr2 := instruction & 0b111
			cpu.trace(op, "dr=%03b sr1=%03b sr2=%03b", dr, sr1, sr2)
			r.R[dr] = r.R[sr1] & r.R[sr2]
		}

		r.updateFlags(dr)

	case OpNOT:
		dr := (instruction >> 9) & 0b111
		sr := (instruction >> 6) & 0b111

		cpu.trace(op, "dr=%03b sr=%03b", dr, sr)

		r.R[dr] = ^r.R[sr]
		r.updateFlags(dr)

	case OpBR:
		nzp := (instruction >> 9) & 0b111
		pcoffset9 := instruction & 0x1FF

		cpu.trace(op, "nzp=%03b pcoffset9=0x%03x cond=%v", nzp, pcoffset9, r.Cond)

		if nzp&Word(r.Cond) != 0 {
			r.PC += SignExtend(pcoffset9, 9)
		}

	case OpJMP:
		br := (instruction >> 6) & 0b111

		cpu.trace(op, "br=%03b", br)

		r.PC = r.R[br]

	case OpJSR:
		// The link is written first, so JSRR R7 lands on the next instruction.
		r.R[R7] = r.PC

		if (instruction>>11)&0b1 == 1 {
			pcoffset11 := instruction & 0x7FF
			cpu.trace(op, "pcoffset11=0x%03x", pcoffset11)
			r.PC += SignExtend(pcoffset11, 11)
		} else {
			br := (instruction >> 6) & 0b111
			cpu.trace(op, "JSRR br=%03b", br)
			r.PC = r.R[br]
		}

	case OpLD:
		dr := (instruction >> 9) & 0b111
		pcoffset9 := instruction & 0x1FF

		cpu.trace(op, "dr=%03b pcoffset9=0x%03x", dr, pcoffset9)

		r.R[dr] = cpu.memory.Read(r.PC + SignExtend(pcoffset9, 9))
		r.updateFlags(dr)

	case OpLDI:
		dr := (instruction >> 9) & 0b111
		pcoffset9 := instruction & 0x1FF

		cpu.trace(op, "dr=%03b pcoffset9=0x%03x", dr, pcoffset9)

		r.R[dr] = cpu.memory.Read(cpu.memory.Read(r.PC + SignExtend(pcoffset9, 9)))
		r.updateFlags(dr)

	case OpLDR:
		dr := (instruction >> 9) & 0b111
		br := (instruction >> 6) & 0b111
		offset6 := instruction & 0x3F

		cpu.trace(op, "dr=%03b br=%03b offset6=0x%02x", dr, br, offset6)

		r.R[dr] = cpu.memory.Read(r.R[br] + SignExtend(offset6, 6))
		r.updateFlags(dr)

	case OpLEA:
		dr := (instruction >> 9) & 0b111
		pcoffset9 := instruction & 0x1FF

		cpu.trace(op, "dr=%03b pcoffset9=0x%03x", dr, pcoffset9)

		r.R[dr] = r.PC + SignExtend(pcoffset9, 9)
		r.updateFlags(dr)

	case OpST:
		sr := (instruction >> 9) & 0b111
		pcoffset9 := instruction & 0x1FF

		cpu.trace(op, "sr=%03b pcoffset9=0x%03x", sr, pcoffset9)

		computed_address := r.PC + SignExtend(pcoffset9, 9)
		cpu.memory.Write(computed_address, r.R[sr])

	case OpSTI:
		sr := (instruction >> 9) & 0b111
		pcoffset9 := instruction & 0x1FF

		cpu.trace(op, "sr=%03b pcoffset9=0x%03x", sr, pcoffset9)

		computed_address := cpu.memory.Read(r.PC + SignExtend(pcoffset9, 9))
		cpu.memory.Write(computed_address, r.R[sr])

	case OpSTR:
		sr := (instruction >> 9) & 0b111
		br := (instruction >> 6) & 0b111
		offset6 := instruction & 0x3F

		cpu.trace(op, "sr=%03b br=%03b offset6=0x%02x", sr, br, offset6)

		computed_address := r.R[br] + SignExtend(offset6, 6)
		cpu.memory.Write(computed_address, r.R[sr])

	case OpTRAP:
		r.R[R7] = r.PC
		vector := instruction & 0xFF

		cpu.trace(op, "vector=0x%02x", vector)

		cpu.trap(vector)

	case OpRTI, OpRES:
		cpu.raise(&DecodeFault{PC: r.PC - 1, Instr: instruction, Op: op})
	}
}
