package vm

type Word uint16

type Flag Word

// general purpose registers
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	RegisterCount
)

// condition flags
const (
	FlagPos Flag = 1 << 0
	FlagZro Flag = 1 << 1
	FlagNeg Flag = 1 << 2
)

func (f Flag) String() string {
	switch f {
	case FlagPos:
		return "P"
	case FlagZro:
		return "Z"
	case FlagNeg:
		return "N"
	}
	return "?"
}

// Registers is the register file: R0-R7, the program counter and the
// condition code.
type Registers struct {
	R    [RegisterCount]Word
	PC   Word
	Cond Flag
}

func (r *Registers) updateFlags(idx Word) {
	switch v := r.R[idx]; {
	case v == 0:
		r.Cond = FlagZro
	case v>>15 != 0:
		r.Cond = FlagNeg
	default:
		r.Cond = FlagPos
	}
}

// SignExtend treats the low bitCount bits of x as a two's complement number
// and widens it to a full word.
func SignExtend(x Word, bitCount uint) Word {
	if bitCount >= 16 {
		return x
	}
	x &= 1<<bitCount - 1
	if (x>>(bitCount-1))&0b1 != 0 {
		x |= 0xFFFF << bitCount
	}
	return x
}
