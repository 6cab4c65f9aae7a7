package vm

// Opcode is the 4-bit operation selector in an instruction's high bits.
type Opcode Word

// opcodes
const (
	OpBR Opcode = iota
	OpADD
	OpLD
	OpST
	OpJSR
	OpAND
	OpLDR
	OpSTR
	OpRTI /* unused */
	OpNOT
	OpLDI
	OpSTI
	OpJMP
	OpRES /* reserved */
	OpLEA
	OpTRAP
)

var opcodeNames = [...]string{
	OpBR:   "BR",
	OpADD:  "ADD",
	OpLD:   "LD",
	OpST:   "ST",
	OpJSR:  "JSR",
	OpAND:  "AND",
	OpLDR:  "LDR",
	OpSTR:  "STR",
	OpRTI:  "RTI",
	OpNOT:  "NOT",
	OpLDI:  "LDI",
	OpSTI:  "STI",
	OpJMP:  "JMP",
	OpRES:  "RES",
	OpLEA:  "LEA",
	OpTRAP: "TRAP",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "???"
}

// Reserved reports whether op has no defined behavior on this machine.
func (op Opcode) Reserved() bool {
	return op == OpRTI || op == OpRES
}

func decodeOpcode(instruction Word) Opcode {
	return Opcode(instruction >> 12)
}
