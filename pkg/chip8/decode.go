package chip8

import "fmt"

// Opcode is a 16-bit CHIP-8 instruction word, fetched big-endian from
// two consecutive memory bytes.
type Opcode uint16

// Instruction is a decoded opcode with every operand field extracted.
// Which fields are meaningful depends on the instruction family; they
// are all cheap to extract, so decoding pulls them out unconditionally
// and execution only looks at the ones it needs.
type Instruction struct {
	Op  Opcode
	X   uint8  // second nibble, usually a register index
	Y   uint8  // third nibble, usually a register index
	N   uint8  // low nibble
	NN  uint8  // low byte
	NNN uint16 // low 12 bits, an address
}

// Decode extracts the operand fields of op.
func Decode(op Opcode) Instruction {
	return Instruction{
		Op:  op,
		X:   uint8(op >> 8 & 0xF),
		Y:   uint8(op >> 4 & 0xF),
		N:   uint8(op & 0xF),
		NN:  uint8(op & 0xFF),
		NNN: uint16(op & 0xFFF),
	}
}

// String returns the Cowgod-style assembly mnemonic for the
// instruction, or a .word directive for opcodes outside the
// instruction set.
func (in Instruction) String() string {
	switch in.Op & 0xF000 {
	case 0x0000:
		switch in.NN {
		case 0xE0:
			return "CLS"
		case 0xEE:
			return "RET"
		}
	case 0x1000:
		return fmt.Sprintf("JP 0x%03X", in.NNN)
	case 0x2000:
		return fmt.Sprintf("CALL 0x%03X", in.NNN)
	case 0x3000:
		return fmt.Sprintf("SE V%X, 0x%02X", in.X, in.NN)
	case 0x4000:
		return fmt.Sprintf("SNE V%X, 0x%02X", in.X, in.NN)
	case 0x5000:
		if in.N == 0 {
			return fmt.Sprintf("SE V%X, V%X", in.X, in.Y)
		}
	case 0x6000:
		return fmt.Sprintf("LD V%X, 0x%02X", in.X, in.NN)
	case 0x7000:
		return fmt.Sprintf("ADD V%X, 0x%02X", in.X, in.NN)
	case 0x8000:
		switch in.N {
		case 0x0:
			return fmt.Sprintf("LD V%X, V%X", in.X, in.Y)
		case 0x1:
			return fmt.Sprintf("OR V%X, V%X", in.X, in.Y)
		case 0x2:
			return fmt.Sprintf("AND V%X, V%X", in.X, in.Y)
		case 0x3:
			return fmt.Sprintf("XOR V%X, V%X", in.X, in.Y)
		case 0x4:
			return fmt.Sprintf("ADD V%X, V%X", in.X, in.Y)
		case 0x5:
			return fmt.Sprintf("SUB V%X, V%X", in.X, in.Y)
		case 0x6:
			return fmt.Sprintf("SHR V%X", in.X)
		case 0x7:
			return fmt.Sprintf("SUBN V%X, V%X", in.X, in.Y)
		case 0xE:
			return fmt.Sprintf("SHL V%X", in.X)
		}
	case 0x9000:
		if in.N == 0 {
			return fmt.Sprintf("SNE V%X, V%X", in.X, in.Y)
		}
	case 0xA000:
		return fmt.Sprintf("LD I, 0x%03X", in.NNN)
	case 0xB000:
		return fmt.Sprintf("JP V0, 0x%03X", in.NNN)
	case 0xC000:
		return fmt.Sprintf("RND V%X, 0x%02X", in.X, in.NN)
	case 0xD000:
		return fmt.Sprintf("DRW V%X, V%X, 0x%X", in.X, in.Y, in.N)
	case 0xE000:
		switch in.NN {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", in.X)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", in.X)
		}
	case 0xF000:
		switch in.NN {
		case 0x07:
			return fmt.Sprintf("LD V%X, DT", in.X)
		case 0x0A:
			return fmt.Sprintf("LD V%X, K", in.X)
		case 0x15:
			return fmt.Sprintf("LD DT, V%X", in.X)
		case 0x18:
			return fmt.Sprintf("LD ST, V%X", in.X)
		case 0x1E:
			return fmt.Sprintf("ADD I, V%X", in.X)
		case 0x29:
			return fmt.Sprintf("LD F, V%X", in.X)
		case 0x33:
			return fmt.Sprintf("LD B, V%X", in.X)
		case 0x55:
			return fmt.Sprintf("LD [I], V%X", in.X)
		case 0x65:
			return fmt.Sprintf("LD V%X, [I]", in.X)
		}
	}
	return fmt.Sprintf(".word 0x%04X", uint16(in.Op))
}
