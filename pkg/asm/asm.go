// Package asm implements a small two-pass assembler for CHIP-8 using
// the Cowgod mnemonic set, plus a matching disassembler. Programs
// assemble to raw ROM bytes with the usual 0x200 load address, so
// labels resolve to absolute machine addresses.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"gochip8/pkg/chip8"
)

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

// Assembler turns CHIP-8 assembly source into ROM bytes.
type Assembler struct {
	labels map[string]uint16
}

// NewAssembler returns an assembler with an empty label table.
func NewAssembler() *Assembler {
	return &Assembler{
		labels: make(map[string]uint16),
	}
}

// Assemble is a convenience wrapper around NewAssembler().Assemble.
func Assemble(source string) ([]byte, error) {
	return NewAssembler().Assemble(source)
}

// Assemble runs both passes over source and returns the ROM image.
func (a *Assembler) Assemble(source string) ([]byte, error) {
	lines := strings.Split(source, "\n")

	if err := a.pass1(lines); err != nil {
		return nil, err
	}
	return a.pass2(lines)
}

// pass1 assigns an address to every label. All CHIP-8 instructions and
// the .word directive occupy two bytes, so sizing is uniform.
func (a *Assembler) pass1(lines []string) error {
	address := uint16(chip8.ProgramStart)

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return err
		}

		for _, lbl := range p.labels {
			key := strings.ToUpper(lbl)
			if _, exists := a.labels[key]; exists {
				return fmt.Errorf("duplicate label %q on line %d", lbl, lineNo)
			}
			a.labels[key] = address
		}

		if p.mnemonic == "" {
			continue
		}
		if address+2 > chip8.MemorySize {
			return fmt.Errorf("program too large near line %d", lineNo)
		}
		address += 2
	}
	return nil
}

// pass2 encodes every instruction now that labels are known.
func (a *Assembler) pass2(lines []string) ([]byte, error) {
	var rom []byte

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}
		if p.mnemonic == "" {
			continue
		}

		op, err := a.encode(p)
		if err != nil {
			return nil, err
		}
		rom = append(rom, byte(op>>8), byte(op))
	}
	return rom, nil
}

// parseLine splits one source line into labels, a mnemonic and its
// comma-separated operands. Comments start with ';'.
func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := raw
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(strings.ReplaceAll(line, "\t", " "))

	for {
		idx := strings.Index(line, ":")
		if idx < 0 {
			break
		}
		label := strings.TrimSpace(line[:idx])
		if label == "" || strings.ContainsAny(label, " \t,") {
			return p, fmt.Errorf("malformed label on line %d", lineNo)
		}
		p.labels = append(p.labels, label)
		line = strings.TrimSpace(line[idx+1:])
	}

	if line == "" {
		return p, nil
	}

	fields := strings.SplitN(line, " ", 2)
	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) == 2 {
		for _, operand := range strings.Split(fields[1], ",") {
			p.operands = append(p.operands, strings.TrimSpace(operand))
		}
	}
	return p, nil
}

// encode translates one parsed instruction into its opcode word.
func (a *Assembler) encode(p parsedLine) (uint16, error) {
	ops := p.operands

	switch p.mnemonic {
	case "CLS":
		return a.noOperands(p, 0x00E0)
	case "RET":
		return a.noOperands(p, 0x00EE)

	case "JP":
		switch len(ops) {
		case 1:
			nnn, err := a.address(ops[0], p.lineNo)
			return 0x1000 | nnn, err
		case 2:
			if strings.ToUpper(ops[0]) != "V0" {
				return 0, fmt.Errorf("JP with two operands needs V0 on line %d", p.lineNo)
			}
			nnn, err := a.address(ops[1], p.lineNo)
			return 0xB000 | nnn, err
		}
		return 0, operandCountError(p)

	case "CALL":
		if len(ops) != 1 {
			return 0, operandCountError(p)
		}
		nnn, err := a.address(ops[0], p.lineNo)
		return 0x2000 | nnn, err

	case "SE":
		return a.regThenRegOrByte(p, 0x5000, 0x3000)
	case "SNE":
		return a.regThenRegOrByte(p, 0x9000, 0x4000)

	case "LD":
		return a.encodeLoad(p)

	case "ADD":
		if len(ops) == 2 && strings.ToUpper(ops[0]) == "I" {
			x, err := register(ops[1], p.lineNo)
			return 0xF01E | x<<8, err
		}
		return a.regThenRegOrByte(p, 0x8004, 0x7000)

	case "OR":
		return a.twoRegisters(p, 0x8001)
	case "AND":
		return a.twoRegisters(p, 0x8002)
	case "XOR":
		return a.twoRegisters(p, 0x8003)
	case "SUB":
		return a.twoRegisters(p, 0x8005)
	case "SUBN":
		return a.twoRegisters(p, 0x8007)

	case "SHR":
		return a.oneRegister(p, 0x8006)
	case "SHL":
		return a.oneRegister(p, 0x800E)
	case "SKP":
		return a.oneRegister(p, 0xE09E)
	case "SKNP":
		return a.oneRegister(p, 0xE0A1)

	case "RND":
		if len(ops) != 2 {
			return 0, operandCountError(p)
		}
		x, err := register(ops[0], p.lineNo)
		if err != nil {
			return 0, err
		}
		nn, err := number(ops[1], 0xFF, p.lineNo)
		return 0xC000 | x<<8 | nn, err

	case "DRW":
		if len(ops) != 3 {
			return 0, operandCountError(p)
		}
		x, err := register(ops[0], p.lineNo)
		if err != nil {
			return 0, err
		}
		y, err := register(ops[1], p.lineNo)
		if err != nil {
			return 0, err
		}
		n, err := number(ops[2], 0xF, p.lineNo)
		return 0xD000 | x<<8 | y<<4 | n, err

	case ".WORD":
		if len(ops) != 1 {
			return 0, operandCountError(p)
		}
		return number(ops[0], 0xFFFF, p.lineNo)
	}

	return 0, fmt.Errorf("unknown mnemonic %q on line %d", p.mnemonic, p.lineNo)
}

// encodeLoad handles the many LD forms, distinguished by the shape of
// the two operands.
func (a *Assembler) encodeLoad(p parsedLine) (uint16, error) {
	if len(p.operands) != 2 {
		return 0, operandCountError(p)
	}
	dst := strings.ToUpper(p.operands[0])
	src := strings.ToUpper(p.operands[1])

	switch dst {
	case "I":
		nnn, err := a.address(src, p.lineNo)
		return 0xA000 | nnn, err
	case "DT":
		x, err := register(src, p.lineNo)
		return 0xF015 | x<<8, err
	case "ST":
		x, err := register(src, p.lineNo)
		return 0xF018 | x<<8, err
	case "F":
		x, err := register(src, p.lineNo)
		return 0xF029 | x<<8, err
	case "B":
		x, err := register(src, p.lineNo)
		return 0xF033 | x<<8, err
	case "[I]":
		x, err := register(src, p.lineNo)
		return 0xF055 | x<<8, err
	}

	x, err := register(dst, p.lineNo)
	if err != nil {
		return 0, err
	}
	switch {
	case src == "DT":
		return 0xF007 | x<<8, nil
	case src == "K":
		return 0xF00A | x<<8, nil
	case src == "[I]":
		return 0xF065 | x<<8, nil
	case isRegister(src):
		y, err := register(src, p.lineNo)
		return 0x8000 | x<<8 | y<<4, err
	}
	nn, err := number(src, 0xFF, p.lineNo)
	return 0x6000 | x<<8 | nn, err
}

func (a *Assembler) noOperands(p parsedLine, op uint16) (uint16, error) {
	if len(p.operands) != 0 {
		return 0, operandCountError(p)
	}
	return op, nil
}

func (a *Assembler) oneRegister(p parsedLine, op uint16) (uint16, error) {
	if len(p.operands) != 1 {
		return 0, operandCountError(p)
	}
	x, err := register(p.operands[0], p.lineNo)
	return op | x<<8, err
}

func (a *Assembler) twoRegisters(p parsedLine, op uint16) (uint16, error) {
	if len(p.operands) != 2 {
		return 0, operandCountError(p)
	}
	x, err := register(p.operands[0], p.lineNo)
	if err != nil {
		return 0, err
	}
	y, err := register(p.operands[1], p.lineNo)
	return op | x<<8 | y<<4, err
}

// regThenRegOrByte encodes the Vx, Vy form with regOp when the second
// operand is a register, and the Vx, byte form with byteOp otherwise.
func (a *Assembler) regThenRegOrByte(p parsedLine, regOp, byteOp uint16) (uint16, error) {
	if len(p.operands) != 2 {
		return 0, operandCountError(p)
	}
	x, err := register(p.operands[0], p.lineNo)
	if err != nil {
		return 0, err
	}
	if isRegister(p.operands[1]) {
		y, err := register(p.operands[1], p.lineNo)
		return regOp | x<<8 | y<<4, err
	}
	nn, err := number(p.operands[1], 0xFF, p.lineNo)
	return byteOp | x<<8 | nn, err
}

// address resolves a label or numeric literal to a 12-bit address.
func (a *Assembler) address(s string, lineNo int) (uint16, error) {
	if addr, ok := a.labels[strings.ToUpper(s)]; ok {
		return addr & 0xFFF, nil
	}
	return number(s, 0xFFF, lineNo)
}

func isRegister(s string) bool {
	if len(s) != 2 {
		return false
	}
	if s[0] != 'V' && s[0] != 'v' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 4)
	return err == nil
}

func register(s string, lineNo int) (uint16, error) {
	if !isRegister(s) {
		return 0, fmt.Errorf("expected register, got %q on line %d", s, lineNo)
	}
	x, _ := strconv.ParseUint(s[1:], 16, 4)
	return uint16(x), nil
}

// number parses a decimal or 0x-prefixed literal no greater than limit.
func number(s string, limit uint64, lineNo int) (uint16, error) {
	val, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("bad numeric operand %q on line %d", s, lineNo)
	}
	if val > limit {
		return 0, fmt.Errorf("operand %q exceeds 0x%X on line %d", s, limit, lineNo)
	}
	return uint16(val), nil
}

func operandCountError(p parsedLine) error {
	return fmt.Errorf("wrong operand count for %s on line %d", p.mnemonic, p.lineNo)
}
