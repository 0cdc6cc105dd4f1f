package asm

import (
	"fmt"
	"strings"

	"gochip8/pkg/chip8"
)

// Disassemble renders a ROM image as one mnemonic per opcode word,
// prefixed with the machine address and the raw word. The listing
// assumes the ROM is loaded at chip8.ProgramStart, matching the
// assembler's label addressing. A trailing odd byte is emitted as a
// .byte directive.
func Disassemble(rom []byte) string {
	var sb strings.Builder

	addr := uint16(chip8.ProgramStart)
	for len(rom) >= 2 {
		op := chip8.Opcode(uint16(rom[0])<<8 | uint16(rom[1]))
		fmt.Fprintf(&sb, "0x%03X: %04X  %s\n", addr, uint16(op), chip8.Decode(op))
		rom = rom[2:]
		addr += 2
	}
	if len(rom) == 1 {
		fmt.Fprintf(&sb, "0x%03X: %02X    .byte 0x%02X\n", addr, rom[0], rom[0])
	}
	return sb.String()
}
