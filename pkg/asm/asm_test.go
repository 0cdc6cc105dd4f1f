package asm

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestAssembleBasic(t *testing.T) {
	tests := []struct {
		source string
		want   []byte
	}{
		{"CLS", []byte{0x00, 0xE0}},
		{"RET", []byte{0x00, 0xEE}},
		{"JP 0x228", []byte{0x12, 0x28}},
		{"JP V0, 0x300", []byte{0xB3, 0x00}},
		{"CALL 0x300", []byte{0x23, 0x00}},
		{"SE V1, 0x02", []byte{0x31, 0x02}},
		{"SE V1, V2", []byte{0x51, 0x20}},
		{"SNE V1, 0x02", []byte{0x41, 0x02}},
		{"SNE V1, V2", []byte{0x91, 0x20}},
		{"LD VA, 0x02", []byte{0x6A, 0x02}},
		{"LD VA, VB", []byte{0x8A, 0xB0}},
		{"ADD V1, 0x20", []byte{0x71, 0x20}},
		{"ADD V1, V2", []byte{0x81, 0x24}},
		{"ADD I, V1", []byte{0xF1, 0x1E}},
		{"OR V1, V2", []byte{0x81, 0x21}},
		{"AND V1, V2", []byte{0x81, 0x22}},
		{"XOR V1, V2", []byte{0x81, 0x23}},
		{"SUB V1, V2", []byte{0x81, 0x25}},
		{"SUBN V1, V2", []byte{0x81, 0x27}},
		{"SHR V1", []byte{0x81, 0x06}},
		{"SHL V1", []byte{0x81, 0x0E}},
		{"LD I, 0x123", []byte{0xA1, 0x23}},
		{"RND V1, 0xFF", []byte{0xC1, 0xFF}},
		{"DRW V1, V2, 0x5", []byte{0xD1, 0x25}},
		{"SKP V1", []byte{0xE1, 0x9E}},
		{"SKNP V1", []byte{0xE1, 0xA1}},
		{"LD V1, DT", []byte{0xF1, 0x07}},
		{"LD V1, K", []byte{0xF1, 0x0A}},
		{"LD DT, V1", []byte{0xF1, 0x15}},
		{"LD ST, V1", []byte{0xF1, 0x18}},
		{"LD F, V1", []byte{0xF1, 0x29}},
		{"LD B, V1", []byte{0xF1, 0x33}},
		{"LD [I], V1", []byte{0xF1, 0x55}},
		{"LD V1, [I]", []byte{0xF1, 0x65}},
		{".word 0x1234", []byte{0x12, 0x34}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			rom, err := Assemble(tt.source)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, rom)
		})
	}
}

func TestAssembleLabels(t *testing.T) {
	source := `
; count down from 5, then loop forever
        LD V0, 5
loop:   SE V0, 0
        JP decrement
done:   JP done
decrement:
        SUB V0, V1
        JP loop
`
	rom, err := Assemble(source)
	assert.NoError(t, err)

	// loop is at 0x202, done at 0x206, decrement at 0x208.
	want := []byte{
		0x60, 0x05, // LD V0, 5
		0x30, 0x00, // SE V0, 0
		0x12, 0x08, // JP decrement
		0x12, 0x06, // JP done
		0x80, 0x15, // SUB V0, V1
		0x12, 0x02, // JP loop
	}
	assert.Equal(t, want, rom)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		errPart string
	}{
		{"unknown mnemonic", "FROB V1", "unknown mnemonic"},
		{"bad register", "SHR V", "expected register"},
		{"bad operand count", "CLS V1", "wrong operand count"},
		{"bad number", "JP 12q4", "bad numeric operand"},
		{"operand too large", "LD V1, 0x100", "exceeds"},
		{"duplicate label", "a: CLS\na: RET", "duplicate label"},
		{"undefined label", "JP nowhere", "bad numeric operand"},
		{"jp two operands", "JP V1, 0x200", "needs V0"},
		{"malformed label", "bad label: CLS", "malformed label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.source)
			assert.Error(t, err)
			assert.ErrorContains(t, err, tt.errPart)
		})
	}
}

func TestAssembleTooLarge(t *testing.T) {
	// Enough instructions to walk the load address past the end of
	// memory.
	source := strings.Repeat("CLS\n", 2048)
	_, err := Assemble(source)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "too large")
}

func TestAssembleReportsLineNumbers(t *testing.T) {
	_, err := Assemble("CLS\nRET\nFROB V1")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "line 3")
}

func TestDisassemble(t *testing.T) {
	rom := []byte{0x6A, 0x02, 0x00, 0xE0, 0x12, 0x00}
	listing := Disassemble(rom)

	want := "0x200: 6A02  LD VA, 0x02\n" +
		"0x202: 00E0  CLS\n" +
		"0x204: 1200  JP 0x200\n"
	assert.Equal(t, want, listing)
}

func TestDisassembleOddTrailingByte(t *testing.T) {
	listing := Disassemble([]byte{0x00, 0xE0, 0xAB})
	assert.True(t, strings.Contains(listing, ".byte 0xAB"))
}

func TestRoundTrip(t *testing.T) {
	// Assembling the disassembler's own output reproduces the ROM.
	rom := []byte{
		0x00, 0xE0,
		0x6A, 0x02,
		0xA0, 0x50,
		0xD1, 0x25,
		0xF1, 0x0A,
		0x12, 0x00,
	}
	listing := Disassemble(rom)

	// Strip the address/word prefixes, keeping just the mnemonics.
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(listing), "\n") {
		parts := strings.SplitN(line, "  ", 2)
		sb.WriteString(parts[1])
		sb.WriteByte('\n')
	}

	got, err := Assemble(sb.String())
	assert.NoError(t, err)
	assert.Equal(t, rom, got)
}
