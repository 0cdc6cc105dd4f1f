package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecodeFields(t *testing.T) {
	in := Decode(0xD7A5)

	assert.Equal(t, uint8(0x7), in.X)
	assert.Equal(t, uint8(0xA), in.Y)
	assert.Equal(t, uint8(0x5), in.N)
	assert.Equal(t, uint8(0xA5), in.NN)
	assert.Equal(t, uint16(0x7A5), in.NNN)
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		op   uint16
		want string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x1228, "JP 0x228"},
		{0x2300, "CALL 0x300"},
		{0x3A02, "SE VA, 0x02"},
		{0x4A02, "SNE VA, 0x02"},
		{0x5AB0, "SE VA, VB"},
		{0x6A02, "LD VA, 0x02"},
		{0x7A02, "ADD VA, 0x02"},
		{0x8AB0, "LD VA, VB"},
		{0x8AB1, "OR VA, VB"},
		{0x8AB2, "AND VA, VB"},
		{0x8AB3, "XOR VA, VB"},
		{0x8AB4, "ADD VA, VB"},
		{0x8AB5, "SUB VA, VB"},
		{0x8A06, "SHR VA"},
		{0x8AB7, "SUBN VA, VB"},
		{0x8A0E, "SHL VA"},
		{0x9AB0, "SNE VA, VB"},
		{0xA123, "LD I, 0x123"},
		{0xB123, "JP V0, 0x123"},
		{0xC1FF, "RND V1, 0xFF"},
		{0xD125, "DRW V1, V2, 0x5"},
		{0xE19E, "SKP V1"},
		{0xE1A1, "SKNP V1"},
		{0xF107, "LD V1, DT"},
		{0xF10A, "LD V1, K"},
		{0xF115, "LD DT, V1"},
		{0xF118, "LD ST, V1"},
		{0xF11E, "ADD I, V1"},
		{0xF129, "LD F, V1"},
		{0xF133, "LD B, V1"},
		{0xF155, "LD [I], V1"},
		{0xF165, "LD V1, [I]"},
		{0x0123, ".word 0x0123"},
		{0x5AB1, ".word 0x5AB1"},
		{0x800F, ".word 0x800F"},
		{0xE1FF, ".word 0xE1FF"},
		{0xF1FF, ".word 0xF1FF"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Decode(Opcode(tt.op)).String())
	}
}
