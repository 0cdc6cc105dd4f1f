package chip8

import (
	"math/rand"

	"github.com/retroenv/retrogolib/log"
)

// Step runs one machine cycle: fetch the opcode at pc, execute it, then
// tick both timers down toward zero. The host loop calls it once per
// tick; the only instruction that spans cycles is LD Vx, K, which
// leaves pc in place until a key is observed.
func (vm *VM) Step() {
	op := vm.fetch()
	vm.execute(Decode(op))
	vm.pc &= addrMask

	if vm.dt > 0 {
		vm.dt--
	}
	if vm.st > 0 {
		vm.st--
	}
}

// fetch big-endian-combines the two memory bytes at pc into an opcode.
func (vm *VM) fetch() Opcode {
	hi := vm.mem[vm.pc&addrMask]
	lo := vm.mem[(vm.pc+1)&addrMask]
	return Opcode(uint16(hi)<<8 | uint16(lo))
}

// skipIf advances pc past the next instruction when the skip condition
// holds, or to the next instruction otherwise.
func (vm *VM) skipIf(cond bool) {
	if cond {
		vm.pc += 4
	} else {
		vm.pc += 2
	}
}

// unknown reports an opcode outside the instruction set and advances pc
// so execution never wedges on unrecognized code.
func (vm *VM) unknown(in Instruction) {
	vm.logger.Error("unknown opcode",
		log.Hex("opcode", uint16(in.Op)),
		log.Hex("pc", vm.pc))
	vm.pc += 2
}

// execute dispatches on the opcode's high nibble and applies the
// instruction to the machine state. Jump, call, return and skip
// instructions set pc explicitly; everything else falls through to the
// pc += 2 at the end of its case.
func (vm *VM) execute(in Instruction) {
	x, y := in.X, in.Y

	switch in.Op & 0xF000 {
	case 0x0000:
		switch in.NN {
		case 0xE0: // CLS
			vm.Gfx = [DisplayHeight][DisplayWidth]uint8{}
			vm.draw = true
			vm.pc += 2
		case 0xEE: // RET
			if vm.sp == 0 {
				vm.logger.Error("call stack underflow",
					log.Hex("opcode", uint16(in.Op)),
					log.Hex("pc", vm.pc))
				vm.pc += 2
				return
			}
			vm.sp--
			vm.pc = vm.stack[vm.sp]
			vm.pc += 2
		default:
			// 0nnn jumps to a machine code routine on the original
			// COSMAC interpreter; ignored here like every modern one.
			vm.unknown(in)
		}

	case 0x1000: // JP addr
		vm.pc = in.NNN

	case 0x2000: // CALL addr
		if vm.sp >= StackSize {
			vm.logger.Error("call stack overflow",
				log.Hex("opcode", uint16(in.Op)),
				log.Hex("pc", vm.pc))
			vm.pc += 2
			return
		}
		vm.stack[vm.sp] = vm.pc
		vm.sp++
		vm.pc = in.NNN

	case 0x3000: // SE Vx, byte
		vm.skipIf(vm.v[x] == in.NN)

	case 0x4000: // SNE Vx, byte
		vm.skipIf(vm.v[x] != in.NN)

	case 0x5000: // SE Vx, Vy
		if in.N != 0 {
			vm.unknown(in)
			return
		}
		vm.skipIf(vm.v[x] == vm.v[y])

	case 0x6000: // LD Vx, byte
		vm.v[x] = in.NN
		vm.pc += 2

	case 0x7000: // ADD Vx, byte -- no carry flag, wraps mod 256
		vm.v[x] += in.NN
		vm.pc += 2

	case 0x8000:
		switch in.N {
		case 0x0: // LD Vx, Vy
			vm.v[x] = vm.v[y]
		case 0x1: // OR Vx, Vy
			vm.v[x] |= vm.v[y]
		case 0x2: // AND Vx, Vy
			vm.v[x] &= vm.v[y]
		case 0x3: // XOR Vx, Vy
			vm.v[x] ^= vm.v[y]
		case 0x4: // ADD Vx, Vy -- VF = carry out of the 9-bit sum
			sum := uint16(vm.v[x]) + uint16(vm.v[y])
			if sum > 0xFF {
				vm.v[0xF] = 1
			} else {
				vm.v[0xF] = 0
			}
			vm.v[x] = uint8(sum)
		case 0x5: // SUB Vx, Vy -- VF = 1 when no borrow
			if vm.v[x] > vm.v[y] {
				vm.v[0xF] = 1
			} else {
				vm.v[0xF] = 0
			}
			vm.v[x] -= vm.v[y]
		case 0x6: // SHR Vx -- VF = bit shifted out, captured pre-shift
			vm.v[0xF] = vm.v[x] & 0x1
			vm.v[x] >>= 1
		case 0x7: // SUBN Vx, Vy -- VF = 1 when no borrow
			if vm.v[y] > vm.v[x] {
				vm.v[0xF] = 1
			} else {
				vm.v[0xF] = 0
			}
			vm.v[x] = vm.v[y] - vm.v[x]
		case 0xE: // SHL Vx -- VF = bit shifted out, captured pre-shift
			vm.v[0xF] = vm.v[x] >> 7
			vm.v[x] <<= 1
		default:
			vm.unknown(in)
			return
		}
		vm.pc += 2

	case 0x9000: // SNE Vx, Vy
		if in.N != 0 {
			vm.unknown(in)
			return
		}
		vm.skipIf(vm.v[x] != vm.v[y])

	case 0xA000: // LD I, addr
		vm.i = in.NNN
		vm.pc += 2

	case 0xB000: // JP V0, addr
		vm.pc = (in.NNN + uint16(vm.v[0])) & addrMask

	case 0xC000: // RND Vx, byte
		vm.v[x] = uint8(rand.Intn(0x100)) & in.NN
		vm.pc += 2

	case 0xD000: // DRW Vx, Vy, nibble
		vm.drawSprite(vm.v[x], vm.v[y], in.N)
		vm.pc += 2

	case 0xE000:
		switch in.NN {
		case 0x9E: // SKP Vx
			vm.skipIf(vm.Key[vm.v[x]&0xF])
		case 0xA1: // SKNP Vx
			vm.skipIf(!vm.Key[vm.v[x]&0xF])
		default:
			vm.unknown(in)
		}

	case 0xF000:
		switch in.NN {
		case 0x07: // LD Vx, DT
			vm.v[x] = vm.dt
		case 0x0A: // LD Vx, K -- stall at this opcode until a key is down
			for k := uint8(0); k < KeypadSize; k++ {
				if vm.Key[k] {
					vm.v[x] = k
					vm.pc += 2
					return
				}
			}
			return // pc unchanged, re-executes next cycle
		case 0x15: // LD DT, Vx
			vm.dt = vm.v[x]
		case 0x18: // LD ST, Vx
			vm.st = vm.v[x]
		case 0x1E: // ADD I, Vx -- no overflow flag
			vm.i += uint16(vm.v[x])
		case 0x29: // LD F, Vx -- font sprites are 5 bytes apart
			vm.i = uint16(vm.v[x]) * 5
		case 0x33: // LD B, Vx -- BCD decomposition
			val := vm.v[x]
			vm.mem[vm.i&addrMask] = val / 100
			vm.mem[(vm.i+1)&addrMask] = (val / 10) % 10
			vm.mem[(vm.i+2)&addrMask] = val % 10
		case 0x55: // LD [I], Vx
			for k := uint16(0); k <= uint16(x); k++ {
				vm.mem[(vm.i+k)&addrMask] = vm.v[k]
			}
		case 0x65: // LD Vx, [I]
			for k := uint16(0); k <= uint16(x); k++ {
				vm.v[k] = vm.mem[(vm.i+k)&addrMask]
			}
		default:
			vm.unknown(in)
			return
		}
		vm.pc += 2

	default:
		vm.unknown(in)
	}
}

// drawSprite XORs an n-row sprite read from memory at I onto the
// framebuffer at (ox, oy). The origin wraps around the display; rows
// and columns that run past the bottom or right edge are clipped. VF is
// set when any set pixel is erased by the XOR.
func (vm *VM) drawSprite(ox, oy, n uint8) {
	ox %= DisplayWidth
	oy %= DisplayHeight

	vm.v[0xF] = 0
	for row := uint8(0); row < n; row++ {
		py := oy + row
		if py >= DisplayHeight {
			break
		}
		sprite := vm.mem[(vm.i+uint16(row))&addrMask]
		for col := uint8(0); col < 8; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			px := ox + col
			if px >= DisplayWidth {
				break
			}
			if vm.Gfx[py][px] == 1 {
				vm.v[0xF] = 1
			}
			vm.Gfx[py][px] ^= 1
		}
	}
	vm.draw = true
}
