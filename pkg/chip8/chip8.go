// Package chip8 implements a CHIP-8 virtual machine: 4 KiB of memory,
// sixteen 8-bit registers, a 16-slot call stack, two countdown timers,
// a 64x32 monochrome framebuffer and a 16-key keypad, driven one
// fetch/decode/execute cycle at a time.
//
// Opcode semantics follow Cowgod's Chip-8 Technical Reference v1.0:
// http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
package chip8

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

const (
	MemorySize    = 4096
	RegisterCount = 16
	StackSize     = 16
	KeypadSize    = 16
	DisplayWidth  = 64
	DisplayHeight = 32

	// ProgramStart is where ROMs are loaded and execution begins.
	ProgramStart = 0x200
	// FontsetBase is where the built-in hex digit sprites live.
	FontsetBase = 0x50
	// MaxRomSize is the largest ROM that fits between ProgramStart and
	// the end of memory.
	MaxRomSize = MemorySize - ProgramStart

	// addrMask truncates addresses to the 12-bit CHIP-8 address space.
	// Every memory access goes through it, so a program that walks I or
	// pc past 0xFFF wraps instead of faulting the interpreter.
	addrMask = MemorySize - 1
)

// ErrRomTooLarge is returned by Load when the ROM image does not fit
// into the program area of memory.
var ErrRomTooLarge = errors.New("ROM too large for memory")

// VM holds the complete machine state. Gfx and Key are exported for the
// rendering and input collaborators; Gfx is row-major, one byte per
// pixel holding 0 or 1. Everything else is mutated only by Step.
type VM struct {
	Gfx [DisplayHeight][DisplayWidth]uint8
	Key [KeypadSize]bool

	mem   [MemorySize]uint8
	v     [RegisterCount]uint8
	stack [StackSize]uint16
	i     uint16
	pc    uint16
	sp    uint8

	dt, st uint8 // delay timer & sound timer

	draw bool

	logger *log.Logger
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithLogger sets the logger used as the diagnostic channel for
// in-cycle faults (unknown opcodes, stack bound violations).
func WithLogger(logger *log.Logger) Option {
	return func(vm *VM) {
		vm.logger = logger
	}
}

// New returns a VM in its power-on state: memory zeroed, fontset copied
// in at FontsetBase, pc at ProgramStart.
func New(opts ...Option) *VM {
	vm := new(VM)
	for _, opt := range opts {
		opt(vm)
	}
	if vm.logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		vm.logger = log.NewWithConfig(cfg)
	}
	vm.Reset()
	return vm
}

// Reset returns the machine to its power-on state. Loaded ROM contents
// are discarded; the logger is kept.
func (vm *VM) Reset() {
	logger := vm.logger
	*vm = VM{logger: logger}
	copy(vm.mem[FontsetBase:], fontset[:])
	vm.pc = ProgramStart
}

// Load copies a ROM image from r into memory starting at ProgramStart.
// A ROM larger than MaxRomSize is a fatal load error and leaves the
// machine unchanged.
func (vm *VM) Load(r io.Reader) error {
	rom, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}
	return vm.LoadBytes(rom)
}

// LoadBytes copies rom into memory starting at ProgramStart.
func (vm *VM) LoadBytes(rom []byte) error {
	if len(rom) > MaxRomSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrRomTooLarge, len(rom), MaxRomSize)
	}
	copy(vm.mem[ProgramStart:], rom)
	return nil
}

// LoadROM reads the file at path and loads it as a ROM image.
func (vm *VM) LoadROM(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening ROM file: %w", err)
	}
	defer f.Close()
	return vm.Load(f)
}

// SetKey records the pressed state of keypad key k. Indices outside
// 0..15 are ignored.
func (vm *VM) SetKey(k int, pressed bool) {
	if k >= 0 && k < KeypadSize {
		vm.Key[k] = pressed
	}
}

// DrawPending reports whether the framebuffer changed since the last
// ConsumeDraw.
func (vm *VM) DrawPending() bool {
	return vm.draw
}

// ConsumeDraw returns the redraw flag and clears it, so each draw event
// is observed exactly once by the renderer.
func (vm *VM) ConsumeDraw() bool {
	d := vm.draw
	vm.draw = false
	return d
}

// DelayTimer returns the current delay timer value.
func (vm *VM) DelayTimer() uint8 { return vm.dt }

// SoundTimer returns the current sound timer value. The audio
// collaborator polls it each frame to decide whether to play a tone.
func (vm *VM) SoundTimer() uint8 { return vm.st }

// V returns the value of register Vx for x in 0..15.
func (vm *VM) V(x int) uint8 { return vm.v[x&0xF] }

// SetV sets register Vx for x in 0..15.
func (vm *VM) SetV(x int, val uint8) { vm.v[x&0xF] = val }

// I returns the index register.
func (vm *VM) I() uint16 { return vm.i }

// SetI sets the index register.
func (vm *VM) SetI(addr uint16) { vm.i = addr }

// PC returns the program counter.
func (vm *VM) PC() uint16 { return vm.pc }

// SetPC sets the program counter.
func (vm *VM) SetPC(addr uint16) { vm.pc = addr & addrMask }

// SP returns the stack pointer, 0..16.
func (vm *VM) SP() uint8 { return vm.sp }

// ReadByte returns the memory byte at addr, wrapped to the 12-bit
// address space.
func (vm *VM) ReadByte(addr uint16) uint8 { return vm.mem[addr&addrMask] }

// WriteByte stores val at addr, wrapped to the 12-bit address space.
func (vm *VM) WriteByte(addr uint16, val uint8) { vm.mem[addr&addrMask] = val }

// Pixel returns 1 if the framebuffer pixel at (x, y) is set, else 0.
// Coordinates outside the display return 0.
func (vm *VM) Pixel(x, y int) uint8 {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return 0
	}
	return vm.Gfx[y][x]
}
