// Command console runs a CHIP-8 ROM and renders the framebuffer in the
// terminal at 60 Hz. It has no keypad input, so it suits demo ROMs and
// self-running programs; interactive ROMs belong in cmd/desktop.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tm "github.com/buger/goterm"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/asm"
	"gochip8/pkg/chip8"
)

func main() {
	cyclesPerFrame := flag.Int("cycles", 10, "machine cycles per 60 Hz frame")
	frames := flag.Int("frames", 0, "stop after this many frames (0 = run until interrupted)")
	flag.Parse()

	logger := log.NewWithConfig(log.DefaultConfig())

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: console [-cycles n] [-frames n] <rom>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	rom, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading ROM file", log.Err(err))
	}
	if strings.HasSuffix(path, ".asm") || strings.HasSuffix(path, ".s") {
		rom, err = asm.Assemble(string(rom))
		if err != nil {
			logger.Fatal("assembling source", log.Err(err))
		}
	}

	vm := chip8.New(chip8.WithLogger(logger))
	if err := vm.LoadBytes(rom); err != nil {
		logger.Fatal("loading ROM into memory", log.Err(err))
	}

	ctx := app.Context()
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for frame := 0; *frames == 0 || frame < *frames; frame++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for i := 0; i < *cyclesPerFrame; i++ {
			vm.Step()
		}
		if vm.ConsumeDraw() {
			render(vm)
		}
		if vm.SoundTimer() > 0 {
			fmt.Print("\a")
		}
	}
}

// render repaints the whole 64x32 grid; two glyphs per pixel keeps the
// aspect ratio near square in most terminal fonts.
func render(vm *chip8.VM) {
	tm.Clear()
	tm.MoveCursor(1, 1)

	var sb strings.Builder
	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if vm.Gfx[y][x] != 0 {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	tm.Print(sb.String())
	tm.Flush()
}
