// Command gochip8 runs a CHIP-8 ROM headlessly: load, execute a fixed
// number of cycles, then optionally dump the framebuffer as a PNG or
// print a disassembly. The windowed and terminal front ends live under
// cmd/.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/asm"
	"gochip8/pkg/chip8"
)

func main() {
	romPath := flag.String("rom", "", "ROM or .asm source file to load")
	cycles := flag.Int("cycles", 600, "number of machine cycles to run")
	screenshot := flag.String("screenshot", "", "write the final framebuffer to this PNG file")
	disasm := flag.Bool("disasm", false, "print a disassembly of the ROM instead of running it")
	debug := flag.Bool("debug", false, "enable debug logging")
	quiet := flag.Bool("q", false, "quiet mode")
	flag.Parse()

	logger := createLogger(*debug, *quiet)

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: gochip8 -rom <file> [-cycles n] [-screenshot out.png] [-disasm]")
		os.Exit(2)
	}

	rom, err := loadProgram(*romPath)
	if err != nil {
		logger.Fatal("loading program", log.Err(err))
	}

	if *disasm {
		fmt.Print(asm.Disassemble(rom))
		return
	}

	vm := chip8.New(chip8.WithLogger(logger))
	if err := vm.LoadBytes(rom); err != nil {
		logger.Fatal("loading ROM into memory", log.Err(err))
	}

	for i := 0; i < *cycles; i++ {
		vm.Step()
	}
	logger.Debug("run finished",
		log.Hex("pc", vm.PC()),
		log.Uint8("delay_timer", vm.DelayTimer()),
		log.Uint8("sound_timer", vm.SoundTimer()))

	if *screenshot != "" {
		if err := vm.SaveScreenshot(*screenshot); err != nil {
			logger.Fatal("writing screenshot", log.Err(err))
		}
		logger.Info("screenshot written", log.String("path", *screenshot))
	}
}

// loadProgram reads path as raw ROM bytes, or assembles it first when
// it looks like assembly source.
func loadProgram(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".asm") || strings.HasSuffix(path, ".s") {
		return asm.Assemble(string(data))
	}
	return data, nil
}

// createLogger builds the diagnostic logger with a level matching the
// CLI flags.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
