// Command desktop runs a CHIP-8 ROM in a window. The framebuffer is
// blitted at an integer scale, the classic 1234/QWER/ASDF/ZXCV key
// block maps onto the 16-key keypad, and the sound timer drives a
// square-wave beeper.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/colornames"

	"gochip8/pkg/asm"
	"gochip8/pkg/chip8"
)

// keypadKeys maps keypad index 0..F to its physical key, following the
// usual COSMAC layout:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   ->   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
var keypadKeys = [chip8.KeypadSize]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.Key1,
	0x2: ebiten.Key2,
	0x3: ebiten.Key3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.Key4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

type Game struct {
	vm  *chip8.VM
	rom []byte

	display        *ebiten.Image // reused 64x32 canvas
	beeper         *beeper
	scale          int
	cyclesPerFrame int
}

func (g *Game) Update() error {
	for k, key := range keypadKeys {
		g.vm.SetKey(k, ebiten.IsKeyPressed(key))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.vm.Reset()
		if err := g.vm.LoadBytes(g.rom); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		_ = g.vm.SaveScreenshot("chip8.png")
	}

	// Several machine cycles per 60 Hz frame; the stock rate is near
	// 600 cycles/s, so 10 per frame.
	for i := 0; i < g.cyclesPerFrame; i++ {
		g.vm.Step()
	}

	g.beeper.setBeeping(g.vm.SoundTimer() > 0)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.display == nil {
		g.display = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)
		g.display.WritePixels(g.vm.FramebufferRGBA())
	}
	if g.vm.ConsumeDraw() {
		g.display.WritePixels(g.vm.FramebufferRGBA())
	}

	screen.Fill(colornames.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.display, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return chip8.DisplayWidth * g.scale, chip8.DisplayHeight * g.scale
}

func main() {
	scale := flag.Int("scale", 10, "pixel scale factor")
	cyclesPerFrame := flag.Int("cycles", 10, "machine cycles per 60 Hz frame")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [-scale n] [-cycles n] <rom>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	rom, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read ROM file: %v", err)
	}
	if strings.HasSuffix(path, ".asm") || strings.HasSuffix(path, ".s") {
		rom, err = asm.Assemble(string(rom))
		if err != nil {
			log.Fatalf("Assembly failed: %v", err)
		}
	}

	vm := chip8.New()
	if err := vm.LoadBytes(rom); err != nil {
		log.Fatalf("ROM does not fit into memory: %v", err)
	}

	ebiten.SetWindowSize(chip8.DisplayWidth**scale, chip8.DisplayHeight**scale)
	ebiten.SetWindowTitle("CHIP-8")

	game := &Game{
		vm:             vm,
		rom:            rom,
		beeper:         newBeeper(),
		scale:          *scale,
		cyclesPerFrame: *cyclesPerFrame,
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
