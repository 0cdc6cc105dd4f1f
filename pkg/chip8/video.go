package chip8

import (
	"image"
	"image/png"
	"os"
)

// FramebufferRGBA decodes the 64x32 one-bit framebuffer into an
// RGBA8888 byte slice (length 64*32*4), white for set pixels and black
// for cleared ones, ready for a single WritePixels upload.
func (vm *VM) FramebufferRGBA() []byte {
	pixels := make([]byte, DisplayWidth*DisplayHeight*4)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			if vm.Gfx[y][x] == 0 {
				pixels[(y*DisplayWidth+x)*4+3] = 0xFF
				continue
			}
			idx := (y*DisplayWidth + x) * 4
			pixels[idx+0] = 0xFF
			pixels[idx+1] = 0xFF
			pixels[idx+2] = 0xFF
			pixels[idx+3] = 0xFF
		}
	}
	return pixels
}

// FramebufferImage returns the current framebuffer as an *image.RGBA.
func (vm *VM) FramebufferImage() *image.RGBA {
	return &image.RGBA{
		Pix:    vm.FramebufferRGBA(),
		Stride: DisplayWidth * 4,
		Rect:   image.Rect(0, 0, DisplayWidth, DisplayHeight),
	}
}

// SaveScreenshot encodes the current framebuffer as a PNG and writes it
// to filename.
func (vm *VM) SaveScreenshot(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, vm.FramebufferImage())
}
