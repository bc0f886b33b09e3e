// Package capture turns read-back framebuffer pixels into PNG screenshots.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

var _ image.Image = (*Framebuffer)(nil)

// Framebuffer holds tightly packed RGBA bytes as GL reads them back:
// the first row in Pix is the bottom of the picture.
type Framebuffer struct {
	Pix           []uint8
	Width, Height int
}

func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}
}

func (f *Framebuffer) ColorModel() color.Model {
	return color.NRGBAModel
}

func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At flips y so the image reads top to bottom like every other image.Image.
func (f *Framebuffer) At(x, y int) color.Color {
	if !image.Pt(x, y).In(f.Bounds()) {
		return color.NRGBA{}
	}

	i := ((f.Height-1-y)*f.Width + x) * 4
	return color.NRGBA{
		R: f.Pix[i],
		G: f.Pix[i+1],
		B: f.Pix[i+2],
		A: 0xff,
	}
}

func (f *Framebuffer) Opaque() bool {
	return true
}

// FileName is the screenshot path for a lesson taken at t.
func FileName(dir, lesson string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.png", lesson, t.Format("20060102-150405.000")))
}

// Save encodes img as PNG at path. A partially written file is removed.
func Save(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding %v: %w", path, err)
	}
	return nil
}
