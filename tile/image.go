package tile

import (
	"fmt"
	"image"
)

// Image is the encoder input: one or more frames of identical size, each
// a row-major, non-premultiplied RGBA buffer of Width*Height*4 bytes.
type Image struct {
	Width  int
	Height int
	Frames [][]byte
}

// TilesX returns the number of tile columns.
func (m *Image) TilesX() int {
	return m.Width / tileWidth
}

// TilesY returns the number of tile rows.
func (m *Image) TilesY() int {
	return m.Height / tileHeight
}

// validate checks everything that can be rejected without looking at a
// single pixel.
func (m *Image) validate() error {
	if m.Width <= 0 || m.Height <= 0 || m.Width%tileWidth != 0 || m.Height%tileHeight != 0 {
		return &DimensionError{Width: m.Width, Height: m.Height}
	}
	if len(m.Frames) == 0 {
		return ErrNoFrames
	}
	size := m.Width * m.Height * bytesPerPixel
	for i, f := range m.Frames {
		if len(f) != size {
			return fmt.Errorf("%w: frame %d is %d bytes, expected %d", ErrFrameSize, i, len(f), size)
		}
	}
	return nil
}

// FromImages builds an Image from decoded frames. All frames must have the
// same dimensions as the first one.
func FromImages(frames []image.Image) (*Image, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	b := frames[0].Bounds()
	m := &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Frames: make([][]byte, 0, len(frames)),
	}

	for i, f := range frames {
		fb := f.Bounds()
		if fb.Dx() != m.Width || fb.Dy() != m.Height {
			return nil, fmt.Errorf("%w: frame %d is %dx%d, expected %dx%d", ErrFrameSize, i, fb.Dx(), fb.Dy(), m.Width, m.Height)
		}

		// Set converts through color.NRGBAModel, which keeps straight
		// alpha values intact; top-left corner moves to (0, 0)
		dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
		for y := fb.Min.Y; y < fb.Max.Y; y++ {
			for x := fb.Min.X; x < fb.Max.X; x++ {
				dst.Set(x-fb.Min.X, y-fb.Min.Y, f.At(x, y))
			}
		}
		m.Frames = append(m.Frames, dst.Pix)
	}

	return m, nil
}

// keyAt returns the color of pixel (x, y) in frame f.
func keyAt(f []byte, width, x, y int) Key {
	i := (y*width + x) * bytesPerPixel
	return Key{f[i], f[i+1], f[i+2], f[i+3]}
}
