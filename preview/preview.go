/*
Package preview renders encoded images the way the display would show
them, by compositing all layers of each frame.
*/
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"

	"github.com/Tixul/NGPC-craft/tile"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// GIF palettes have 256 entries and one is reserved for transparency.
const maxGIFColors = 255

var (
	errBadFrame = errors.New("preview: frame out of range")
	errBadZoom  = errors.New("preview: zoom must be at least 1")
	errNoFrames = errors.New("preview: no frames to render")
)

// Frame returns frame f composited and enlarged zoom times.
func Frame(r *tile.Result, f, zoom int) (*image.NRGBA, error) {
	if f < 0 || f >= r.FrameCount {
		return nil, errBadFrame
	}
	if zoom < 1 {
		return nil, errBadZoom
	}

	m := r.Composite(f)
	if zoom == 1 {
		return m, nil
	}

	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*zoom, b.Dy()*zoom))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst, nil
}

// PNG writes frame f of r to w as a PNG image.
func PNG(w io.Writer, r *tile.Result, f, zoom int) error {
	m, err := Frame(r, f, zoom)
	if err != nil {
		return err
	}
	return png.Encode(w, m)
}

// palette returns a GIF palette for m: the exact colors when they fit,
// otherwise a median cut reduction.
func palette(m *image.NRGBA) color.Palette {
	p := color.Palette{color.Transparent}
	seen := make(map[color.NRGBA]struct{})
	for i := 0; i < len(m.Pix); i += 4 {
		c := color.NRGBA{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}
		if c.A == 0 {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		p = append(p, c)
		if len(p) > maxGIFColors+1 {
			// Quantize fills the palette up to its capacity
			q := quantize.MedianCutQuantizer{}
			return q.Quantize(append(make(color.Palette, 0, maxGIFColors+1), color.Transparent), m)
		}
	}
	return p
}

// Paletted converts m to a paletted image suitable for GIF encoding.
// Transparent pixels map to index 0.
func Paletted(m *image.NRGBA) *image.Paletted {
	p := palette(m)
	dst := image.NewPaletted(m.Bounds(), p)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			// Index skips entry 0 so opaque colors never become transparent
			dst.SetColorIndex(x, y, uint8(p[1:].Index(c)+1))
		}
	}
	return dst
}

// GIF writes every frame of r to w as an animated GIF. delay is in
// hundredths of a second.
func GIF(w io.Writer, r *tile.Result, zoom, delay int) error {
	if r.FrameCount == 0 {
		return errNoFrames
	}

	g := &gif.GIF{
		Config: image.Config{
			Width:  r.Width * zoom,
			Height: r.Height * zoom,
		},
	}

	for f := 0; f < r.FrameCount; f++ {
		m, err := Frame(r, f, zoom)
		if err != nil {
			return err
		}
		g.Image = append(g.Image, Paletted(m))
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}

	return gif.EncodeAll(w, g)
}
