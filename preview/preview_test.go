package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/Tixul/NGPC-craft/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(t *testing.T, frames int) *tile.Result {
	t.Helper()

	m := &tile.Image{Width: 16, Height: 8}
	for f := 0; f < frames; f++ {
		frame := make([]byte, 16*8*4)
		// One red pixel per frame, moving right
		copy(frame[f*4:], []byte{0xff, 0, 0, 0xff})
		// And a blue one in the second tile
		copy(frame[(7*16+15)*4:], []byte{0, 0, 0xf0, 0xff})
		m.Frames = append(m.Frames, frame)
	}

	r, err := tile.Encode(m, tile.DefaultOptions())
	require.NoError(t, err)
	return r
}

func TestFrame(t *testing.T) {
	r := testResult(t, 2)

	m, err := Frame(r, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 48, 24), m.Bounds())
	assert.Equal(t, color.NRGBA{0xff, 0, 0, 0xff}, m.NRGBAAt(3, 0))
	assert.Equal(t, color.NRGBA{0xff, 0, 0, 0xff}, m.NRGBAAt(5, 2))
	assert.Equal(t, uint8(0), m.NRGBAAt(0, 0).A)
	assert.Equal(t, color.NRGBA{0, 0, 0xff, 0xff}, m.NRGBAAt(47, 23))

	_, err = Frame(r, 2, 1)
	assert.Equal(t, errBadFrame, err)
	_, err = Frame(r, 0, 0)
	assert.Equal(t, errBadZoom, err)
}

func TestPNG(t *testing.T) {
	r := testResult(t, 1)

	buf := new(bytes.Buffer)
	require.NoError(t, PNG(buf, r, 0, 2))

	m, err := png.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), m.Bounds())
	_, _, _, a := m.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestGIF(t *testing.T) {
	r := testResult(t, 3)

	buf := new(bytes.Buffer)
	require.NoError(t, GIF(buf, r, 1, 5))

	g, err := gif.DecodeAll(buf)
	require.NoError(t, err)
	require.Len(t, g.Image, 3)
	assert.Equal(t, []int{5, 5, 5}, g.Delay)

	for f, p := range g.Image {
		assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, p.At(f, 0))
		_, _, _, a := p.At(8, 0).RGBA()
		assert.Equal(t, uint32(0), a)
	}

	assert.Equal(t, errNoFrames, GIF(buf, &tile.Result{}, 1, 5))
}

func TestPalettedManyColors(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for i := 0; i < 32*32; i++ {
		m.SetNRGBA(i%32, i/32, color.NRGBA{uint8(i), uint8(i >> 2), 0x80, 0xff})
	}
	m.SetNRGBA(0, 0, color.NRGBA{})

	p := Paletted(m)
	assert.LessOrEqual(t, len(p.Palette), 256)
	assert.Equal(t, uint8(0), p.ColorIndexAt(0, 0))
	for i := 1; i < 32*32; i++ {
		assert.NotEqual(t, uint8(0), p.ColorIndexAt(i%32, i/32))
	}
}

func TestPalettedExact(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	c := color.NRGBA{0x12, 0x34, 0x56, 0xff}
	m.SetNRGBA(4, 4, c)

	p := Paletted(m)
	assert.Len(t, p.Palette, 2)
	assert.Equal(t, uint8(1), p.ColorIndexAt(4, 4))
	assert.Equal(t, c, p.Palette[1])
}
