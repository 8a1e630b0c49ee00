package ngpccraft

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Tixul/NGPC-craft/container"
	"github.com/Tixul/NGPC-craft/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// writePNG writes a width x height image with colors opaque colors in the
// first tile, one per row.
func writePNG(t *testing.T, file string, width, height, colors int) {
	t.Helper()

	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < colors; i++ {
		c := color.NRGBA{uint8(i * 0x30), 0x10, 0xff - uint8(i*0x20), 0xff}
		for x := 0; x < 8; x++ {
			m.SetNRGBA(x, i%8, c)
		}
	}

	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func TestParseFormat(t *testing.T) {
	tables := []struct {
		name   string
		format Format
		err    bool
	}{
		{"c", FormatC, false},
		{"bin", FormatBinary, false},
		{"BOTH", FormatBoth, false},
		{"asm", 0, true},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			f, err := ParseFormat(table.name)
			if table.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.format, f)
		})
	}
}

func TestOptionsFor(t *testing.T) {
	o := DefaultOptions().For([]string{"/tmp/sprites/hero-walk.png", "other.png"})
	assert.Equal(t, "/tmp/sprites/hero-walk", o.Output)
	assert.Equal(t, "hero_walk", o.Name)

	o = Options{Output: "out", Name: "x"}.For([]string{"a.png"})
	assert.Equal(t, "out", o.Output)
	assert.Equal(t, "x", o.Name)
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().validate())

	o := DefaultOptions()
	o.Format = 0
	assert.Error(t, o.validate())

	o = DefaultOptions()
	o.Encoding.MaxLayers = 0
	assert.ErrorIs(t, o.validate(), tile.ErrInvalidOptions)
}

func TestConvertAndWrite(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sprite.png")
	writePNG(t, in, 16, 8, 4)

	c := New(nil, discardLogger())

	opts := DefaultOptions()
	opts.Format = FormatBoth
	opts.Compress = true
	opts.Preview = filepath.Join(dir, "preview.gif")
	opts.Zoom = 2
	opts = opts.For([]string{in})

	r, err := c.Convert([]string{in}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, r.LayerCount)
	// The empty second tile interns the blank palette in both layers
	assert.Equal(t, []int{2, 2}, r.PaletteCount())

	require.NoError(t, c.Write(r, opts))

	h, err := os.ReadFile(filepath.Join(dir, "sprite.h"))
	require.NoError(t, err)
	assert.Contains(t, string(h), "SPRITE_H")

	src, err := os.ReadFile(filepath.Join(dir, "sprite.c"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "sprite_tiles")

	f, err := os.Open(filepath.Join(dir, "sprite.bin"))
	require.NoError(t, err)
	defer f.Close()
	decoded, err := container.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, r, decoded)

	p, err := os.Open(opts.Preview)
	require.NoError(t, err)
	defer p.Close()
	g, err := gif.DecodeAll(p)
	require.NoError(t, err)
	assert.Len(t, g.Image, 1)
	assert.Equal(t, 32, g.Config.Width)
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	c := New(nil, discardLogger())

	odd := filepath.Join(dir, "odd.png")
	writePNG(t, odd, 10, 8, 1)
	_, err := c.Convert([]string{odd}, DefaultOptions())
	assert.ErrorIs(t, err, tile.ErrInvalidDimensions)

	busy := filepath.Join(dir, "busy.png")
	writePNG(t, busy, 8, 8, 8)
	opts := DefaultOptions()
	opts.Encoding.MaxLayers = 2
	_, err = c.Convert([]string{busy}, opts)
	var lerr *tile.LayerOverflowError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 8, lerr.Colors)
	assert.Equal(t, 6, lerr.Budget)

	_, err = c.Convert([]string{filepath.Join(dir, "missing.png")}, DefaultOptions())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvertCached(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sprite.png")
	writePNG(t, in, 8, 8, 3)

	cache, err := NewCache(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer cache.Close()

	buf := new(bytes.Buffer)
	c := New(cache, log.New(buf, "", 0))

	opts := DefaultOptions()
	first, err := c.Convert([]string{in}, opts)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "cached")

	n, err := cache.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	second, err := c.Convert([]string{in}, opts)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Using cached encoding")
	assert.Equal(t, first, second)

	// A different budget is a different entry
	opts.Encoding.MaxPalettesPerLayer = 4
	_, err = c.Convert([]string{in}, opts)
	require.NoError(t, err)
	n, err = cache.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWritePreviewPNG(t *testing.T) {
	m := &tile.Image{Width: 8, Height: 8, Frames: [][]byte{make([]byte, 8*8*4)}}
	copy(m.Frames[0], []byte{0xff, 0xff, 0xff, 0xff})
	r, err := tile.Encode(m, tile.DefaultOptions())
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, WritePreview(buf, r, "frame.PNG", 0, 0))
	assert.True(t, strings.HasPrefix(buf.String(), "\x89PNG"))
}
