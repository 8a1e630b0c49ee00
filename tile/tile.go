/*
Package tile implements the NGPC layered tile encoder.

The target display only knows 8 by 8 tiles of 2-bit pixels. Index 0 is
always transparent, leaving 3 colors per tile, and each tile selects one
of a small number of 4 entry palettes. Images with more than 3 colors in
a tile are split into layers; each layer is a full set of tiles with its
own palettes and the layers are drawn on top of each other to rebuild
the original tile.

Colors are stored as 12-bit RGB444 values packed into 16 bits as
0000BBBBGGGGRRRR.
*/
package tile

const (
	tileWidth      = 8
	tileHeight     = tileWidth
	tilePixels     = tileWidth * tileHeight
	colorsPerLayer = 3
	paletteSize    = colorsPerLayer + 1
	bytesPerRow    = tileWidth >> 2
	bitmapBytes    = tileHeight * bytesPerRow
	bytesPerPixel  = 4
)

const (
	// DefaultMaxLayers is the default layer budget.
	DefaultMaxLayers = 3
	// DefaultMaxPalettes is the default number of palettes per layer.
	DefaultMaxPalettes = 16
)

// Key identifies a color exactly. Two pixels share a color only when all
// four channels are equal.
type Key struct {
	R, G, B, A uint8
}

// Opaque reports whether the key counts as a visible color. Any non-zero
// alpha is treated as fully opaque.
func (k Key) Opaque() bool {
	return k.A != 0
}

// Less orders keys lexicographically over (R, G, B, A).
func (k Key) Less(o Key) bool {
	switch {
	case k.R != o.R:
		return k.R < o.R
	case k.G != o.G:
		return k.G < o.G
	case k.B != o.B:
		return k.B < o.B
	default:
		return k.A < o.A
	}
}

// RGB444 packs the high nibble of each channel as 0000BBBBGGGGRRRR.
func (k Key) RGB444() uint16 {
	return uint16(k.B>>4)<<8 | uint16(k.G>>4)<<4 | uint16(k.R>>4)
}

// Expand turns a packed RGB444 value back into 8-bit channels by
// repeating each nibble.
func Expand(c uint16) (r, g, b uint8) {
	r = uint8(c & 0x0f)
	g = uint8(c >> 4 & 0x0f)
	b = uint8(c >> 8 & 0x0f)
	return r<<4 | r, g<<4 | g, b<<4 | b
}

// Group is the ordered list of colors one layer draws for one tile. It
// never holds more than 3 keys.
type Group []Key

// index returns the 2-bit pixel value for k, 0 when k is not drawn by
// this group.
func (g Group) index(k Key) uint8 {
	for i := range g {
		if g[i] == k {
			return uint8(i + 1)
		}
	}
	return 0
}

// Bitmap is one encoded tile, 8 rows of two bytes each.
type Bitmap [bitmapBytes]byte
