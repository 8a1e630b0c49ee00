package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	colorA = Key{0xff, 0, 0, 0xff}
	colorB = Key{0, 0xff, 0, 0xff}
	colorC = Key{0, 0, 0xff, 0xff}
	colorD = Key{0xff, 0xff, 0xff, 0xff}
)

func TestPack(t *testing.T) {
	g := Group{colorA, colorB, colorC}

	t.Run("right half of top row", func(t *testing.T) {
		m := testImage(8, 8, 1)
		m.fill(0, 4, 0, 8, 1, colorA)

		b := Pack(m.Frames[0], m.Width, 0, 0, g)
		assert.Equal(t, byte(0x55), b[0])
		assert.Equal(t, byte(0x00), b[1])
		assert.Equal(t, Bitmap{0x55}, b)
	})

	t.Run("bit order", func(t *testing.T) {
		m := testImage(8, 8, 1)
		// Row 1: columns 0..7 = C B A _ A B C _
		m.set(0, 0, 1, colorC)
		m.set(0, 1, 1, colorB)
		m.set(0, 2, 1, colorA)
		m.set(0, 4, 1, colorA)
		m.set(0, 5, 1, colorB)
		m.set(0, 6, 1, colorC)

		b := Pack(m.Frames[0], m.Width, 0, 0, g)
		// Columns 4,5,6,7 = 1,2,3,0 -> 01 10 11 00
		assert.Equal(t, byte(0x6c), b[2])
		// Columns 0,1,2,3 = 3,2,1,0 -> 11 10 01 00
		assert.Equal(t, byte(0xe4), b[3])
	})

	t.Run("other layers are masked", func(t *testing.T) {
		m := testImage(8, 8, 1)
		m.fill(0, 0, 0, 8, 8, colorD)
		m.set(0, 7, 7, colorB)
		m.set(0, 0, 0, Key{0xff, 0, 0, 0})

		b := Pack(m.Frames[0], m.Width, 0, 0, g)
		assert.Equal(t, Bitmap{14: 0x02}, b)
	})

	t.Run("tile offset", func(t *testing.T) {
		m := testImage(16, 16, 1)
		m.fill(0, 8, 8, 16, 16, colorC)

		assert.Equal(t, Bitmap{}, Pack(m.Frames[0], m.Width, 0, 1, g))
		b := Pack(m.Frames[0], m.Width, 1, 1, g)
		for i := range b {
			assert.Equal(t, byte(0xff), b[i])
		}
	})
}

func TestUnpack(t *testing.T) {
	var b Bitmap
	b[2], b[3] = 0x6c, 0xe4

	px := Unpack(b)
	assert.Equal(t, []uint8{3, 2, 1, 0, 1, 2, 3, 0}, px[8:16])
	assert.Equal(t, make([]uint8, 8), px[0:8])

	m := testImage(8, 8, 1)
	m.fill(0, 0, 0, 3, 8, colorA)
	m.fill(0, 3, 2, 8, 5, colorB)
	m.set(0, 7, 7, colorC)
	g := Group{colorA, colorB, colorC}

	px = Unpack(Pack(m.Frames[0], m.Width, 0, 0, g))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, g.index(keyAt(m.Frames[0], 8, x, y)), px[y*8+x], "pixel (%d, %d)", x, y)
		}
	}
}
