package container

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/Tixul/NGPC-craft/tile"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r *bytes.Reader

	result *tile.Result

	tmp [2]byte
}

func (d *decoder) readUint16() (int, error) {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint16(d.tmp[:])), nil
}

func (d *decoder) readHeader() error {
	var v [5]int
	for i := range v {
		n, err := d.readUint16()
		if err != nil {
			return err
		}
		v[i] = n
	}

	width, height := v[0], v[1]
	if width == 0 || height == 0 || width%tileSize != 0 || height%tileSize != 0 {
		return errBadSize
	}

	d.result = &tile.Result{
		Width:       width,
		Height:      height,
		FrameCount:  v[2],
		LayerCount:  v[3],
		TilesX:      width / tileSize,
		TilesY:      height / tileSize,
		MaxPalettes: v[4],
	}
	return nil
}

// bodySize returns the number of bytes following the header that r
// describes. Every factor is at most 16 bits wide so the result fits in
// an int64.
func bodySize(r *tile.Result) int64 {
	tiles := int64(r.TilesPerFrame())
	perLayer := 2 + int64(r.MaxPalettes)*paletteBytes + int64(r.FrameCount)*tiles*(2+bitmapBytes)
	return int64(r.LayerCount) * perLayer
}

func (d *decoder) readPalettes() error {
	r := d.result

	counts := make([]int, r.LayerCount)
	for l := range counts {
		n, err := d.readUint16()
		if err != nil {
			return err
		}
		if n > r.MaxPalettes {
			return errBadPalette
		}
		counts[l] = n
	}

	r.Palettes = make([][]tile.Palette, r.LayerCount)
	for l := range r.Palettes {
		bank := make([]tile.Palette, r.MaxPalettes)
		if err := binary.Read(d.r, binary.LittleEndian, bank); err != nil {
			return err
		}
		r.Palettes[l] = bank[:counts[l]]
	}
	return nil
}

func (d *decoder) readTiles() error {
	r := d.result
	tiles := r.TilesPerFrame()

	r.TilePalette = make([][][]int, r.LayerCount)
	for l := range r.TilePalette {
		r.TilePalette[l] = make([][]int, r.FrameCount)
		for f := range r.TilePalette[l] {
			r.TilePalette[l][f] = make([]int, tiles)
			for t := range r.TilePalette[l][f] {
				id, err := d.readUint16()
				if err != nil {
					return err
				}
				if id >= len(r.Palettes[l]) {
					return errBadPalette
				}
				r.TilePalette[l][f][t] = id
			}
		}
	}

	r.TileBitmap = make([][][]tile.Bitmap, r.LayerCount)
	for l := range r.TileBitmap {
		r.TileBitmap[l] = make([][]tile.Bitmap, r.FrameCount)
		for f := range r.TileBitmap[l] {
			r.TileBitmap[l][f] = make([]tile.Bitmap, tiles)
			if err := binary.Read(d.r, binary.LittleEndian, r.TileBitmap[l][f]); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkSize compares the remaining body against the size the header
// describes, before anything is allocated for it.
func (d *decoder) checkSize() error {
	switch n, want := int64(d.r.Len()), bodySize(d.result); {
	case n < want:
		return errNotEnough
	case n > want:
		return errTooMuch
	}
	return nil
}

func (d *decoder) decode(r *bytes.Reader) error {
	d.r = r

	for _, fn := range []func() error{d.readHeader, d.checkSize, d.readPalettes, d.readTiles} {
		if err := fn(); err != nil {
			if err != io.ErrUnexpectedEOF && err != io.EOF {
				return err
			}
			return errNotEnough
		}
	}

	if r.Len() != 0 {
		return errTooMuch
	}

	return nil
}
