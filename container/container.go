/*
Package container implements the binary form of an encoded NGPC image.

A file starts with the 4 byte magic "NGPT", a version byte and a flags
byte. If bit 0 of the flags is set the rest of the file is zstd
compressed. The body holds, all as little-endian 16-bit values unless
stated otherwise:

	width, height, frame count, layer count, palettes per layer
	palette count           [layer]
	palettes                [layer][palettes per layer][4]
	tile palette index      [layer][frame][tile]
	tile bitmaps (bytes)    [layer][frame][tile][16]

Unused palette slots are written as zero. Tile positions are not stored,
they follow from the width.
*/
package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/Tixul/NGPC-craft/tile"
	"github.com/klauspost/compress/zstd"
)

const (
	// Magic identifies the file format.
	Magic = "NGPT"
	// Version is the only version currently written and read.
	Version = 1

	flagCompressed = 1 << 0
	headerSize     = len(Magic) + 2
	tileSize       = 8
	maxValue       = 1<<16 - 1
	paletteBytes   = 4 * 2
	bitmapBytes    = 16
)

var (
	errBadMagic   = errors.New("container: invalid magic")
	errBadVersion = errors.New("container: unsupported version")
	errBadSize    = errors.New("container: invalid dimensions")
	errNotEnough  = errors.New("container: not enough data")
	errTooMuch    = errors.New("container: too much data")
	errBadPalette = errors.New("container: invalid palette index")
	errTooLarge   = errors.New("container: value does not fit in 16 bits")
	errNoResult   = errors.New("container: no result to encode")
)

// File is an encoded image together with its storage options. It
// implements the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type File struct {
	Result     *tile.Result
	Compressed bool
}

// MarshalBinary encodes the file into binary form and returns the result.
func (f *File) MarshalBinary() ([]byte, error) {
	if f.Result == nil {
		return nil, errNoResult
	}

	body, err := marshalBody(f.Result)
	if err != nil {
		return nil, err
	}

	var flags byte
	if f.Compressed {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, err
		}
		body = enc.EncodeAll(body, nil)
		if err := enc.Close(); err != nil {
			return nil, err
		}
		flags |= flagCompressed
	}

	b := make([]byte, 0, headerSize+len(body))
	b = append(b, Magic...)
	b = append(b, Version, flags)
	return append(b, body...), nil
}

// UnmarshalBinary decodes the file from binary form.
func (f *File) UnmarshalBinary(b []byte) error {
	if len(b) < headerSize {
		return errNotEnough
	}
	if string(b[:len(Magic)]) != Magic {
		return errBadMagic
	}
	if b[len(Magic)] != Version {
		return errBadVersion
	}

	flags := b[len(Magic)+1]
	body := b[headerSize:]

	f.Compressed = flags&flagCompressed != 0
	if f.Compressed {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return err
		}
		defer dec.Close()

		if body, err = dec.DecodeAll(body, nil); err != nil {
			return err
		}
	}

	var d decoder
	if err := d.decode(bytes.NewReader(body)); err != nil {
		return err
	}
	f.Result = d.result
	return nil
}

// Encode writes r to w in container format.
func Encode(w io.Writer, r *tile.Result, compress bool) error {
	b, err := (&File{Result: r, Compressed: compress}).MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Decode reads a container from r and returns the encoded image.
func Decode(r io.Reader) (*tile.Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var f File
	if err := f.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return f.Result, nil
}

func marshalBody(r *tile.Result) ([]byte, error) {
	for _, v := range []int{r.Width, r.Height, r.FrameCount, r.LayerCount, r.MaxPalettes} {
		if v < 0 || v > maxValue {
			return nil, errTooLarge
		}
	}

	b := new(bytes.Buffer)

	header := []uint16{
		uint16(r.Width),
		uint16(r.Height),
		uint16(r.FrameCount),
		uint16(r.LayerCount),
		uint16(r.MaxPalettes),
	}
	if err := binary.Write(b, binary.LittleEndian, header); err != nil {
		return nil, err
	}

	// Write out palette counts
	for _, n := range r.PaletteCount() {
		if err := binary.Write(b, binary.LittleEndian, uint16(n)); err != nil {
			return nil, err
		}
	}

	// Write out palettes, padded to MaxPalettes per layer
	for _, bank := range r.PaletteTable() {
		if err := binary.Write(b, binary.LittleEndian, bank); err != nil {
			return nil, err
		}
	}

	// Write out palette indices
	for _, frames := range r.TilePalette {
		for _, ids := range frames {
			for _, id := range ids {
				if id > maxValue {
					return nil, errTooLarge
				}
				if err := binary.Write(b, binary.LittleEndian, uint16(id)); err != nil {
					return nil, err
				}
			}
		}
	}

	// Write out tiles
	for _, frames := range r.TileBitmap {
		for _, bitmaps := range frames {
			if err := binary.Write(b, binary.LittleEndian, bitmaps); err != nil {
				return nil, err
			}
		}
	}

	return b.Bytes(), nil
}
