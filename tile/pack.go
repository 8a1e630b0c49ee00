package tile

// Pack encodes the tile at tile coordinates (tx, ty) for the layer drawing
// g. Each row is stored as two bytes: the first holds columns 4 to 7, the
// second columns 0 to 3. Within a byte the rightmost column of the block
// sits in bits 0-1 and the leftmost in bits 6-7. Pixels that are
// transparent or whose color belongs to another layer are written as 0.
func Pack(frame []byte, width, tx, ty int, g Group) Bitmap {
	var b Bitmap
	for y := 0; y < tileHeight; y++ {
		dy := ty*tileHeight + y
		for x := 0; x < tileWidth; x++ {
			k := keyAt(frame, width, tx*tileWidth+x, dy)
			if !k.Opaque() {
				continue
			}
			// Columns 4-7 go in the first byte of the row
			i := y*bytesPerRow + 1 - x>>2
			b[i] |= g.index(k) << (6 - uint(x&3)<<1)
		}
	}
	return b
}

// Unpack returns the 2-bit pixel values of b in row-major order.
func Unpack(b Bitmap) [tilePixels]uint8 {
	var px [tilePixels]uint8
	for y := 0; y < tileHeight; y++ {
		for x := 0; x < tileWidth; x++ {
			i := y*bytesPerRow + 1 - x>>2
			px[y*tileWidth+x] = b[i] >> (6 - uint(x&3)<<1) & 0x03
		}
	}
	return px
}
