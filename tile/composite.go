package tile

import (
	"image"
	"image/color"
)

// Composite rebuilds frame f by drawing layer 0 first and every following
// layer over it. Index 0 is transparent in every layer, so pixels no layer
// draws stay fully transparent.
func (r *Result) Composite(f int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))

	for l := 0; l < r.LayerCount; l++ {
		for t := 0; t < r.TilesPerFrame(); t++ {
			p := r.Palettes[l][r.TilePalette[l][f][t]]
			tx, ty := t%r.TilesX, t/r.TilesX
			for i, v := range Unpack(r.TileBitmap[l][f][t]) {
				if v == 0 {
					continue
				}
				cr, cg, cb := Expand(p[v])
				m.SetNRGBA(tx*tileWidth+i%tileWidth, ty*tileHeight+i/tileWidth, color.NRGBA{cr, cg, cb, 0xff})
			}
		}
	}

	return m
}
