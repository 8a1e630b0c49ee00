package tile

import (
	"sort"
	"sync"
)

// TileColors returns the distinct opaque colors of the tile at tile
// coordinates (tx, ty) in ascending (R, G, B, A) order. A fully
// transparent tile returns an empty slice.
func TileColors(frame []byte, width, tx, ty int) []Key {
	seen := make(map[Key]struct{}, tilePixels)
	colors := make([]Key, 0, colorsPerLayer)
	for y := ty * tileHeight; y < ty*tileHeight+tileHeight; y++ {
		for x := tx * tileWidth; x < tx*tileWidth+tileWidth; x++ {
			k := keyAt(frame, width, x, y)
			if !k.Opaque() {
				continue
			}
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				colors = append(colors, k)
			}
		}
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i].Less(colors[j]) })
	return colors
}

// analyze returns the colors of every tile, indexed [frame][tile]. Frames
// are spread over a fixed pool of workers; each worker only writes the
// rows for the frames it receives.
func analyze(m *Image, workers int) [][][]Key {
	tilesX, tilesY := m.TilesX(), m.TilesY()
	colors := make([][][]Key, len(m.Frames))

	if workers > len(m.Frames) {
		workers = len(m.Frames)
	}

	frames := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for f := range frames {
				tiles := make([][]Key, tilesX*tilesY)
				for ty := 0; ty < tilesY; ty++ {
					for tx := 0; tx < tilesX; tx++ {
						tiles[ty*tilesX+tx] = TileColors(m.Frames[f], m.Width, tx, ty)
					}
				}
				colors[f] = tiles
			}
		}()
	}

	for f := range m.Frames {
		frames <- f
	}
	close(frames)
	wg.Wait()

	return colors
}
