package tile

// layout is the outcome of splitting every tile's colors into layers.
type layout struct {
	layers int
	// groups is indexed [frame][tile][layer] and always holds exactly
	// layers entries per tile; unused layers have an empty group.
	groups [][][]Group
}

// chunks returns how many layers n colors need.
func chunks(n int) int {
	return (n + colorsPerLayer - 1) / colorsPerLayer
}

// plan splits each tile's sorted colors into consecutive runs of 3, one
// run per layer. Tiles always use exactly ceil(n/3) layers; the layer
// count of the image is the largest of those. The first tile, in frame
// then tile order, needing more than maxLayers fails the whole plan.
func plan(colors [][][]Key, tilesX, maxLayers int) (*layout, error) {
	l := new(layout)

	for f, tiles := range colors {
		for t, c := range tiles {
			n := chunks(len(c))
			if n > maxLayers {
				return nil, &LayerOverflowError{
					Frame:  f,
					TileX:  t % tilesX,
					TileY:  t / tilesX,
					Colors: len(c),
					Budget: maxLayers * colorsPerLayer,
				}
			}
			if n > l.layers {
				l.layers = n
			}
		}
	}

	l.groups = make([][][]Group, len(colors))
	for f, tiles := range colors {
		l.groups[f] = make([][]Group, len(tiles))
		for t, c := range tiles {
			groups := make([]Group, l.layers)
			for i := range groups {
				lo, hi := i*colorsPerLayer, i*colorsPerLayer+colorsPerLayer
				switch {
				case lo >= len(c):
					groups[i] = Group{}
				case hi > len(c):
					groups[i] = Group(c[lo:])
				default:
					groups[i] = Group(c[lo:hi:hi])
				}
			}
			l.groups[f][t] = groups
		}
	}

	return l, nil
}
