package tile

import (
	"fmt"
	"runtime"
	"sync"
)

// Options controls the hardware budgets the encoder has to respect.
type Options struct {
	// MaxLayers caps the number of layers; every tile may hold at most
	// MaxLayers*3 opaque colors.
	MaxLayers int
	// MaxPalettesPerLayer caps the number of distinct palettes in each
	// layer's bank.
	MaxPalettesPerLayer int
	// Workers is the number of goroutines used to analyze frames. Zero
	// means runtime.NumCPU().
	Workers int
}

// DefaultOptions returns the budgets used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxLayers:           DefaultMaxLayers,
		MaxPalettesPerLayer: DefaultMaxPalettes,
	}
}

// Validate checks the option values.
func (o Options) Validate() error {
	if o.MaxLayers < 1 {
		return fmt.Errorf("%w: max layers must be at least 1, got %d", ErrInvalidOptions, o.MaxLayers)
	}
	if o.MaxPalettesPerLayer < 1 {
		return fmt.Errorf("%w: max palettes per layer must be at least 1, got %d", ErrInvalidOptions, o.MaxPalettesPerLayer)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", ErrInvalidOptions)
	}
	return nil
}

// Result holds the encoded tables for one image.
type Result struct {
	Width       int
	Height      int
	FrameCount  int
	LayerCount  int
	TilesX      int
	TilesY      int
	MaxPalettes int

	// Palettes holds each layer's bank, indexed [layer][palette].
	Palettes [][]Palette
	// TilePalette is indexed [layer][frame][tile].
	TilePalette [][][]int
	// TileBitmap is indexed [layer][frame][tile].
	TileBitmap [][][]Bitmap
}

// TilesPerFrame returns the number of tiles in one frame.
func (r *Result) TilesPerFrame() int {
	return r.TilesX * r.TilesY
}

// PaletteCount returns the number of palettes used by each layer.
func (r *Result) PaletteCount() []int {
	n := make([]int, len(r.Palettes))
	for l := range r.Palettes {
		n[l] = len(r.Palettes[l])
	}
	return n
}

// PaletteTable returns every bank padded with zeroed palettes to
// MaxPalettes entries.
func (r *Result) PaletteTable() [][]Palette {
	t := make([][]Palette, len(r.Palettes))
	for l := range r.Palettes {
		t[l] = make([]Palette, r.MaxPalettes)
		copy(t[l], r.Palettes[l])
	}
	return t
}

// TilePositions returns the pixel coordinates of the top-left corner of
// every tile. They are the same for all frames and layers.
func (r *Result) TilePositions() [][2]int {
	pos := make([][2]int, r.TilesPerFrame())
	for t := range pos {
		pos[t] = [2]int{t % r.TilesX * tileWidth, t / r.TilesX * tileHeight}
	}
	return pos
}

type layerResult struct {
	palettes []Palette
	ids      [][]int
	bitmaps  [][]Bitmap
	err      error
}

// encodeLayer interns and packs every tile of one layer. The bank is
// owned by the caller for the duration of the call.
func encodeLayer(m *Image, l *layout, layer int, bank *Bank) layerResult {
	tilesX := m.TilesX()
	res := layerResult{
		ids:     make([][]int, len(m.Frames)),
		bitmaps: make([][]Bitmap, len(m.Frames)),
	}

	for f, frame := range m.Frames {
		tiles := l.groups[f]
		res.ids[f] = make([]int, len(tiles))
		res.bitmaps[f] = make([]Bitmap, len(tiles))
		for t := range tiles {
			g := tiles[t][layer]
			id, err := bank.Intern(NewPalette(g))
			if err != nil {
				res.err = err
				return res
			}
			res.ids[f][t] = id
			res.bitmaps[f][t] = Pack(frame, m.Width, t%tilesX, t/tilesX, g)
		}
	}

	res.palettes = bank.Palettes()
	return res
}

// Encode splits m into layers of 2bpp tiles and builds the palette banks
// for each layer. It fails with a *DimensionError, *LayerOverflowError or
// *PaletteOverflowError when the image cannot be represented within the
// budgets in opts; no partial result is returned.
func Encode(m *Image, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	l, err := plan(analyze(m, workers), m.TilesX(), opts.MaxLayers)
	if err != nil {
		return nil, err
	}

	// Each layer gets its own bank and goroutine, banks are never shared
	layers := make([]layerResult, l.layers)
	var wg sync.WaitGroup
	wg.Add(l.layers)
	for i := 0; i < l.layers; i++ {
		go func(layer int) {
			defer wg.Done()
			layers[layer] = encodeLayer(m, l, layer, NewBank(layer, opts.MaxPalettesPerLayer))
		}(i)
	}
	wg.Wait()

	r := &Result{
		Width:       m.Width,
		Height:      m.Height,
		FrameCount:  len(m.Frames),
		LayerCount:  l.layers,
		TilesX:      m.TilesX(),
		TilesY:      m.TilesY(),
		MaxPalettes: opts.MaxPalettesPerLayer,
		Palettes:    make([][]Palette, l.layers),
		TilePalette: make([][][]int, l.layers),
		TileBitmap:  make([][][]Bitmap, l.layers),
	}

	// Report the lowest failing layer so the error does not depend on
	// goroutine scheduling
	for i, lr := range layers {
		if lr.err != nil {
			return nil, lr.err
		}
		r.Palettes[i] = lr.palettes
		r.TilePalette[i] = lr.ids
		r.TileBitmap[i] = lr.bitmaps
	}

	return r, nil
}
