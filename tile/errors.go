package tile

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("tile: image dimensions must be multiples of 8")
	ErrLayerOverflow     = errors.New("tile: too many colors in tile")
	ErrPaletteOverflow   = errors.New("tile: too many palettes in layer")
	ErrNoFrames          = errors.New("tile: image has no frames")
	ErrFrameSize         = errors.New("tile: frame buffer has the wrong size")
	ErrInvalidOptions    = errors.New("tile: invalid options")
)

// DimensionError is returned when the image width or height is not a
// multiple of the tile size.
type DimensionError struct {
	Width, Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("tile: image is %dx%d, width and height must be multiples of %d", e.Width, e.Height, tileWidth)
}

// Is makes errors.Is match ErrInvalidDimensions.
func (e *DimensionError) Is(target error) bool {
	return target == ErrInvalidDimensions
}

// LayerOverflowError reports the first tile holding more colors than the
// layer budget allows.
type LayerOverflowError struct {
	Frame  int
	TileX  int
	TileY  int
	Colors int
	Budget int
}

func (e *LayerOverflowError) Error() string {
	return fmt.Sprintf("tile: frame %d tile (%d, %d) has %d colors, at most %d are allowed", e.Frame, e.TileX, e.TileY, e.Colors, e.Budget)
}

// Is makes errors.Is match ErrLayerOverflow.
func (e *LayerOverflowError) Is(target error) bool {
	return target == ErrLayerOverflow
}

// PaletteOverflowError reports a layer needing more distinct palettes
// than its bank holds.
type PaletteOverflowError struct {
	Layer    int
	Capacity int
}

func (e *PaletteOverflowError) Error() string {
	return fmt.Sprintf("tile: layer %d needs more than %d palettes", e.Layer, e.Capacity)
}

// Is makes errors.Is match ErrPaletteOverflow.
func (e *PaletteOverflowError) Is(target error) bool {
	return target == ErrPaletteOverflow
}
