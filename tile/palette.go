package tile

// Palette is a 4 entry hardware palette. Entry 0 is always transparent
// and stored as zero, entries 1 to 3 hold RGB444 colors.
type Palette [paletteSize]uint16

// NewPalette builds the palette drawing g. Unused entries are zero.
func NewPalette(g Group) Palette {
	var p Palette
	for i, k := range g {
		p[i+1] = k.RGB444()
	}
	return p
}

// Bank is the ordered set of distinct palettes used by one layer. The
// position of a palette in the bank is its hardware palette number, so
// palettes are never reordered once added.
type Bank struct {
	layer    int
	capacity int
	palettes []Palette
}

// NewBank returns an empty bank for the given layer that holds at most
// capacity palettes.
func NewBank(layer, capacity int) *Bank {
	return &Bank{
		layer:    layer,
		capacity: capacity,
		palettes: make([]Palette, 0, capacity),
	}
}

// Intern returns the index of p in the bank, adding it if it is not
// already present. It fails with a *PaletteOverflowError when p is new
// and the bank is full.
func (b *Bank) Intern(p Palette) (int, error) {
	for i := range b.palettes {
		if b.palettes[i] == p {
			return i, nil
		}
	}
	if len(b.palettes) >= b.capacity {
		return 0, &PaletteOverflowError{
			Layer:    b.layer,
			Capacity: b.capacity,
		}
	}
	b.palettes = append(b.palettes, p)
	return len(b.palettes) - 1, nil
}

// Len returns the number of palettes in the bank.
func (b *Bank) Len() int {
	return len(b.palettes)
}

// Palettes returns the palettes in insertion order.
func (b *Bank) Palettes() []Palette {
	return append([]Palette(nil), b.palettes...)
}
