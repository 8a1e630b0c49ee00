/*
Package csource writes encoded images as C source for the NGPC toolchain.

The generated header declares the tables and a handful of size macros,
the generated source defines them. Types u8 and u16 come from the
toolchain's ngpc.h.
*/
package csource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/Tixul/NGPC-craft/tile"
)

const lineWidth = 70

var errNoResult = errors.New("csource: no result to write")

// Symbol turns s, typically a file name without extension, into a valid
// C identifier.
func Symbol(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	sym := b.String()
	switch {
	case sym == "":
		return "image"
	case sym[0] >= '0' && sym[0] <= '9':
		return "_" + sym
	}
	return sym
}

type emitter struct {
	w     *bufio.Writer
	name  string
	macro string
	r     *tile.Result
}

func newEmitter(w io.Writer, r *tile.Result, name string) *emitter {
	name = Symbol(name)
	return &emitter{
		w:     bufio.NewWriter(w),
		name:  name,
		macro: strings.ToUpper(name),
		r:     r,
	}
}

// Errors are sticky in bufio.Writer and picked up by Flush
func (e *emitter) printf(format string, a ...interface{}) {
	fmt.Fprintf(e.w, format, a...)
}

// list writes vals separated by commas, wrapping lines near lineWidth.
func (e *emitter) list(indent string, vals []string) {
	line := indent
	for i, v := range vals {
		if i > 0 {
			line += " "
		}
		line += v + ","
		if len(line) > lineWidth {
			e.printf("%s\n", line)
			line = indent
		}
	}
	if strings.TrimSpace(line) != "" {
		e.printf("%s\n", line)
	}
}

// idType is the smallest type able to hold a palette index.
func (e *emitter) idType() string {
	if e.r.MaxPalettes <= 1<<8 {
		return "u8"
	}
	return "u16"
}

func hex8(b []byte) []string {
	s := make([]string, len(b))
	for i := range b {
		s[i] = fmt.Sprintf("0x%02X", b[i])
	}
	return s
}

func (e *emitter) declarations(extern bool) []string {
	prefix := ""
	if extern {
		prefix = "extern "
	}
	m := e.macro
	decls := []string{
		fmt.Sprintf("%sconst u16 %s_tile_pos[%s_TILES][2]", prefix, e.name, m),
	}
	if e.r.LayerCount == 0 {
		return decls
	}
	return append(decls,
		fmt.Sprintf("%sconst u16 %s_palette_count[%s_LAYERS]", prefix, e.name, m),
		fmt.Sprintf("%sconst u16 %s_palettes[%s_LAYERS][%s_MAX_PALETTES][4]", prefix, e.name, m, m),
		fmt.Sprintf("%sconst %s %s_tile_palette[%s_LAYERS][%s_FRAMES][%s_TILES]", prefix, e.idType(), e.name, m, m, m),
		fmt.Sprintf("%sconst u8 %s_tiles[%s_LAYERS][%s_FRAMES][%s_TILES][16]", prefix, e.name, m, m, m),
	)
}

// WriteHeader writes the C header declaring the tables of r under the
// symbol prefix name.
func WriteHeader(w io.Writer, r *tile.Result, name string) error {
	if r == nil {
		return errNoResult
	}
	e := newEmitter(w, r, name)
	guard := e.macro + "_H"

	e.printf("/* Generated by ngpc-craft, do not edit. */\n\n")
	e.printf("#ifndef %s\n#define %s\n\n#include \"ngpc.h\"\n\n", guard, guard)
	e.printf("#define %s_WIDTH %d\n", e.macro, r.Width)
	e.printf("#define %s_HEIGHT %d\n", e.macro, r.Height)
	e.printf("#define %s_LAYERS %d\n", e.macro, r.LayerCount)
	e.printf("#define %s_FRAMES %d\n", e.macro, r.FrameCount)
	e.printf("#define %s_TILES %d\n", e.macro, r.TilesPerFrame())
	e.printf("#define %s_MAX_PALETTES %d\n\n", e.macro, r.MaxPalettes)
	for _, d := range e.declarations(true) {
		e.printf("%s;\n", d)
	}
	e.printf("\n#endif\n")

	return e.w.Flush()
}

// Write writes the C source defining the tables of r under the symbol
// prefix name. It includes the header written by WriteHeader as
// "<name>.h".
func Write(w io.Writer, r *tile.Result, name string) error {
	if r == nil {
		return errNoResult
	}
	e := newEmitter(w, r, name)
	decls := e.declarations(false)

	e.printf("/* Generated by ngpc-craft, do not edit. */\n\n")
	e.printf("#include \"%s.h\"\n\n", e.name)

	e.printf("%s = {\n", decls[0])
	for _, p := range r.TilePositions() {
		e.printf("  {%d, %d},\n", p[0], p[1])
	}
	e.printf("};\n")

	if r.LayerCount == 0 {
		return e.w.Flush()
	}

	counts := make([]string, r.LayerCount)
	for l, n := range r.PaletteCount() {
		counts[l] = fmt.Sprintf("%d", n)
	}
	e.printf("\n%s = {\n", decls[1])
	e.list("  ", counts)
	e.printf("};\n")

	e.printf("\n%s = {\n", decls[2])
	for _, bank := range r.PaletteTable() {
		e.printf("  {\n")
		for _, p := range bank {
			e.printf("    {0x%04X, 0x%04X, 0x%04X, 0x%04X},\n", p[0], p[1], p[2], p[3])
		}
		e.printf("  },\n")
	}
	e.printf("};\n")

	e.printf("\n%s = {\n", decls[3])
	for _, frames := range r.TilePalette {
		e.printf("  {\n")
		for _, ids := range frames {
			vals := make([]string, len(ids))
			for i, id := range ids {
				vals[i] = fmt.Sprintf("%d", id)
			}
			e.printf("    {\n")
			e.list("      ", vals)
			e.printf("    },\n")
		}
		e.printf("  },\n")
	}
	e.printf("};\n")

	e.printf("\n%s = {\n", decls[4])
	for _, frames := range r.TileBitmap {
		e.printf("  {\n")
		for _, bitmaps := range frames {
			e.printf("    {\n")
			for _, b := range bitmaps {
				e.printf("      {\n")
				e.list("        ", hex8(b[:]))
				e.printf("      },\n")
			}
			e.printf("    },\n")
		}
		e.printf("  },\n")
	}
	e.printf("};\n")

	return e.w.Flush()
}
