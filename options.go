package ngpccraft

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Tixul/NGPC-craft/csource"
	"github.com/Tixul/NGPC-craft/source"
	"github.com/Tixul/NGPC-craft/tile"
)

// Format selects which files Write produces.
type Format int

const (
	FormatC Format = iota + 1
	FormatBinary
	FormatBoth
)

var formatNames = map[string]Format{
	"c":    FormatC,
	"bin":  FormatBinary,
	"both": FormatBoth,
}

// ParseFormat returns the Format named s, one of "c", "bin" or "both".
func ParseFormat(s string) (Format, error) {
	if f, ok := formatNames[strings.ToLower(s)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("ngpccraft: unknown output format \"%s\"", s)
}

func (f Format) c() bool {
	return f == FormatC || f == FormatBoth
}

func (f Format) binary() bool {
	return f == FormatBinary || f == FormatBoth
}

// Options configures a conversion.
type Options struct {
	Encoding tile.Options
	Source   source.Options

	Format   Format
	Compress bool

	// Name is the C symbol prefix
	Name string
	// Output is the path of the output files without extension
	Output string

	// Preview is the path of an optional preview image, .gif or .png
	Preview string
	Zoom    int
	Delay   int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Encoding: tile.DefaultOptions(),
		Source:   source.Options{Scale: 1},
		Format:   FormatC,
		Zoom:     1,
		Delay:    10,
	}
}

// For fills in the output path and symbol name from the first input file
// when they are not set.
func (o Options) For(paths []string) Options {
	if len(paths) == 0 {
		return o
	}
	base := strings.TrimSuffix(paths[0], filepath.Ext(paths[0]))
	if o.Output == "" {
		o.Output = base
	}
	if o.Name == "" {
		o.Name = csource.Symbol(filepath.Base(base))
	}
	return o
}

func (o Options) validate() error {
	if err := o.Encoding.Validate(); err != nil {
		return err
	}
	if o.Format < FormatC || o.Format > FormatBoth {
		return errors.New("ngpccraft: output format must be specified")
	}
	if o.Zoom < 0 {
		return errors.New("ngpccraft: zoom cannot be negative")
	}
	if o.Delay < 0 {
		return errors.New("ngpccraft: delay cannot be negative")
	}
	return nil
}
