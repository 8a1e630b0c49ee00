/*
Package ngpccraft converts images into layered tile data for the Neo Geo
Pocket Color.

It ties together loading the source frames, encoding them into 2bpp tile
layers and writing the result as C source, as a binary container and as
a preview image. Encoded results can be cached in a sqlite database so
unchanged inputs are not encoded again.
*/
package ngpccraft

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tixul/NGPC-craft/container"
	"github.com/Tixul/NGPC-craft/csource"
	"github.com/Tixul/NGPC-craft/preview"
	"github.com/Tixul/NGPC-craft/source"
	"github.com/Tixul/NGPC-craft/tile"
)

type Craft struct {
	cache  *Cache
	logger *log.Logger
}

// New returns a Craft using cache, which may be nil to disable caching,
// and logging progress to logger.
func New(cache *Cache, logger *log.Logger) *Craft {
	return &Craft{
		cache:  cache,
		logger: logger,
	}
}

// Convert loads and encodes the frames found in paths.
func (c *Craft) Convert(paths []string, opts Options) (*tile.Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var digest string
	if c.cache != nil {
		var err error
		if digest, err = source.Digest(paths, opts.Source); err != nil {
			return nil, err
		}

		b, err := c.cache.Lookup(digest, opts.Encoding)
		if err != nil {
			return nil, err
		}
		if b != nil {
			var f container.File
			if err := f.UnmarshalBinary(b); err == nil {
				c.logger.Printf("Using cached encoding of %s\n", strings.Join(paths, ", "))
				return f.Result, nil
			}
			c.logger.Printf("Ignoring unreadable cache entry \"%s\"\n", digest)
		}
	}

	m, err := source.Load(paths, opts.Source)
	if err != nil {
		return nil, err
	}
	c.logger.Printf("Loaded %d frame(s) of %dx%d from %s\n", len(m.Frames), m.Width, m.Height, strings.Join(paths, ", "))

	r, err := tile.Encode(m, opts.Encoding)
	if err != nil {
		return nil, err
	}
	c.logger.Printf("Encoded %d layer(s) using %v palette(s)\n", r.LayerCount, r.PaletteCount())

	if c.cache != nil {
		b, err := (&container.File{Result: r, Compressed: true}).MarshalBinary()
		if err != nil {
			return nil, err
		}
		if err := c.cache.Store(digest, opts.Encoding, b); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func writeFile(file string, fn func(io.Writer) error) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes r to the outputs selected in opts. opts.Output is the path
// of the output files without extension.
func (c *Craft) Write(r *tile.Result, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	if opts.Format.c() {
		if err := writeFile(opts.Output+".h", func(w io.Writer) error {
			return csource.WriteHeader(w, r, opts.Name)
		}); err != nil {
			return err
		}
		if err := writeFile(opts.Output+".c", func(w io.Writer) error {
			return csource.Write(w, r, opts.Name)
		}); err != nil {
			return err
		}
		c.logger.Printf("Wrote \"%s.c\" and \"%s.h\"\n", opts.Output, opts.Output)
	}

	if opts.Format.binary() {
		if err := writeFile(opts.Output+".bin", func(w io.Writer) error {
			return container.Encode(w, r, opts.Compress)
		}); err != nil {
			return err
		}
		c.logger.Printf("Wrote \"%s.bin\"\n", opts.Output)
	}

	if opts.Preview != "" {
		if err := writeFile(opts.Preview, func(w io.Writer) error {
			return WritePreview(w, r, opts.Preview, opts.Zoom, opts.Delay)
		}); err != nil {
			return err
		}
		c.logger.Printf("Wrote preview \"%s\"\n", opts.Preview)
	}

	return nil
}

// WritePreview renders r to w, as an animated GIF when file has a .gif
// extension and as a PNG of the first frame otherwise.
func WritePreview(w io.Writer, r *tile.Result, file string, zoom, delay int) error {
	if zoom < 1 {
		zoom = 1
	}
	if strings.EqualFold(filepath.Ext(file), ".gif") {
		return preview.GIF(w, r, zoom, delay)
	}
	return preview.PNG(w, r, 0, zoom)
}
