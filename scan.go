package ngpccraft

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Tixul/NGPC-craft/source"
	"github.com/Tixul/NGPC-craft/tile"
)

var imageExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
}

// ScanError is returned by Scan when some images could not be encoded.
type ScanError struct {
	Failed int
	Total  int
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("ngpccraft: %d of %d images could not be encoded", e.Failed, e.Total)
}

// rejected reports whether err is a problem with the image content rather
// than with reading or writing files.
func rejected(err error) bool {
	return errors.Is(err, tile.ErrInvalidDimensions) ||
		errors.Is(err, tile.ErrLayerOverflow) ||
		errors.Is(err, tile.ErrPaletteOverflow) ||
		errors.Is(err, source.ErrFrameMismatch) ||
		errors.Is(err, image.ErrFormat)
}

const previewSuffix = ".preview"

func isImage(file string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(file))]
	return ok
}

// isPreview reports whether file is a preview written by an earlier scan.
func isPreview(file string) bool {
	base := filepath.Base(file)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), previewSuffix)
}

func (c *Craft) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isImage(file) || isPreview(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

type scanCounter struct {
	total  int64
	failed int64
}

func (c *Craft) convertWorker(ctx context.Context, in <-chan string, opts Options, n *scanCounter) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if ctx.Err() != nil {
				return
			}
			atomic.AddInt64(&n.total, 1)

			o := opts
			o.Output, o.Name = "", ""
			o = o.For([]string{file})
			if opts.Preview != "" {
				o.Preview = o.Output + previewSuffix + "." + strings.TrimPrefix(opts.Preview, ".")
			}

			r, err := c.Convert([]string{file}, o)
			if err != nil {
				if rejected(err) {
					atomic.AddInt64(&n.failed, 1)
					c.logger.Printf("Skipping \"%s\": %s\n", file, err)
					continue
				}
				errc <- err
				return
			}

			if err := c.Write(r, o); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan converts every image found under path, writing the outputs next to
// each input. opts.Output and opts.Name are derived per image. A non empty
// opts.Preview is taken as the preview file extension, so "gif" renders
// one.png to one.preview.gif. Images that cannot be encoded are logged and
// skipped, and reported together as a *ScanError once the scan completes.
func (c *Craft) Scan(path string, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("ngpccraft: %s is not a directory", path)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	n := new(scanCounter)
	for i := 0; i < runtime.NumCPU(); i++ {
		errc, err := c.convertWorker(ctx, files, opts, n)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return err
	}

	c.logger.Printf("Scanned %d image(s) under \"%s\"\n", n.total, dir)

	if n.failed > 0 {
		return &ScanError{Failed: int(n.failed), Total: int(n.total)}
	}

	return nil
}
