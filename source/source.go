/*
Package source loads the frames of an image to encode.

Any format registered with the image package can be read; PNG, JPEG, GIF
and BMP are registered here. Every frame of an animated GIF becomes a
frame of the result, other files contribute a single frame. Frames of all
files are concatenated in the order the files are given.
*/
package source

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/Tixul/NGPC-craft/tile"
	"github.com/disintegration/gift"
	_ "golang.org/x/image/bmp"
	"golang.org/x/sync/errgroup"
)

const tileSize = 8

var (
	// ErrFrameMismatch is returned when frames differ in size.
	ErrFrameMismatch = errors.New("source: frames have different dimensions")
	errNoPaths       = errors.New("source: no input files")
	errBadScale      = errors.New("source: scale must be at least 1")
)

// Options controls how decoded frames are prepared for encoding.
type Options struct {
	// Scale enlarges every frame by an integer factor using nearest
	// neighbour sampling, so no new colors are introduced.
	Scale int
	// Crop trims the right and bottom edges of every frame down to a
	// multiple of 8 instead of leaving the encoder to reject it.
	Crop bool
}

func (o Options) validate() error {
	if o.Scale < 0 {
		return errBadScale
	}
	return nil
}

// String returns a stable description of the options, suitable as part
// of a cache key.
func (o Options) String() string {
	scale := o.Scale
	if scale == 0 {
		scale = 1
	}
	return fmt.Sprintf("scale=%d crop=%t", scale, o.Crop)
}

// prepare applies the crop and scale options to a single frame.
func (o Options) prepare(m image.Image) image.Image {
	g := gift.New()

	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if o.Crop && (w%tileSize != 0 || h%tileSize != 0) {
		w, h = w-w%tileSize, h-h%tileSize
		g.Add(gift.Crop(image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Min.Y+h)))
	}
	if o.Scale > 1 {
		g.Add(gift.Resize(w*o.Scale, h*o.Scale, gift.NearestNeighborResampling))
	}

	if len(g.Filters) == 0 {
		return m
	}

	dst := image.NewNRGBA(g.Bounds(b))
	g.Draw(dst, m)
	return dst
}

// gifFrames renders every frame of an animated GIF onto the logical
// screen, honoring each frame's disposal method.
func gifFrames(g *gif.GIF) []image.Image {
	r := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if r.Empty() && len(g.Image) > 0 {
		r = g.Image[0].Bounds()
	}

	canvas := image.NewNRGBA(r)
	frames := make([]image.Image, 0, len(g.Image))

	for i, p := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = cloneNRGBA(canvas)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		frames = append(frames, cloneNRGBA(canvas))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	return frames
}

func cloneNRGBA(m *image.NRGBA) *image.NRGBA {
	dup := *m
	dup.Pix = append([]byte(nil), m.Pix...)
	return &dup
}

// decode returns all frames stored in b.
func decode(b []byte) ([]image.Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	if format == "gif" {
		g, err := gif.DecodeAll(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		return gifFrames(g), nil
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return []image.Image{m}, nil
}

// Load decodes every file in paths and returns the frames ready for
// encoding. Files are decoded concurrently.
func Load(paths []string, opts Options) (*tile.Image, error) {
	if len(paths) == 0 {
		return nil, errNoPaths
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	decoded := make([][]image.Image, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			frames, err := decode(b)
			if err != nil {
				return fmt.Errorf("source: %s: %w", path, err)
			}
			for j := range frames {
				frames[j] = opts.prepare(frames[j])
			}
			decoded[i] = frames
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var frames []image.Image
	for i, f := range decoded {
		for _, m := range f {
			if len(frames) > 0 && m.Bounds().Size() != frames[0].Bounds().Size() {
				return nil, fmt.Errorf("%w: %s is %v, expected %v", ErrFrameMismatch, paths[i], m.Bounds().Size(), frames[0].Bounds().Size())
			}
			frames = append(frames, m)
		}
	}

	return tile.FromImages(frames)
}

// Digest returns a hex encoded SHA-1 over the contents of every file in
// paths and the options, identifying the input of a conversion.
func Digest(paths []string, opts Options) (string, error) {
	h := sha1.New()
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%d:", len(b))
		h.Write(b)
	}
	fmt.Fprint(h, opts.String())
	return fmt.Sprintf("%X", h.Sum(nil)), nil
}
