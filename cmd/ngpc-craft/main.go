package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	ngpccraft "github.com/Tixul/NGPC-craft"
	"github.com/Tixul/NGPC-craft/container"
	"github.com/Tixul/NGPC-craft/tile"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/urfave/cli/v2"
)

const defaultCache = "ngpc-craft.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newCraft(c *cli.Context, logger *log.Logger) (*ngpccraft.Craft, func(), error) {
	file := c.String("cache")
	if file == "" {
		return ngpccraft.New(nil, logger), func() {}, nil
	}

	cache, err := ngpccraft.NewCache(file)
	if err != nil {
		return nil, nil, err
	}

	return ngpccraft.New(cache, logger), func() { cache.Close() }, nil
}

func encodingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "layers",
			Aliases: []string{"l"},
			EnvVars: []string{"NGPC_CRAFT_LAYERS"},
			Value:   tile.DefaultMaxLayers,
			Usage:   "maximum number of layers",
		},
		&cli.IntFlag{
			Name:    "palettes",
			Aliases: []string{"p"},
			EnvVars: []string{"NGPC_CRAFT_PALETTES"},
			Value:   tile.DefaultMaxPalettes,
			Usage:   "maximum number of palettes per layer",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: "c",
			Usage: "output format, one of c, bin or both",
		},
		&cli.BoolFlag{
			Name:  "compress",
			Usage: "compress the binary output",
		},
		&cli.IntFlag{
			Name:  "scale",
			Value: 1,
			Usage: "enlarge the source images by an integer factor",
		},
		&cli.BoolFlag{
			Name:  "crop",
			Usage: "crop the source images to a multiple of 8 pixels",
		},
		&cli.IntFlag{
			Name:  "zoom",
			Value: 1,
			Usage: "enlarge the preview by an integer factor",
		},
		&cli.IntFlag{
			Name:  "delay",
			Value: 10,
			Usage: "delay between preview frames in 1/100 s",
		},
	}
}

func options(c *cli.Context) (ngpccraft.Options, error) {
	opts := ngpccraft.DefaultOptions()

	format, err := ngpccraft.ParseFormat(c.String("format"))
	if err != nil {
		return opts, err
	}

	opts.Encoding.MaxLayers = c.Int("layers")
	opts.Encoding.MaxPalettesPerLayer = c.Int("palettes")
	opts.Source.Scale = c.Int("scale")
	opts.Source.Crop = c.Bool("crop")
	opts.Format = format
	opts.Compress = c.Bool("compress")
	opts.Name = c.String("name")
	opts.Output = c.String("output")
	opts.Preview = c.String("preview")
	opts.Zoom = c.Int("zoom")
	opts.Delay = c.Int("delay")

	return opts, nil
}

func inspect(w io.Writer, r *tile.Result) {
	fmt.Fprintf(w, "Size:     %dx%d (%dx%d tiles)\n", r.Width, r.Height, r.TilesX, r.TilesY)
	fmt.Fprintf(w, "Frames:   %d\n", r.FrameCount)
	fmt.Fprintf(w, "Layers:   %d\n", r.LayerCount)
	fmt.Fprintf(w, "Palettes: %v of %d\n", r.PaletteCount(), r.MaxPalettes)
	for l, bank := range r.Palettes {
		fmt.Fprintf(w, "Layer %d:\n", l)
		for i, p := range bank {
			colors := make([]string, 0, len(p)-1)
			for _, c := range p[1:] {
				red, green, blue := tile.Expand(c)
				colors = append(colors, colorful.Color{R: float64(red) / 255, G: float64(green) / 255, B: float64(blue) / 255}.Hex())
			}
			fmt.Fprintf(w, "  %2d: %s\n", i, strings.Join(colors, " "))
		}
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "ngpc-craft"
	app.Usage = "Neo Geo Pocket Color layered tile converter"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"NGPC_CRAFT_CACHE"},
			Value:   filepath.Join(cwd, defaultCache),
			Usage:   "path to encoding cache, empty to disable",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert images to layered tiles",
			Description: "All files are frames of the same image, GIF files contribute every frame.",
			ArgsUsage:   "FILE...",
			Flags: append(encodingFlags(),
				&cli.StringFlag{
					Name:  "name",
					Usage: "C symbol prefix, defaults to the first file name",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output path without extension, defaults to the first file",
				},
				&cli.StringFlag{
					Name:  "preview",
					Usage: "write a preview to this .gif or .png file",
				},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				opts = opts.For(c.Args().Slice())

				m, done, err := newCraft(c, newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				r, err := m.Convert(c.Args().Slice(), opts)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := m.Write(r, opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every image under a directory",
			Description: "Outputs are written next to each image.",
			ArgsUsage:   "DIRECTORY",
			Flags: append(encodingFlags(),
				&cli.StringFlag{
					Name:  "preview",
					Usage: "write a preview for each image with this extension, gif or png",
				},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, done, err := newCraft(c, newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if err := m.Scan(c.Args().First(), opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "inspect",
			Usage:       "Describe a binary container",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "preview",
					Usage: "write a preview to this .gif or .png file",
				},
				&cli.IntFlag{
					Name:  "zoom",
					Value: 1,
					Usage: "enlarge the preview by an integer factor",
				},
				&cli.IntFlag{
					Name:  "delay",
					Value: 10,
					Usage: "delay between preview frames in 1/100 s",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				r, err := container.Decode(f)
				if err != nil {
					return cli.Exit(err, 1)
				}

				inspect(c.App.Writer, r)

				if file := c.String("preview"); file != "" {
					p, err := os.Create(file)
					if err != nil {
						return cli.Exit(err, 1)
					}
					defer p.Close()

					if err := ngpccraft.WritePreview(p, r, file, c.Int("zoom"), c.Int("delay")); err != nil {
						return cli.Exit(err, 1)
					}
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
