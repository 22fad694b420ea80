package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"
	"github.com/valerio/go-tilebg/tilebg/addr"
	"github.com/valerio/go-tilebg/tilebg/background"
	"github.com/valerio/go-tilebg/tilebg/collision"
	"github.com/valerio/go-tilebg/tilebg/debug"
	"github.com/valerio/go-tilebg/tilebg/level"
	"github.com/valerio/go-tilebg/tilebg/memory"
	"github.com/valerio/go-tilebg/tilebg/render"
)

// session is a level built into a fresh simulated VRAM.
type session struct {
	level    *level.Level
	vram     *memory.VRAM
	layer    *background.Layer
	detector *collision.Detector
}

func openLevel(c *cli.Context) (*session, error) {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return nil, errors.New("no level file provided")
	}

	lvl, err := level.Load(c.Args().First())
	if err != nil {
		return nil, err
	}

	vram := memory.NewVRAM()
	layer, err := lvl.Build(vram, memory.DefaultRegisters(addr.IOBase))
	if err != nil {
		return nil, err
	}

	slog.Debug("Level loaded", "name", lvl.Name, "layer", layer.Index(), "size", layer.Size().String())
	return &session{
		level:    lvl,
		vram:     vram,
		layer:    layer,
		detector: collision.New(layer, lvl.Table()),
	}, nil
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "tilebg"
	app.Usage = "inspect tiled background layers and their collisions"
	app.Description = "Builds a level's background layer in simulated video memory and queries it"
	app.Version = "1.0.0"
	app.Writer = out
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	app.Before = func(c *cli.Context) error {
		logLevel := slog.LevelInfo
		if c.Bool("debug") {
			logLevel = slog.LevelDebug
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
		slog.SetDefault(slog.New(handler))
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "inspect",
			Usage:     "Print the control register and map summary of a level",
			ArgsUsage: "<level.yaml>",
			Action:    func(c *cli.Context) error { return runInspect(c, out) },
		},
		{
			Name:      "query",
			Usage:     "Test a bounding box move against a level's map",
			ArgsUsage: "<level.yaml>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "box",
					Usage: "Bounding box as x1,y1,x2,y2 (defaults to the level's player box)",
				},
				cli.StringFlag{
					Name:  "delta",
					Usage: "Motion as dx,dy",
					Value: "0,0",
				},
				cli.StringFlag{
					Name:  "scroll",
					Usage: "Scroll offset as x,y (defaults to the level's scroll)",
				},
			},
			Action: func(c *cli.Context) error { return runQuery(c, out) },
		},
		{
			Name:      "dump",
			Usage:     "Print the live map and optionally save it as PNG",
			ArgsUsage: "<level.yaml>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "png",
					Usage: "Path of a PNG file to write",
				},
				cli.IntFlag{
					Name:  "scale",
					Usage: "Pixels per map cell in the PNG",
					Value: 4,
				},
				cli.BoolFlag{
					Name:  "clear",
					Usage: "Clear the map before dumping it",
				},
			},
			Action: func(c *cli.Context) error { return runDump(c, out) },
		},
		{
			Name:      "view",
			Usage:     "Explore a level in the terminal",
			ArgsUsage: "<level.yaml>",
			Action:    runView,
		},
	}
	return app
}

func runInspect(c *cli.Context, out io.Writer) error {
	s, err := openLevel(c)
	if err != nil {
		return err
	}

	reg, value, err := s.layer.BuildRegister()
	if err != nil {
		return err
	}
	data, err := debug.ExtractMap(s.vram, s.layer)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Level: %s\n", s.level.Name)
	fmt.Fprintf(out, "Register: 0x%08X = 0x%04X\n", reg, value)
	fmt.Fprintf(out, "Decoded: %s\n", background.DecodeControl(value))
	fmt.Fprintf(out, "Tile data: %d bytes at 0x%08X\n", s.layer.DataLen(), s.layer.DataBase())
	fmt.Fprintf(out, "Map: %d entries at 0x%08X\n", s.layer.MapLen(), s.layer.MapBase())
	fmt.Fprintf(out, "Collidable: %v\n", s.detector.Table().IDs())
	fmt.Fprintln(out, data.FormatSummary())
	return nil
}

func runQuery(c *cli.Context, out io.Writer) error {
	s, err := openLevel(c)
	if err != nil {
		return err
	}

	box := s.level.PlayerBox()
	if c.String("box") != "" {
		v, err := parseInts(c.String("box"), 4)
		if err != nil {
			return fmt.Errorf("invalid --box: %w", err)
		}
		box = collision.Box{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
	}

	d, err := parseInts(c.String("delta"), 2)
	if err != nil {
		return fmt.Errorf("invalid --delta: %w", err)
	}
	delta := collision.Delta{X: d[0], Y: d[1]}

	sx, sy := s.layer.ScrollOffset()
	scroll := collision.Scroll{X: sx, Y: sy}
	if c.String("scroll") != "" {
		v, err := parseInts(c.String("scroll"), 2)
		if err != nil {
			return fmt.Errorf("invalid --scroll: %w", err)
		}
		scroll = collision.Scroll{X: v[0], Y: v[1]}
	}

	result, err := s.detector.Test(box, delta, scroll)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "blocked=%s x=%t y=%t\n", result, result.Has(collision.CollisionX), result.Has(collision.CollisionY))
	return nil
}

func runDump(c *cli.Context, out io.Writer) error {
	s, err := openLevel(c)
	if err != nil {
		return err
	}

	if c.Bool("clear") {
		if err := s.layer.ClearMap(); err != nil {
			return err
		}
	}

	data, err := debug.ExtractMap(s.vram, s.layer)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, data.FormatSummary())
	if err := data.Render(out, s.detector.Table()); err != nil {
		return err
	}

	if path := c.String("png"); path != "" {
		return debug.SaveMapPNG(data, s.detector.Table(), path, c.Int("scale"))
	}
	return nil
}

func runView(c *cli.Context) error {
	s, err := openLevel(c)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	defer screen.Fini()

	viewer := render.NewViewer(screen, s.layer, s.detector, s.level.PlayerBox())
	logLevel := slog.LevelInfo
	if c.GlobalBool("debug") {
		logLevel = slog.LevelDebug
	}
	viewer.CaptureLogs(logLevel)
	return viewer.Run()
}

// parseInts parses exactly n comma separated integers.
func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated values, got %d", n, len(parts))
	}
	values := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
