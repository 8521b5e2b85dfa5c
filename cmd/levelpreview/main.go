package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/levelpreview"
	"github.com/bodgit/levelpreview/code"
	pimage "github.com/bodgit/levelpreview/image"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const defaultDB = "levels.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newRenderer(c *cli.Context, cfg *config, logger *log.Logger) (*levelpreview.Renderer, error) {
	return levelpreview.New(context.Background(), cfg.provider(c.String("assets")),
		levelpreview.WithLogger(logger),
		levelpreview.WithScreenSize(cfg.Screen.Width, cfg.Screen.Height),
		levelpreview.WithThumbnailSize(cfg.Thumbnail.Width, cfg.Thumbnail.Height),
	)
}

type decoded struct {
	SizeX     int      `yaml:"size_x"`
	Hue       string   `yaml:"hue"`
	Hue2      string   `yaml:"hue2"`
	Map       []int    `yaml:"map,flow"`
	Rotations []int    `yaml:"rotations,flow"`
	Warnings  []string `yaml:"warnings,omitempty"`
}

func decodeCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	level, err := code.Decode(c.Args().First())
	out := decoded{
		SizeX:     level.SizeX,
		Hue:       level.Hue,
		Hue2:      level.Hue2,
		Map:       level.Map,
		Rotations: level.Rotations,
	}
	for _, d := range levelpreview.DecodeDiagnostics(level, err) {
		out.Warnings = append(out.Warnings, d.String())
	}

	enc := yaml.NewEncoder(c.App.Writer)
	defer enc.Close()
	if err := enc.Encode(out); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func renderCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger := newLogger(c)

	r, err := newRenderer(c, cfg, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	level, err := code.Decode(c.Args().First())
	if err != nil {
		logger.Println(err)
	}

	var res *levelpreview.Result
	if c.Bool("thumbnail") {
		res, err = r.Thumbnail(level)
	} else {
		res, err = r.Render(level)
	}
	if err != nil {
		return cli.Exit(err, 1)
	}
	for _, d := range res.Diagnostics {
		logger.Println(d)
	}

	var b []byte
	if colors := c.Int("colors"); colors > 0 {
		b, err = res.Paletted(colors)
	} else {
		b, err = res.PNG()
	}
	if err != nil {
		return cli.Exit(err, 1)
	}

	var w io.Writer = c.App.Writer
	if out := c.String("out"); out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer f.Close()
		w = f
	}

	if c.Bool("data-url") {
		_, err = fmt.Fprintln(w, pimage.DataURL(b))
	} else {
		_, err = w.Write(b)
	}
	if err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	db, err := levelpreview.NewLevelDB(c.String("db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	if err := db.ImportCSV(f); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func exportCommand(c *cli.Context) error {
	db, err := levelpreview.NewLevelDB(c.String("db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	var w io.Writer = c.App.Writer
	if out := c.Args().First(); out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer f.Close()
		w = f
	}

	if err := db.ExportJSON(w); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func generateCommand(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	db, err := levelpreview.NewLevelDB(c.String("db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	g := levelpreview.NewGenerator(db, cfg.provider(c.String("assets")), newLogger(c),
		levelpreview.WithScreenSize(cfg.Screen.Width, cfg.Screen.Height),
		levelpreview.WithThumbnailSize(cfg.Thumbnail.Width, cfg.Thumbnail.Height),
	)
	g.Colors = cfg.Colors
	if c.IsSet("colors") {
		g.Colors = c.Int("colors")
	}

	workers := cfg.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	if err := g.Generate(context.Background(), workers); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "levelpreview"
	app.Usage = "Level preview renderer"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"LEVELPREVIEW_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.StringFlag{
			Name:    "assets",
			EnvVars: []string{"LEVELPREVIEW_ASSETS"},
			Value:   cwd,
			Usage:   "path to tiles, background and mask",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"LEVELPREVIEW_CONFIG"},
			Usage:   "path to YAML configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	colorsFlag := &cli.IntFlag{
		Name:  "colors",
		Usage: "reduce output to a palette of `N` colors",
	}

	app.Commands = []*cli.Command{
		{
			Name:      "decode",
			Usage:     "Decode a level code",
			ArgsUsage: "CODE",
			Action:    decodeCommand,
		},
		{
			Name:      "render",
			Usage:     "Render a level code as PNG",
			ArgsUsage: "CODE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "write to `FILE` instead of standard output",
				},
				&cli.BoolFlag{
					Name:  "thumbnail",
					Usage: "scale down to thumbnail size",
				},
				&cli.BoolFlag{
					Name:  "data-url",
					Usage: "write a base64 data URL",
				},
				colorsFlag,
			},
			Action: renderCommand,
		},
		{
			Name:      "import",
			Usage:     "Import levels from CSV",
			ArgsUsage: "FILE",
			Action:    importCommand,
		},
		{
			Name:      "export",
			Usage:     "Export levels as JSON",
			ArgsUsage: "[FILE]",
			Action:    exportCommand,
		},
		{
			Name:  "generate",
			Usage: "Render thumbnails for all imported levels",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Usage: "run `N` renderers concurrently",
				},
				colorsFlag,
			},
			Action: generateCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
