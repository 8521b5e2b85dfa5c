package main

import (
	"io/ioutil"

	"github.com/bodgit/levelpreview/assets"
	pimage "github.com/bodgit/levelpreview/image"
	"gopkg.in/yaml.v3"
)

type size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type config struct {
	Assets struct {
		Tiles      string `yaml:"tiles"`
		Background string `yaml:"background"`
		Mask       string `yaml:"mask"`
	} `yaml:"assets"`
	Screen    size `yaml:"screen"`
	Thumbnail size `yaml:"thumbnail"`
	Workers   int  `yaml:"workers"`
	Colors    int  `yaml:"colors"`
}

func defaultConfig() *config {
	cfg := new(config)
	cfg.Assets.Tiles = assets.DefaultTiles
	cfg.Assets.Background = assets.DefaultBackground
	cfg.Assets.Mask = assets.DefaultMask
	cfg.Screen = size{pimage.ScreenWidth, pimage.ScreenHeight}
	cfg.Thumbnail = size{pimage.ThumbnailWidth, pimage.ThumbnailHeight}
	cfg.Workers = 4
	return cfg
}

// loadConfig reads file over the defaults, an empty file name just returns
// the defaults.
func loadConfig(file string) (*config, error) {
	cfg := defaultConfig()
	if file == "" {
		return cfg, nil
	}

	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *config) provider(root string) *assets.Dir {
	d := assets.New(root)
	d.Tiles = cfg.Assets.Tiles
	d.BackgroundFile = cfg.Assets.Background
	d.MaskFile = cfg.Assets.Mask
	return d
}
