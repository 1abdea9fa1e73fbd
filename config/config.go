// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package config implements the configuration
// of a tree viewer,
// stored as a YAML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/js-arias/phyview/interact"
	"github.com/js-arias/phyview/layout"
	"github.com/js-arias/phyview/logging"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/render"
	"github.com/js-arias/phyview/state"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of a viewer.
type Config struct {
	Layout    Layout         `yaml:"layout"`
	Budget    Budget         `yaml:"budget"`
	Fan       Fan            `yaml:"fan"`
	Search    Search         `yaml:"search"`
	Palette   []string       `yaml:"palette"`
	Chunks    int            `yaml:"chunks"`
	Tallest   int            `yaml:"tallest_tips"`
	Tolerance float64        `yaml:"arc_tolerance"`
	Log       logging.Config `yaml:"log"`

	// Debug enables the validation of the edge lists.
	Debug bool `yaml:"debug"`
}

// Layout is the configuration of the layout controller.
type Layout struct {
	Padding         float64   `yaml:"padding"`
	Stroke          float64   `yaml:"stroke"`
	NodeSizeSteps   int       `yaml:"node_size_steps"`
	TipLabelSizes   []float64 `yaml:"tip_label_sizes"`
	IntLabelSizes   []float64 `yaml:"int_label_sizes"`
	CharAspect      float64   `yaml:"char_aspect"`
	LabelOffset     float64   `yaml:"label_offset"`
	MaxLabelsToDraw int       `yaml:"max_labels_to_draw"`
	MaxNodeSize     float64   `yaml:"max_node_size"`
}

// Budget is the draw budget.
type Budget struct {
	FrameTarget time.Duration `yaml:"frame_target"`
	MaxTips     int           `yaml:"max_tips"`
	MaxNodes    int           `yaml:"max_nodes"`
}

// Fan is the configuration of fan projections.
type Fan struct {
	// Opening and Rotation in degrees.
	Opening  float64 `yaml:"opening"`
	Rotation float64 `yaml:"rotation"`

	// RootLen is the fraction of the radius
	// reserved for the root.
	RootLen float64 `yaml:"root_len"`
}

// Search is the configuration of label searches.
type Search struct {
	MinLen    int `yaml:"min_len"`
	MinTipLen int `yaml:"min_tip_len"`
}

// Default returns the default configuration.
func Default() Config {
	lc := layout.DefaultConfig()
	return Config{
		Layout: Layout{
			Padding:         lc.Padding,
			Stroke:          lc.Stroke,
			NodeSizeSteps:   lc.NodeSizeSteps,
			TipLabelSizes:   lc.TipLabelSizes,
			IntLabelSizes:   lc.IntLabelSizes,
			CharAspect:      lc.CharAspect,
			LabelOffset:     lc.LabelOffset,
			MaxLabelsToDraw: lc.MaxLabelsToDraw,
			MaxNodeSize:     lc.MaxNodeSize,
		},
		Budget: Budget{
			FrameTarget: lc.FrameTarget,
			MaxTips:     lc.MaxTips,
			MaxNodes:    lc.MaxNodes,
		},
		Fan: Fan{
			Opening: 360,
			RootLen: 0.05,
		},
		Search: Search{
			MinLen:    interact.MinQuery,
			MinTipLen: interact.MinTipQuery,
		},
		Chunks:    state.DefaultChunks,
		Tallest:   state.DefaultTallest,
		Tolerance: projection.DefaultTolerance,
		Log: logging.Config{
			Level: "info",
		},
	}
}

// Load reads a configuration file.
// If the file does not exist,
// it returns the default configuration.
// Fields not defined in the file
// keep their default values.
func Load(name string) (Config, error) {
	cfg := Default()
	if name == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Default(), err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("on file %q: %v", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("on file %q: %v", name, err)
	}
	return cfg, nil
}

// Write writes a configuration file.
func Write(name string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return err
	}
	return nil
}

// Validate returns an error if a value is out of range.
func (c Config) Validate() error {
	if c.Layout.Padding < 0 {
		return fmt.Errorf("invalid padding %.3f", c.Layout.Padding)
	}
	if c.Layout.Stroke <= 0 {
		return fmt.Errorf("invalid stroke %.3f", c.Layout.Stroke)
	}
	if c.Layout.NodeSizeSteps < 1 {
		return fmt.Errorf("invalid node size steps %d", c.Layout.NodeSizeSteps)
	}
	if err := validSizes("tip label", c.Layout.TipLabelSizes); err != nil {
		return err
	}
	if err := validSizes("internal label", c.Layout.IntLabelSizes); err != nil {
		return err
	}
	if c.Layout.CharAspect <= 0 {
		return fmt.Errorf("invalid char aspect %.3f", c.Layout.CharAspect)
	}
	if c.Layout.MaxNodeSize <= 0 {
		return fmt.Errorf("invalid max node size %.3f", c.Layout.MaxNodeSize)
	}
	if c.Budget.MaxTips < 0 || c.Budget.MaxNodes < 0 {
		return fmt.Errorf("invalid budget: %d tips, %d nodes", c.Budget.MaxTips, c.Budget.MaxNodes)
	}
	if c.Fan.Opening <= 0 || c.Fan.Opening > 360 {
		return fmt.Errorf("invalid fan opening %.3f", c.Fan.Opening)
	}
	if c.Fan.RootLen < 0 || c.Fan.RootLen >= 1 {
		return fmt.Errorf("invalid fan root length %.3f", c.Fan.RootLen)
	}
	if c.Search.MinLen < 1 || c.Search.MinTipLen < 1 {
		return fmt.Errorf("invalid search length: %d, %d", c.Search.MinLen, c.Search.MinTipLen)
	}
	if c.Chunks < 1 {
		return fmt.Errorf("invalid number of chunks %d", c.Chunks)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("invalid arc tolerance %.3f", c.Tolerance)
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	return nil
}

func validSizes(name string, sizes []float64) error {
	if len(sizes) == 0 {
		return fmt.Errorf("undefined %s sizes", name)
	}
	for _, s := range sizes {
		if s <= 0 {
			return fmt.Errorf("invalid %s size %.3f", name, s)
		}
	}
	return nil
}

// LayoutConfig returns the configuration
// of a layout controller.
func (c Config) LayoutConfig() layout.Config {
	return layout.Config{
		Padding:         c.Layout.Padding,
		Stroke:          c.Layout.Stroke,
		NodeSizeSteps:   c.Layout.NodeSizeSteps,
		TipLabelSizes:   c.Layout.TipLabelSizes,
		IntLabelSizes:   c.Layout.IntLabelSizes,
		CharAspect:      c.Layout.CharAspect,
		LabelOffset:     c.Layout.LabelOffset,
		MaxLabelsToDraw: c.Layout.MaxLabelsToDraw,
		MaxNodeSize:     c.Layout.MaxNodeSize,
		FrameTarget:     c.Budget.FrameTarget,
		MaxTips:         c.Budget.MaxTips,
		MaxNodes:        c.Budget.MaxNodes,
	}
}

// StateOptions returns the options of a tree state.
func (c Config) StateOptions() state.Options {
	return state.Options{
		Chunks:  c.Chunks,
		Tallest: c.Tallest,
	}
}

// FanOptions returns the options of a fan projection.
func (c Config) FanOptions() render.FanOptions {
	return render.FanOptions{
		Opening:  c.Fan.Opening * math.Pi / 180,
		Rotation: c.Fan.Rotation * math.Pi / 180,
		RootLen:  c.Fan.RootLen,
	}
}

// Colors returns the highlight palette.
// An empty palette returns nil,
// so the default palette is used.
func (c Config) Colors() ([]color.RGBA, error) {
	if len(c.Palette) == 0 {
		return nil, nil
	}
	p := make([]color.RGBA, 0, len(c.Palette))
	for _, s := range c.Palette {
		cl, err := interact.ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("palette: %v", err)
		}
		p = append(p, cl)
	}
	return p, nil
}

// NewSearch returns a search
// with the configured minimum lengths.
func (c Config) NewSearch() *interact.Search {
	s := interact.NewSearch()
	s.MinLen = c.Search.MinLen
	s.MinTipLen = c.Search.MinTipLen
	return s
}
