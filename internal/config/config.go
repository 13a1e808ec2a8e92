package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-ledsegs/internal/layout"
	"github.com/coreman2200/funtimes-ledsegs/internal/strip"
)

type SPI struct {
	Port     string `yaml:"port,omitempty"`     // e.g. /dev/spidev0.0, "" = first
	FreqKHz  int    `yaml:"freq_khz,omitempty"` // e.g. 2500
	Channels int    `yaml:"channels,omitempty"` // 3 or 4
}

type PowerCfg struct {
	BudgetmA float64 `yaml:"budget_ma"`
	ChanmA   float64 `yaml:"chan_ma"`
	WhiteCap float64 `yaml:"white_cap"`
	Knee     float64 `yaml:"knee"`
}

type SourceCfg struct {
	Kind string  `yaml:"kind"` // silent | synth | wav
	Path string  `yaml:"path,omitempty"`
	Loop bool    `yaml:"loop,omitempty"`
	BPM  float64 `yaml:"bpm,omitempty"`
}

type DeadAirCfg struct {
	Level   int `yaml:"level"`   // 0 disables detection
	Seconds int `yaml:"seconds"` // quiet run reported by diagnostics
}

type PartCfg struct {
	Index int  `yaml:"index"`
	Start int  `yaml:"start"`
	Len   int  `yaml:"len"`
	Down  bool `yaml:"down,omitempty"`
}

type LayoutCfg struct {
	Start   int  `yaml:"start"`
	Rows    int  `yaml:"rows"`
	RowLen  int  `yaml:"row_len"`
	FlipOdd bool `yaml:"flip_odd"`

	// FirstPart is the part number given to row 0.
	FirstPart int `yaml:"first_part"`
}

type Config struct {
	LEDs       int     `yaml:"leds"`
	Driver     string  `yaml:"driver"` // spi | screen | term | sim
	Brightness float64 `yaml:"brightness"`
	Addr       string  `yaml:"addr,omitempty"`
	DisplayMs  int     `yaml:"display_ms"`
	Channels   string  `yaml:"channels"`
	Seed       int64   `yaml:"seed,omitempty"`

	MaxLevelFloor int `yaml:"max_level_floor,omitempty"`
	MaxLevelDecay int `yaml:"max_level_decay,omitempty"`

	Source  SourceCfg  `yaml:"source"`
	DeadAir DeadAirCfg `yaml:"dead_air"`
	DiagMs  int        `yaml:"diag_ms,omitempty"`

	SPI    SPI        `yaml:"spi,omitempty"`
	Power  PowerCfg   `yaml:"power"`
	Layout *LayoutCfg `yaml:"layout,omitempty"`
	Parts  []PartCfg  `yaml:"parts,omitempty"`

	Loop     bool      `yaml:"loop"`
	Programs []Program `yaml:"programs,omitempty"`
}

// Default is a 60 LED simulated strip showing one bar meter.
func Default() *Config {
	return &Config{
		LEDs:       60,
		Driver:     "sim",
		Brightness: 0.8,
		DisplayMs:  20,
		Channels:   "both",
		Source:     SourceCfg{Kind: "synth", BPM: 120},
		DeadAir:    DeadAirCfg{Level: 10, Seconds: 5},
		DiagMs:     1000,
		Power:      PowerCfg{ChanmA: 20, WhiteCap: 3, Knee: 0.9},
		Loop:       true,
		Programs: []Program{{
			Name: "meter",
			Segments: []Segment{{
				Count: 60, Action: "bottom", Fore: "green", Bands: []int{1, 2},
			}},
		}},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks what the engine cannot recover from on its own.
func (c *Config) Validate() error {
	if c.LEDs <= 0 {
		return fmt.Errorf("leds must be positive, got %d", c.LEDs)
	}
	if c.DisplayMs <= 0 {
		return fmt.Errorf("display_ms must be positive, got %d", c.DisplayMs)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return fmt.Errorf("brightness %v out of range 0..1", c.Brightness)
	}
	seen := map[string]bool{}
	for i, p := range c.Programs {
		if p.Name == "" {
			return fmt.Errorf("program %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("program %q defined twice", p.Name)
		}
		seen[p.Name] = true
		if err := p.check(); err != nil {
			return err
		}
	}
	return nil
}

// Program returns the named program.
func (c *Config) Program(name string) (Program, bool) {
	for _, p := range c.Programs {
		if p.Name == name {
			return p, true
		}
	}
	return Program{}, false
}

// Limiter builds the power limiter; nil when no stage is configured.
func (c *Config) Limiter() *strip.Limiter {
	p := c.Power
	if p.BudgetmA <= 0 && (p.WhiteCap <= 0 || p.WhiteCap >= 3) {
		return nil
	}
	l := strip.DefaultLimiter()
	l.BudgetmA = p.BudgetmA
	if p.ChanmA > 0 {
		l.ChanmA = p.ChanmA
	}
	if p.WhiteCap > 0 {
		l.WhiteCap = p.WhiteCap
	}
	if p.Knee > 0 {
		l.Knee = p.Knee
	}
	return l
}

// Serpentine returns the configured panel layout, if any.
func (c *Config) Serpentine() (layout.Serpentine, int, bool) {
	if c.Layout == nil {
		return layout.Serpentine{}, 0, false
	}
	first := c.Layout.FirstPart
	if first < 1 {
		first = 1
	}
	return layout.Serpentine{
		Start:   c.Layout.Start,
		Rows:    c.Layout.Rows,
		RowLen:  c.Layout.RowLen,
		FlipOdd: c.Layout.FlipOdd,
	}, first, true
}
