package config

import (
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-ledsegs/internal/layout"
	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
	"github.com/coreman2200/funtimes-ledsegs/internal/segs"
	"github.com/coreman2200/funtimes-ledsegs/internal/show"
	"github.com/coreman2200/funtimes-ledsegs/internal/spectrum"
)

type Point struct {
	In  int `yaml:"in"`
	Out int `yaml:"out"`
}

// Segment is one segment of a program. Colours are names understood by
// rgb.Named; bands are numbered 1..7.
type Segment struct {
	First   int      `yaml:"first"`
	Count   int      `yaml:"count"`
	Action  string   `yaml:"action"`
	Fore    string   `yaml:"fore,omitempty"`
	Back    string   `yaml:"back,omitempty"`
	Bands   []int    `yaml:"bands,omitempty"`
	Part    int      `yaml:"part,omitempty"`
	Options []string `yaml:"options,omitempty"`
	Spacing int      `yaml:"spacing,omitempty"`
	Pattern int      `yaml:"pattern,omitempty"`
	Up      int      `yaml:"up,omitempty"`
	Down    int      `yaml:"down,omitempty"`
	Level   int      `yaml:"level,omitempty"`
	Rescale []Point  `yaml:"rescale,omitempty"`
}

type Program struct {
	Name       string    `yaml:"name"`
	DurationMs uint64    `yaml:"duration_ms"`
	Segments   []Segment `yaml:"segments"`
}

var optionNames = map[string]segs.Options{
	"no_off_overwrite": segs.NoOffOverwrite,
	"modulate":         segs.Modulate,
	"band_avg":         segs.BandAvg,
}

type resolved struct {
	action     segs.Action
	fore, back rgb.Color
	bands      int
	options    segs.Options
}

func (s Segment) resolve() (resolved, error) {
	var r resolved
	a, ok := segs.ParseAction(s.Action)
	if !ok {
		return r, fmt.Errorf("unknown action %q", s.Action)
	}
	r.action = a
	r.fore, r.back = rgb.White, rgb.Off
	if s.Fore != "" {
		if r.fore, ok = rgb.Named(s.Fore); !ok {
			return r, fmt.Errorf("unknown colour %q", s.Fore)
		}
	}
	if s.Back != "" {
		if r.back, ok = rgb.Named(s.Back); !ok {
			return r, fmt.Errorf("unknown colour %q", s.Back)
		}
	}
	for _, b := range s.Bands {
		if b < 1 || b > spectrum.NumBands {
			return r, fmt.Errorf("band %d out of range 1..%d", b, spectrum.NumBands)
		}
		r.bands |= 1 << (b - 1)
	}
	for _, o := range s.Options {
		v, ok := optionNames[strings.ToLower(o)]
		if !ok {
			return r, fmt.Errorf("unknown option %q", o)
		}
		r.options |= v
	}
	if s.Part < 0 || s.Part >= segs.MaxParts {
		return r, fmt.Errorf("part %d out of range 0..%d", s.Part, segs.MaxParts-1)
	}
	return r, nil
}

func (p Program) check() error {
	if len(p.Segments) > segs.MaxSegments {
		return fmt.Errorf("program %q: %d segments, at most %d", p.Name, len(p.Segments), segs.MaxSegments)
	}
	for i, s := range p.Segments {
		if _, err := s.resolve(); err != nil {
			return fmt.Errorf("program %q segment %d: %w", p.Name, i, err)
		}
	}
	return nil
}

// Apply replaces the engine's segments with the program's.
func (p Program) Apply(e *segs.Engine) error {
	if err := p.check(); err != nil {
		return err
	}
	e.ResetSegments()
	e.SetCurrentIndex(0)
	for i, s := range p.Segments {
		r, _ := s.resolve()
		idx := e.DefineSegment(s.First, s.Count, r.action, r.fore, r.bands, s.Part)
		if idx < 0 {
			return fmt.Errorf("program %q segment %d: no free slot", p.Name, i)
		}
		seg := e.Segment(idx)
		seg.SetBackColor(r.back)
		seg.SetOptions(r.options)
		seg.SetSpacing(s.Spacing)
		seg.SetRandomPattern(s.Pattern)
		seg.SetPersistence(s.Up, s.Down)
		if s.Level > 0 {
			seg.SetLevel(s.Level)
		}
		if len(s.Rescale) > 0 {
			rs := make(segs.Rescale, len(s.Rescale))
			for k, pt := range s.Rescale {
				rs[k] = segs.Point{In: pt.In, Out: pt.Out}
			}
			seg.SetRescale(rs)
		}
	}
	return nil
}

// ApplyParts defines the configured parts and panel layout on e.
func (c *Config) ApplyParts(e *segs.Engine) error {
	e.ResetParts()
	if s, first, ok := c.Serpentine(); ok {
		if _, err := s.Apply(e, first, segs.MaxParts); err != nil {
			return err
		}
	}
	for _, p := range c.Parts {
		if p.Index < 1 || p.Index >= segs.MaxParts {
			return fmt.Errorf("part %d out of range 1..%d", p.Index, segs.MaxParts-1)
		}
		e.DefinePart(p.Index, p.Start, p.Len, !p.Down)
	}
	return nil
}

// Show lists every program as a clip, in order.
func (c *Config) Show() show.Program {
	prog := show.Program{Loop: c.Loop}
	for _, p := range c.Programs {
		prog.Clips = append(prog.Clips, show.Clip{Name: p.Name, DurationMs: p.DurationMs})
	}
	return prog
}

// ApplyClip installs the program named by clip on e.
func (c *Config) ApplyClip(e *segs.Engine, clip show.Clip) error {
	p, ok := c.Program(clip.Name)
	if !ok {
		return fmt.Errorf("no program %q", clip.Name)
	}
	return p.Apply(e)
}

var _ layout.PartDefiner = (*segs.Engine)(nil)
