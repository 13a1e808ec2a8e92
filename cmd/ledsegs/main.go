package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledsegs/internal/config"
	"github.com/coreman2200/funtimes-ledsegs/internal/diagnostics"
	"github.com/coreman2200/funtimes-ledsegs/internal/loop"
	"github.com/coreman2200/funtimes-ledsegs/internal/segs"
	"github.com/coreman2200/funtimes-ledsegs/internal/selftest"
	"github.com/coreman2200/funtimes-ledsegs/internal/show"
	"github.com/coreman2200/funtimes-ledsegs/internal/spectrum"
	"github.com/coreman2200/funtimes-ledsegs/internal/strip"
	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
	"github.com/coreman2200/funtimes-ledsegs/internal/ws"
)

func main() {
	// ---- Flags (config.yaml overrides what it sets) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		leds       = flag.Int("leds", 60, "number of LEDs on the strip")
		driver     = flag.String("driver", "sim", "driver: spi | screen | term | sim")
		spiPort    = flag.String("spi", "", "SPI port name, empty for the first one")
		brightness = flag.Float64("brightness", 0.8, "global brightness 0..1")
		displayMs  = flag.Int("display-ms", 20, "frame period (ms)")
		channels   = flag.String("channels", "both", "audio channels: left | right | both")
		source     = flag.String("source", "synth", "spectrum source: silent | synth | wav")
		wavPath    = flag.String("wav", "", "WAV file for -source wav")
		addr       = flag.String("addr", "", "HTTP preview address, e.g. :8080")
		testKind   = flag.String("selftest", "", "run a self test: index_sweep | rgb_channels | chase")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// ---- Load config.yaml (optional) ----
	cfg := config.Default()
	cfg.LEDs, cfg.Driver, cfg.Brightness = *leds, *driver, *brightness
	cfg.DisplayMs, cfg.Channels, cfg.Addr = *displayMs, *channels, *addr
	cfg.Source.Kind, cfg.Source.Path = *source, *wavPath
	cfg.SPI.Port = *spiPort
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		overlay(cfg, c)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	ch, ok := spectrum.ParseChannels(cfg.Channels)
	if !ok {
		log.Fatal().Str("channels", cfg.Channels).Msg("unknown channels")
	}

	clock := timer.NewSystemClock()
	sched := timer.NewScheduler(clock)

	// ---- Driver selection, falling back to the console ----
	drv, hw := openDriver(cfg)
	var hub *ws.Hub
	out := drv
	if cfg.Addr != "" {
		hub = ws.NewHub(cfg.LEDs, log.Logger)
		hub.Brightness = cfg.Brightness
		out = strip.Tee{drv, hub}
	}

	src, err := openSource(cfg, clock)
	if err != nil {
		log.Warn().Err(err).Str("source", cfg.Source.Kind).Msg("source failed; using silence")
	}

	// ---- Engine ----
	var sink diagnostics.Sink
	if hub != nil {
		sink = hub
	}
	var mon *diagnostics.Monitor
	e, err := segs.New(segs.Config{
		LEDs:     cfg.LEDs,
		Driver:   out,
		Source:   src,
		Timers:   sched,
		Channels: ch,
		Seed:     cfg.Seed,
		Logger:   &log.Logger,
		ShowError: func(err error) {
			if mon != nil {
				mon.ShowFailed(err)
			}
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}
	mon = diagnostics.NewMonitor(e, cfg.DeadAir.Seconds, sink, log.Logger)
	if cfg.MaxLevelFloor > 0 {
		e.SetMaxLevelFloor(cfg.MaxLevelFloor)
	}
	if cfg.MaxLevelDecay > 0 {
		e.SetMaxLevelDecay(cfg.MaxLevelDecay)
	}
	if err := cfg.ApplyParts(e); err != nil {
		log.Fatal().Err(err).Msg("parts")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Content: a self test or the configured show ----
	var player *show.Player
	var runner *selftest.Runner
	if *testKind != "" {
		kind, err := selftest.ParseKind(*testKind)
		if err != nil {
			log.Fatal().Err(err).Msg("selftest")
		}
		runner = selftest.NewRunner(selftest.Plan{Kind: kind})
		if err := runner.Install(e); err != nil {
			log.Fatal().Err(err).Msg("selftest")
		}
		log.Info().Str("test", string(kind)).Msg("running self test")
	} else if len(cfg.Programs) > 0 {
		player = show.NewPlayer(sched, show.Hooks{
			Apply: func(c show.Clip) error { return cfg.ApplyClip(e, c) },
			Done:  func() { log.Info().Msg("show finished") },
		}, log.Logger)
		if err := player.Load(cfg.Show()); err != nil {
			log.Fatal().Err(err).Msg("show")
		}
		player.Start()
	}

	if cfg.DeadAir.Level > 0 {
		e.EnableDeadAirDetect(cfg.DeadAir.Level)
		if cfg.DiagMs > 0 {
			mon.Start(uint64(cfg.DiagMs))
		}
	}
	if e.ScheduleDisplay(uint64(cfg.DisplayMs)) == 0 {
		log.Fatal().Msg("no timer for the display")
	}

	// ---- HTTP preview ----
	var srv *http.Server
	if hub != nil {
		srv = &http.Server{
			Addr:         cfg.Addr,
			Handler:      withCORS(hub.Mux()),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Addr).Msg("HTTP preview starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server crashed")
			}
		}()
	}

	// ---- Main loop ----
	l := loop.New(sched, log.Logger)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	idle := &idleChecks{e: e, src: src, player: player, runner: runner, hub: hub, stop: cancel}
	idle.run()
	l.Idle = idle.run
	log.Info().Int("leds", cfg.LEDs).Str("driver", cfg.Driver).Str("channels", ch.String()).Msg("running")
	_ = l.Run(ctx)

	// ---- Shutdown ----
	log.Info().Uint64("frames", e.Frames()).Uint64("passes", l.Passes()).Msg("shutting down")
	if player != nil {
		player.Stop()
	}
	if srv != nil {
		_ = srv.Close()
	}
	if err := e.ResetStrip(); err != nil {
		log.Warn().Err(err).Msg("blank strip")
	}
	if hw != nil {
		_ = hw.Halt()
	}
}

// idleChecks runs on the loop goroutine after every timer pass. It is the
// only place engine state is copied out for the HTTP preview.
type idleChecks struct {
	e      *segs.Engine
	src    spectrum.Source
	player *show.Player
	runner *selftest.Runner
	hub    *ws.Hub
	stop   func()

	published bool
	frames    uint64
	ended     bool
}

func (c *idleChecks) run() {
	if c.hub != nil && (!c.published || c.e.Frames() != c.frames) {
		c.published = true
		c.frames = c.e.Frames()
		st := map[string]any{"dead_air_s": c.e.DeadAirSeconds(), "frames": c.frames}
		if c.player != nil {
			if clip, ok := c.player.Current(); ok {
				st["program"] = clip.Name
			}
		}
		c.hub.SetStatus(st)
	}
	if c.runner != nil && c.runner.Done() && !c.ended {
		c.ended = true
		log.Info().Msg("self test complete")
		c.stop()
	}
	if w, ok := c.src.(*spectrum.WAV); ok && w.Done() && !c.ended {
		c.ended = true
		log.Info().Msg("audio file played out")
		c.stop()
	}
}

// overlay copies the fields c sets over cfg.
func overlay(cfg, c *config.Config) {
	if c.LEDs > 0 {
		cfg.LEDs = c.LEDs
	}
	if c.Driver != "" {
		cfg.Driver = c.Driver
	}
	if c.Brightness > 0 {
		cfg.Brightness = c.Brightness
	}
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.DisplayMs > 0 {
		cfg.DisplayMs = c.DisplayMs
	}
	if c.Channels != "" {
		cfg.Channels = c.Channels
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if c.MaxLevelFloor > 0 {
		cfg.MaxLevelFloor = c.MaxLevelFloor
	}
	if c.MaxLevelDecay > 0 {
		cfg.MaxLevelDecay = c.MaxLevelDecay
	}
	if c.Source.Kind != "" {
		cfg.Source = c.Source
	}
	if c.DeadAir != (config.DeadAirCfg{}) {
		cfg.DeadAir = c.DeadAir
	}
	if c.DiagMs > 0 {
		cfg.DiagMs = c.DiagMs
	}
	if c.SPI != (config.SPI{}) {
		cfg.SPI = c.SPI
	}
	if c.Power != (config.PowerCfg{}) {
		cfg.Power = c.Power
	}
	if c.Layout != nil {
		cfg.Layout = c.Layout
	}
	if len(c.Parts) > 0 {
		cfg.Parts = c.Parts
	}
	if len(c.Programs) > 0 {
		cfg.Loop = c.Loop
		cfg.Programs = c.Programs
	}
}

// openDriver returns the strip and, for hardware, the drawer to halt on exit.
func openDriver(cfg *config.Config) (strip.Driver, *strip.Drawer) {
	switch cfg.Driver {
	case "spi":
		d, err := strip.OpenSPI(cfg.LEDs, strip.SPIOptions{
			Port:     cfg.SPI.Port,
			FreqKHz:  cfg.SPI.FreqKHz,
			Channels: cfg.SPI.Channels,
		})
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("port", cfg.SPI.Port).
				Msg("SPI init failed; falling back to screen")
			return screen(cfg), nil
		}
		d.Brightness = cfg.Brightness
		d.Limiter = cfg.Limiter()
		return d, d
	case "screen":
		return screen(cfg), nil
	case "term":
		return strip.NewTerm(os.Stdout, cfg.LEDs), nil
	case "sim":
		return strip.NewBuffer(cfg.LEDs), nil
	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using sim")
		return strip.NewBuffer(cfg.LEDs), nil
	}
}

func screen(cfg *config.Config) *strip.Drawer {
	d := strip.NewScreen(cfg.LEDs)
	d.Brightness = cfg.Brightness
	d.Limiter = cfg.Limiter()
	return d
}

func openSource(cfg *config.Config, clock timer.Clock) (spectrum.Source, error) {
	switch cfg.Source.Kind {
	case "", "silent":
		return nil, nil
	case "synth":
		return spectrum.NewSynth(clock, cfg.Source.BPM), nil
	case "wav":
		w, err := spectrum.OpenWAV(cfg.Source.Path, clock)
		if err != nil {
			return nil, err
		}
		w.Loop = cfg.Source.Loop
		return w, nil
	}
	return nil, fmt.Errorf("unknown source %q", cfg.Source.Kind)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
