// Command gallery opens a window showing a circular image gallery described by a TOML or YAML manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-gallery/config"
	"github.com/Carmen-Shannon/oxy-gallery/engine"
	"github.com/Carmen-Shannon/oxy-gallery/engine/loader"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/view"
	"github.com/Carmen-Shannon/oxy-gallery/engine/window"
)

// floatFlag is a float flag that remembers whether it was set, so an explicit 0 can override the manifest.
type floatFlag struct {
	value *float32
}

func (f *floatFlag) String() string {
	if f.value == nil {
		return ""
	}
	return fmt.Sprint(*f.value)
}

func (f *floatFlag) Set(s string) error {
	var v float32
	if _, err := fmt.Sscan(s, &v); err != nil {
		return err
	}
	f.value = &v
	return nil
}

func main() {
	manifest := flag.String("config", "", "Path to a gallery manifest (.toml, .yaml or .yml)")
	var bend, radius floatFlag
	flag.Var(&bend, "bend", "Belt curvature, 0 is flat (default 3)")
	flag.Var(&radius, "border-radius", "Rounded corner radius, 0..0.5 (default 0.05)")
	textColor := flag.String("text-color", "", "Caption color, e.g. #ffffff")
	fontDesc := flag.String("font", "", "Caption font, e.g. \"bold 30px Figtree\"")
	speed := flag.Float64("scroll-speed", 0, "Input sensitivity (default 2)")
	ease := flag.Float64("scroll-ease", 0, "Scroll smoothing, 0..1 (default 0.05)")
	width := flag.Int("width", 0, "Window width in logical pixels")
	height := flag.Int("height", 0, "Window height in logical pixels")
	vsync := flag.Bool("vsync", true, "Wait for vertical blank before presenting")
	watch := flag.Bool("watch", false, "Reload the manifest when it changes")
	tickRate := flag.Float64("tick-rate", 60, "Animation steps per second")
	profile := flag.Bool("profile", false, "Log FPS and memory statistics every second")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	level, err := parseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Manifest ────────────────────────────────────────────────────────
	var cfg config.Config
	if *manifest != "" {
		if cfg, err = config.Load(*manifest); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
			os.Exit(1)
		}
	}
	flags := config.Flags{
		Bend:         bend.value,
		BorderRadius: radius.value,
		TextColor:    *textColor,
		Font:         *fontDesc,
		ScrollSpeed:  float32(*speed),
		ScrollEase:   float32(*ease),
		Width:        *width,
		Height:       *height,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "vsync" {
			flags.VSync = vsync
		}
	})
	if *manifest == "" {
		cfg.Render.VSync = true
	}
	cfg.Resolve(flags)

	props, err := galleryProps(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// ── Engine + Window ─────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithProfiling(*profile),
		engine.WithTickRate(*tickRate),
		engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
		engine.WithLogger(logger),
		engine.WithWindow(window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithWidth(cfg.Window.Width),
			window.WithHeight(cfg.Window.Height),
			window.WithMinSize(320, 240),
		)),
	)

	// ── Renderer ────────────────────────────────────────────────────────
	presentMode := renderer.PresentModeUncapped
	if cfg.Render.VSync {
		presentMode = renderer.PresentModeVSync
	}
	msaa := renderer.MSAA4x
	if cfg.Render.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		eng.Window(),
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
	)
	defer r.Release()

	// ── View ────────────────────────────────────────────────────────────
	var loaderOpts []loader.LoaderBuilderOption
	if cfg.Render.LoadWorkers > 0 {
		loaderOpts = append(loaderOpts, loader.WithWorkers(cfg.Render.LoadWorkers))
	}
	v := view.NewView(eng.Window(),
		view.WithRenderer(r),
		view.WithHost(eng),
		view.WithLoaderOptions(loaderOpts...),
		view.WithLogger(logger),
	)
	if err := v.Mount(props); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer v.Teardown()

	if *watch && *manifest != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		err := config.Watch(ctx, *manifest, func(next config.Config, err error) {
			if err != nil {
				logger.Warn("manifest reload failed: "+err.Error(), "component", "main")
				return
			}
			next.Resolve(flags)
			nextProps, err := galleryProps(next)
			if err != nil {
				logger.Warn("manifest rejected: "+err.Error(), "component", "main")
				return
			}
			if err := v.Update(nextProps); err != nil {
				logger.Error("remount failed: "+err.Error(), "component", "main")
			}
		})
		if err != nil {
			logger.Warn("manifest watch disabled: "+err.Error(), "component", "main")
		}
	}

	eng.Run()
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}
