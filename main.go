package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"ringlight/camera"
	"ringlight/config"
	"ringlight/overlay"
	"ringlight/server"
	"ringlight/theme"
	"ringlight/tui"
	"ringlight/wayland"
)

func main() {
	log.SetFlags(log.LstdFlags)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			if err := tui.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "ctl":
			if err := runCtl(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	colorFlag := flag.String("color", "", "ring color in hex (e.g. ff0000)")
	thickness := flag.Uint("thickness", 0, "ring thickness in pixels")
	opacity := flag.Float64("opacity", -1, "ring opacity (0.0 - 1.0)")
	glow := flag.Uint("glow", 0, "glow radius in pixels")
	cornerRadius := flag.Float64("corner-radius", -1, "corner radius multiplier (relative to thickness)")
	animation := flag.String("animation", "", "animation mode (none, pulse, rainbow, breathe)")
	animationSpeed := flag.Uint("animation-speed", 0, "animation speed in frames per cycle")
	barHeight := flag.Uint("bar-height", 0, "status bar height in pixels")
	barPosition := flag.String("bar-position", "", "status bar position (top, bottom, left, right)")
	flag.Parse()

	// Config file first, CLI overrides on top.
	cfg := config.Load()
	colorSet := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			cfg.Color = *colorFlag
			colorSet = true
		case "thickness":
			cfg.Thickness = uint32(*thickness)
		case "opacity":
			cfg.Opacity = *opacity
		case "glow":
			cfg.Glow = uint32(*glow)
		case "corner-radius":
			cfg.CornerRadius = *cornerRadius
		case "animation":
			cfg.Animation = *animation
		case "animation-speed":
			cfg.AnimationSpeed = uint32(*animationSpeed)
		case "bar-height":
			cfg.BarHeight = uint32(*barHeight)
		case "bar-position":
			cfg.BarPosition = *barPosition
		}
	})

	// When nothing pinned the color, follow the desktop theme accent.
	if !colorSet && cfg.Color == "ffffff" {
		if r, g, b, ok := theme.AccentColor(); ok {
			cfg.Color = config.HexColor(r, g, b)
			log.Printf("main: using theme accent color #%s", cfg.Color)
		}
	}

	store := config.NewStore(cfg)
	saver := config.NewSaver(store, cfg)

	// Live control is best-effort: a bind failure degrades to a static
	// (still animated) ring, it never stops rendering.
	srv := server.NewServer(config.SocketPath(), store, saver.Save)
	if err := srv.Start(); err != nil {
		log.Printf("main: control channel unavailable: %v", err)
	}

	theme.WatchReload(store, saver.Save)
	camera.Watch(store)

	conn, err := wayland.Connect()
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	manager := overlay.NewManager(conn, store, cfg.BarHeight, config.ParseBarPosition(cfg.BarPosition))
	if err := manager.Start(); err != nil {
		log.Fatalf("main: %v", err)
	}

	if err := manager.Run(); err != nil {
		log.Fatalf("main: presentation loop failed: %v", err)
	}
}
