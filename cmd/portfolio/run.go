package main

import (
	"context"
	"fmt"
	"os"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/sebas2906/portfolio/internal/config"
	"github.com/sebas2906/portfolio/internal/logger"
	"github.com/sebas2906/portfolio/pkg/frame"
)

// runPage opens the page on the terminal and blocks until the user quits.
func runPage(ctx context.Context, cfg *config.Config) error {
	// The terminal is the render surface, so logs only go to the file.
	log := logger.NewIsolatedLogger(cfg.App.LogFilePath, cfg.App.Verbose)
	defer log.Sync()

	page, err := loadPage(cfg)
	if err != nil {
		return err
	}
	s, err := buildScene(cfg, page, log)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	kv := openStore(cfg, log)
	defer kv.Close()
	widget := newWidget(cfg, kv, log)

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	_ = term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := frame.NewTicker(cfg.App.FPS)
	a := newApp(ctx, term, width, height, cfg, page, s, widget, ticker)
	a.term = term

	// A failed frame ends the animation only; input and chat keep working
	// over the last frame.
	ticker.OnAbort = func(err error) {
		log.Error("loop", "render loop stopped", map[string]interface{}{
			"frames": a.loop.Frames(),
			"error":  err.Error(),
		})
		a.stall()
	}
	widget.OnChange = func() { ticker.Post(a.refresh) }

	go func() {
		for ev := range term.Events() {
			ticker.Post(func() {
				if a.handle(ev) {
					cancel()
				}
			})
		}
	}()

	log.Info("page", "page opened", map[string]interface{}{
		"cols":     width,
		"rows":     height,
		"fps":      cfg.App.FPS,
		"endpoint": cfg.Chat.Endpoint,
	})

	a.loop.Start()
	if err := ticker.Run(ctx); err != nil {
		return err
	}
	a.loop.Stop()

	log.Info("page", "page closed", map[string]interface{}{
		"frames":  a.loop.Frames(),
		"elapsed": a.loop.Elapsed(),
		"stalled": a.stalled,
	})
	return nil
}
