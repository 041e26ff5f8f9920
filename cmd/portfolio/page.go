package main

import (
	"context"
	"image/color"
	"math"
	"strings"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/sebas2906/portfolio/internal/config"
	"github.com/sebas2906/portfolio/pkg/chat"
	"github.com/sebas2906/portfolio/pkg/content"
	"github.com/sebas2906/portfolio/pkg/frame"
	"github.com/sebas2906/portfolio/pkg/render"
	"github.com/sebas2906/portfolio/pkg/scene"
	"github.com/sebas2906/portfolio/pkg/viewport"
)

var (
	titleColor     = color.RGBA{0xff, 0xee, 0xdb, 255}
	bodyColor      = color.RGBA{0xc8, 0xc0, 0xcc, 255}
	userColor      = color.RGBA{0x00, 0xaf, 0xff, 255}
	assistantColor = color.RGBA{0xaf, 0x5f, 0xff, 255}
	inputBg        = color.RGBA{0x2a, 0x25, 0x2d, 255}
)

const typingCursor = "▌"

// app is the interactive page: the scene, the text drawn over it and the
// input state. Every method runs on the frame goroutine.
type app struct {
	ctx context.Context

	vp       *viewport.Viewport
	tracker  *viewport.Tracker
	scroller *viewport.SmoothScroller
	renderer *scene.RasterRenderer
	loop     *scene.Loop
	term     *uv.Terminal // nil when drawing off screen

	page    *content.Page
	tagline *content.Typewriter
	widget  *chat.Widget
	hud     *hud

	showHUD bool
	focused bool
	stalled bool // the frame loop has stopped
	input   []rune
	elapsed time.Duration
}

func newApp(ctx context.Context, scr uv.Screen, cols, rows int, cfg *config.Config,
	page *content.Page, s *scene.Scene, widget *chat.Widget, sched frame.Scheduler,
) *app {
	vp := viewport.New(cols, rows)
	tracker := viewport.NewTracker(vp, len(s.Sections), nil)
	scroller := viewport.NewSmoothScroller(tracker, cfg.App.FPS)
	scroller.Instant = cfg.App.ReducedMotion
	renderer := scene.NewRasterRenderer(scr, cols, rows)

	a := &app{
		ctx:      ctx,
		vp:       vp,
		tracker:  tracker,
		scroller: scroller,
		renderer: renderer,
		loop:     scene.NewLoop(s, tracker, renderer, sched),
		page:     page,
		tagline:  content.NewTypewriter(page.Tagline, cfg.App.ReducedMotion),
		widget:   widget,
		hud:      newHUD(time.Now()),
	}
	a.loop.BeforeFrame = a.beforeFrame
	renderer.Overlay = a.Draw
	return a
}

func (a *app) beforeFrame(float64) {
	a.scroller.Update()
	a.elapsed = time.Duration(a.loop.Elapsed() * float64(time.Second))
	a.hud.tick(time.Now())
}

// handle applies one terminal event. It reports whether the page should
// close.
func (a *app) handle(ev uv.Event) bool {
	quit := a.apply(ev)
	a.refresh()
	return quit
}

// stall switches the page to event-driven drawing after the frame loop
// ends: the last frame stays up and only the text is redrawn.
func (a *app) stall() {
	a.stalled = true
	a.scroller.Instant = true
}

// refresh redraws the page text over the last frame when no frames are
// being rendered.
func (a *app) refresh() {
	if !a.stalled {
		return
	}
	a.scroller.Update()
	_ = a.renderer.Present()
}

func (a *app) apply(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		a.resize(ev.Width, ev.Height)

	case uv.MouseMotionEvent:
		a.tracker.OnPointer(ev.X, ev.Y)

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			a.scroller.Wheel(-1)
		case uv.MouseWheelDown:
			a.scroller.Wheel(1)
		}

	case uv.KeyPressEvent:
		if ev.MatchString("ctrl+c") {
			return true
		}
		if a.focused {
			a.handleInputKey(ev)
			return false
		}
		return a.handlePageKey(ev)
	}
	return false
}

func (a *app) handlePageKey(ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("esc", "q"):
		return true
	case ev.MatchString("j", "down"):
		a.scroller.Wheel(1)
	case ev.MatchString("k", "up"):
		a.scroller.Wheel(-1)
	case ev.MatchString("pgdown", "space"):
		a.scroller.Page(1)
	case ev.MatchString("pgup"):
		a.scroller.Page(-1)
	case ev.MatchString("home", "g"):
		a.scroller.JumpTo(0)
	case ev.MatchString("end", "G"):
		a.scroller.JumpTo(a.tracker.Sections() - 1)
	case ev.MatchString("tab"):
		if i := a.page.ChatSection(); i >= 0 {
			a.focused = true
			a.scroller.JumpTo(i)
		}
	case ev.MatchString("?"), ev.MatchString("shift+/"):
		a.showHUD = !a.showHUD
	}
	return false
}

func (a *app) handleInputKey(ev uv.KeyPressEvent) {
	switch {
	case ev.MatchString("esc", "tab"):
		a.focused = false
	case ev.MatchString("enter"):
		if _, ok := a.widget.Submit(a.ctx, string(a.input)); ok {
			a.input = a.input[:0]
		}
	case ev.MatchString("backspace"):
		if n := len(a.input); n > 0 {
			a.input = a.input[:n-1]
		}
	case ev.Text != "":
		a.input = append(a.input, []rune(ev.Text)...)
	}
}

func (a *app) resize(cols, rows int) {
	old := a.vp.Size().Height
	if !a.vp.Resize(cols, rows) {
		return
	}
	if a.term != nil {
		a.term.Erase()
		_ = a.term.Resize(cols, rows)
	}
	a.renderer.Resize(cols, rows)
	a.scroller.Rescale(old, rows)
}

// Draw paints the page text over the rendered frame.
func (a *app) Draw(scr uv.Screen) {
	size := a.vp.Size()
	offset := int(math.Round(a.tracker.Scroll().Offset))

	for i, sec := range a.page.Sections {
		top := i*size.Height - offset
		if top >= size.Height || top+size.Height <= 0 {
			continue
		}
		a.drawSection(scr, i, sec, top, size)
	}

	if a.showHUD {
		a.hud.Draw(scr, size.Width, size.Height, hudStatus{
			Section:   a.tracker.Scroll().Section,
			Sections:  a.tracker.Sections(),
			Triangles: a.loop.Scene.TriangleCount(),
			Culling:   a.renderer.Stats(),
			Focused:   a.focused,
		})
	}
}

func (a *app) accent() color.Color {
	return a.loop.Scene.Material.Color
}

// column returns where section i's text goes: opposite its object, which
// alternates sides starting on the right.
func column(i, cols int) (x, width int) {
	width = min(cols/2-4, 56)
	if width < 8 {
		return 1, max(cols-2, 1)
	}
	if i%2 == 0 {
		return 3, width
	}
	return cols - width - 3, width
}

func (a *app) drawSection(scr uv.Screen, i int, sec content.Section, top int, size viewport.Size) {
	x, width := column(i, size.Width)
	bottom := top + size.Height - 1
	y := top + size.Height/4

	render.DrawText(scr, x, y, render.Text{Content: sec.Title, Fg: titleColor, Bold: true})
	y += 2

	if i == 0 && a.tagline.Text() != "" {
		reserved := wrap(a.tagline.Text(), width)
		end, row := x, y
		for j, line := range wrap(a.tagline.Visible(a.elapsed), width) {
			end, row = render.DrawText(scr, x, y+j, render.Text{Content: line, Fg: a.accent()}), y+j
		}
		if !a.tagline.Done(a.elapsed) && end < x+width {
			render.DrawText(scr, end, row, render.Text{Content: typingCursor, Fg: a.accent()})
		}
		y += len(reserved) + 1
	}

	for _, para := range sec.Body {
		for _, line := range wrap(para, width) {
			render.DrawText(scr, x, y, render.Text{Content: line, Fg: bodyColor})
			y++
		}
	}

	if sec.Link != nil {
		y++
		render.DrawText(scr, x, y, render.Text{
			Content: "→ " + sec.Link.Label,
			Fg:      a.accent(),
			Bold:    true,
			Link:    sec.Link.URL,
		})
		y++
	}

	if sec.Chat && a.widget != nil {
		a.drawChat(scr, x, y+1, width, bottom)
	}
}

// drawChat lays the transcript out between y and bottom, newest last, with
// the status line and input line at the bottom.
func (a *app) drawChat(scr uv.Screen, x, y, width, bottom int) {
	v := a.widget.View()

	var lines []render.Text
	for _, e := range v.Transcript {
		label, fg := "you", userColor
		if e.Role == chat.RoleAssistant {
			label, fg = "agent", assistantColor
		}
		for _, line := range wrap(label+": "+e.Text, width) {
			lines = append(lines, render.Text{Content: line, Fg: fg})
		}
	}

	avail := bottom - y - 2
	if avail < 0 {
		avail = 0
	}
	if len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}
	for _, t := range lines {
		render.DrawText(scr, x, y, t)
		y++
	}

	if v.Status != "" {
		render.DrawText(scr, x, y, render.Text{Content: ansi.Truncate(v.Status, width, "…"), Fg: bodyColor, Faint: true})
	}
	y++

	render.FillRow(scr, x, x+width, y, inputBg)
	render.DrawText(scr, x, y, a.inputLine(v.Disabled, width))
}

func (a *app) inputLine(disabled bool, width int) render.Text {
	switch {
	case disabled:
		return render.Text{Content: "> " + chat.StatusThinking, Fg: bodyColor, Faint: true}
	case !a.focused && len(a.input) == 0:
		return render.Text{Content: "> press Tab to ask something", Fg: bodyColor, Faint: true}
	}
	line := []rune("> " + string(a.input))
	if a.focused {
		line = append(line, '_')
	}
	if len(line) > width {
		line = line[len(line)-width:]
	}
	return render.Text{Content: string(line), Fg: titleColor}
}

// wrap breaks s into lines no wider than width.
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	lines := strings.Split(ansi.Wrap(s, width, ""), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
