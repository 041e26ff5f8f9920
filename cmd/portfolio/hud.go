package main

import (
	"fmt"
	"image/color"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/sebas2906/portfolio/pkg/render"
)

var (
	hudBg     = color.RGBA{0, 0, 0, 255}
	hudGreen  = color.RGBA{0x5f, 0xff, 0x87, 255}
	hudWhite  = color.RGBA{0xee, 0xee, 0xee, 255}
	hudCyan   = color.RGBA{0x5f, 0xd7, 0xff, 255}
	hudYellow = color.RGBA{0xff, 0xd7, 0x5f, 255}
)

// hudStatus is what the HUD reports for one frame.
type hudStatus struct {
	Section   int // zero-based
	Sections  int
	Triangles int
	Culling   render.CullingStats
	Focused   bool
}

// hud renders an overlay with frame rate and scene counters.
type hud struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD(now time.Time) *hud {
	return &hud{fpsTime: now}
}

// tick counts a frame. Call once per frame.
func (h *hud) tick(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// Draw paints the top and bottom rows of a cols x rows screen.
func (h *hud) Draw(scr uv.Screen, cols, rows int, st hudStatus) {
	if cols <= 0 || rows <= 0 {
		return
	}

	// Top left: FPS
	render.FillRow(scr, 0, cols, 0, hudBg)
	render.DrawText(scr, 1, 0, render.Text{Content: fmt.Sprintf("%.0f FPS", h.fps), Fg: hudGreen})

	// Top middle: section
	section := fmt.Sprintf("section %d/%d", st.Section+1, st.Sections)
	render.DrawText(scr, max((cols-render.TextWidth(section))/2, 0), 0, render.Text{Content: section, Fg: hudWhite, Bold: true})

	// Top right: geometry
	counts := fmt.Sprintf("%d tris  %d/%d drawn", st.Triangles, st.Culling.MeshesDrawn, st.Culling.MeshesTested)
	render.DrawText(scr, max(cols-render.TextWidth(counts)-1, 0), 0, render.Text{Content: counts, Fg: hudCyan, Bold: true})

	if rows < 2 {
		return
	}
	hint := "j/k scroll  Tab chat  ? HUD  q quit"
	if st.Focused {
		hint = "Enter send  Esc leave chat"
	}
	render.FillRow(scr, 0, cols, rows-1, hudBg)
	render.DrawText(scr, 1, rows-1, render.Text{Content: hint, Fg: hudYellow, Faint: true})
}
