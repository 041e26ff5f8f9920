package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mattn/go-runewidth"
)

// TerminalRenderer presents framebuffers on a uv.Screen. Each cell shows two
// vertically stacked pixels via the upper half block.
type TerminalRenderer struct {
	screen     uv.Screen
	cols, rows int
}

// NewTerminalRenderer creates a presenter for a cols x rows screen.
func NewTerminalRenderer(scr uv.Screen, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{screen: scr, cols: cols, rows: rows}
}

// Resize updates the cell grid size and reports whether it changed.
func (t *TerminalRenderer) Resize(cols, rows int) bool {
	if cols == t.cols && rows == t.rows {
		return false
	}
	t.cols, t.rows = cols, rows
	return true
}

// Size returns the cell grid size.
func (t *TerminalRenderer) Size() (cols, rows int) {
	return t.cols, t.rows
}

// FramebufferSize returns the pixel size a framebuffer should have.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Screen returns the target screen, for overlays.
func (t *TerminalRenderer) Screen() uv.Screen {
	return t.screen
}

// Render draws fb over the whole grid.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.screen, uv.Rect(0, 0, t.cols, t.rows))
}

// Flush displays pending cells when the screen is a live terminal. Off-screen
// buffers have nothing to flush.
func (t *TerminalRenderer) Flush() error {
	if d, ok := t.screen.(interface{ Display() error }); ok {
		return d.Display()
	}
	return nil
}

// Draw writes the framebuffer into area, two pixel rows per cell row.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top, bot := row*2, row*2+1
		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, top)),
					Bg: rgbaToColor(fb.GetPixel(col, bot)),
				},
			})
		}
	}
}

func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Text is a run of overlay text. A nil Bg keeps whatever background the
// cells already have, so text floats over the scene.
type Text struct {
	Content string
	Fg      color.Color
	Bg      color.Color
	Bold    bool
	Faint   bool
	Link    string
}

// DrawText writes t starting at (x, y), clipped to the screen, and returns
// the column after the last cell written.
func DrawText(scr uv.Screen, x, y int, t Text) int {
	bounds := scr.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return x
	}

	var attrs uint8
	if t.Bold {
		attrs |= uv.AttrBold
	}
	if t.Faint {
		attrs |= uv.AttrFaint
	}

	for _, r := range t.Content {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > bounds.Max.X {
			break
		}
		if x >= bounds.Min.X {
			bg := t.Bg
			if bg == nil {
				if under := scr.CellAt(x, y); under != nil {
					// Half-block cells carry the lower pixel in Bg.
					bg = under.Style.Bg
				}
			}
			cell := &uv.Cell{
				Content: string(r),
				Width:   w,
				Style:   uv.Style{Fg: t.Fg, Bg: bg, Attrs: attrs},
			}
			if t.Link != "" {
				cell.Link = uv.Link{URL: t.Link}
			}
			scr.SetCell(x, y, cell)
		}
		x += w
	}
	return x
}

// FillRow paints cells [x0, x1) of row y with a solid background.
func FillRow(scr uv.Screen, x0, x1, y int, bg color.Color) {
	for x := x0; x < x1; x++ {
		scr.SetCell(x, y, &uv.Cell{Content: " ", Width: 1, Style: uv.Style{Bg: bg}})
	}
}

// TextWidth returns the display width of s.
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}
