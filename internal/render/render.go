// Package render implements the Render Engine (§4.3): border, fill,
// title, and wrapped body-text drawing, plus the focus-color override
// and full-vs-single-box redraw ordering. Border glyph placement and the
// border/interior arithmetic are adapted from the teacher's
// tui/layout_engine.go drawBorder, swapped to the heavy box-drawing
// glyph set §4.3 requires; color-before-write/reset-after sequencing
// follows the teacher's tui/screen.go writeStyle pattern.
package render

import (
	"github.com/jowharshamshiri/boxmux/internal/geometry"
	"github.com/jowharshamshiri/boxmux/internal/store"
	"github.com/jowharshamshiri/boxmux/internal/terminal"
)

// Property keys on a KindBox entity that the Render Engine reads. The
// Config Loader (internal/config) is responsible for populating these
// with the documented defaults (§6).
const (
	PropBorderColor = "border_color"
	PropFill        = "fill"
	PropFillColor   = "fill_color"
	PropFillChar    = "fill_char"
	PropTitle       = "title"
	PropTitleColor  = "title_color"
	PropTextColor   = "text_color"
	PropBody        = "body"
)

// DefaultFocusColor is used when no focus color is configured (§4.3).
const DefaultFocusColor = terminal.Color("red")

// Surface is the subset of the Terminal Driver the Render Engine needs.
// Satisfied by *terminal.Driver; exists so tests can substitute a
// recording fake instead of a real tty.
type Surface interface {
	Move(row, col int)
	SetFG(c terminal.Color)
	Write(s string)
	Reset()
	Flush() error
}

// Engine draws boxes onto a Terminal Driver.
type Engine struct {
	Term       Surface
	FocusColor terminal.Color
}

// New constructs a render Engine with the documented default focus
// color.
func New(term Surface) *Engine {
	return &Engine{Term: term, FocusColor: DefaultFocusColor}
}

// DrawFull clears the screen and renders every box in layoutHandle,
// pre-order, so children draw after (and may overpaint) their parents
// in any declared overlap (§4.3, "Z-order equals declaration order").
func (e *Engine) DrawFull(s *store.Store, layoutHandle, focused string) {
	e.Term.Move(1, 1)
	e.Term.Write("\x1b[2J")
	root := s.ListByProps(store.KindBox, "layout_id", layoutHandle, "is_root", true)
	for _, r := range root {
		e.drawSubtree(s, layoutHandle, r, focused)
	}
	e.Term.Flush()
}

func (e *Engine) drawSubtree(s *store.Store, layoutHandle, box, focused string) {
	e.DrawBox(s, box, box == focused)
	children := s.ListByProps(store.KindBox, "layout_id", layoutHandle, "parent_id", box)
	for _, c := range children {
		e.drawSubtree(s, layoutHandle, c, focused)
	}
}

// DrawBox redraws exactly one box: border, fill, title, body — nothing
// else (§4.3, "a redraw of a single box redraws only that box").
func (e *Engine) DrawBox(s *store.Store, box string, focused bool) {
	rect, ok := geometry.Abs(s, box)
	if !ok {
		return
	}

	borderColor := e.borderColor(s, box, focused)
	e.boxBorder(rect, borderColor)

	interior := shrink(rect, 1)
	if fill, _ := s.GetProp(store.KindBox, box, PropFill); fill == true {
		glyph := propRune(s, box, PropFillChar, '█')
		color := propColor(s, box, PropFillColor, "black")
		e.fill(interior, glyph, color)
	}

	title := propString(s, box, PropTitle, "")
	if title != "" {
		titleColor := propColor(s, box, PropTitleColor, "yellow")
		e.title(interior, title, titleColor)
	}

	bodyRect := shrink(interior, 1)
	bodyText := propString(s, box, PropBody, "")
	if bodyText != "" {
		textColor := propColor(s, box, PropTextColor, "white")
		e.body(bodyRect, bodyText, textColor)
	}

	e.Term.Flush()
}

func (e *Engine) borderColor(s *store.Store, box string, focused bool) terminal.Color {
	if focused {
		return e.FocusColor
	}
	return propColor(s, box, PropBorderColor, "white")
}

// boxBorder draws heavy box-drawing glyphs on rect's boundary. Rects
// with width < 2 or height < 2 draw nothing (§4.3).
func (e *Engine) boxBorder(rect geometry.Rect, color terminal.Color) {
	w, h := rect.Width(), rect.Height()
	if w < 2 || h < 2 {
		return
	}

	e.Term.SetFG(color)

	e.putRune(rect.X1, rect.Y1, '┏')
	e.putRune(rect.X2-1, rect.Y1, '┓')
	e.putRune(rect.X1, rect.Y2-1, '┗')
	e.putRune(rect.X2-1, rect.Y2-1, '┛')

	for x := rect.X1 + 1; x < rect.X2-1; x++ {
		e.putRune(x, rect.Y1, '━')
		e.putRune(x, rect.Y2-1, '━')
	}
	for y := rect.Y1 + 1; y < rect.Y2-1; y++ {
		e.putRune(rect.X1, y, '┃')
		e.putRune(rect.X2-1, y, '┃')
	}

	e.Term.Reset()
}

// fill paints rect's every cell with glyph (§4.3).
func (e *Engine) fill(rect geometry.Rect, glyph rune, color terminal.Color) {
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return
	}
	e.Term.SetFG(color)
	row := make([]rune, rect.Width())
	for i := range row {
		row[i] = glyph
	}
	line := string(row)
	for y := rect.Y1; y < rect.Y2; y++ {
		e.Term.Move(y+1, rect.X1+1)
		e.Term.Write(line)
	}
	e.Term.Reset()
}

// title writes text at rect's interior offset (1,1), truncated to
// interior width (§4.3).
func (e *Engine) title(rect geometry.Rect, text string, color terminal.Color) {
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return
	}
	runes := []rune(text)
	maxW := rect.Width()
	if len(runes) > maxW {
		runes = runes[:maxW]
	}
	e.Term.SetFG(color)
	e.Term.Move(rect.Y1+1, rect.X1+1)
	e.Term.Write(string(runes))
	e.Term.Reset()
}

// body renders text hard-wrapped to rect, one color for every cell
// written (§4.3).
func (e *Engine) body(rect geometry.Rect, text string, color terminal.Color) {
	lines := WrapLines(text, rect.Width(), rect.Height())
	if len(lines) == 0 {
		return
	}
	e.Term.SetFG(color)
	for i, line := range lines {
		e.Term.Move(rect.Y1+i+1, rect.X1+1)
		e.Term.Write(line)
	}
	e.Term.Reset()
}

func (e *Engine) putRune(x, y int, r rune) {
	e.Term.Move(y+1, x+1)
	e.Term.Write(string(r))
}

// shrink insets rect by n cells on every side.
func shrink(r geometry.Rect, n int) geometry.Rect {
	out := geometry.Rect{X1: r.X1 + n, Y1: r.Y1 + n, X2: r.X2 - n, Y2: r.Y2 - n}
	if out.X2 < out.X1 {
		out.X2 = out.X1
	}
	if out.Y2 < out.Y1 {
		out.Y2 = out.Y1
	}
	return out
}

func propString(s *store.Store, box, key, def string) string {
	if v, ok := s.GetProp(store.KindBox, box, key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

func propColor(s *store.Store, box, key, def string) terminal.Color {
	return terminal.Color(propString(s, box, key, def))
}

func propRune(s *store.Store, box, key string, def rune) rune {
	str := propString(s, box, key, "")
	runes := []rune(str)
	if len(runes) == 0 {
		return def
	}
	return runes[0]
}
