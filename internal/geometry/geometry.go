// Package geometry implements the Geometry Resolver (§4.2): percentage-
// of-parent rectangle resolution over the Layout Store's box tree, walked
// pre-order so children always see their parent's freshly resolved
// rectangle. Resolution is idempotent (§4.2) and adapted from the
// teacher's two-pass flex Measure/Draw walk, collapsed to the one pass
// percentage geometry needs.
package geometry

import (
	"fmt"

	"github.com/jowharshamshiri/boxmux/internal/store"
)

// Rect is an absolute, cell-coordinate rectangle. Coordinates are
// 0-based and half-open on both axes: X2/Y2 are the last occupied
// column/row plus one, so width = X2-X1, height = Y2-Y1.
type Rect struct {
	X1, Y1, X2, Y2 int
}

func (r Rect) Width() int  { return r.X2 - r.X1 }
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// Resolve recomputes absolute rectangles for every box in layoutHandle
// against a terminal of the given size, storing the result on each box
// as "ax1"/"ay1"/"ax2"/"ay2" properties (§3). The Supervisor calls it at
// startup and on every WINCH; the Dispatcher never calls it.
func Resolve(s *store.Store, layoutHandle string, cols, rows int) error {
	root, err := rootBox(s, layoutHandle)
	if err != nil {
		return err
	}
	return resolveBox(s, root, Rect{X1: 0, Y1: 0, X2: cols, Y2: rows})
}

func rootBox(s *store.Store, layoutHandle string) (string, error) {
	candidates := s.ListByProps(store.KindBox, "layout_id", layoutHandle, "is_root", true)
	if len(candidates) == 0 {
		return "", fmt.Errorf("geometry: layout %s has no root box", layoutHandle)
	}
	return candidates[0], nil
}

// resolveBox stores parentAbs-derived rect on box, then recurses into
// its children in declaration order.
func resolveBox(s *store.Store, box string, parentAbs Rect) error {
	setRect(s, box, parentAbs)

	layoutHandle, _ := s.GetProp(store.KindBox, box, "layout_id")
	children := s.ListByProps(store.KindBox, "layout_id", layoutHandle, "parent_id", box)
	for _, child := range children {
		childAbs, err := childRect(s, child, parentAbs)
		if err != nil {
			return err
		}
		if err := resolveBox(s, child, childAbs); err != nil {
			return err
		}
	}
	return nil
}

// childRect resolves child's declared percentage rectangle against
// parentAbs, truncating on integer division (§4.2, I4).
func childRect(s *store.Store, box string, parentAbs Rect) (Rect, error) {
	x1, err := pctProp(s, box, "x1")
	if err != nil {
		return Rect{}, err
	}
	y1, err := pctProp(s, box, "y1")
	if err != nil {
		return Rect{}, err
	}
	x2, err := pctProp(s, box, "x2")
	if err != nil {
		return Rect{}, err
	}
	y2, err := pctProp(s, box, "y2")
	if err != nil {
		return Rect{}, err
	}

	w := parentAbs.Width()
	h := parentAbs.Height()

	return Rect{
		X1: parentAbs.X1 + (w*x1)/100,
		Y1: parentAbs.Y1 + (h*y1)/100,
		X2: parentAbs.X1 + (w*x2)/100,
		Y2: parentAbs.Y1 + (h*y2)/100,
	}, nil
}

func pctProp(s *store.Store, box, key string) (int, error) {
	v, ok := s.GetProp(store.KindBox, box, key)
	if !ok {
		return 0, fmt.Errorf("geometry: box %s missing %q", box, key)
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("geometry: box %s %q is not an int (%T)", box, key, v)
	}
	return n, nil
}

func setRect(s *store.Store, box string, r Rect) {
	s.SetProp(store.KindBox, box, "ax1", r.X1)
	s.SetProp(store.KindBox, box, "ay1", r.Y1)
	s.SetProp(store.KindBox, box, "ax2", r.X2)
	s.SetProp(store.KindBox, box, "ay2", r.Y2)
}

// Abs reads box's last-resolved absolute rectangle.
func Abs(s *store.Store, box string) (Rect, bool) {
	x1, ok1 := s.GetProp(store.KindBox, box, "ax1")
	y1, ok2 := s.GetProp(store.KindBox, box, "ay1")
	x2, ok3 := s.GetProp(store.KindBox, box, "ax2")
	y2, ok4 := s.GetProp(store.KindBox, box, "ay2")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Rect{}, false
	}
	return Rect{X1: x1.(int), Y1: y1.(int), X2: x2.(int), Y2: y2.(int)}, true
}
