package geometry

import (
	"testing"

	"github.com/jowharshamshiri/boxmux/internal/store"
)

func newBox(s *store.Store, layout, parent string, isRoot bool, x1, y1, x2, y2 int) string {
	b := s.NewBox(layout)
	s.SetProp(store.KindBox, b, "layout_id", layout)
	s.SetProp(store.KindBox, b, "parent_id", parent)
	s.SetProp(store.KindBox, b, "is_root", isRoot)
	s.SetProp(store.KindBox, b, "x1", x1)
	s.SetProp(store.KindBox, b, "y1", y1)
	s.SetProp(store.KindBox, b, "x2", x2)
	s.SetProp(store.KindBox, b, "y2", y2)
	return b
}

func TestResolveRootFillsTerminal(t *testing.T) {
	s := store.New()
	l := s.NewLayout()
	root := newBox(s, l, "", true, 0, 0, 100, 100)

	if err := Resolve(s, l, 80, 24); err != nil {
		t.Fatal(err)
	}
	r, ok := Abs(s, root)
	if !ok || r != (Rect{0, 0, 80, 24}) {
		t.Errorf("root abs = %+v, ok=%v, want (0,0,80,24)", r, ok)
	}
}

// S4: child at (25,25,75,75) on an 80x24 terminal resolves to
// (20,6,60,18); after resizing to 100x30 it resolves to (25,7,75,22).
func TestResolveChildTruncation(t *testing.T) {
	s := store.New()
	l := s.NewLayout()
	newBox(s, l, "", true, 0, 0, 100, 100)
	root := s.ListByProps(store.KindBox, "layout_id", l, "is_root", true)[0]
	child := newBox(s, l, root, false, 25, 25, 75, 75)

	if err := Resolve(s, l, 80, 24); err != nil {
		t.Fatal(err)
	}
	r, _ := Abs(s, child)
	if r != (Rect{20, 6, 60, 18}) {
		t.Errorf("child abs @80x24 = %+v, want (20,6,60,18)", r)
	}

	if err := Resolve(s, l, 100, 30); err != nil {
		t.Fatal(err)
	}
	r, _ = Abs(s, child)
	if r != (Rect{25, 7, 75, 22}) {
		t.Errorf("child abs @100x30 = %+v, want (25,7,75,22)", r)
	}
}

func TestResolveFullBoxExact(t *testing.T) {
	s := store.New()
	l := s.NewLayout()
	newBox(s, l, "", true, 0, 0, 100, 100)
	root := s.ListByProps(store.KindBox, "layout_id", l, "is_root", true)[0]
	child := newBox(s, l, root, false, 0, 0, 100, 100)

	if err := Resolve(s, l, 80, 24); err != nil {
		t.Fatal(err)
	}
	got, _ := Abs(s, child)
	want, _ := Abs(s, root)
	if got != want {
		t.Errorf("full-size child = %+v, want parent rect %+v", got, want)
	}
}

// I4: child rectangle lies within parent rectangle after resolution.
func TestResolveMonotone(t *testing.T) {
	s := store.New()
	l := s.NewLayout()
	newBox(s, l, "", true, 0, 0, 100, 100)
	root := s.ListByProps(store.KindBox, "layout_id", l, "is_root", true)[0]
	mid := newBox(s, l, root, false, 10, 10, 90, 90)
	leaf := newBox(s, l, mid, false, 0, 0, 50, 50)

	if err := Resolve(s, l, 80, 24); err != nil {
		t.Fatal(err)
	}
	rMid, _ := Abs(s, mid)
	rLeaf, _ := Abs(s, leaf)
	if rLeaf.X1 < rMid.X1 || rLeaf.X2 > rMid.X2 || rLeaf.Y1 < rMid.Y1 || rLeaf.Y2 > rMid.Y2 {
		t.Errorf("leaf %+v not contained in mid %+v", rLeaf, rMid)
	}
}

func TestResolveIdempotent(t *testing.T) {
	s := store.New()
	l := s.NewLayout()
	newBox(s, l, "", true, 0, 0, 100, 100)
	root := s.ListByProps(store.KindBox, "layout_id", l, "is_root", true)[0]
	child := newBox(s, l, root, false, 25, 25, 75, 75)

	if err := Resolve(s, l, 80, 24); err != nil {
		t.Fatal(err)
	}
	first, _ := Abs(s, child)
	if err := Resolve(s, l, 80, 24); err != nil {
		t.Fatal(err)
	}
	second, _ := Abs(s, child)
	if first != second {
		t.Errorf("Resolve not idempotent: %+v != %+v", first, second)
	}
}
