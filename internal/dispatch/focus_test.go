package dispatch

import (
	"testing"

	"github.com/jowharshamshiri/boxmux/internal/store"
)

func newLeafBox(s *store.Store, layout, parent string) string {
	b := s.NewBox(layout)
	s.SetProp(store.KindBox, b, "layout_id", layout)
	s.SetProp(store.KindBox, b, "parent_id", parent)
	return b
}

// S3: three sibling leaf boxes under a root; Down/Right cycles forward
// with wraparound, Up/Left cycles backward with wraparound.
func buildS3(s *store.Store) (layout string, root, a, b, c string) {
	layout = s.NewLayout()
	root = s.NewBox(layout)
	s.SetProp(store.KindBox, root, "layout_id", layout)
	s.SetProp(store.KindBox, root, "parent_id", "")
	a = newLeafBox(s, layout, root)
	b = newLeafBox(s, layout, root)
	c = newLeafBox(s, layout, root)
	return
}

func TestRefreshSelectableSkipsRoot(t *testing.T) {
	s := store.New()
	layout, _, a, b, c := buildS3(s)

	d := New(s, nil, nil)
	d.SetLayout(layout)

	if len(d.selectable) != 3 {
		t.Fatalf("selectable = %v, want 3 leaves", d.selectable)
	}
	want := []string{a, b, c}
	for i, h := range want {
		if d.selectable[i] != h {
			t.Errorf("selectable[%d] = %s, want %s", i, d.selectable[i], h)
		}
	}
	if d.Focus() != a {
		t.Errorf("initial focus = %s, want %s (first leaf)", d.Focus(), a)
	}
}

func TestFocusNextWrapsAround(t *testing.T) {
	s := store.New()
	layout, _, a, b, c := buildS3(s)
	d := New(s, nil, nil)
	d.SetLayout(layout)

	seq := []string{a, b, c, a, b}
	for i := 0; i < len(seq)-1; i++ {
		old, new, changed := d.FocusNext()
		if !changed {
			t.Fatalf("step %d: FocusNext reported no change", i)
		}
		if old != seq[i] || new != seq[i+1] {
			t.Errorf("step %d: got %s->%s, want %s->%s", i, old, new, seq[i], seq[i+1])
		}
	}
}

func TestFocusPrevWrapsAround(t *testing.T) {
	s := store.New()
	layout, _, a, b, c := buildS3(s)
	d := New(s, nil, nil)
	d.SetLayout(layout)

	old, new, changed := d.FocusPrev()
	if !changed || old != a || new != c {
		t.Errorf("FocusPrev from first = %s->%s changed=%v, want %s->%s changed=true", old, new, changed, a, c)
	}
}

// §8 cyclic-permutation property: N consecutive FocusNext calls from any
// starting point return focus to its starting box.
func TestFocusNextCyclicProperty(t *testing.T) {
	s := store.New()
	layout, _, _, _, _ := buildS3(s)
	d := New(s, nil, nil)
	d.SetLayout(layout)

	start := d.Focus()
	for i := 0; i < len(d.selectable); i++ {
		d.FocusNext()
	}
	if d.Focus() != start {
		t.Errorf("after N FocusNext calls, focus = %s, want starting focus %s", d.Focus(), start)
	}
}

func TestFocusNoSelectableBoxesIsNoop(t *testing.T) {
	s := store.New()
	layout := s.NewLayout()
	d := New(s, nil, nil)
	d.SetLayout(layout)

	if d.Focus() != "" {
		t.Errorf("focus = %q, want empty with no selectable boxes", d.Focus())
	}
	old, new, changed := d.FocusNext()
	if changed || old != "" || new != "" {
		t.Errorf("FocusNext with no boxes = %s->%s changed=%v, want no-op", old, new, changed)
	}
}

func TestFocusRepairedAfterSelectableShrinks(t *testing.T) {
	s := store.New()
	layout, _, a, _, c := buildS3(s)
	d := New(s, nil, nil)
	d.SetLayout(layout)
	d.FocusNext()
	d.FocusNext() // focus is now c

	// Simulate a reload that dropped "c": focus must land back on the
	// first remaining selectable box rather than pointing at a dead
	// handle.
	s.Delete(store.KindBox, c)
	d.refreshSelectable()

	if d.Focus() != a {
		t.Errorf("focus after reload dropped current box = %s, want %s", d.Focus(), a)
	}
}
