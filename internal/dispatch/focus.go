package dispatch

import "github.com/jowharshamshiri/boxmux/internal/store"

// refreshSelectable recomputes the set of selectable boxes (leaves —
// boxes with no children, §4.7) for the current layout, in insertion
// order, and repairs focus if it fell off the list (e.g. after a
// reload).
func (d *Dispatcher) refreshSelectable() {
	boxes := d.Store.ListByProp(store.KindBox, "layout_id", d.layoutHandle)

	var leaves []string
	for _, b := range boxes {
		children := d.Store.ListByProps(store.KindBox, "layout_id", d.layoutHandle, "parent_id", b)
		if len(children) == 0 {
			leaves = append(leaves, b)
		}
	}
	d.selectable = leaves

	if d.focus == "" || !contains(leaves, d.focus) {
		if len(leaves) > 0 {
			d.focus = leaves[0]
		} else {
			d.focus = ""
		}
	}
}

// Focus returns the currently focused box handle, or "" if there are no
// selectable boxes (§4.7, Focus errors in §7).
func (d *Dispatcher) Focus() string { return d.focus }

// FocusNext moves focus to the next selectable box, wrapping from the
// last back to the first (§4.7, Down/Right).
func (d *Dispatcher) FocusNext() (old, new string, changed bool) {
	return d.move(1)
}

// FocusPrev moves focus to the previous selectable box, wrapping from
// the first to the last (§4.7, Up/Left).
func (d *Dispatcher) FocusPrev() (old, new string, changed bool) {
	return d.move(-1)
}

func (d *Dispatcher) move(delta int) (old, new string, changed bool) {
	old = d.focus
	n := len(d.selectable)
	if n == 0 {
		return old, old, false
	}
	idx := indexOf(d.selectable, d.focus)
	if idx < 0 {
		d.focus = d.selectable[0]
		return old, d.focus, old != d.focus
	}
	idx = ((idx+delta)%n + n) % n
	d.focus = d.selectable[idx]
	return old, d.focus, old != d.focus
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func contains(list []string, v string) bool {
	return indexOf(list, v) >= 0
}
