// Package config implements the Config Loader (§4.5): it consumes the
// external parser's flat, "___"-joined dotted-path mapping (§6) and
// materializes a Layout, its Box tree, and each Box's BoxEvents into the
// Layout Store.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jowharshamshiri/boxmux/internal/idgen"
	"github.com/jowharshamshiri/boxmux/internal/render"
	"github.com/jowharshamshiri/boxmux/internal/store"
)

// Source is the external configuration-file parser contract (§1, §6):
// something that turns a document on disk into a flat, "___"-joined
// dotted-path string map. The core depends only on this interface.
type Source interface {
	Load(path string) (map[string]string, error)
}

// LoadError reports a fatal configuration problem (§7): malformed
// document, missing required field, or geometry out of range. Loading
// never enters the terminal when this is returned.
type LoadError struct {
	Path  string // location of the problem, e.g. "layout.id" or the flat key "layout___children___1___position___x1"
	Msg   string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, e.Msg)
}

// Loader materializes configuration documents into a Layout Store.
type Loader struct {
	Source Source
	Store  *store.Store
}

// New constructs a Loader over the given Source and Store.
func New(src Source, s *store.Store) *Loader {
	return &Loader{Source: src, Store: s}
}

// Load reads path via the configured Source and materializes it into
// the Store, returning the new layout's handle. A prior layout with the
// same root id is deleted first (§4.8: reload is delete-then-create).
func (l *Loader) Load(path string) (string, error) {
	raw, err := l.Source.Load(path)
	if err != nil {
		return "", &LoadError{Path: path, Msg: err.Error()}
	}

	prefix := idgen.Prefix()
	m := make(map[string]string, len(raw))
	for k, v := range raw {
		m[prefix+k] = v
	}

	rootID, ok := m[prefix+"layout___id"]
	if !ok || rootID == "" {
		return "", &LoadError{Path: "layout.id", Msg: "required field missing"}
	}

	// §4.8: reload is delete-then-create.
	for _, old := range l.Store.ListByProp(store.KindLayout, "id", rootID) {
		l.deleteLayout(old)
	}

	defaultInterval := DefaultRefreshInterval
	if raw, ok := m[prefix+"layout___refresh_interval"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return "", &LoadError{Path: "layout.refresh_interval", Msg: "must be a positive integer"}
		}
		defaultInterval = n
	}

	layoutHandle := l.Store.NewLayout()
	l.Store.SetProp(store.KindLayout, layoutHandle, "id", rootID)
	l.Store.SetProp(store.KindLayout, layoutHandle, "default_interval", defaultInterval)

	seen := make(map[string]string) // user box id -> handle, within this one Load
	if err := l.materializeBox(m, prefix, "layout", layoutHandle, "", true, defaultInterval, seen); err != nil {
		l.deleteLayout(layoutHandle)
		return "", err
	}

	return layoutHandle, nil
}

// deleteLayout removes a layout and every box/event that belongs to it.
func (l *Loader) deleteLayout(layoutHandle string) {
	for _, box := range l.Store.ListByProp(store.KindBox, "layout_id", layoutHandle) {
		l.Store.DeleteByProp(store.KindEvent, "box_id", box)
		l.Store.Delete(store.KindBox, box)
	}
	l.Store.Delete(store.KindLayout, layoutHandle)
}

// materializeBox reads the box definition at dotted path `path` and
// stores it, then recurses into `path___children___N` (§4.5).
func (l *Loader) materializeBox(m map[string]string, prefix, path, layoutHandle, parentHandle string, isRoot bool, defaultInterval int, seen map[string]string) error {
	id := m[prefix+path+"___id"]
	if id == "" {
		return &LoadError{Path: path + ".id", Msg: "required field missing"}
	}

	// I1: a duplicate box id within the same load replaces the earlier
	// definition.
	if prior, ok := seen[id]; ok {
		l.Store.DeleteByProp(store.KindEvent, "box_id", prior)
		l.Store.Delete(store.KindBox, prior)
	}

	x1, y1, x2, y2 := 0, 0, 100, 100
	if !isRoot {
		var err error
		x1, err = percent(m, prefix, path+"___position___x1")
		if err != nil {
			return err
		}
		y1, err = percent(m, prefix, path+"___position___y1")
		if err != nil {
			return err
		}
		x2, err = percent(m, prefix, path+"___position___x2")
		if err != nil {
			return err
		}
		y2, err = percent(m, prefix, path+"___position___y2")
		if err != nil {
			return err
		}
		if !(0 <= x1 && x1 < x2 && x2 <= 100) || !(0 <= y1 && y1 < y2 && y2 <= 100) {
			return &LoadError{Path: path + ".position", Msg: "geometry out of range"}
		}
	}

	interval := defaultInterval
	if raw, ok := m[prefix+path+"___refresh_interval"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return &LoadError{Path: path + ".refresh_interval", Msg: "must be a positive integer"}
		}
		interval = n
	}

	boxHandle := l.Store.NewBox(layoutHandle)
	seen[id] = boxHandle

	s := l.Store
	s.SetProp(store.KindBox, boxHandle, "layout_id", layoutHandle)
	s.SetProp(store.KindBox, boxHandle, "id", id)
	s.SetProp(store.KindBox, boxHandle, "parent_id", parentHandle)
	s.SetProp(store.KindBox, boxHandle, "is_root", isRoot)
	s.SetProp(store.KindBox, boxHandle, "x1", x1)
	s.SetProp(store.KindBox, boxHandle, "y1", y1)
	s.SetProp(store.KindBox, boxHandle, "x2", x2)
	s.SetProp(store.KindBox, boxHandle, "y2", y2)
	s.SetProp(store.KindBox, boxHandle, "interval", interval)
	s.SetProp(store.KindBox, boxHandle, render.PropBody, "")

	s.SetProp(store.KindBox, boxHandle, render.PropFill, boolField(m, prefix, path+"___fill", DefaultFill))
	s.SetProp(store.KindBox, boxHandle, render.PropFillColor, stringField(m, prefix, path+"___fill_color", DefaultFillColor))
	s.SetProp(store.KindBox, boxHandle, render.PropFillChar, stringField(m, prefix, path+"___fill_char", DefaultFillChar))
	s.SetProp(store.KindBox, boxHandle, render.PropBorderColor, stringField(m, prefix, path+"___border_color", DefaultBorderColor))
	s.SetProp(store.KindBox, boxHandle, render.PropTitle, stringField(m, prefix, path+"___title", id))
	s.SetProp(store.KindBox, boxHandle, render.PropTitleColor, stringField(m, prefix, path+"___title_color", DefaultTitleColor))
	s.SetProp(store.KindBox, boxHandle, render.PropTextColor, stringField(m, prefix, path+"___text_color", DefaultTextColor))

	for _, name := range []string{"enter", "leave", "refresh"} {
		if script, ok := collectScript(m, prefix, path, name); ok {
			eventHandle := s.NewEvent(boxHandle)
			s.SetProp(store.KindEvent, eventHandle, "box_id", boxHandle)
			s.SetProp(store.KindEvent, eventHandle, "name", name)
			s.SetProp(store.KindEvent, eventHandle, "script", script)
		}
	}

	for n := 1; ; n++ {
		childPath := fmt.Sprintf("%s___children___%d", path, n)
		if _, ok := m[prefix+childPath+"___id"]; !ok {
			break
		}
		if err := l.materializeBox(m, prefix, childPath, layoutHandle, boxHandle, false, defaultInterval, seen); err != nil {
			return err
		}
	}

	return nil
}

// collectScript concatenates on_<name>___1, on_<name>___2, ... with
// EventSeparator (§4.5). Unknown event names are never collected here —
// the scheduler/dispatcher only fire enter/leave/refresh (§3).
func collectScript(m map[string]string, prefix, path, name string) (string, bool) {
	var parts []string
	for k := 1; ; k++ {
		key := fmt.Sprintf("%s___on_%s___%d", path, name, k)
		v, ok := m[prefix+key]
		if !ok {
			break
		}
		parts = append(parts, v)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, EventSeparator), true
}

func percent(m map[string]string, prefix, key string) (int, error) {
	raw, ok := m[prefix+key]
	if !ok {
		return 0, &LoadError{Path: key, Msg: "required field missing"}
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &LoadError{Path: key, Msg: "not a valid percentage"}
	}
	return n, nil
}

func stringField(m map[string]string, prefix, key, def string) string {
	if v, ok := m[prefix+key]; ok && v != "" {
		return v
	}
	return def
}

func boolField(m map[string]string, prefix, key string, def bool) bool {
	v, ok := m[prefix+key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
