// Package store implements the Layout Store (§4.4): an in-memory
// entity/attribute model for layouts, boxes, and box events. It is the
// single source of truth for the rest of the engine — every other
// component reads and writes through it (§4.4, §5). It is not safe for
// concurrent use: §5 mandates a single-writer, single-threaded core.
package store

import "github.com/jowharshamshiri/boxmux/internal/idgen"

// Kind identifies the entity table a handle belongs to.
type Kind string

const (
	KindLayout Kind = "layout"
	KindBox    Kind = "box"
	KindEvent  Kind = "event"
)

// entity is one row: an untyped property bag.
type entity struct {
	handle string
	props  map[string]any
}

// Store is the Layout Store.
type Store struct {
	tables map[Kind]*table
}

type table struct {
	byHandle map[string]*entity
	order    []string // insertion order, for deterministic list_by_prop
}

func newTable() *table {
	return &table{byHandle: make(map[string]*entity)}
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		tables: map[Kind]*table{
			KindLayout: newTable(),
			KindBox:    newTable(),
			KindEvent:  newTable(),
		},
	}
}

func (s *Store) create(kind Kind) string {
	h := idgen.Handle()
	t := s.tables[kind]
	t.byHandle[h] = &entity{handle: h, props: make(map[string]any)}
	t.order = append(t.order, h)
	return h
}

// NewLayout creates a fresh Layout row and returns its handle.
func (s *Store) NewLayout() string { return s.create(KindLayout) }

// NewBox creates a fresh Box row owned by the given layout handle and
// returns its handle. The caller is responsible for setting the
// "layout_id" and "parent_id" properties (§3).
func (s *Store) NewBox(layoutHandle string) string { return s.create(KindBox) }

// NewEvent creates a fresh BoxEvent row owned by the given box handle and
// returns its handle. The caller is responsible for setting the
// "box_id" property.
func (s *Store) NewEvent(boxHandle string) string { return s.create(KindEvent) }

// SetProp sets an untyped property on entity.
func (s *Store) SetProp(kind Kind, handle, key string, value any) {
	t := s.tables[kind]
	e, ok := t.byHandle[handle]
	if !ok {
		return
	}
	e.props[key] = value
}

// GetProp reads an untyped property from entity, returning (nil, false)
// if the entity or the key does not exist.
func (s *Store) GetProp(kind Kind, handle, key string) (any, bool) {
	t := s.tables[kind]
	e, ok := t.byHandle[handle]
	if !ok {
		return nil, false
	}
	v, ok := e.props[key]
	return v, ok
}

// ListByProp returns all handles of kind whose key property equals
// value, in insertion order.
func (s *Store) ListByProp(kind Kind, key string, value any) []string {
	t := s.tables[kind]
	var out []string
	for _, h := range t.order {
		e, ok := t.byHandle[h]
		if !ok {
			continue
		}
		if v, ok := e.props[key]; ok && v == value {
			out = append(out, h)
		}
	}
	return out
}

// ListByProps returns all handles of kind whose two named properties
// both equal their paired values (conjunction), in insertion order.
func (s *Store) ListByProps(kind Kind, k1 string, v1 any, k2 string, v2 any) []string {
	t := s.tables[kind]
	var out []string
	for _, h := range t.order {
		e, ok := t.byHandle[h]
		if !ok {
			continue
		}
		a, ok1 := e.props[k1]
		b, ok2 := e.props[k2]
		if ok1 && ok2 && a == v1 && b == v2 {
			out = append(out, h)
		}
	}
	return out
}

// All returns every handle of kind, in insertion order.
func (s *Store) All(kind Kind) []string {
	t := s.tables[kind]
	out := make([]string, 0, len(t.order))
	for _, h := range t.order {
		if _, ok := t.byHandle[h]; ok {
			out = append(out, h)
		}
	}
	return out
}

// Exists reports whether handle is a live row of kind.
func (s *Store) Exists(kind Kind, handle string) bool {
	t := s.tables[kind]
	_, ok := t.byHandle[handle]
	return ok
}

// Delete removes a single entity. The handle's slot in the order slice
// is left as a tombstone (skipped by iteration) rather than compacted,
// so concurrent iteration never needs to reason about shifting indices.
func (s *Store) Delete(kind Kind, handle string) {
	delete(s.tables[kind].byHandle, handle)
}

// DeleteByProp deletes every entity of kind whose key property equals
// value, returning the handles that were removed.
func (s *Store) DeleteByProp(kind Kind, key string, value any) []string {
	handles := s.ListByProp(kind, key, value)
	for _, h := range handles {
		s.Delete(kind, h)
	}
	return handles
}
