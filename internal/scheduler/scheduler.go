// Package scheduler implements the Refresh Scheduler (§4.6): per-box
// refresh cadence, cascade-subtracted phase bookkeeping, and the
// modular tick-firing rule. There is no teacher precedent for this
// component (the teacher is a render library, not a scheduler) — it is
// built directly from spec.md's description.
package scheduler

import (
	"sort"

	"github.com/jowharshamshiri/boxmux/internal/store"
)

// Scheduler evaluates refresh firing for one layout's boxes.
type Scheduler struct {
	Store *store.Store
}

// New constructs a Scheduler over s.
func New(s *store.Store) *Scheduler {
	return &Scheduler{Store: s}
}

// ComputePhases performs the cascade-subtraction pass (§4.6, §GLOSSARY):
// sort boxes by interval ascending, then replace each element with the
// gap to its predecessor in that sorted order (the first keeps its
// original interval). The result is stored per box as "gap_seconds",
// auxiliary bookkeeping only — the firing predicate in Fire never reads
// it (§4.6's resolution of the §9 open question: modular semantics,
// original intervals preserved).
func (sch *Scheduler) ComputePhases(layoutHandle string) {
	boxes := sch.Store.ListByProp(store.KindBox, "layout_id", layoutHandle)

	sorted := make([]string, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sch.interval(sorted[i]) < sch.interval(sorted[j])
	})

	var prev int
	for i, box := range sorted {
		interval := sch.interval(box)
		gap := interval
		if i > 0 {
			gap = interval - prev
		}
		sch.Store.SetProp(store.KindBox, box, "gap_seconds", gap)
		prev = interval
	}
}

func (sch *Scheduler) interval(box string) int {
	v, ok := sch.Store.GetProp(store.KindBox, box, "interval")
	if !ok {
		return 1
	}
	n, _ := v.(int)
	if n <= 0 {
		return 1
	}
	return n
}

// Fire returns the handles of every box in layoutHandle whose interval
// divides now (epoch seconds), in declaration (insertion) order — the
// order their refresh handlers must run in and be redrawn in (§4.6,
// §5).
func (sch *Scheduler) Fire(layoutHandle string, now int64) []string {
	boxes := sch.Store.ListByProp(store.KindBox, "layout_id", layoutHandle)
	var out []string
	for _, box := range boxes {
		interval := sch.interval(box)
		if now%int64(interval) == 0 {
			out = append(out, box)
		}
	}
	return out
}
