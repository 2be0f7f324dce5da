// Package dispatch implements the Event Dispatcher (§4.7): focus
// traversal over selectable boxes, and refresh-event execution that
// turns a BoxEvent's stored script into a box's body text. There is no
// teacher precedent for either concern (the teacher never runs
// subprocesses or models focus) — both are built directly from
// spec.md's description, reusing the Runner and Store contracts.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jowharshamshiri/boxmux/internal/config"
	"github.com/jowharshamshiri/boxmux/internal/render"
	"github.com/jowharshamshiri/boxmux/internal/runner"
	"github.com/jowharshamshiri/boxmux/internal/store"
	"github.com/jowharshamshiri/boxmux/internal/terminal"
)

// Dispatcher holds input-loop state for one running layout: which box
// is focused and the cached selectable set.
type Dispatcher struct {
	Store  *store.Store
	Runner runner.Runner
	Log    *logrus.Logger

	layoutHandle string
	focus        string
	selectable   []string
}

// New constructs a Dispatcher. Log may be nil, in which case a disabled
// logger is used.
func New(s *store.Store, run runner.Runner, log *logrus.Logger) *Dispatcher {
	if log == nil {
		log = logrus.New()
		log.SetOutput(nilWriter{})
	}
	return &Dispatcher{Store: s, Runner: run, Log: log}
}

// SetLayout points the Dispatcher at a (newly loaded or reloaded)
// layout and recomputes the selectable set (§4.7, §4.8).
func (d *Dispatcher) SetLayout(layoutHandle string) {
	d.layoutHandle = layoutHandle
	d.refreshSelectable()
}

// HandleKey dispatches one decoded key event. It returns the box
// handles that need redrawing (old and new focus on a focus change) and
// whether the caller should begin a graceful shutdown (§4.7: 'q' quits,
// every other key is a no-op beyond focus movement).
func (d *Dispatcher) HandleKey(ev terminal.KeyEvent) (redraw []string, quit bool) {
	switch ev.Key {
	case terminal.KeyArrowUp, terminal.KeyArrowLeft:
		old, new, changed := d.FocusPrev()
		if changed {
			return []string{old, new}, false
		}
		return nil, false
	case terminal.KeyArrowDown, terminal.KeyArrowRight:
		old, new, changed := d.FocusNext()
		if changed {
			return []string{old, new}, false
		}
		return nil, false
	case terminal.KeyChar:
		if ev.Rune == 'q' {
			return nil, true
		}
	}
	return nil, false
}

// RunRefresh executes box's stored "refresh" BoxEvent, if any, and
// assigns the concatenated stdout to the box's body (§4.7, §6). It
// reports whether the body changed and therefore needs a redraw.
//
// A box with no refresh event is a no-op. Commands run sequentially
// regardless of individual exit codes (§5). A Runner error — the
// command failing to start, timing out, or exiting non-zero — is
// logged at debug with the box id and exit code/timeout fields, and
// the box keeps its last good body text; the script's captured stdout
// is only applied to the body when every command in it exited 0 (§7).
// A box whose body is still empty gets the single line
// "[refresh failed: <reason>]" instead.
func (d *Dispatcher) RunRefresh(box string) bool {
	events := d.Store.ListByProps(store.KindEvent, "box_id", box, "name", "refresh")
	if len(events) == 0 {
		return false
	}
	script, _ := d.Store.GetProp(store.KindEvent, events[len(events)-1], "script")
	raw, _ := script.(string)
	if raw == "" {
		return false
	}

	commands := strings.Split(raw, config.EventSeparator)
	var parts []string
	var failed bool
	var failReason string
	for _, cmd := range commands {
		res, err := d.Runner.Run(context.Background(), cmd)
		if err != nil {
			failed = true
			failReason = err.Error()
			d.Log.WithError(err).WithField("box", box).Debug("refresh command failed to start")
			continue
		}
		if res.TimedOut {
			failed = true
			failReason = "timed out"
			d.Log.WithField("box", box).Debug("refresh command timed out")
			continue
		}
		if res.ExitCode != 0 {
			failed = true
			failReason = fmt.Sprintf("exit code %d", res.ExitCode)
			d.Log.WithField("box", box).WithField("exit_code", res.ExitCode).Debug("refresh command exited non-zero")
			continue
		}
		parts = append(parts, res.Stdout)
	}

	prevBody := bodyOf(d.Store, box)

	if failed {
		if prevBody == "" {
			d.Store.SetProp(store.KindBox, box, render.PropBody, "[refresh failed: "+failReason+"]")
			return true
		}
		return false
	}

	combined := strings.Join(parts, "\n")
	if combined == "" {
		// Empty stdout leaves the body unchanged, never blanks it (§8).
		return false
	}
	d.Store.SetProp(store.KindBox, box, render.PropBody, combined)
	return true
}

func bodyOf(s *store.Store, box string) string {
	v, _ := s.GetProp(store.KindBox, box, render.PropBody)
	str, _ := v.(string)
	return str
}

type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }
