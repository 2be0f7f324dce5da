// Package supervisor implements the Lifecycle Supervisor (§4.8):
// startup ordering, signal handling, and guaranteed terminal teardown.
// The panic-safe defer around the event loop and the resize-triggers-
// full-redraw handling are grounded in spec.md §4.1's teardown
// guarantee; there is no teacher precedent for signal-driven resize (the
// teacher never installs a WINCH handler) so that wiring is built
// directly from spec.md.
package supervisor

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jowharshamshiri/boxmux/internal/config"
	"github.com/jowharshamshiri/boxmux/internal/dispatch"
	"github.com/jowharshamshiri/boxmux/internal/geometry"
	"github.com/jowharshamshiri/boxmux/internal/render"
	"github.com/jowharshamshiri/boxmux/internal/scheduler"
	"github.com/jowharshamshiri/boxmux/internal/store"
	"github.com/jowharshamshiri/boxmux/internal/terminal"
)

// pollTimeoutMs bounds how long one ReadInput call may block, so signal
// delivery and scheduler ticks are never starved by a quiet keyboard
// (§5, "suspension points: input poll ... pacing between ticks").
const pollTimeoutMs = 50

// Terminal is the subset of *terminal.Driver the Supervisor owns
// directly (beyond the render.Surface the Engine holds).
type Terminal interface {
	render.Surface
	Enter() error
	Leave() error
	Size() (cols, rows int, err error)
	ReadInput(timeoutMs int) (terminal.KeyEvent, bool)
}

// ExitError carries the process exit code for a startup or terminal I/O
// failure (§6, §7). The Supervisor builds it only with code 2;
// configuration errors are returned as *config.LoadError instead.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Supervisor owns the process lifecycle: terminal enter/leave, the
// configuration load, and the cooperative event loop.
type Supervisor struct {
	Term       Terminal
	Store      *store.Store
	Loader     *config.Loader
	Engine     *render.Engine
	Scheduler  *scheduler.Scheduler
	Dispatcher *dispatch.Dispatcher
	Log        *logrus.Logger

	layoutHandle string
}

// New wires a Supervisor out of already-constructed components.
func New(term Terminal, s *store.Store, loader *config.Loader, engine *render.Engine, sch *scheduler.Scheduler, disp *dispatch.Dispatcher, log *logrus.Logger) *Supervisor {
	return &Supervisor{Term: term, Store: s, Loader: loader, Engine: engine, Scheduler: sch, Dispatcher: disp, Log: log}
}

// Run loads configPath, starts layoutID, and blocks in the event loop
// until 'q' or SIGINT (§4.8). Configuration errors never enter the
// terminal (§7) and are returned as *config.LoadError. Terminal errors
// and the "layout id not found" startup error are returned as
// *ExitError with code 2.
func (sp *Supervisor) Run(configPath, layoutID string) error {
	layoutHandle, err := sp.Loader.Load(configPath)
	if err != nil {
		return err // *config.LoadError, exit 1 — never entered the terminal.
	}

	id, _ := sp.Store.GetProp(store.KindLayout, layoutHandle, "id")
	if id != layoutID {
		return &ExitError{Code: 2, Err: fmt.Errorf("supervisor: layout %q not found in %s", layoutID, configPath)}
	}
	sp.layoutHandle = layoutHandle

	if err := sp.Term.Enter(); err != nil {
		return &ExitError{Code: 2, Err: err}
	}
	defer func() {
		if err := sp.Term.Leave(); err != nil && sp.Log != nil {
			sp.Log.WithError(err).Error("terminal teardown failed")
		}
	}()

	// §4.1: leave() MUST run on every exit path, including panics.
	defer func() {
		if r := recover(); r != nil {
			_ = sp.Term.Leave()
			panic(r)
		}
	}()

	sp.Scheduler.ComputePhases(sp.layoutHandle)
	sp.Dispatcher.SetLayout(sp.layoutHandle)

	if err := sp.resolveAndRedraw(); err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH, syscall.SIGINT)
	defer signal.Stop(sigCh)

	return sp.loop(sigCh)
}

func (sp *Supervisor) resolveAndRedraw() error {
	cols, rows, err := sp.Term.Size()
	if err != nil {
		return err
	}
	if err := geometry.Resolve(sp.Store, sp.layoutHandle, cols, rows); err != nil {
		return err
	}
	sp.Engine.DrawFull(sp.Store, sp.layoutHandle, sp.Dispatcher.Focus())
	return nil
}

// loop is the single-threaded cooperative core (§5): poll input with a
// short timeout, service a pending resize signal, evaluate the
// scheduler at most once per wall-clock second, repeat.
func (sp *Supervisor) loop(sigCh <-chan os.Signal) error {
	var lastSecond int64 = -1

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGWINCH:
				if err := sp.resolveAndRedraw(); err != nil {
					return &ExitError{Code: 2, Err: err}
				}
			case syscall.SIGINT:
				return nil
			}
		default:
		}

		if ev, ok := sp.Term.ReadInput(pollTimeoutMs); ok {
			redraw, quit := sp.Dispatcher.HandleKey(ev)
			if quit {
				return nil
			}
			sp.redrawBoxes(redraw)
		}

		now := time.Now().Unix()
		if now != lastSecond {
			lastSecond = now
			for _, box := range sp.Scheduler.Fire(sp.layoutHandle, now) {
				if sp.Dispatcher.RunRefresh(box) {
					sp.Engine.DrawBox(sp.Store, box, box == sp.Dispatcher.Focus())
				}
			}
		}
	}
}

func (sp *Supervisor) redrawBoxes(boxes []string) {
	focus := sp.Dispatcher.Focus()
	for _, b := range boxes {
		sp.Engine.DrawBox(sp.Store, b, b == focus)
	}
}
