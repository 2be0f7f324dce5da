package supervisor

import (
	"context"
	"errors"
	"testing"

	"github.com/jowharshamshiri/boxmux/internal/config"
	"github.com/jowharshamshiri/boxmux/internal/dispatch"
	"github.com/jowharshamshiri/boxmux/internal/render"
	"github.com/jowharshamshiri/boxmux/internal/runner"
	"github.com/jowharshamshiri/boxmux/internal/scheduler"
	"github.com/jowharshamshiri/boxmux/internal/store"
	"github.com/jowharshamshiri/boxmux/internal/terminal"
)

// fakeTerminal is a recording Terminal that never touches a real tty,
// so the cooperative loop can run under go test.
type fakeTerminal struct {
	cols, rows int
	sizeErr    error
	enterErr   error

	keys    []terminal.KeyEvent
	entered bool
	left    bool
}

func (f *fakeTerminal) Move(row, col int)      {}
func (f *fakeTerminal) SetFG(c terminal.Color) {}
func (f *fakeTerminal) Write(s string)         {}
func (f *fakeTerminal) Reset()                 {}
func (f *fakeTerminal) Flush() error           { return nil }
func (f *fakeTerminal) Enter() error           { f.entered = true; return f.enterErr }
func (f *fakeTerminal) Leave() error           { f.left = true; return nil }
func (f *fakeTerminal) Size() (int, int, error) { return f.cols, f.rows, f.sizeErr }

func (f *fakeTerminal) ReadInput(timeoutMs int) (terminal.KeyEvent, bool) {
	if len(f.keys) == 0 {
		return terminal.KeyEvent{}, false
	}
	ev := f.keys[0]
	f.keys = f.keys[1:]
	return ev, true
}

type fakeSource struct {
	doc map[string]string
	err error
}

func (f fakeSource) Load(path string) (map[string]string, error) { return f.doc, f.err }

type noRunner struct{}

func (noRunner) Run(ctx context.Context, command string) (runner.Result, error) {
	return runner.Result{}, nil
}

func s1Doc() map[string]string {
	return map[string]string{
		"layout___id":                     "L1",
		"layout___children___1___id":      "hello",
		"layout___children___1___position___x1": "0",
		"layout___children___1___position___y1": "0",
		"layout___children___1___position___x2": "100",
		"layout___children___1___position___y2": "100",
	}
}

func build(t *testing.T, term *fakeTerminal, doc map[string]string, sourceErr error) *Supervisor {
	t.Helper()
	s := store.New()
	loader := config.New(fakeSource{doc: doc, err: sourceErr}, s)
	engine := render.New(term)
	sch := scheduler.New(s)
	disp := dispatch.New(s, noRunner{}, nil)
	return New(term, s, loader, engine, sch, disp, nil)
}

func TestRunQuitsOnQ(t *testing.T) {
	term := &fakeTerminal{cols: 80, rows: 24, keys: []terminal.KeyEvent{{Key: terminal.KeyChar, Rune: 'q'}}}
	sp := build(t, term, s1Doc(), nil)

	if err := sp.Run("layout.yml", "L1"); err != nil {
		t.Fatalf("Run returned %v, want nil (graceful quit)", err)
	}
	if !term.entered || !term.left {
		t.Error("expected terminal Enter and Leave to both run")
	}
}

func TestRunReturnsConfigErrorWithoutEnteringTerminal(t *testing.T) {
	term := &fakeTerminal{cols: 80, rows: 24}
	sp := build(t, term, nil, errors.New("boom"))

	err := sp.Run("layout.yml", "L1")
	var loadErr *config.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *config.LoadError", err)
	}
	if term.entered {
		t.Error("config errors must never enter the terminal (§7)")
	}
}

func TestRunReturnsExitErrorForUnknownLayoutID(t *testing.T) {
	term := &fakeTerminal{cols: 80, rows: 24}
	sp := build(t, term, s1Doc(), nil)

	err := sp.Run("layout.yml", "nonexistent")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 2 {
		t.Fatalf("err = %v, want *ExitError{Code: 2}", err)
	}
	if term.entered {
		t.Error("an unknown layout id must not enter the terminal")
	}
}

func TestRunReturnsExitErrorOnSizeFailure(t *testing.T) {
	term := &fakeTerminal{sizeErr: errors.New("ioctl failed")}
	sp := build(t, term, s1Doc(), nil)

	err := sp.Run("layout.yml", "L1")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 2 {
		t.Fatalf("err = %v, want *ExitError{Code: 2}", err)
	}
	if !term.left {
		t.Error("a post-Enter failure must still leave the terminal")
	}
}
