// Package terminal implements the Terminal Driver (§4.1): alternate-screen
// lifecycle, raw mode, cursor/color primitives, and a non-blocking timed
// key reader. It owns the terminal as a process-wide singleton — only one
// Driver should ever be entered at a time.
package terminal

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/term"
)

// Bit-exact ANSI sequences required by §6.
const (
	seqEnter   = "\x1b[?1049h\x1b[?7l\x1b[?25l\x1b[2J"
	seqRestore = "\x1b[?7h\x1b[?25h\x1b[2J\x1b[;r\x1b[?1049l"
)

// Driver is the Terminal Driver. It is not safe for concurrent use —
// §5 mandates a single-threaded, single-writer core.
type Driver struct {
	out      *bufio.Writer
	oldState *term.State
	entered  bool

	rawCh chan byte
	done  chan struct{}

	posBuf []byte
}

// New constructs a Driver over stdin/stdout. It performs no I/O.
func New() *Driver {
	return &Driver{
		out:    bufio.NewWriterSize(os.Stdout, 32*1024),
		posBuf: make([]byte, 0, 32),
	}
}

// Enter switches to the alternate screen, disables line wrap, hides the
// cursor, clears, and puts stdin into raw mode (§4.1).
func (d *Driver) Enter() error {
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("terminal: enable raw mode: %w", err)
	}
	d.oldState = oldState

	d.out.WriteString(seqEnter)
	if err := d.out.Flush(); err != nil {
		_ = term.Restore(int(os.Stdin.Fd()), d.oldState)
		return fmt.Errorf("terminal: write enter sequence: %w", err)
	}

	d.rawCh = make(chan byte, 256)
	d.done = make(chan struct{})
	go readRawBytes(d.rawCh, d.done)

	d.entered = true
	return nil
}

// Leave restores wrap, cursor, main buffer, and canonical input mode. It
// MUST run on every exit path (§4.1) — it is safe to call multiple times
// and safe to call even if Enter partially failed.
func (d *Driver) Leave() error {
	if !d.entered {
		return nil
	}
	d.entered = false

	if d.done != nil {
		close(d.done)
	}

	d.out.WriteString(seqRestore)
	flushErr := d.out.Flush()

	var restoreErr error
	if d.oldState != nil {
		restoreErr = term.Restore(int(os.Stdin.Fd()), d.oldState)
	}

	if flushErr != nil {
		return fmt.Errorf("terminal: write restore sequence: %w", flushErr)
	}
	if restoreErr != nil {
		return fmt.Errorf("terminal: restore raw mode: %w", restoreErr)
	}
	return nil
}

// Size queries the current terminal size in cells.
func (d *Driver) Size() (cols, rows int, err error) {
	cols, rows, err = term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("terminal: get size: %w", err)
	}
	return cols, rows, nil
}

// Move positions the cursor. Coordinates are 1-based (§4.1).
func (d *Driver) Move(row, col int) {
	d.posBuf = d.posBuf[:0]
	d.posBuf = append(d.posBuf, '\x1b', '[')
	d.posBuf = strconv.AppendInt(d.posBuf, int64(row), 10)
	d.posBuf = append(d.posBuf, ';')
	d.posBuf = strconv.AppendInt(d.posBuf, int64(col), 10)
	d.posBuf = append(d.posBuf, 'H')
	d.out.Write(d.posBuf)
}

// SetFG emits the foreground color escape for c, if any.
func (d *Driver) SetFG(c Color) {
	if code := c.FGCode(); code != "" {
		d.out.WriteString(code)
	}
}

// SetBG emits the background color escape for c, if any.
func (d *Driver) SetBG(c Color) {
	if code := c.BGCode(); code != "" {
		d.out.WriteString(code)
	}
}

// Reset emits the SGR reset sequence.
func (d *Driver) Reset() {
	d.out.WriteString(Reset)
}

// Write emits literal cell content.
func (d *Driver) Write(s string) {
	d.out.WriteString(s)
}

// Flush forces buffered output to the terminal.
func (d *Driver) Flush() error {
	return d.out.Flush()
}

// ReadInput performs a non-blocking read of at most one key event.
// timeoutMs of zero returns immediately. A bare ESC decays to the escape
// key only if no follow-up byte arrives within 50ms (§4.1).
func (d *Driver) ReadInput(timeoutMs int) (KeyEvent, bool) {
	if d.rawCh == nil {
		return KeyEvent{}, false
	}
	b, ok := readByteTimeout(d.rawCh, timeoutMs)
	if !ok {
		return KeyEvent{}, false
	}
	if b == 0x1b {
		return decodeEscape(d.rawCh)
	}
	return decodeChar(b), true
}
