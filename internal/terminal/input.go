package terminal

import (
	"bufio"
	"os"
	"time"
)

// escTimeout is how long ReadInput waits for a CSI/SS3 follow-up byte
// before deciding a lone ESC was pressed (§4.1).
const escTimeout = 50 * time.Millisecond

// readRawBytes is the single goroutine allowed to touch stdin's reader.
// It runs for the lifetime of one Enter/Leave cycle, pushing raw bytes
// onto rawCh until done is closed, adapted from the teacher's
// single-reader-goroutine discipline in tui/input.go.
func readRawBytes(rawCh chan<- byte, done <-chan struct{}) {
	reader := bufio.NewReader(os.Stdin)
	inner := make(chan byte, 256)

	go func() {
		for {
			b, err := reader.ReadByte()
			if err != nil {
				close(inner)
				return
			}
			inner <- b
		}
	}()

	for {
		select {
		case <-done:
			return
		case b, ok := <-inner:
			if !ok {
				return
			}
			select {
			case rawCh <- b:
			case <-done:
				return
			}
		}
	}
}

// readByteTimeout waits up to timeoutMs for a byte on ch.
func readByteTimeout(ch <-chan byte, timeoutMs int) (byte, bool) {
	if timeoutMs <= 0 {
		select {
		case b, ok := <-ch:
			return b, ok
		default:
			return 0, false
		}
	}
	select {
	case b, ok := <-ch:
		return b, ok
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		return 0, false
	}
}

// decodeChar turns a single non-ESC byte into a key event.
func decodeChar(b byte) KeyEvent {
	switch b {
	case 0x0d:
		return KeyEvent{Key: KeyEnter}
	default:
		return KeyEvent{Key: KeyChar, Rune: rune(b)}
	}
}

// decodeEscape handles the byte(s) following a lone ESC: CSI ('['),
// SS3 ('O'), or a timeout that resolves to the plain escape key (§4.1).
func decodeEscape(rawCh <-chan byte) (KeyEvent, bool) {
	b, ok := readByteTimeout(rawCh, int(escTimeout/time.Millisecond))
	if !ok {
		return KeyEvent{Key: KeyEsc}, true
	}
	switch b {
	case '[':
		return decodeCSI(rawCh)
	case 'O':
		return decodeSS3(rawCh)
	default:
		return KeyEvent{Key: KeyChar, Rune: rune(b)}, true
	}
}

func decodeCSI(rawCh <-chan byte) (KeyEvent, bool) {
	b, ok := readByteTimeout(rawCh, int(escTimeout/time.Millisecond))
	if !ok {
		return KeyEvent{Key: KeyEsc}, true
	}
	switch b {
	case 'A':
		return KeyEvent{Key: KeyArrowUp}, true
	case 'B':
		return KeyEvent{Key: KeyArrowDown}, true
	case 'C':
		return KeyEvent{Key: KeyArrowRight}, true
	case 'D':
		return KeyEvent{Key: KeyArrowLeft}, true
	default:
		// Unrecognized CSI final byte (or parameter bytes we don't
		// decode further): drain nothing extra, report as escape.
		return KeyEvent{Key: KeyEsc}, true
	}
}

func decodeSS3(rawCh <-chan byte) (KeyEvent, bool) {
	b, ok := readByteTimeout(rawCh, int(escTimeout/time.Millisecond))
	if !ok {
		return KeyEvent{Key: KeyEsc}, true
	}
	switch b {
	case 'A':
		return KeyEvent{Key: KeyArrowUp}, true
	case 'B':
		return KeyEvent{Key: KeyArrowDown}, true
	case 'C':
		return KeyEvent{Key: KeyArrowRight}, true
	case 'D':
		return KeyEvent{Key: KeyArrowLeft}, true
	default:
		return KeyEvent{Key: KeyEsc}, true
	}
}
