package terminal

import "testing"

func feed(bytes ...byte) chan byte {
	ch := make(chan byte, len(bytes))
	for _, b := range bytes {
		ch <- b
	}
	return ch
}

func TestDecodeCharRegular(t *testing.T) {
	ev := decodeChar('a')
	if ev.Key != KeyChar || ev.Rune != 'a' {
		t.Errorf("decodeChar('a') = %+v", ev)
	}
}

func TestDecodeCharEnter(t *testing.T) {
	ev := decodeChar(0x0d)
	if ev.Key != KeyEnter {
		t.Errorf("decodeChar(CR) = %+v, want KeyEnter", ev)
	}
}

func TestDecodeEscapeArrows(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  Key
	}{
		{[]byte{'[', 'A'}, KeyArrowUp},
		{[]byte{'[', 'B'}, KeyArrowDown},
		{[]byte{'[', 'C'}, KeyArrowRight},
		{[]byte{'[', 'D'}, KeyArrowLeft},
		{[]byte{'O', 'A'}, KeyArrowUp},
		{[]byte{'O', 'D'}, KeyArrowLeft},
	}
	for _, c := range cases {
		ev, ok := decodeEscape(feed(c.bytes...))
		if !ok || ev.Key != c.want {
			t.Errorf("decodeEscape(%v) = %+v, ok=%v, want %v", c.bytes, ev, ok, c.want)
		}
	}
}

func TestDecodeEscapeBareTimesOut(t *testing.T) {
	ev, ok := decodeEscape(make(chan byte))
	if !ok || ev.Key != KeyEsc {
		t.Errorf("decodeEscape(no follow-up) = %+v, ok=%v, want KeyEsc", ev, ok)
	}
}

func TestDecodeEscapeAltChar(t *testing.T) {
	ev, ok := decodeEscape(feed('x'))
	if !ok || ev.Key != KeyChar || ev.Rune != 'x' {
		t.Errorf("decodeEscape(ESC x) = %+v, ok=%v", ev, ok)
	}
}
