package terminal

// Key identifies a decoded key event.
type Key int

const (
	KeyNone Key = iota
	KeyChar
	KeyEnter
	KeyEsc
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
)

// KeyEvent is a single decoded keyboard event. Rune is only meaningful
// when Key is KeyChar.
type KeyEvent struct {
	Key  Key
	Rune rune
}
