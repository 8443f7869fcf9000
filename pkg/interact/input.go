package interact

// Button is a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in f is held.
func (m Modifiers) Has(f Modifiers) bool { return m&f == f }

// Pointer is a pointer event in screen coordinates.
type Pointer struct {
	X, Y   float64
	Button Button
	Mods   Modifiers
}

// Key identifies a non-character key.
type Key int

const (
	KeyRune Key = iota
	KeyDelete
	KeyBackspace
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// KeyEvent is a key press. Rune is set for KeyRune.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifiers
}
