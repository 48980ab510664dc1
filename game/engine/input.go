package engine

import "fmt"

// Key is a recognized input key. Anything the input layer cannot map is KeyNone.
type Key int

const (
	KeyNone Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
)

// String returns the key identifier as sent by clients
func (k Key) String() string {
	switch k {
	case KeyArrowUp:
		return "ArrowUp"
	case KeyArrowDown:
		return "ArrowDown"
	case KeyArrowLeft:
		return "ArrowLeft"
	case KeyArrowRight:
		return "ArrowRight"
	case KeyNone:
		return "None"
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// ParseKey maps a key identifier to a Key. Only the four arrow identifiers
// are recognized; everything else reports false.
func ParseKey(name string) (Key, bool) {
	switch name {
	case "ArrowUp":
		return KeyArrowUp, true
	case "ArrowDown":
		return KeyArrowDown, true
	case "ArrowLeft":
		return KeyArrowLeft, true
	case "ArrowRight":
		return KeyArrowRight, true
	}
	return KeyNone, false
}

// MapKey returns the heading requested by a directional key
func MapKey(k Key) (Heading, bool) {
	switch k {
	case KeyArrowUp:
		return HeadingUp, true
	case KeyArrowDown:
		return HeadingDown, true
	case KeyArrowLeft:
		return HeadingLeft, true
	case KeyArrowRight:
		return HeadingRight, true
	case KeyNone:
		return HeadingRight, false
	}
	return HeadingRight, false
}

// ApplyKey returns the heading slot value after a key event. The slot is left
// unchanged for non-directional keys and for a request to reverse; any other
// direction, including the current one, is accepted.
func ApplyKey(current Heading, k Key) (Heading, bool) {
	requested, ok := MapKey(k)
	if !ok {
		return current, false
	}
	if requested == current.Opposite() {
		return current, false
	}
	return requested, true
}
