package enums

import "fmt"

// Note is a MIDI note number. Key ranges and unity keys in bank data use
// the full 0..127 range; out-of-range values survive only in banks that
// would already have been rejected.
type Note int

var noteName = []string{
	"C",
	"C#",
	"D",
	"D#",
	"E",
	"F",
	"F#",
	"G",
	"G#",
	"A",
	"A#",
	"B",
}

func (n Note) String() string {
	return fmt.Sprintf("%s(%d)", n.Name(), int(n))
}

func (n Note) Name() string {
	i := int(n)
	if i < 0 || 128 <= i {
		return "?"
	}
	return fmt.Sprintf("%s%d", noteName[i%12], i/12-1)
}
