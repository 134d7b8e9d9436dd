package enums

import "fmt"

// Pan is a 0..127 stereo position, 0x40 center.
type Pan int

const Pan_Center Pan = 0x40

func (p Pan) String() string {
	v := int(p)
	switch {
	case v == 0x40:
		return "C"
	case 0 <= v && v < 0x40:
		return fmt.Sprintf("L%d", 0x40-v)
	case 0x40 < v && v < 128:
		return fmt.Sprintf("R%d", v-0x40)
	}
	return fmt.Sprintf("?(%d)", v)
}
