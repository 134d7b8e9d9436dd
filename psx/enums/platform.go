package enums

import (
	"encoding/json"
	"fmt"
)

// Platform identifies the system a sound container targets. The value is
// the version byte that follows the "PSF" signature.
type Platform int

const (
	Platform_PS1       Platform = 0x01
	Platform_PS2       Platform = 0x02
	Platform_Saturn    Platform = 0x11
	Platform_Dreamcast Platform = 0x12
	Platform_Genesis   Platform = 0x13
	Platform_N64       Platform = 0x21
	Platform_GBA       Platform = 0x22
	Platform_SNES      Platform = 0x23
	Platform_DS        Platform = 0x24
	Platform_QSound    Platform = 0x41
)

func (p Platform) String() string {
	s := "unknown"
	switch p {
	case Platform_PS1:
		s = "Playstation"
	case Platform_PS2:
		s = "Playstation 2"
	case Platform_Saturn:
		s = "Saturn"
	case Platform_Dreamcast:
		s = "Dreamcast"
	case Platform_Genesis:
		s = "Genesis"
	case Platform_N64:
		s = "Nintendo 64"
	case Platform_GBA:
		s = "Game Boy Advance"
	case Platform_SNES:
		s = "Super NES"
	case Platform_DS:
		s = "Nintendo DS"
	case Platform_QSound:
		s = "QSound"
	}
	return fmt.Sprintf("%s(0x%02X)", s, int(p))
}

func (p Platform) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
