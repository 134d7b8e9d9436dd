package enums

import "testing"

func TestNoteName(t *testing.T) {
	cases := map[Note]string{
		0:   "C-1",
		60:  "C4",
		69:  "A4",
		127: "G9",
		128: "?",
	}
	for n, want := range cases {
		if got := n.Name(); got != want {
			t.Errorf("note %d: expected %q, got %q", int(n), want, got)
		}
	}
	if got := Note(60).String(); got != "C4(60)" {
		t.Errorf("String: got %q", got)
	}
}

func TestPanString(t *testing.T) {
	cases := map[Pan]string{
		0x40: "C",
		0x00: "L64",
		0x3F: "L1",
		0x41: "R1",
		0x7F: "R63",
		200:  "?(200)",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("pan %d: expected %q, got %q", int(p), want, got)
		}
	}
}

func TestPlatformString(t *testing.T) {
	if got := Platform_PS1.String(); got != "Playstation(0x01)" {
		t.Errorf("PS1: got %q", got)
	}
	if got := Platform(0x99).String(); got != "unknown(0x99)" {
		t.Errorf("unknown: got %q", got)
	}
	j, err := Platform_QSound.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(j) != `"QSound(0x41)"` {
		t.Errorf("json: got %s", j)
	}
}
