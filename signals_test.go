package crossing

import (
	"errors"
	"strings"
	"testing"
)

func TestLampSet_Conflicts(t *testing.T) {
	testCases := []struct {
		name     string
		lit      []Lamp
		conflict string
	}{
		{"safe", []Lamp{LampNSGreen, LampEWRed, LampPedRed}, ""},
		{"all red", []Lamp{LampNSRed, LampEWRed, LampPedRed}, ""},
		{"two greens", []Lamp{LampNSGreen, LampEWGreen}, "both vehicle greens"},
		{"green and yellow", []Lamp{LampNSGreen, LampEWYellow}, "both approaches released"},
		{"red and green", []Lamp{LampNSRed, LampNSGreen}, "NS head shows 2 colors"},
		{"walk with green", []Lamp{LampEWGreen, LampNSRed, LampPedGreen}, "walk asserted"},
		{"ped both", []Lamp{LampPedGreen, LampPedRed}, "pedestrian head"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var lamps LampSet
			for _, l := range tc.lit {
				_ = lamps.SetLamp(l, true)
			}
			conflicts := strings.Join(lamps.Conflicts(), "; ")
			if tc.conflict == "" && conflicts != "" {
				t.Errorf("Expected no conflicts, got %s", conflicts)
			}
			if tc.conflict != "" && !strings.Contains(conflicts, tc.conflict) {
				t.Errorf("Expected %q in %q", tc.conflict, conflicts)
			}
		})
	}
}

func TestLampSet_UnknownLamp(t *testing.T) {
	var lamps LampSet
	if err := lamps.SetLamp(Lamp(99), true); err == nil {
		t.Error("Expected unknown lamp to be rejected")
	}
	if lamps.On(Lamp(-1)) {
		t.Error("Expected unknown lamp to read as off")
	}
}

func TestLampDriver_Sequences(t *testing.T) {
	out := &RecordingOutput{}
	d := lampDriver{out: out}

	steps := []struct {
		name string
		run  func() error
		lit  []Lamp
	}{
		{"all red", d.dontWalk, []Lamp{LampNSRed, LampEWRed, LampPedRed}},
		{"NS green", func() error { return d.release(NorthSouth, false) }, []Lamp{LampNSGreen, LampEWRed, LampPedRed}},
		{"NS yellow", func() error { return d.release(NorthSouth, true) }, []Lamp{LampNSYellow, LampEWRed, LampPedRed}},
		{"walk", d.walk, []Lamp{LampNSRed, LampEWRed, LampPedGreen}},
		{"dont walk", d.dontWalk, []Lamp{LampNSRed, LampEWRed, LampPedRed}},
		{"EW green", func() error { return d.release(EastWest, false) }, []Lamp{LampNSRed, LampEWGreen, LampPedRed}},
		{"EW yellow", func() error { return d.release(EastWest, true) }, []Lamp{LampNSRed, LampEWYellow, LampPedRed}},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: unexpected error %v", step.name, err)
		}
		AssertLamps(t, &out.LampSet, step.lit...)
	}
	AssertNoViolations(t, out)
}

func TestLampDriver_Error(t *testing.T) {
	out := &RecordingOutput{Err: ErrTestIO}
	err := lampDriver{out: out}.walk()

	if !errors.Is(err, ErrTestIO) {
		t.Fatalf("Expected wrapped output error, got %v", err)
	}
	if !strings.Contains(err.Error(), "NS_GREEN") {
		t.Errorf("Expected failing lamp in %q", err.Error())
	}
}

func TestLampSet_String(t *testing.T) {
	var lamps LampSet
	_ = lamps.SetLamp(LampNSRed, true)
	_ = lamps.SetLamp(LampPedRed, true)

	if got := lamps.String(); got != "[NS_RED PED_RED]" {
		t.Errorf("Expected [NS_RED PED_RED], got %s", got)
	}
}
