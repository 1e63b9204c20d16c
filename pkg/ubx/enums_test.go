package ubx

import "testing"

func TestDynModelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want DynModel
	}{
		{"portable", DynModelPortable},
		{"stationary", DynModelStationary},
		{"pedestrian", DynModelPedestrian},
		{"automotive", DynModelAutomotive},
		{"sea", DynModelSea},
		{"airborne1", DynModelAirborne1},
		{"airborne2", DynModelAirborne2},
		{"airborne4", DynModelAirborne4},
		{"wristwatch", DynModelWristwatch},
		{"Automotive", DynModelAutomotive},
		{" sea ", DynModelSea},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DynModelFromString(tt.in)
			if err != nil {
				t.Fatalf("DynModelFromString(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("DynModelFromString(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDynModelFromStringUnknown(t *testing.T) {
	if _, err := DynModelFromString("hovercraft"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestDynModelStringRoundTrip(t *testing.T) {
	models := []DynModel{
		DynModelPortable, DynModelStationary, DynModelPedestrian,
		DynModelAutomotive, DynModelSea, DynModelAirborne1,
		DynModelAirborne2, DynModelAirborne4, DynModelWristwatch,
	}

	for _, model := range models {
		got, err := DynModelFromString(model.String())
		if err != nil {
			t.Fatalf("round trip of %v failed: %v", model, err)
		}
		if got != model {
			t.Errorf("round trip of %v = %v", model, got)
		}
	}
}

func TestFixModeFromString(t *testing.T) {
	tests := []struct {
		in   string
		want FixMode
	}{
		{"2d", FixMode2D},
		{"3d", FixMode3D},
		{"auto", FixModeAuto},
		{"AUTO", FixModeAuto},
		{"3D", FixMode3D},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FixModeFromString(tt.in)
			if err != nil {
				t.Fatalf("FixModeFromString(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("FixModeFromString(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := FixModeFromString("best"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
