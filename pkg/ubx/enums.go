package ubx

import (
	"fmt"
	"strings"
)

// DynModel selects the navigation engine's platform model (CFG-NAV5).
type DynModel uint8

const (
	// DynModelPortable is the default all-purpose model.
	DynModelPortable DynModel = 0

	// DynModelStationary assumes zero velocity.
	DynModelStationary DynModel = 2

	// DynModelPedestrian assumes low speed and frequent direction changes.
	DynModelPedestrian DynModel = 3

	// DynModelAutomotive assumes road vehicle dynamics.
	DynModelAutomotive DynModel = 4

	// DynModelSea assumes zero vertical velocity at sea level.
	DynModelSea DynModel = 5

	// DynModelAirborne1 allows up to 1g acceleration.
	DynModelAirborne1 DynModel = 6

	// DynModelAirborne2 allows up to 2g acceleration.
	DynModelAirborne2 DynModel = 7

	// DynModelAirborne4 allows up to 4g acceleration.
	DynModelAirborne4 DynModel = 8

	// DynModelWristwatch assumes wrist-worn dynamics with arm swing.
	DynModelWristwatch DynModel = 9
)

// String returns the model name as used in configuration files.
func (m DynModel) String() string {
	switch m {
	case DynModelPortable:
		return "portable"
	case DynModelStationary:
		return "stationary"
	case DynModelPedestrian:
		return "pedestrian"
	case DynModelAutomotive:
		return "automotive"
	case DynModelSea:
		return "sea"
	case DynModelAirborne1:
		return "airborne1"
	case DynModelAirborne2:
		return "airborne2"
	case DynModelAirborne4:
		return "airborne4"
	case DynModelWristwatch:
		return "wristwatch"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// DynModelFromString parses a dynamic model name. Matching is
// case-insensitive and ignores surrounding whitespace.
func DynModelFromString(s string) (DynModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portable":
		return DynModelPortable, nil
	case "stationary":
		return DynModelStationary, nil
	case "pedestrian":
		return DynModelPedestrian, nil
	case "automotive":
		return DynModelAutomotive, nil
	case "sea":
		return DynModelSea, nil
	case "airborne1":
		return DynModelAirborne1, nil
	case "airborne2":
		return DynModelAirborne2, nil
	case "airborne4":
		return DynModelAirborne4, nil
	case "wristwatch":
		return DynModelWristwatch, nil
	default:
		return 0, fmt.Errorf("unknown dynamic model %q", s)
	}
}

// FixMode selects the position fixing mode (CFG-NAV5).
type FixMode uint8

const (
	// FixMode2D restricts the receiver to 2D fixes.
	FixMode2D FixMode = 1

	// FixMode3D restricts the receiver to 3D fixes.
	FixMode3D FixMode = 2

	// FixModeAuto lets the receiver choose between 2D and 3D.
	FixModeAuto FixMode = 3
)

// String returns the fix mode name as used in configuration files.
func (m FixMode) String() string {
	switch m {
	case FixMode2D:
		return "2d"
	case FixMode3D:
		return "3d"
	case FixModeAuto:
		return "auto"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// FixModeFromString parses a fix mode name. Matching is
// case-insensitive and ignores surrounding whitespace.
func FixModeFromString(s string) (FixMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2d":
		return FixMode2D, nil
	case "3d":
		return FixMode3D, nil
	case "auto":
		return FixModeAuto, nil
	default:
		return 0, fmt.Errorf("unknown fix mode %q", s)
	}
}
