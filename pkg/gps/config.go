package gps

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

// Default protocol masks, used when a config sets a baud rate without
// naming the masks.
const (
	DefaultUartIn  = ubx.ProtoMaskUbx | ubx.ProtoMaskNmea | ubx.ProtoMaskRtcm
	DefaultUartOut = ubx.ProtoMaskUbx
)

// TMode3Config.Mode values.
const (
	TMode3Disabled = "disabled"
	TMode3SurveyIn = "survey-in"
	TMode3Fixed    = "fixed"
)

// Config describes a complete receiver setup. Zero values leave the
// corresponding receiver setting untouched, nested sections apply
// only when present.
type Config struct {
	// Device is the serial device or address to open. Apply does not
	// read it; it is for the program opening the transport.
	Device string `yaml:"device"`

	// Baudrate reconfigures UART1 when non-zero.
	Baudrate uint32 `yaml:"baudrate"`

	// UartIn and UartOut are the UART1 protocol masks. Both zero with
	// a baud rate set means the defaults above.
	UartIn  uint16 `yaml:"uartIn"`
	UartOut uint16 `yaml:"uartOut"`

	// Rate is the measurement rate in Hz.
	Rate float64 `yaml:"rate"`

	// NavRate is the number of measurements per navigation solution
	// (0 means 1).
	NavRate uint16 `yaml:"navRate"`

	// DynamicModel names the platform model, e.g. "stationary".
	DynamicModel string `yaml:"dynamicModel"`

	// FixMode names the position fixing mode: "2d", "3d" or "auto".
	FixMode string `yaml:"fixMode"`

	// DrLimit is the dead reckoning limit in seconds.
	DrLimit uint8 `yaml:"drLimit"`

	// EnablePPP switches precise point positioning on.
	EnablePPP bool `yaml:"enablePpp"`

	// DgnssMode selects the DGNSS correction mode when non-zero.
	DgnssMode uint8 `yaml:"dgnssMode"`

	SBAS   *SBASConfig   `yaml:"sbas"`
	TMode3 *TMode3Config `yaml:"tmode3"`
	RTCM   *RTCMConfig   `yaml:"rtcm"`
}

// SBASConfig configures SBAS reception.
type SBASConfig struct {
	Enable  bool  `yaml:"enable"`
	Usage   uint8 `yaml:"usage"`
	MaxSBAS uint8 `yaml:"maxSbas"`
}

// TMode3Config configures base station time mode.
type TMode3Config struct {
	// Mode is "disabled", "survey-in" or "fixed".
	Mode string `yaml:"mode"`

	// LLA interprets Position as latitude/longitude/altitude in
	// degrees instead of ECEF meters.
	LLA bool `yaml:"lla"`

	// Position is the antenna reference position, three components.
	// PositionHP holds the high-precision remainders.
	Position   []float64 `yaml:"position"`
	PositionHP []float64 `yaml:"positionHp"`

	// FixedPosAcc is the claimed accuracy of the fixed position in
	// meters.
	FixedPosAcc float32 `yaml:"fixedPosAcc"`

	// SvinMinDur is the minimum survey-in duration in seconds.
	SvinMinDur uint32 `yaml:"svinMinDur"`

	// SvinAccLimit is the survey-in accuracy target in meters.
	SvinAccLimit float32 `yaml:"svinAccLimit"`
}

// RTCMConfig enables RTCM correction output.
type RTCMConfig struct {
	IDs  []uint8 `yaml:"ids"`
	Rate uint8   `yaml:"rate"`
}

// LoadConfig reads and validates a receiver configuration from a
// YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for values the receiver would reject outright.
func (c *Config) Validate() error {
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %g", c.Rate)
	}
	if c.Rate > 0 {
		meas := math.Round(1000 / c.Rate)
		if meas < 1 || meas > math.MaxUint16 {
			return fmt.Errorf("rate %g Hz is out of range", c.Rate)
		}
	}
	if c.DynamicModel != "" {
		if _, err := ubx.DynModelFromString(c.DynamicModel); err != nil {
			return err
		}
	}
	if c.FixMode != "" {
		if _, err := ubx.FixModeFromString(c.FixMode); err != nil {
			return err
		}
	}
	if c.TMode3 != nil {
		switch c.TMode3.Mode {
		case TMode3Disabled, TMode3SurveyIn, TMode3Fixed:
		default:
			return fmt.Errorf("unknown tmode3 mode %q", c.TMode3.Mode)
		}
		if c.TMode3.Mode == TMode3Fixed {
			if len(c.TMode3.Position) != 3 {
				return fmt.Errorf("tmode3 position needs 3 components, got %d", len(c.TMode3.Position))
			}
			if len(c.TMode3.PositionHP) != 0 && len(c.TMode3.PositionHP) != 3 {
				return fmt.Errorf("tmode3 positionHp needs 3 components, got %d", len(c.TMode3.PositionHP))
			}
		}
	}
	return nil
}

// Apply issues the configuration commands in a fixed order: port,
// solution rate, navigation engine, SBAS, DGNSS, time mode, RTCM
// output. The first failure aborts and is returned; on success the
// driver is marked configured.
func (c *Config) Apply(ctx context.Context, d *Driver) error {
	if c.Baudrate > 0 {
		in, out := c.UartIn, c.UartOut
		if in == 0 && out == 0 {
			in, out = DefaultUartIn, DefaultUartOut
		}
		if err := d.ConfigUart1(ctx, c.Baudrate, in, out); err != nil {
			return fmt.Errorf("uart: %w", err)
		}
	}

	if c.Rate > 0 {
		measRate := uint16(math.Round(1000 / c.Rate))
		navRate := c.NavRate
		if navRate == 0 {
			navRate = 1
		}
		if err := d.ConfigRate(ctx, measRate, navRate); err != nil {
			return fmt.Errorf("solution rate: %w", err)
		}
	}

	if c.DynamicModel != "" {
		model, err := ubx.DynModelFromString(c.DynamicModel)
		if err != nil {
			return err
		}
		if err := d.SetDynamicModel(ctx, model); err != nil {
			return fmt.Errorf("dynamic model: %w", err)
		}
	}

	if c.FixMode != "" {
		mode, err := ubx.FixModeFromString(c.FixMode)
		if err != nil {
			return err
		}
		if err := d.SetFixMode(ctx, mode); err != nil {
			return fmt.Errorf("fix mode: %w", err)
		}
	}

	if c.DrLimit > 0 {
		if err := d.SetDeadReckonLimit(ctx, c.DrLimit); err != nil {
			return fmt.Errorf("dead reckoning limit: %w", err)
		}
	}

	if err := d.SetPPPEnabled(ctx, c.EnablePPP); err != nil {
		return fmt.Errorf("ppp: %w", err)
	}

	if c.SBAS != nil {
		if err := d.EnableSBAS(ctx, c.SBAS.Enable, c.SBAS.Usage, c.SBAS.MaxSBAS); err != nil {
			return fmt.Errorf("sbas: %w", err)
		}
	}

	if c.DgnssMode != 0 {
		if err := d.ConfigDgnss(ctx, c.DgnssMode); err != nil {
			return fmt.Errorf("dgnss: %w", err)
		}
	}

	if c.TMode3 != nil {
		var err error
		switch c.TMode3.Mode {
		case TMode3Disabled:
			err = d.DisableTmode3(ctx)
		case TMode3SurveyIn:
			err = d.ConfigTmode3SurveyIn(ctx,
				time.Duration(c.TMode3.SvinMinDur)*time.Second, c.TMode3.SvinAccLimit)
		case TMode3Fixed:
			var position, positionHP [3]float64
			copy(position[:], c.TMode3.Position)
			copy(positionHP[:], c.TMode3.PositionHP)
			err = d.ConfigTmode3Fixed(ctx, c.TMode3.LLA, position, positionHP, c.TMode3.FixedPosAcc)
		default:
			err = fmt.Errorf("unknown tmode3 mode %q", c.TMode3.Mode)
		}
		if err != nil {
			return fmt.Errorf("tmode3: %w", err)
		}
	}

	if c.RTCM != nil {
		if err := d.ConfigRtcm(ctx, c.RTCM.IDs, c.RTCM.Rate); err != nil {
			return err
		}
	}

	d.markConfigured()
	return nil
}
