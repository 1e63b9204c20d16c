package gps

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

// SetRate sets the output rate of a message on the current port. A
// rate of n emits the message every n navigation solutions; 0
// disables it.
func (d *Driver) SetRate(ctx context.Context, id ubx.ID, rate uint8) error {
	d.debugLog("setting message rate", "id", id, "rate", rate)
	return d.Configure(ctx, ubx.CfgMsg{MsgClass: id.Class, MsgID: id.Msg, Rate: rate}, true)
}

// ConfigRate sets the measurement interval in milliseconds and the
// number of measurements per navigation solution. Time alignment is
// GPS time.
func (d *Driver) ConfigRate(ctx context.Context, measRate, navRate uint16) error {
	d.debugLog("configuring solution rate", "measRate", measRate, "navRate", navRate)
	return d.Configure(ctx, ubx.CfgRate{
		MeasRate: measRate,
		NavRate:  navRate,
		TimeRef:  ubx.TimeRefGPS,
	}, true)
}

// ConfigDgnss sets the DGNSS correction mode.
func (d *Driver) ConfigDgnss(ctx context.Context, mode uint8) error {
	d.debugLog("configuring DGNSS", "mode", mode)
	return d.Configure(ctx, ubx.CfgDgnss{DgnssMode: mode}, true)
}

// ConfigRtcm sets the output rate for a set of RTCM correction
// messages. The first rejected id aborts the remainder.
func (d *Driver) ConfigRtcm(ctx context.Context, ids []uint8, rate uint8) error {
	for _, id := range ids {
		if err := d.SetRate(ctx, ubx.ID{Class: ubx.ClassRtcm, Msg: id}, rate); err != nil {
			return fmt.Errorf("rtcm 0x%02X: %w", id, err)
		}
	}
	return nil
}

// ConfigTmode3Fixed puts the receiver in fixed time mode with the
// given antenna reference position. With lla the position holds
// latitude, longitude, and altitude in degrees, scaled to the
// receiver's 1e-7 degree resolution (positionHP adds 1e-9 degree
// steps); otherwise it holds ECEF X/Y/Z in meters (positionHP in
// 0.1 mm steps). fixedPosAcc is the claimed position accuracy in
// meters.
func (d *Driver) ConfigTmode3Fixed(ctx context.Context, lla bool, position, positionHP [3]float64, fixedPosAcc float32) error {
	d.debugLog("configuring fixed time mode", "lla", lla, "position", position)

	msg := ubx.CfgTmode3{
		Flags:       ubx.Tmode3ModeFixed,
		FixedPosAcc: uint32(math.Round(float64(fixedPosAcc) * 1e4)),
	}
	if lla {
		msg.Flags |= ubx.Tmode3FlagLLA
		msg.EcefXOrLat = int32(math.Round(position[0] * 1e7))
		msg.EcefYOrLon = int32(math.Round(position[1] * 1e7))
		msg.EcefZOrAlt = int32(math.Round(position[2] * 1e7))
		msg.EcefXOrLatHP = int8(math.Round(positionHP[0] * 1e9))
		msg.EcefYOrLonHP = int8(math.Round(positionHP[1] * 1e9))
		msg.EcefZOrAltHP = int8(math.Round(positionHP[2] * 1e9))
	} else {
		msg.EcefXOrLat = int32(math.Round(position[0] * 1e2))
		msg.EcefYOrLon = int32(math.Round(position[1] * 1e2))
		msg.EcefZOrAlt = int32(math.Round(position[2] * 1e2))
		msg.EcefXOrLatHP = int8(math.Round(positionHP[0] * 1e4))
		msg.EcefYOrLonHP = int8(math.Round(positionHP[1] * 1e4))
		msg.EcefZOrAltHP = int8(math.Round(positionHP[2] * 1e4))
	}
	return d.Configure(ctx, msg, true)
}

// ConfigTmode3SurveyIn starts a survey-in: the receiver averages its
// position for at least minDur until the variance drops under
// accLimit meters.
func (d *Driver) ConfigTmode3SurveyIn(ctx context.Context, minDur time.Duration, accLimit float32) error {
	d.debugLog("configuring survey-in time mode", "minDur", minDur, "accLimit", accLimit)
	return d.Configure(ctx, ubx.CfgTmode3{
		Flags:        ubx.Tmode3ModeSurveyIn,
		SvinMinDur:   uint32(minDur / time.Second),
		SvinAccLimit: uint32(math.Round(float64(accLimit) * 1e4)),
	}, true)
}

// DisableTmode3 returns the receiver to normal operation.
func (d *Driver) DisableTmode3(ctx context.Context) error {
	d.debugLog("disabling time mode")
	return d.Configure(ctx, ubx.CfgTmode3{}, true)
}

// ConfigUart1 sets the UART baud rate and protocol masks. The frame
// is sent without waiting for the acknowledgment, which arrives at
// the old baud rate and is normally unreadable; the call settles for
// SetBaudrateDelay before returning.
func (d *Driver) ConfigUart1(ctx context.Context, baudRate uint32, inProto, outProto uint16) error {
	d.debugLog("configuring uart1", "baudRate", baudRate, "inProto", inProto, "outProto", outProto)

	err := d.Configure(ctx, ubx.CfgPrt{
		PortID:       ubx.PortIDUart1,
		Mode:         ubx.PrtMode8N1,
		BaudRate:     baudRate,
		InProtoMask:  inProto,
		OutProtoMask: outProto,
	}, false)
	if err != nil {
		return err
	}

	select {
	case <-time.After(SetBaudrateDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DisableUart turns off all protocols on UART1, keeping the line
// parameters as they are. It returns the previous port configuration
// so a caller can restore it. A failed poll aborts before anything is
// changed; a failed reconfiguration still returns the polled state.
func (d *Driver) DisableUart(ctx context.Context) (*ubx.CfgPrt, error) {
	d.debugLog("disabling uart1")

	var prev ubx.CfgPrt
	if err := d.PollPayload(ctx, &prev, []byte{ubx.PortIDUart1}, 0); err != nil {
		return nil, fmt.Errorf("poll current port config: %w", err)
	}

	// Rebuild rather than mutate the polled message so reserved
	// fields go out zeroed.
	msg := ubx.CfgPrt{
		PortID:   prev.PortID,
		TxReady:  prev.TxReady,
		Mode:     prev.Mode,
		BaudRate: prev.BaudRate,
		Flags:    prev.Flags,
	}
	if err := d.Configure(ctx, msg, true); err != nil {
		return &prev, err
	}
	return &prev, nil
}

// SetDynamicModel sets the navigation engine's platform model.
func (d *Driver) SetDynamicModel(ctx context.Context, model ubx.DynModel) error {
	d.debugLog("setting dynamic model", "model", model)
	return d.Configure(ctx, ubx.CfgNav5{Mask: ubx.Nav5MaskDyn, DynModel: model}, true)
}

// SetFixMode sets the position fixing mode.
func (d *Driver) SetFixMode(ctx context.Context, mode ubx.FixMode) error {
	d.debugLog("setting fix mode", "mode", mode)
	return d.Configure(ctx, ubx.CfgNav5{Mask: ubx.Nav5MaskPosFixMode, FixMode: mode}, true)
}

// SetDeadReckonLimit sets how many seconds of dead reckoning the
// receiver accepts after signal loss.
func (d *Driver) SetDeadReckonLimit(ctx context.Context, seconds uint8) error {
	d.debugLog("setting dead reckoning limit", "seconds", seconds)
	return d.Configure(ctx, ubx.CfgNav5{Mask: ubx.Nav5MaskDrLim, DrLimit: seconds}, true)
}

// SetPPPEnabled switches precise point positioning on or off.
func (d *Driver) SetPPPEnabled(ctx context.Context, enabled bool) error {
	d.debugLog("setting PPP", "enabled", enabled)

	var use uint8
	if enabled {
		use = 1
	}
	return d.Configure(ctx, ubx.CfgNavX5{Mask1: ubx.NavX5Mask1PPP, UsePPP: use}, true)
}

// EnableSBAS configures SBAS reception. usage and maxSBAS follow the
// CFG-SBAS field encoding.
func (d *Driver) EnableSBAS(ctx context.Context, enabled bool, usage, maxSBAS uint8) error {
	d.debugLog("configuring SBAS", "enabled", enabled, "usage", usage, "maxSBAS", maxSBAS)

	var mode uint8
	if enabled {
		mode = ubx.SbasModeEnabled
	}
	return d.Configure(ctx, ubx.CfgSbas{Mode: mode, Usage: usage, MaxSBAS: maxSBAS}, true)
}

// Reset commands a receiver reset. The receiver does not acknowledge
// a reset, so the call returns once the frame is queued.
func (d *Driver) Reset(ctx context.Context, bbrMask uint16, resetMode uint8) error {
	d.debugLog("resetting receiver", "bbrMask", bbrMask, "resetMode", resetMode)
	return d.Configure(ctx, ubx.CfgRst{NavBbrMask: bbrMask, ResetMode: resetMode}, false)
}
