package gps

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

func TestSetRate(t *testing.T) {
	driver, worker := newTestDriver(t)
	autoAck(worker)

	require.NoError(t, driver.SetRate(context.Background(), ubx.IDNavPvt, 5))

	var msg ubx.CfgMsg
	decodeSent(t, worker.sentFrames()[0], &msg)
	assert.Equal(t, ubx.CfgMsg{MsgClass: 0x01, MsgID: 0x07, Rate: 5}, msg)
}

func TestConfigRate(t *testing.T) {
	driver, worker := newTestDriver(t)
	autoAck(worker)

	require.NoError(t, driver.ConfigRate(context.Background(), 250, 1))

	var msg ubx.CfgRate
	decodeSent(t, worker.sentFrames()[0], &msg)
	assert.Equal(t, ubx.CfgRate{MeasRate: 250, NavRate: 1, TimeRef: ubx.TimeRefGPS}, msg)
}

func TestConfigDgnss(t *testing.T) {
	driver, worker := newTestDriver(t)
	autoAck(worker)

	require.NoError(t, driver.ConfigDgnss(context.Background(), ubx.DgnssModeRtkFixed))

	var msg ubx.CfgDgnss
	decodeSent(t, worker.sentFrames()[0], &msg)
	assert.Equal(t, ubx.DgnssModeRtkFixed, msg.DgnssMode)
}

func TestConfigRtcm(t *testing.T) {
	driver, worker := newTestDriver(t)
	autoAck(worker)

	require.NoError(t, driver.ConfigRtcm(context.Background(), []uint8{0x05, 0x4D}, 1))

	sent := worker.sentFrames()
	require.Len(t, sent, 2)
	for i, wantID := range []uint8{0x05, 0x4D} {
		var msg ubx.CfgMsg
		decodeSent(t, sent[i], &msg)
		assert.Equal(t, ubx.ClassRtcm, msg.MsgClass, "frame %d", i)
		assert.Equal(t, wantID, msg.MsgID, "frame %d", i)
		assert.Equal(t, uint8(1), msg.Rate, "frame %d", i)
	}
}

// TestConfigRtcmAborts verifies that the first rejected id stops the
// remaining ids from being sent.
func TestConfigRtcmAborts(t *testing.T) {
	driver, worker := newTestDriver(t)
	worker.setOnSend(func(frame []byte) {
		worker.receive(nakFrame(sentID(frame)))
	})

	err := driver.ConfigRtcm(context.Background(), []uint8{0x05, 0x4D}, 1)
	require.ErrorIs(t, err, ErrRejected)
	assert.Len(t, worker.sentFrames(), 1)
}

func TestConfigTmode3FixedLLA(t *testing.T) {
	driver, worker := newTestDriver(t)
	autoAck(worker)

	err := driver.ConfigTmode3Fixed(context.Background(), true,
		[3]float64{45.0, -73.5, 100.0},
		[3]float64{2e-9, -3e-9, 4e-9},
		0.05)
	require.NoError(t, err)

	var msg ubx.CfgTmode3
	decodeSent(t, worker.sentFrames()[0], &msg)
	assert.Equal(t, ubx.Tmode3ModeFixed|ubx.Tmode3FlagLLA, msg.Flags)
	assert.Equal(t, int32(450000000), msg.EcefXOrLat)
	assert.Equal(t, int32(-735000000), msg.EcefYOrLon)
	assert.Equal(t, int32(1000000000), msg.EcefZOrAlt)
	assert.Equal(t, int8(2), msg.EcefXOrLatHP)
	assert.Equal(t, int8(-3), msg.EcefYOrLonHP)
	assert.Equal(t, int8(4), msg.EcefZOrAltHP)
	assert.Equal(t, uint32(500), msg.FixedPosAcc)
	assert.Zero(t, msg.SvinMinDur)
	assert.Zero(t, msg.SvinAccLimit)
}

func TestConfigTmode3FixedECEF(t *testing.T) {
	driver, worker := newTestDriver(t)
	autoAck(worker)

	err := driver.ConfigTmode3Fixed(context.Background(), false,
		[3]float64{1234567.89, -23456.78, 345.6},
		[3]float64{0.0012, -0.0034, 0.0056},
		1.5)
	require.NoError(t, err)

	var msg ubx.CfgTmode3
	decodeSent(t, worker.sentFrames()[0], &msg)
	assert.Equal(t, ubx.Tmode3ModeFixed, msg.Flags)
	assert.Equal(t, int32(123456789), msg.EcefXOrLat)
	assert.Equal(t, int32(-2345678), msg.EcefYOrLon)
	assert.Equal(t, int32(34560), msg.EcefZOrAlt)
	assert.Equal(t, int8(12), msg.EcefXOrLatHP)
	assert.Equal(t, int8(-34), msg.EcefYOrLonHP)
	assert.Equal(t, int8(56), msg.EcefZOrAltHP)
	assert.Equal(t, uint32(15000), msg.FixedPosAcc)
}

func TestConfigTmode3SurveyIn(t *testing.T) {
	driver, worker := newTestDriver(t)
	autoAck(worker)

	err := driver.ConfigTmode3SurveyIn(context.Background(), 5*time.Minute, 0.25)
	require.NoError(t, err)

	var msg ubx.CfgTmode3
	decodeSent(t, worker.sentFrames()[0], &msg)
	assert.Equal(t, ubx.Tmode3ModeSurveyIn, msg.Flags)
	assert.Equal(t, uint32(300), msg.SvinMinDur)
	assert.Equal(t, uint32(2500), msg.SvinAccLimit)
	assert.Zero(t, msg.EcefXOrLat)
}

func TestDisableTmode3(t *testing.T) {
	driver, worker := newTestDriver(t)
	autoAck(worker)

	require.NoError(t, driver.DisableTmode3(context.Background()))

	var msg ubx.CfgTmode3
	decodeSent(t, worker.sentFrames()[0], &msg)
	assert.Equal(t, ubx.CfgTmode3{}, msg)
}

func TestConfigUart1(t *testing.T) {
	driver, worker := newTestDriver(t)

	start := time.Now()
	err := driver.ConfigUart1(context.Background(), 115200,
		ubx.ProtoMaskUbx|ubx.ProtoMaskRtcm3, ubx.ProtoMaskUbx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), SetBaudrateDelay)

	sent := worker.sentFrames()
	require.Len(t, sent, 1)

	var prt ubx.CfgPrt
	decodeSent(t, sent[0], &prt)
	assert.Equal(t, ubx.PortIDUart1, prt.PortID)
	assert.Equal(t, ubx.PrtMode8N1, prt.Mode)
	assert.Equal(t, uint32(115200), prt.BaudRate)
	assert.Equal(t, ubx.ProtoMaskUbx|ubx.ProtoMaskRtcm3, prt.InProtoMask)
	assert.Equal(t, ubx.ProtoMaskUbx, prt.OutProtoMask)
	assert.Zero(t, driver.acks.pending(ubx.IDCfgPrt))
}

// TestConfigUart1Cancelled verifies that cancellation cuts the settle
// delay short after the frame has gone out.
func TestConfigUart1Cancelled(t *testing.T) {
	driver, worker := newTestDriver(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := driver.ConfigUart1(ctx, 9600, DefaultUartIn, DefaultUartOut)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, worker.sentFrames(), 1)
}

func TestDisableUart(t *testing.T) {
	driver, worker := newTestDriver(t)

	current := ubx.CfgPrt{
		PortID:       ubx.PortIDUart1,
		TxReady:      0x0001,
		Mode:         ubx.PrtMode8N1,
		BaudRate:     57600,
		InProtoMask:  0x0007,
		OutProtoMask: 0x0001,
		Flags:        0x0002,
	}
	reply := mustFrame(t, current)
	worker.setOnSend(func(frame []byte) {
		if sentID(frame) != ubx.IDCfgPrt {
			return
		}
		if len(frame) == ubx.Overhead+1 { // the poll
			worker.receive(reply)
			return
		}
		worker.receive(ackFrame(ubx.IDCfgPrt))
	})

	prev, err := driver.DisableUart(context.Background())
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, uint32(57600), prev.BaudRate)
	assert.Equal(t, uint16(0x0007), prev.InProtoMask)

	sent := worker.sentFrames()
	require.Len(t, sent, 2)

	var reconfig ubx.CfgPrt
	decodeSent(t, sent[1], &reconfig)
	assert.Equal(t, ubx.PortIDUart1, reconfig.PortID)
	assert.Equal(t, uint16(0x0001), reconfig.TxReady)
	assert.Equal(t, ubx.PrtMode8N1, reconfig.Mode)
	assert.Equal(t, uint32(57600), reconfig.BaudRate)
	assert.Equal(t, uint16(0x0002), reconfig.Flags)
	assert.Zero(t, reconfig.InProtoMask)
	assert.Zero(t, reconfig.OutProtoMask)
}

// TestDisableUartPollFailure verifies that nothing is reconfigured
// when the current state cannot be read.
func TestDisableUartPollFailure(t *testing.T) {
	driver, worker := newTestDriver(t)

	prev, err := driver.DisableUart(context.Background())
	require.ErrorIs(t, err, ErrTimeout)
	assert.Nil(t, prev)
	assert.Len(t, worker.sentFrames(), 1)
}

func TestNav5Commands(t *testing.T) {
	tests := []struct {
		name string
		call func(d *Driver) error
		want ubx.CfgNav5
	}{
		{
			name: "dynamic model",
			call: func(d *Driver) error {
				return d.SetDynamicModel(context.Background(), ubx.DynModelAirborne2)
			},
			want: ubx.CfgNav5{Mask: ubx.Nav5MaskDyn, DynModel: ubx.DynModelAirborne2},
		},
		{
			name: "fix mode",
			call: func(d *Driver) error {
				return d.SetFixMode(context.Background(), ubx.FixMode3D)
			},
			want: ubx.CfgNav5{Mask: ubx.Nav5MaskPosFixMode, FixMode: ubx.FixMode3D},
		},
		{
			name: "dead reckoning limit",
			call: func(d *Driver) error {
				return d.SetDeadReckonLimit(context.Background(), 30)
			},
			want: ubx.CfgNav5{Mask: ubx.Nav5MaskDrLim, DrLimit: 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, worker := newTestDriver(t)
			autoAck(worker)

			require.NoError(t, tt.call(driver))

			var msg ubx.CfgNav5
			decodeSent(t, worker.sentFrames()[0], &msg)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestSetPPPEnabled(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		driver, worker := newTestDriver(t)
		autoAck(worker)

		require.NoError(t, driver.SetPPPEnabled(context.Background(), enabled))

		var msg ubx.CfgNavX5
		decodeSent(t, worker.sentFrames()[0], &msg)
		assert.Equal(t, ubx.NavX5Mask1PPP, msg.Mask1)
		if enabled {
			assert.Equal(t, uint8(1), msg.UsePPP)
		} else {
			assert.Zero(t, msg.UsePPP)
		}
	}
}

func TestEnableSBAS(t *testing.T) {
	driver, worker := newTestDriver(t)
	autoAck(worker)

	usage := ubx.SbasUsageRange | ubx.SbasUsageDiffCorr
	require.NoError(t, driver.EnableSBAS(context.Background(), true, usage, 3))

	var msg ubx.CfgSbas
	decodeSent(t, worker.sentFrames()[0], &msg)
	assert.Equal(t, ubx.SbasModeEnabled, msg.Mode)
	assert.Equal(t, usage, msg.Usage)
	assert.Equal(t, uint8(3), msg.MaxSBAS)

	require.NoError(t, driver.EnableSBAS(context.Background(), false, 0, 0))
	decodeSent(t, worker.sentFrames()[1], &msg)
	assert.Zero(t, msg.Mode)
}

// TestReset verifies the reset goes out without waiting for an
// acknowledgment the receiver never sends.
func TestReset(t *testing.T) {
	driver, worker := newTestDriver(t)

	require.NoError(t, driver.Reset(context.Background(), ubx.BbrColdStart, ubx.ResetModeSoftware))

	var msg ubx.CfgRst
	decodeSent(t, worker.sentFrames()[0], &msg)
	assert.Equal(t, ubx.BbrColdStart, msg.NavBbrMask)
	assert.Equal(t, ubx.ResetModeSoftware, msg.ResetMode)
	assert.Zero(t, driver.acks.pending(ubx.IDCfgRst))
}
