package ubx

import "fmt"

// AckAck reports acceptance of a configuration message. The payload
// echoes the identity of the message being acknowledged.
type AckAck struct {
	ClsID uint8
	MsgID uint8
}

// MessageID implements Message.
func (AckAck) MessageID() ID { return IDAckAck }

// Acked returns the identity of the acknowledged message.
func (a AckAck) Acked() ID { return ID{a.ClsID, a.MsgID} }

// AckNak reports rejection of a configuration message.
type AckNak struct {
	ClsID uint8
	MsgID uint8
}

// MessageID implements Message.
func (AckNak) MessageID() ID { return IDAckNak }

// Nacked returns the identity of the rejected message.
func (a AckNak) Nacked() ID { return ID{a.ClsID, a.MsgID} }

// CfgMsg sets the output rate of a message on the current port. A rate
// of n emits the message every n navigation solutions; 0 disables it.
type CfgMsg struct {
	MsgClass uint8
	MsgID    uint8
	Rate     uint8
}

// MessageID implements Message.
func (CfgMsg) MessageID() ID { return IDCfgMsg }

// CFG-RATE time reference values.
const (
	TimeRefUTC uint16 = 0
	TimeRefGPS uint16 = 1
)

// CfgRate sets the measurement and navigation solution rates.
type CfgRate struct {
	MeasRate uint16 // measurement interval in milliseconds
	NavRate  uint16 // solutions per measurement cycle
	TimeRef  uint16
}

// MessageID implements Message.
func (CfgRate) MessageID() ID { return IDCfgRate }

// CFG-PRT port identifiers.
const (
	PortIDDdc   uint8 = 0
	PortIDUart1 uint8 = 1
	PortIDUsb   uint8 = 3
	PortIDSpi   uint8 = 4
)

// CFG-PRT UART mode bits.
const (
	PrtModeReserved1  uint32 = 0x00000010
	PrtModeCharLen8   uint32 = 0x000000C0
	PrtModeParityNone uint32 = 0x00000800
	PrtModeStopBits1  uint32 = 0x00000000

	// PrtMode8N1 is the standard 8N1 UART configuration.
	PrtMode8N1 = PrtModeReserved1 | PrtModeCharLen8 | PrtModeParityNone | PrtModeStopBits1
)

// CFG-PRT protocol mask bits, valid for both directions.
const (
	ProtoMaskUbx   uint16 = 0x0001
	ProtoMaskNmea  uint16 = 0x0002
	ProtoMaskRtcm  uint16 = 0x0004
	ProtoMaskRtcm3 uint16 = 0x0020
)

// CfgPrt configures an I/O port: UART parameters and which protocols
// the port accepts and emits. Polling with a one-byte payload naming
// the port id returns the current configuration.
type CfgPrt struct {
	PortID       uint8
	Reserved1    uint8
	TxReady      uint16
	Mode         uint32
	BaudRate     uint32
	InProtoMask  uint16
	OutProtoMask uint16
	Flags        uint16
	Reserved2    [2]uint8
}

// MessageID implements Message.
func (CfgPrt) MessageID() ID { return IDCfgPrt }

// CFG-NAV5 parameter mask bits, selecting which fields apply.
const (
	Nav5MaskDyn            uint16 = 0x0001
	Nav5MaskMinElev        uint16 = 0x0002
	Nav5MaskPosFixMode     uint16 = 0x0004
	Nav5MaskDrLim          uint16 = 0x0008
	Nav5MaskPosMask        uint16 = 0x0010
	Nav5MaskTimeMask       uint16 = 0x0020
	Nav5MaskStaticHoldMask uint16 = 0x0040
	Nav5MaskDgpsMask       uint16 = 0x0080
	Nav5MaskCnoThreshold   uint16 = 0x0100
	Nav5MaskUtc            uint16 = 0x0400
)

// CfgNav5 configures the navigation engine: platform model, position
// fixing mode, and dead reckoning limits. Only fields selected by Mask
// are applied by the receiver.
type CfgNav5 struct {
	Mask              uint16
	DynModel          DynModel
	FixMode           FixMode
	FixedAlt          int32  // 0.01 m
	FixedAltVar       uint32 // 0.0001 m^2
	MinElev           int8   // degrees
	DrLimit           uint8  // seconds
	PDop              uint16 // 0.1
	TDop              uint16 // 0.1
	PAcc              uint16 // meters
	TAcc              uint16 // meters
	StaticHoldThresh  uint8  // cm/s
	DgnssTimeout      uint8  // seconds
	CnoThreshNumSVs   uint8
	CnoThresh         uint8 // dBHz
	Reserved1         [2]uint8
	StaticHoldMaxDist uint16 // meters
	UtcStandard       uint8
	Reserved2         [5]uint8
}

// MessageID implements Message.
func (CfgNav5) MessageID() ID { return IDCfgNav5 }

// CFG-NAVX5 parameter mask bits.
const (
	NavX5Mask1MinMax  uint16 = 0x0004
	NavX5Mask1MinCno  uint16 = 0x0008
	NavX5Mask1Initial uint16 = 0x0040
	NavX5Mask1WknRoll uint16 = 0x0200
	NavX5Mask1AckAid  uint16 = 0x0400
	NavX5Mask1PPP     uint16 = 0x2000
	NavX5Mask1AOP     uint16 = 0x4000

	NavX5Mask2ADR          uint32 = 0x00000040
	NavX5Mask2SigAttenComp uint32 = 0x00000080
)

// CfgNavX5 configures expert navigation settings. Only fields selected
// by Mask1/Mask2 are applied.
type CfgNavX5 struct {
	Version          uint16
	Mask1            uint16
	Mask2            uint32
	Reserved1        [2]uint8
	MinSVs           uint8
	MaxSVs           uint8
	MinCNO           uint8 // dBHz
	Reserved2        uint8
	IniFix3D         uint8
	Reserved3        [2]uint8
	AckAiding        uint8
	WknRollover      uint16
	SigAttenCompMode uint8
	Reserved4        uint8
	Reserved5        [2]uint8
	Reserved6        [2]uint8
	UsePPP           uint8
	AopCfg           uint8
	Reserved7        [2]uint8
	AopOrbMaxErr     uint16
	Reserved8        [4]uint8
	Reserved9        [3]uint8
	UseAdr           uint8
}

// MessageID implements Message.
func (CfgNavX5) MessageID() ID { return IDCfgNavX5 }

// CFG-TMODE3 receiver mode values and flag bits.
const (
	Tmode3ModeDisabled uint16 = 0
	Tmode3ModeSurveyIn uint16 = 1
	Tmode3ModeFixed    uint16 = 2

	// Tmode3FlagLLA selects geodetic instead of ECEF position fields.
	Tmode3FlagLLA uint16 = 0x0100
)

// CfgTmode3 configures time mode for base station operation: a fixed
// antenna reference position or a survey-in procedure.
type CfgTmode3 struct {
	Version      uint8
	Reserved1    uint8
	Flags        uint16
	EcefXOrLat   int32 // cm, or 1e-7 degrees with Tmode3FlagLLA
	EcefYOrLon   int32
	EcefZOrAlt   int32
	EcefXOrLatHP int8 // 0.1 mm, or 1e-9 degrees with Tmode3FlagLLA
	EcefYOrLonHP int8
	EcefZOrAltHP int8
	Reserved2    uint8
	FixedPosAcc  uint32 // 0.1 mm
	SvinMinDur   uint32 // seconds
	SvinAccLimit uint32 // 0.1 mm
	Reserved3    [8]uint8
}

// MessageID implements Message.
func (CfgTmode3) MessageID() ID { return IDCfgTmode3 }

// CFG-DGNSS mode values.
const (
	DgnssModeRtkFloat uint8 = 2
	DgnssModeRtkFixed uint8 = 3
)

// CfgDgnss configures the DGNSS correction mode.
type CfgDgnss struct {
	DgnssMode uint8
	Reserved0 [3]uint8
}

// MessageID implements Message.
func (CfgDgnss) MessageID() ID { return IDCfgDgnss }

// CFG-SBAS mode and usage bits.
const (
	SbasModeEnabled uint8 = 0x01
	SbasModeTest    uint8 = 0x02

	SbasUsageRange     uint8 = 0x01
	SbasUsageDiffCorr  uint8 = 0x02
	SbasUsageIntegrity uint8 = 0x04
)

// CfgSbas configures SBAS reception.
type CfgSbas struct {
	Mode      uint8
	Usage     uint8
	MaxSBAS   uint8
	Scanmode2 uint8
	Scanmode1 uint32
}

// MessageID implements Message.
func (CfgSbas) MessageID() ID { return IDCfgSbas }

// CFG-RST BBR sections and reset modes.
const (
	BbrHotStart  uint16 = 0x0000
	BbrWarmStart uint16 = 0x0001
	BbrColdStart uint16 = 0xFFFF

	ResetModeHardware  uint8 = 0x00
	ResetModeSoftware  uint8 = 0x01
	ResetModeGnssStop  uint8 = 0x08
	ResetModeGnssStart uint8 = 0x09
)

// CfgRst commands a receiver reset. The receiver does not acknowledge
// this message.
type CfgRst struct {
	NavBbrMask uint16
	ResetMode  uint8
	Reserved1  uint8
}

// MessageID implements Message.
func (CfgRst) MessageID() ID { return IDCfgRst }

// NAV-PVT fix types.
const (
	FixTypeNone              uint8 = 0
	FixTypeDeadReckoning     uint8 = 1
	FixType2D                uint8 = 2
	FixType3D                uint8 = 3
	FixTypeGnssDeadReckoning uint8 = 4
	FixTypeTimeOnly          uint8 = 5
)

// FixTypeName names a fix type. NAV-PVT fixType and NAV-STATUS gpsFix
// share the encoding.
func FixTypeName(fix uint8) string {
	switch fix {
	case FixTypeNone:
		return "none"
	case FixTypeDeadReckoning:
		return "dead reckoning"
	case FixType2D:
		return "2D"
	case FixType3D:
		return "3D"
	case FixTypeGnssDeadReckoning:
		return "GNSS+DR"
	case FixTypeTimeOnly:
		return "time only"
	default:
		return fmt.Sprintf("unknown(%d)", fix)
	}
}

// NAV-PVT flag bits.
const (
	NavPvtFlagGnssFixOK     uint8 = 0x01
	NavPvtFlagDiffSoln      uint8 = 0x02
	NavPvtFlagCarrSolnFloat uint8 = 0x40
	NavPvtFlagCarrSolnFixed uint8 = 0x80
)

// NavPvt is the combined position, velocity, and time solution.
type NavPvt struct {
	ITow      uint32 // GPS time of week, ms
	Year      uint16
	Month     uint8
	Day       uint8
	Hour      uint8
	Min       uint8
	Sec       uint8
	Valid     uint8
	TAcc      uint32 // ns
	Nano      int32  // ns
	FixType   uint8
	Flags     uint8
	Flags2    uint8
	NumSV     uint8
	Lon       int32 // 1e-7 degrees
	Lat       int32 // 1e-7 degrees
	Height    int32 // mm above ellipsoid
	HMSL      int32 // mm above mean sea level
	HAcc      uint32
	VAcc      uint32
	VelN      int32 // mm/s
	VelE      int32
	VelD      int32
	GSpeed    int32 // mm/s
	HeadMot   int32 // 1e-5 degrees
	SAcc      uint32
	HeadAcc   uint32
	PDop      uint16 // 0.01
	Flags3    uint8
	Reserved1 [5]uint8
	HeadVeh   int32 // 1e-5 degrees
	MagDec    int16 // 1e-2 degrees
	MagAcc    uint16
}

// MessageID implements Message.
func (NavPvt) MessageID() ID { return IDNavPvt }

// NavStatus reports receiver navigation status.
type NavStatus struct {
	ITow    uint32
	GpsFix  uint8
	Flags   uint8
	FixStat uint8
	Flags2  uint8
	Ttff    uint32 // ms
	Msss    uint32 // ms since startup
}

// MessageID implements Message.
func (NavStatus) MessageID() ID { return IDNavStatus }

// MON-VER field sizes.
const (
	monVerSwSize  = 30
	monVerHwSize  = 10
	monVerExtSize = 30
)

// MonVer reports receiver software and hardware versions plus a
// variable number of extension strings.
type MonVer struct {
	SwVersion  [monVerSwSize]byte
	HwVersion  [monVerHwSize]byte
	Extensions [][monVerExtSize]byte
}

// MessageID implements Message.
func (MonVer) MessageID() ID { return IDMonVer }

// MarshalUBX implements Marshaler.
func (m MonVer) MarshalUBX() ([]byte, error) {
	out := make([]byte, 0, monVerSwSize+monVerHwSize+len(m.Extensions)*monVerExtSize)
	out = append(out, m.SwVersion[:]...)
	out = append(out, m.HwVersion[:]...)
	for _, ext := range m.Extensions {
		out = append(out, ext[:]...)
	}
	return out, nil
}

// UnmarshalUBX implements Unmarshaler.
func (m *MonVer) UnmarshalUBX(payload []byte) error {
	fixed := monVerSwSize + monVerHwSize
	if len(payload) < fixed || (len(payload)-fixed)%monVerExtSize != 0 {
		return fmt.Errorf("%w: MON-VER payload is %d bytes", ErrPayloadSize, len(payload))
	}
	copy(m.SwVersion[:], payload[:monVerSwSize])
	copy(m.HwVersion[:], payload[monVerSwSize:fixed])
	m.Extensions = nil
	for off := fixed; off < len(payload); off += monVerExtSize {
		var ext [monVerExtSize]byte
		copy(ext[:], payload[off:off+monVerExtSize])
		m.Extensions = append(m.Extensions, ext)
	}
	return nil
}

// Software returns the software version as a string.
func (m MonVer) Software() string { return cstr(m.SwVersion[:]) }

// Hardware returns the hardware version as a string.
func (m MonVer) Hardware() string { return cstr(m.HwVersion[:]) }

// ExtensionStrings returns the extension fields as strings.
func (m MonVer) ExtensionStrings() []string {
	out := make([]string, 0, len(m.Extensions))
	for _, ext := range m.Extensions {
		out = append(out, cstr(ext[:]))
	}
	return out
}

// cstr interprets b as a NUL-terminated string.
func cstr(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
