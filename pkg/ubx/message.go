package ubx

import (
	"fmt"
	"strings"
)

// Message classes.
const (
	ClassNav  uint8 = 0x01 // navigation solutions
	ClassRxm  uint8 = 0x02 // receiver manager
	ClassInf  uint8 = 0x04 // informational text
	ClassAck  uint8 = 0x05 // command acknowledgments
	ClassCfg  uint8 = 0x06 // configuration input
	ClassUpd  uint8 = 0x09 // firmware update
	ClassMon  uint8 = 0x0A // monitoring
	ClassAid  uint8 = 0x0B // assistance data
	ClassTim  uint8 = 0x0D // timing
	ClassEsf  uint8 = 0x10 // external sensor fusion
	ClassMga  uint8 = 0x13 // multi-GNSS assistance
	ClassLog  uint8 = 0x21 // data logging
	ClassSec  uint8 = 0x27 // security
	ClassHnr  uint8 = 0x28 // high-rate navigation
	ClassRtcm uint8 = 0xF5 // RTCM3 output configuration
)

// ID identifies a message by its class and message id.
type ID struct {
	Class uint8
	Msg   uint8
}

// String formats the identity as "0xCC 0xII (NAME)" for known messages.
func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return fmt.Sprintf("0x%02X 0x%02X (%s)", id.Class, id.Msg, name)
	}
	return fmt.Sprintf("0x%02X 0x%02X", id.Class, id.Msg)
}

// Name returns the conventional u-blox name for the identity, or "" if
// the identity is not known to this package.
func (id ID) Name() string {
	return idNames[id]
}

// Lookup resolves a conventional message name ("NAV-PVT", case
// insensitive) to its identity.
func Lookup(name string) (ID, bool) {
	for id, n := range idNames {
		if strings.EqualFold(n, name) {
			return id, true
		}
	}
	return ID{}, false
}

// Well-known message identities.
var (
	IDAckAck    = ID{ClassAck, 0x01}
	IDAckNak    = ID{ClassAck, 0x00}
	IDCfgPrt    = ID{ClassCfg, 0x00}
	IDCfgMsg    = ID{ClassCfg, 0x01}
	IDCfgRst    = ID{ClassCfg, 0x04}
	IDCfgRate   = ID{ClassCfg, 0x08}
	IDCfgSbas   = ID{ClassCfg, 0x16}
	IDCfgNavX5  = ID{ClassCfg, 0x23}
	IDCfgNav5   = ID{ClassCfg, 0x24}
	IDCfgDgnss  = ID{ClassCfg, 0x70}
	IDCfgTmode3 = ID{ClassCfg, 0x71}
	IDNavStatus = ID{ClassNav, 0x03}
	IDNavPvt    = ID{ClassNav, 0x07}
	IDMonVer    = ID{ClassMon, 0x04}
)

var idNames = map[ID]string{
	IDAckAck:    "ACK-ACK",
	IDAckNak:    "ACK-NAK",
	IDCfgPrt:    "CFG-PRT",
	IDCfgMsg:    "CFG-MSG",
	IDCfgRst:    "CFG-RST",
	IDCfgRate:   "CFG-RATE",
	IDCfgSbas:   "CFG-SBAS",
	IDCfgNavX5:  "CFG-NAVX5",
	IDCfgNav5:   "CFG-NAV5",
	IDCfgDgnss:  "CFG-DGNSS",
	IDCfgTmode3: "CFG-TMODE3",
	IDNavStatus: "NAV-STATUS",
	IDNavPvt:    "NAV-PVT",
	IDMonVer:    "MON-VER",
}

// Message is implemented by every typed UBX payload.
type Message interface {
	// MessageID returns the identity the payload travels under.
	MessageID() ID
}

// Marshaler is implemented by messages whose payload layout cannot be
// expressed as a fixed binary struct.
type Marshaler interface {
	Message
	MarshalUBX() ([]byte, error)
}

// Unmarshaler is the decoding counterpart of Marshaler.
type Unmarshaler interface {
	Message
	UnmarshalUBX(payload []byte) error
}

// Frame is a complete UBX frame with a verified checksum.
type Frame struct {
	ID      ID
	Payload []byte
}
