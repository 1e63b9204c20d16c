package ubx

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrUnknownMessage indicates a frame identity with no registered type.
var ErrUnknownMessage = errors.New("unknown message")

var (
	registryMu sync.RWMutex
	registry   = map[ID]reflect.Type{}
)

func init() {
	for _, msg := range []Message{
		AckAck{},
		AckNak{},
		CfgPrt{},
		CfgMsg{},
		CfgRst{},
		CfgRate{},
		CfgSbas{},
		CfgNavX5{},
		CfgNav5{},
		CfgDgnss{},
		CfgTmode3{},
		NavStatus{},
		NavPvt{},
		MonVer{},
	} {
		RegisterMessage(msg)
	}
}

// RegisterMessage maps a message's identity to its concrete type so
// Decode can produce it. The standard message set is registered at
// package init; callers may add receiver-specific messages.
func RegisterMessage(msg Message) {
	t := reflect.TypeOf(msg)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	registryMu.Lock()
	registry[msg.MessageID()] = t
	registryMu.Unlock()
}

// Decode produces the typed message for a frame. The result is a
// pointer to the registered type, e.g. *NavPvt for a NAV-PVT frame.
func Decode(frame *Frame) (Message, error) {
	registryMu.RLock()
	t, ok := registry[frame.ID]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMessage, frame.ID)
	}
	msg := reflect.New(t).Interface().(Message)
	if err := DecodeInto(frame, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
