package ubx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame layout constants.
const (
	// SyncChar1 and SyncChar2 open every UBX frame.
	SyncChar1 = 0xB5
	SyncChar2 = 0x62

	// HeaderSize covers sync chars, class, id, and the length field.
	HeaderSize = 6

	// ChecksumSize is the trailing CK_A CK_B pair.
	ChecksumSize = 2

	// Overhead is the frame size beyond the payload.
	Overhead = HeaderSize + ChecksumSize

	// MaxPayloadSize bounds the length field accepted during extraction.
	// Real receiver output stays well below this; anything larger is
	// treated as corrupt input.
	MaxPayloadSize = 8192
)

// Codec errors.
var (
	// ErrChecksum indicates a frame whose checksum does not match its body.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrInvalidLength indicates a length field beyond MaxPayloadSize.
	ErrInvalidLength = errors.New("invalid payload length")

	// ErrPayloadSize indicates a payload that does not fit the target type.
	ErrPayloadSize = errors.New("payload size mismatch")

	// ErrIDMismatch indicates a frame decoded into a message of a
	// different identity.
	ErrIDMismatch = errors.New("message identity mismatch")
)

// Checksum computes the Fletcher checksum over data, which must span
// class through the end of the payload.
func Checksum(data []byte) (ckA, ckB uint8) {
	for _, b := range data {
		ckA += b
		ckB += ckA
	}
	return ckA, ckB
}

// EncodeFrame serializes msg into a complete UBX frame.
func EncodeFrame(msg Message) ([]byte, error) {
	payload, err := MarshalPayload(msg)
	if err != nil {
		return nil, err
	}
	return EncodeRaw(msg.MessageID(), payload), nil
}

// EncodeRaw frames an arbitrary payload under the given identity.
// An empty payload produces a poll request for that identity.
func EncodeRaw(id ID, payload []byte) []byte {
	frame := make([]byte, 0, Overhead+len(payload))
	frame = append(frame, SyncChar1, SyncChar2, id.Class, id.Msg)
	frame = binary.LittleEndian.AppendUint16(frame, uint16(len(payload)))
	frame = append(frame, payload...)
	ckA, ckB := Checksum(frame[2:])
	return append(frame, ckA, ckB)
}

// MarshalPayload serializes only the payload portion of msg.
func MarshalPayload(msg Message) ([]byte, error) {
	if m, ok := msg.(Marshaler); ok {
		return m.MarshalUBX()
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, msg); err != nil {
		return nil, fmt.Errorf("encode %v payload: %w", msg.MessageID(), err)
	}
	return buf.Bytes(), nil
}

// DecodeInto decodes a frame's payload into msg, which must be a pointer
// to a message of the frame's identity.
func DecodeInto(frame *Frame, msg Message) error {
	if frame.ID != msg.MessageID() {
		return fmt.Errorf("%w: frame %v, message %v", ErrIDMismatch, frame.ID, msg.MessageID())
	}
	if u, ok := msg.(Unmarshaler); ok {
		return u.UnmarshalUBX(frame.Payload)
	}
	size := binary.Size(msg)
	if size < 0 {
		return fmt.Errorf("message %v is not a fixed-size type", msg.MessageID())
	}
	if size != len(frame.Payload) {
		return fmt.Errorf("%w: %v payload is %d bytes, want %d",
			ErrPayloadSize, frame.ID, len(frame.Payload), size)
	}
	return binary.Read(bytes.NewReader(frame.Payload), binary.LittleEndian, msg)
}

// Extract scans buf for the next complete frame.
//
// It returns the number of bytes consumed, the frame if one completed,
// and an error for corrupt input. Consumed bytes with a nil frame and
// nil error are leading bytes that cannot start a frame (NMEA text and
// other non-UBX output is normal on a shared port). A corrupt candidate
// consumes past its sync pair so scanning resynchronizes on the next
// call. n == 0 means buf holds an incomplete frame prefix: keep the
// bytes and call again once more data arrives.
func Extract(buf []byte) (n int, frame *Frame, err error) {
	start := bytes.IndexByte(buf, SyncChar1)
	if start < 0 {
		return len(buf), nil, nil
	}
	if start > 0 {
		return start, nil, nil
	}
	if len(buf) < 2 {
		return 0, nil, nil
	}
	if buf[1] != SyncChar2 {
		// Stray sync byte inside other traffic.
		return 1, nil, nil
	}
	if len(buf) < HeaderSize {
		return 0, nil, nil
	}
	length := int(binary.LittleEndian.Uint16(buf[4:HeaderSize]))
	if length > MaxPayloadSize {
		return 2, nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, length)
	}
	total := Overhead + length
	if len(buf) < total {
		return 0, nil, nil
	}
	ckA, ckB := Checksum(buf[2 : HeaderSize+length])
	if ckA != buf[total-2] || ckB != buf[total-1] {
		id := ID{buf[2], buf[3]}
		return 2, nil, fmt.Errorf("%w: %v frame", ErrChecksum, id)
	}
	frame = &Frame{
		ID:      ID{buf[2], buf[3]},
		Payload: append([]byte(nil), buf[HeaderSize:HeaderSize+length]...),
	}
	return total, frame, nil
}
