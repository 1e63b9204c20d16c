// Package ubx implements the u-blox UBX binary protocol.
//
// UBX is a length-framed little-endian binary protocol spoken by u-blox
// GNSS receivers over serial, USB, and network transports. Every frame
// carries a two-byte sync sequence, a message class and id, a payload
// length, the payload, and a two-byte Fletcher checksum.
//
// # Frame Layout
//
//	0xB5 0x62 | class | id | length (uint16 LE) | payload | CK_A CK_B
//
// The checksum spans class through the end of the payload.
//
// # Message Identity
//
// Messages are identified by the (class, id) pair, represented here as
// ID. Well-known identities are defined as variables (IDAckAck, IDCfgMsg,
// IDNavPvt, ...). ACK-ACK and ACK-NAK are control messages whose payload
// echoes the identity of the acknowledged configuration message.
//
// # Typed Payloads
//
// Fixed-layout messages are plain structs whose field order matches the
// receiver's wire layout; they are encoded and decoded with
// encoding/binary in little-endian order. Variable-layout messages
// (MON-VER) implement Marshaler/Unmarshaler instead. Decode dispatches
// on the frame identity through a package-level registry.
package ubx
