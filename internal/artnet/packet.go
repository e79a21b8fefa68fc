package artnet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Art-Net constants for ArtDmx.
const (
	DefaultPort     = 6454
	OpDmx           = 0x5000
	ProtocolVersion = 14
	HeaderSize      = 18
	MaxSlots        = 512
)

var signature = []byte("Art-Net\x00")

// ErrNotDmx is returned for valid Art-Net packets that do not carry DMX data
// (polls, replies and so on).
var ErrNotDmx = errors.New("not an ArtDmx packet")

// DmxPacket is a decoded ArtDmx packet.
type DmxPacket struct {
	Sequence byte
	Physical byte
	Universe int // 15-bit port address
	Data     []byte
}

// ParseDMX decodes an ArtDmx packet. Data aliases packet.
func ParseDMX(packet []byte) (*DmxPacket, error) {
	if len(packet) < 10 || !bytes.Equal(packet[0:8], signature) {
		return nil, fmt.Errorf("invalid Art-Net signature")
	}

	opCode := binary.LittleEndian.Uint16(packet[8:10])
	if opCode != OpDmx {
		return nil, fmt.Errorf("%w (opcode 0x%04x)", ErrNotDmx, opCode)
	}

	if len(packet) < HeaderSize {
		return nil, fmt.Errorf("ArtDmx packet too short: %d bytes", len(packet))
	}

	if v := binary.BigEndian.Uint16(packet[10:12]); v < ProtocolVersion {
		return nil, fmt.Errorf("unsupported Art-Net protocol version %d", v)
	}

	length := int(binary.BigEndian.Uint16(packet[16:18]))
	if length > MaxSlots {
		return nil, fmt.Errorf("ArtDmx length %d exceeds %d slots", length, MaxSlots)
	}
	if HeaderSize+length > len(packet) {
		return nil, fmt.Errorf("ArtDmx length %d exceeds payload of %d bytes", length, len(packet)-HeaderSize)
	}

	return &DmxPacket{
		Sequence: packet[12],
		Physical: packet[13],
		Universe: int(binary.LittleEndian.Uint16(packet[14:16]) & 0x7fff),
		Data:     packet[HeaderSize : HeaderSize+length],
	}, nil
}

// BuildDMX encodes an ArtDmx packet for universe. Data longer than MaxSlots
// is cut.
func BuildDMX(universe int, sequence byte, data []byte) []byte {
	if len(data) > MaxSlots {
		data = data[:MaxSlots]
	}
	packet := make([]byte, HeaderSize+len(data))
	copy(packet[0:8], signature)
	binary.LittleEndian.PutUint16(packet[8:10], OpDmx)
	binary.BigEndian.PutUint16(packet[10:12], ProtocolVersion)
	packet[12] = sequence
	binary.LittleEndian.PutUint16(packet[14:16], uint16(universe))
	binary.BigEndian.PutUint16(packet[16:18], uint16(len(data)))
	copy(packet[HeaderSize:], data)
	return packet
}
