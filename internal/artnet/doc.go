// Package artnet receives DMX512 data over Art-Net.
//
// Only ArtDmx (opcode 0x5000) is handled. The header is 18 bytes:
//
//	0-7   "Art-Net\x00"
//	8-9   opcode, little endian
//	10-11 protocol version, big endian (14)
//	12    sequence
//	13    physical input port
//	14-15 port address (universe), little endian
//	16-17 data length, big endian (up to 512)
//
// A Listener drops everything that is not addressed to the universe of its
// Renderer.
package artnet
