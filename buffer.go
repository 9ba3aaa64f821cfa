// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package gostlink

import "bytes"

// commandFrame accumulates an outbound command's opcode and operand
// bytes before the transport right-pads it to the fixed 16-byte wire
// frame. Multi-byte operands are little-endian, per the ST-Link wire
// format, except the GET_VERSION response which the version probe
// decodes directly as big-endian.
type commandFrame struct {
	bytes.Buffer
}

func newCommandFrame() *commandFrame {
	cf := &commandFrame{}
	cf.Grow(16)
	return cf
}

func (cf *commandFrame) writeUint16LE(value uint16) {
	cf.WriteByte(byte(value))
	cf.WriteByte(byte(value >> 8))
}

func (cf *commandFrame) writeUint32LE(value uint32) {
	cf.WriteByte(byte(value))
	cf.WriteByte(byte(value >> 8))
	cf.WriteByte(byte(value >> 16))
	cf.WriteByte(byte(value >> 24))
}

func leUint32(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

func leUint16(buf []byte) uint16 {
	return uint16(buf[0]) | uint16(buf[1])<<8
}

func beUint16(buf []byte) uint16 {
	return uint16(buf[1]) | uint16(buf[0])<<8
}
