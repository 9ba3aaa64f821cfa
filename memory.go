// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the openocd project source code
// for detailed information see

// https://sourceforge.net/p/openocd/code

package gostlink

import "fmt"

// All wire operands in this file are little-endian; preconditions are
// checked before any USB I/O is issued, and no operation here retries
// on failure (spec §4.6: "failure semantics are local and
// non-retrying").

func getTargetVoltage(t Transport) (float64, bool, error) {
	resp, err := t.Xfer([]byte{cmdGetTargetVoltage}, nil, 8, defaultXferTimeoutMs)
	if err != nil {
		return 0, false, err
	}

	an0 := leUint32(resp[0:4])
	an1 := leUint32(resp[4:8])

	if an0 == 0 {
		return 0, false, nil
	}

	voltage := 2 * float64(an1) * 1.2 / float64(an0)
	return voltage, true, nil
}

func getCoreID(t Transport) (uint32, error) {
	resp, err := t.Xfer([]byte{cmdDebug, debugReadCoreID}, nil, 4, defaultXferTimeoutMs)
	if err != nil {
		return 0, err
	}
	return leUint32(resp), nil
}

func getCoreReg(t Transport, index byte) (uint32, error) {
	resp, err := t.Xfer([]byte{cmdDebug, debugV2ReadReg, index}, nil, 8, defaultXferTimeoutMs)
	if err != nil {
		return 0, err
	}
	return leUint32(resp[4:8]), nil
}

func setCoreReg(t Transport, index byte, value uint32) error {
	cf := newCommandFrame()
	cf.WriteByte(cmdDebug)
	cf.WriteByte(debugV2WriteReg)
	cf.WriteByte(index)
	cf.writeUint32LE(value)

	_, err := t.Xfer(cf.Bytes(), nil, 2, defaultXferTimeoutMs)
	return err
}

func getMem32(t Transport, addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, newError(ErrAddressAlignment, fmt.Sprintf("address 0x%08x is not a multiple of 4", addr))
	}

	cf := newCommandFrame()
	cf.WriteByte(cmdDebug)
	cf.WriteByte(debugV2ReadDebugReg)
	cf.writeUint32LE(addr)

	resp, err := t.Xfer(cf.Bytes(), nil, 8, defaultXferTimeoutMs)
	if err != nil {
		return 0, err
	}
	return leUint32(resp[4:8]), nil
}

func setMem32(t Transport, addr uint32, value uint32) error {
	if addr%4 != 0 {
		return newError(ErrAddressAlignment, fmt.Sprintf("address 0x%08x is not a multiple of 4", addr))
	}

	cf := newCommandFrame()
	cf.WriteByte(cmdDebug)
	cf.WriteByte(debugV2WriteDebugReg)
	cf.writeUint32LE(addr)
	cf.writeUint32LE(value)

	_, err := t.Xfer(cf.Bytes(), nil, 2, defaultXferTimeoutMs)
	return err
}

func readMem32(t Transport, addr uint32, size uint32, max32 int) ([]byte, error) {
	if addr%4 != 0 {
		return nil, newError(ErrAddressAlignment, fmt.Sprintf("address 0x%08x is not a multiple of 4", addr))
	}
	if size%4 != 0 {
		return nil, newError(ErrAddressAlignment, fmt.Sprintf("length %d is not a multiple of 4", size))
	}
	if size > uint32(max32) {
		return nil, newError(ErrSizeLimit, fmt.Sprintf("length %d exceeds 32-bit max of %d", size, max32))
	}

	cf := newCommandFrame()
	cf.WriteByte(cmdDebug)
	cf.WriteByte(debugReadMem32)
	cf.writeUint32LE(addr)
	cf.writeUint32LE(size)

	return t.Xfer(cf.Bytes(), nil, int(size), defaultXferTimeoutMs)
}

func writeMem32(t Transport, addr uint32, data []byte, max32 int) error {
	if addr%4 != 0 {
		return newError(ErrAddressAlignment, fmt.Sprintf("address 0x%08x is not a multiple of 4", addr))
	}
	if len(data)%4 != 0 {
		return newError(ErrAddressAlignment, fmt.Sprintf("length %d is not a multiple of 4", len(data)))
	}
	if len(data) > max32 {
		return newError(ErrSizeLimit, fmt.Sprintf("length %d exceeds 32-bit max of %d", len(data), max32))
	}

	cf := newCommandFrame()
	cf.WriteByte(cmdDebug)
	cf.WriteByte(debugWriteMem32)
	cf.writeUint32LE(addr)
	cf.writeUint32LE(uint32(len(data)))

	_, err := t.Xfer(cf.Bytes(), data, 0, defaultXferTimeoutMs)
	return err
}

func readMem8(t Transport, addr uint32, size uint32, max8 int) ([]byte, error) {
	if size > uint32(max8) {
		return nil, newError(ErrSizeLimit, fmt.Sprintf("length %d exceeds 8-bit max of %d", size, max8))
	}

	cf := newCommandFrame()
	cf.WriteByte(cmdDebug)
	cf.WriteByte(debugReadMem8)
	cf.writeUint32LE(addr)
	cf.writeUint32LE(size)

	return t.Xfer(cf.Bytes(), nil, int(size), defaultXferTimeoutMs)
}

func writeMem8(t Transport, addr uint32, data []byte, max8 int) error {
	if len(data) > max8 {
		return newError(ErrSizeLimit, fmt.Sprintf("length %d exceeds 8-bit max of %d", len(data), max8))
	}

	cf := newCommandFrame()
	cf.WriteByte(cmdDebug)
	cf.WriteByte(debugWriteMem8)
	cf.writeUint32LE(addr)
	cf.writeUint32LE(uint32(len(data)))

	_, err := t.Xfer(cf.Bytes(), data, 0, defaultXferTimeoutMs)
	return err
}
