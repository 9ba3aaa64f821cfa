// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the openocd project source code
// for detailed information see

// https://sourceforge.net/p/openocd/code

package gostlink

import "github.com/google/gousb"

// Family distinguishes the two probe models this library drives. They
// differ only in product ID and OUT endpoint address; see Design
// Notes on probe polymorphism.
type Family string

const (
	FamilyV2  Family = "V2"
	FamilyV21 Family = "V2-1"
)

// DeviceDescriptor is an immutable record describing one probe family:
// its USB identity, its bulk endpoint addresses, and the payload
// ceilings its firmware enforces for 32-bit and 8-bit memory access.
type DeviceDescriptor struct {
	VendorID     gousb.ID
	ProductID    gousb.ID
	OutEndpoint  int
	InEndpoint   int
	Family       Family
	Max32Payload int // default 1024
	Max8Payload  int // default 64
}

// deviceCatalogue is the ordered, constant table of supported probe
// families. Probing walks it deterministically and binds the first
// match; it is never mutated after initialization (Design Note:
// "Global device list" -> immutable constant passed to the transport).
var deviceCatalogue = []DeviceDescriptor{
	{
		VendorID:     0x0483,
		ProductID:    0x3748,
		OutEndpoint:  0x02,
		InEndpoint:   0x81,
		Family:       FamilyV2,
		Max32Payload: 1024,
		Max8Payload:  64,
	},
	{
		VendorID:     0x0483,
		ProductID:    0x374B,
		OutEndpoint:  0x01,
		InEndpoint:   0x81,
		Family:       FamilyV21,
		Max32Payload: 1024,
		Max8Payload:  64,
	},
}

// ListFamilies returns the supported family tags in catalogue order.
func ListFamilies() []Family {
	out := make([]Family, len(deviceCatalogue))
	for i, d := range deviceCatalogue {
		out[i] = d.Family
	}
	return out
}

// LookupDescriptor returns the descriptor for a given family tag, and
// whether it was found.
func LookupDescriptor(family Family) (DeviceDescriptor, bool) {
	for _, d := range deviceCatalogue {
		if d.Family == family {
			return d, true
		}
	}
	return DeviceDescriptor{}, false
}

// Top-level ST-Link command opcodes (cmdBuffer byte 0).
const (
	cmdGetVersion       = 0xF1
	cmdDebug            = 0xF2
	cmdDfu              = 0xF3
	cmdSwim             = 0xF4
	cmdGetCurrentMode   = 0xF5
	cmdGetTargetVoltage = 0xF7
)

// Current-mode codes, as returned by GET_CURRENT_MODE.
const (
	modeDFU        = 0x00
	modeMass       = 0x01
	modeDebug      = 0x02
	modeSwim       = 0x03
	modeBootloader = 0x04
)

// DFU sub-opcodes.
const (
	dfuExit = 0x07
)

// SWIM sub-opcodes.
const (
	swimEnter = 0x00
	swimExit  = 0x01
)

// DEBUG sub-opcodes common to API v1 and v2.
const (
	debugReadMem32  = 0x07
	debugWriteMem32 = 0x08
	debugRun        = 0x09
	debugStep       = 0x0A
	debugReadMem8   = 0x0C
	debugWriteMem8  = 0x0D
	debugExit       = 0x21
	debugReadCoreID = 0x22
	debugSync       = 0x3E
	debugEnterSWD   = 0xA3
)

// DEBUG API-v2 sub-opcodes.
const (
	debugV2NrstLow         = 0x00
	debugV2NrstHigh        = 0x01
	debugV2NrstPulse       = 0x02
	debugV2Enter           = 0x30
	debugV2ReadIDCodes     = 0x31
	debugV2ResetSys        = 0x32
	debugV2ReadReg         = 0x33
	debugV2WriteReg        = 0x34
	debugV2WriteDebugReg   = 0x35
	debugV2ReadDebugReg    = 0x36
	debugV2ReadAllRegs     = 0x3A
	debugV2GetLastRWStatus = 0x3B
	debugV2DriveNrst       = 0x3C
	debugV2StartTraceRx    = 0x40
	debugV2StopTraceRx     = 0x41
	debugV2GetTraceNb      = 0x42
	debugV2SwdSetFreq      = 0x43
)

// DEBUG API-v1 sub-opcodes.
const (
	debugV1ResetSys      = 0x03
	debugV1ReadAllRegs   = 0x04
	debugV1ReadReg       = 0x05
	debugV1WriteReg      = 0x06
	debugV1SetFP         = 0x0B
	debugV1ClearFP       = 0x0E
	debugV1WriteDebugReg = 0x0F
	debugV1SetWatchpoint = 0x10
	debugV1Enter         = 0x20
)

// freqRow is one entry of the frequency table: requested Hz maps to a
// firmware divisor byte.
type freqRow struct {
	hz      uint32
	divisor byte
}

// frequencyTable is declared in descending order of hz; the frequency
// negotiator relies on that ordering to implement the
// highest-frequency-match policy. Default is 1_800_000 Hz (divisor 1).
var frequencyTable = []freqRow{
	{4000000, 0},
	{1800000, 1},
	{1200000, 2},
	{950000, 3},
	{480000, 7},
	{240000, 15},
	{125000, 31},
	{100000, 40},
	{50000, 79},
	{25000, 158},
}

const defaultSWDFrequencyHz = 1800000
