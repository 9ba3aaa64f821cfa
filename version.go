// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package gostlink

import (
	"fmt"

	"github.com/boljen/go-bitmap"
)

// apiVersion distinguishes the ST-Link command-set generation: only
// API v2 supports SWD_SET_FREQ.
type apiVersion uint8

const (
	apiV1 apiVersion = 1
	apiV2 apiVersion = 2
)

// Capability flags, set on ProbeVersion.Capabilities according to the
// jtag firmware counter. Only flags relevant to the V2/V2-1 family are
// tracked here (V1's older counters and V3's API are out of scope);
// callers can use these to detect firmware features this library
// itself does not act on, such as trace support.
const (
	flagHasSwdSetFreq = iota
	flagHasTrace
	flagHasGetLastRwStatus2
	flagHasDapReg
	flagHasMem16Bit
	flagHasApInit
	flagFixCloseAp
	flagHasDpBankSel
)

// ProbeVersion is derived once per session from the GET_VERSION
// response. Major/jtag come from the shared high bits of the 16-bit
// word; the trailing 6 bits are a family-specific counter (SWIM count
// on V2, mass-storage count on V2-1).
type ProbeVersion struct {
	Family       Family
	Major        byte
	Jtag         byte
	Tail         byte // swim count (V2) or msd count (V2-1)
	API          apiVersion
	Capabilities bitmap.Bitmap
}

// HasCapability reports whether the probed firmware exposes the given
// capability flag.
func (v ProbeVersion) HasCapability(flag int) bool {
	if v.Capabilities == nil {
		return false
	}
	return v.Capabilities.Get(flag)
}

// capabilitiesForJtag mirrors the jtag-counter gating the ST-Link
// firmware changelog documents for the V2/V2-1 command set (API for
// SWD frequency from J22, trace and target voltage from J13, and so
// on). Flags for features this library does not implement (trace,
// 16-bit memory access, AP-select banking) are still tracked so a
// caller can probe for them.
func capabilitiesForJtag(jtag byte) bitmap.Bitmap {
	flags := bitmap.New(8)

	if jtag >= 13 {
		flags.Set(flagHasTrace, true)
	}
	if jtag >= 15 {
		flags.Set(flagHasGetLastRwStatus2, true)
	}
	if jtag >= 22 {
		flags.Set(flagHasSwdSetFreq, true)
	}
	if jtag >= 24 {
		flags.Set(flagHasDapReg, true)
	}
	if jtag >= 26 {
		flags.Set(flagHasMem16Bit, true)
	}
	if jtag >= 28 {
		flags.Set(flagHasApInit, true)
	}
	if jtag >= 29 {
		flags.Set(flagFixCloseAp, true)
	}
	if jtag >= 32 {
		flags.Set(flagHasDpBankSel, true)
	}

	return flags
}

// String renders the identity string in the
// "ST-Link/<family> V<major>J<jtag>{S|M}<tail>" form.
func (v ProbeVersion) String() string {
	suffix := "S"
	if v.Family == FamilyV21 {
		suffix = "M"
	}
	return fmt.Sprintf("ST-Link/%s V%dJ%d%s%d", v.Family, v.Major, v.Jtag, suffix, v.Tail)
}

// probeVersion issues the GET_VERSION handshake and decodes the
// resulting 2-byte big-endian word per the spec's bit layout:
// major = bits 15..12, jtag = bits 11..6, tail = bits 5..0.
func probeVersion(t Transport, family Family) (ProbeVersion, error) {
	cmd := []byte{cmdGetVersion, 0x80}

	resp, err := t.Xfer(cmd, nil, 6, defaultXferTimeoutMs)
	if err != nil {
		return ProbeVersion{}, err
	}

	word := beUint16(resp[:2])

	major := byte((word >> 12) & 0x0F)
	jtag := byte((word >> 6) & 0x3F)
	tail := byte(word & 0x3F)

	api := apiV1
	if jtag > 11 {
		api = apiV2
	}

	return ProbeVersion{
		Family:       family,
		Major:        major,
		Jtag:         jtag,
		Tail:         tail,
		API:          api,
		Capabilities: capabilitiesForJtag(jtag),
	}, nil
}
