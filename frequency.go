// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package gostlink

import "fmt"

// resolveFrequencyDivisor walks frequencyTable in its declared
// descending order and returns the divisor of the first row whose Hz
// does not exceed requestedHz — the highest-frequency-match policy
// (see SPEC_FULL.md §4.5 on the two incompatible source variants).
func resolveFrequencyDivisor(requestedHz uint32) (byte, error) {
	for _, row := range frequencyTable {
		if requestedHz >= row.hz {
			return row.divisor, nil
		}
	}
	return 0, newError(ErrInvalidFrequency, fmt.Sprintf("%d Hz is below the slowest supported rate", requestedHz))
}

// setSWDFrequency resolves requestedHz to a divisor and programs it.
// Callers must only invoke this when the probed API is v2; older
// firmware has no SWD_SET_FREQ command.
func setSWDFrequency(t Transport, requestedHz uint32) error {
	divisor, err := resolveFrequencyDivisor(requestedHz)
	if err != nil {
		return err
	}

	resp, err := t.Xfer([]byte{cmdDebug, debugV2SwdSetFreq, divisor}, nil, 2, defaultXferTimeoutMs)
	if err != nil {
		return err
	}

	if resp[0] != 0x80 {
		return newError(ErrTransport, fmt.Sprintf("unexpected SWD_SET_FREQ response byte 0x%02x", resp[0]))
	}

	return nil
}
