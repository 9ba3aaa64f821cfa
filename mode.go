// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the openocd project source code
// for detailed information see

// https://sourceforge.net/p/openocd/code

package gostlink

// leaveCurrentState reads the probe's current mode and, if it is in
// DFU, DEBUG or SWIM mode, issues the matching exit command. Any other
// reported mode is left untouched.
func leaveCurrentState(t Transport) error {
	resp, err := t.Xfer([]byte{cmdGetCurrentMode}, nil, 2, defaultXferTimeoutMs)
	if err != nil {
		return err
	}

	switch resp[0] {
	case modeDFU:
		_, err = t.Xfer([]byte{cmdDfu, dfuExit}, nil, 0, defaultXferTimeoutMs)
	case modeDebug:
		_, err = t.Xfer([]byte{cmdDebug, debugExit}, nil, 0, defaultXferTimeoutMs)
	case modeSwim:
		_, err = t.Xfer([]byte{cmdSwim, swimExit}, nil, 0, defaultXferTimeoutMs)
	default:
		// mass storage, bootloader, or any other code: no action.
	}

	return err
}

// enterDebugSWD switches the probe into SWD debug mode. Response bytes
// are consumed but, per spec, not checked.
func enterDebugSWD(t Transport) error {
	_, err := t.Xfer([]byte{cmdDebug, debugV2Enter, debugEnterSWD}, nil, 2, defaultXferTimeoutMs)
	return err
}
