// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package gostlink

// xferRecord captures one Xfer call as observed by fakeTransport: the
// full 16-byte padded command frame, the optional data payload, and
// the requested response length.
type xferRecord struct {
	frame [16]byte
	data  []byte
	rxLen int
}

// fakeTransport is the scripted USB mock SPEC_FULL.md §8 asks for. It
// records every Xfer call and every underlying Read's inflated size,
// and returns responses from a FIFO queue the test pre-loads with
// pushResponse.
type fakeTransport struct {
	xfers       []xferRecord
	readSizes   []int
	responses   [][]byte
	writeErr    error
	closeCalled bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{}
}

// pushResponse queues the bytes to return from the next Xfer call that
// requests a read (rxLen > 0).
func (f *fakeTransport) pushResponse(b []byte) {
	f.responses = append(f.responses, b)
}

func (f *fakeTransport) Write(data []byte, timeoutMs int) error {
	return f.writeErr
}

// Read mirrors the real transport's padding rule so property 4 in
// SPEC_FULL.md §8 can be asserted against it directly.
func (f *fakeTransport) Read(size int, timeoutMs int) ([]byte, error) {
	readSize := size
	if readSize < 64 {
		readSize = 64
	} else if readSize%4 != 0 {
		readSize = (readSize + 3) & 0xFFC
	}
	f.readSizes = append(f.readSizes, readSize)

	if len(f.responses) == 0 {
		return make([]byte, size), nil
	}

	next := f.responses[0]
	f.responses = f.responses[1:]

	out := make([]byte, size)
	copy(out, next)
	return out, nil
}

func (f *fakeTransport) Xfer(cmd []byte, data []byte, rxLen int, timeoutMs int) ([]byte, error) {
	if len(cmd) > 16 {
		return nil, newError(ErrTransport, "command frame exceeds 16 bytes")
	}

	var rec xferRecord
	copy(rec.frame[:], cmd)
	rec.data = append([]byte(nil), data...)
	rec.rxLen = rxLen
	f.xfers = append(f.xfers, rec)

	if f.writeErr != nil {
		return nil, f.writeErr
	}

	if rxLen > 0 {
		return f.Read(rxLen, timeoutMs)
	}
	return nil, nil
}

func (f *fakeTransport) Close() error {
	f.closeCalled = true
	return nil
}

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func be16(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}
