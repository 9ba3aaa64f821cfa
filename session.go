// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package gostlink

// Session holds the bound transport, the device descriptor that
// parameterised it, the probed version, and the negotiated SWD
// frequency. Its lifecycle is scoped: Close releases the transport.
//
// A Session is not thread-safe. Operations on the same session must be
// serialised by the caller; concurrent calls from different goroutines
// produce undefined probe state. A Session whose last call timed out
// is considered poisoned (spec §5) — open a fresh one rather than
// reusing it.
type Session struct {
	transport  Transport
	descriptor DeviceDescriptor
	version    ProbeVersion
	frequency  uint32
	coreID     uint32
}

// Open composes the session-open sequence: enumerate, probe version,
// leave whatever mode the probe is currently in, negotiate the SWD
// frequency (API v2 only), then enter SWD debug mode. On failure,
// whatever was opened so far is released before the error is returned.
func Open(requestedHz uint32) (*Session, error) {
	if requestedHz == 0 {
		requestedHz = defaultSWDFrequencyHz
	}

	transport, descriptor, err := openUSBTransport(deviceCatalogue)
	if err != nil {
		return nil, err
	}

	s, err := openSession(transport, descriptor, requestedHz)
	if err != nil {
		transport.Close()
		return nil, err
	}
	return s, nil
}

// openSession runs the open sequence against an already-bound
// transport. Split out from Open so tests can drive it against a
// scripted fake transport instead of real USB hardware.
func openSession(transport Transport, descriptor DeviceDescriptor, requestedHz uint32) (*Session, error) {
	version, err := probeVersion(transport, descriptor.Family)
	if err != nil {
		return nil, err
	}

	if err := leaveCurrentState(transport); err != nil {
		return nil, err
	}

	frequency := requestedHz
	if version.API == apiV2 {
		if err := setSWDFrequency(transport, requestedHz); err != nil {
			return nil, err
		}
		for _, row := range frequencyTable {
			if requestedHz >= row.hz {
				frequency = row.hz
				break
			}
		}
	}

	if err := enterDebugSWD(transport); err != nil {
		return nil, err
	}

	s := &Session{
		transport:  transport,
		descriptor: descriptor,
		version:    version,
		frequency:  frequency,
	}

	if coreID, err := getCoreID(transport); err == nil {
		s.coreID = coreID
	} else {
		logger.Debugf("could not cache core id at open: %v", err)
	}

	return s, nil
}

// Close is best-effort: it releases the transport. It does not
// attempt a clean DEBUG_EXIT — neither does the reference
// implementation this library is grounded on.
func (s *Session) Close() error {
	return s.transport.Close()
}

// Version returns the version derived at open time.
func (s *Session) Version() ProbeVersion {
	return s.version
}

// DeviceDescriptor returns the descriptor the session bound to.
func (s *Session) DeviceDescriptor() DeviceDescriptor {
	return s.descriptor
}

// Frequency returns the SWD frequency negotiated at open time (or the
// request echoed back unmodified when the probe is API v1 and no
// negotiation took place).
func (s *Session) Frequency() uint32 {
	return s.frequency
}

// GetTargetVoltage reads the dual-ADC sample and computes target VCC.
// The boolean result is false when the probe reports an absent/zero
// reference sample.
func (s *Session) GetTargetVoltage() (float64, bool, error) {
	return getTargetVoltage(s.transport)
}

// GetCoreID reads the core ID register directly (bypassing the value
// cached at Open).
func (s *Session) GetCoreID() (uint32, error) {
	return getCoreID(s.transport)
}

// CachedCoreID returns the core ID observed during Open, if any.
func (s *Session) CachedCoreID() uint32 {
	return s.coreID
}

// GetCoreReg reads core register i (R0..R15, xPSR, MSP, PSP by index).
func (s *Session) GetCoreReg(index byte) (uint32, error) {
	return getCoreReg(s.transport, index)
}

// SetCoreReg writes core register i.
func (s *Session) SetCoreReg(index byte, value uint32) error {
	return setCoreReg(s.transport, index, value)
}

// GetMem32 reads the 32-bit memory-mapped debug register at addr.
// addr must be a multiple of 4.
func (s *Session) GetMem32(addr uint32) (uint32, error) {
	return getMem32(s.transport, addr)
}

// SetMem32 writes the 32-bit memory-mapped debug register at addr.
// addr must be a multiple of 4.
func (s *Session) SetMem32(addr uint32, value uint32) error {
	return setMem32(s.transport, addr, value)
}

// ReadMem32 reads size bytes starting at addr using 32-bit memory
// transactions. addr and size must be multiples of 4, and size may not
// exceed the descriptor's 32-bit transfer maximum.
func (s *Session) ReadMem32(addr uint32, size uint32) ([]byte, error) {
	return readMem32(s.transport, addr, size, s.descriptor.Max32Payload)
}

// WriteMem32 writes data starting at addr using 32-bit memory
// transactions. addr and len(data) must be multiples of 4, and
// len(data) may not exceed the descriptor's 32-bit transfer maximum.
func (s *Session) WriteMem32(addr uint32, data []byte) error {
	return writeMem32(s.transport, addr, data, s.descriptor.Max32Payload)
}

// ReadMem8 reads size bytes starting at addr using 8-bit memory
// transactions. No address alignment is required; size may not exceed
// the descriptor's 8-bit transfer maximum.
func (s *Session) ReadMem8(addr uint32, size uint32) ([]byte, error) {
	return readMem8(s.transport, addr, size, s.descriptor.Max8Payload)
}

// WriteMem8 writes data starting at addr using 8-bit memory
// transactions. len(data) may not exceed the descriptor's 8-bit
// transfer maximum.
func (s *Session) WriteMem8(addr uint32, data []byte) error {
	return writeMem8(s.transport, addr, data, s.descriptor.Max8Payload)
}
