// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the openocd project source code
// for detailed information see

// https://sourceforge.net/p/openocd/code

package gostlink

import (
	"context"
	"time"

	"github.com/google/gousb"
)

const defaultXferTimeoutMs = 200

// Transport is the raw endpoint I/O and command-framing boundary
// between the SWD command layer and a physical (or, in tests,
// scripted) probe. A faithful emulator satisfying this interface is
// enough to exercise every operation in this package without real USB
// hardware.
type Transport interface {
	// Write sends the full buffer to the OUT endpoint. It fails with
	// ErrTransport if the device accepts fewer bytes than given.
	Write(data []byte, timeoutMs int) error

	// Read pulls from the IN endpoint and returns exactly size bytes.
	// The underlying read length is inflated per the firmware's
	// padding requirement (see usbTransport.Read).
	Read(size int, timeoutMs int) ([]byte, error)

	// Xfer is the single entry point the SWD command layer uses: it
	// pads cmd to 16 bytes, writes it, optionally writes data, then
	// optionally reads rxLen bytes back.
	Xfer(cmd []byte, data []byte, rxLen int, timeoutMs int) ([]byte, error)

	Close() error
}

// usbTransport is the gousb-backed production Transport.
type usbTransport struct {
	ctx       *gousb.Context
	device    *gousb.Device
	config    *gousb.Config
	iface     *gousb.Interface
	outEP     *gousb.OutEndpoint
	inEP      *gousb.InEndpoint
	descriptor DeviceDescriptor
}

// openUSBTransport walks the catalogue deterministically and binds the
// first device on the host USB bus whose (vendor, product) matches any
// row. It fails with ErrDeviceNotFound when none match, and exposes no
// open flags or claim options beyond configuration #1, interface 0/0 —
// matching every known ST-Link V2/V2-1 firmware layout.
func openUSBTransport(catalogue []DeviceDescriptor) (*usbTransport, DeviceDescriptor, error) {
	ctx := gousb.NewContext()

	var matched *DeviceDescriptor
	var device *gousb.Device

	devices, _ := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		for i := range catalogue {
			if catalogue[i].VendorID == desc.Vendor && catalogue[i].ProductID == desc.Product {
				return true
			}
		}
		return false
	})

	// OpenDevices' predicate already restricts the result set to
	// catalogue matches; bind the first one and release the rest.
	for _, d := range devices {
		if device == nil {
			for i := range catalogue {
				if catalogue[i].VendorID == d.Desc.Vendor && catalogue[i].ProductID == d.Desc.Product {
					matched = &catalogue[i]
					device = d
					break
				}
			}
			continue
		}
		d.Close()
	}

	if matched == nil {
		ctx.Close()
		return nil, DeviceDescriptor{}, newError(ErrDeviceNotFound, "no supported ST-Link VID/PID present on USB bus")
	}

	logger.Infof("found st-link %s [%04x:%04x]", matched.Family, uint16(matched.VendorID), uint16(matched.ProductID))

	device.SetAutoDetach(true)

	config, err := device.Config(1)
	if err != nil {
		device.Close()
		ctx.Close()
		return nil, DeviceDescriptor{}, wrapError(ErrDeviceNotFound, "could not select usb configuration #1", err)
	}

	iface, err := config.Interface(0, 0)
	if err != nil {
		config.Close()
		device.Close()
		ctx.Close()
		return nil, DeviceDescriptor{}, wrapError(ErrDeviceNotFound, "could not claim usb interface 0,0", err)
	}

	outEP, err := iface.OutEndpoint(matched.OutEndpoint)
	if err != nil {
		iface.Close()
		config.Close()
		device.Close()
		ctx.Close()
		return nil, DeviceDescriptor{}, wrapError(ErrDeviceNotFound, "could not open out endpoint", err)
	}

	inEP, err := iface.InEndpoint(matched.InEndpoint)
	if err != nil {
		iface.Close()
		config.Close()
		device.Close()
		ctx.Close()
		return nil, DeviceDescriptor{}, wrapError(ErrDeviceNotFound, "could not open in endpoint", err)
	}

	t := &usbTransport{
		ctx:        ctx,
		device:     device,
		config:     config,
		iface:      iface,
		outEP:      outEP,
		inEP:       inEP,
		descriptor: *matched,
	}

	return t, *matched, nil
}

func (t *usbTransport) Write(data []byte, timeoutMs int) error {
	opCtx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	n, err := t.outEP.WriteContext(opCtx, data)
	if err != nil {
		return wrapError(ErrTransport, "usb write failed", err)
	}
	if n != len(data) {
		return newError(ErrTransport, "short write to out endpoint")
	}
	return nil
}

// Read pulls from the IN endpoint and truncates to size. Probe
// firmware short-returns unless the requested read length is itself
// padded: below 64 bytes it inflates to 64, otherwise it rounds up to
// the next multiple of 4.
func (t *usbTransport) Read(size int, timeoutMs int) ([]byte, error) {
	readSize := size
	if readSize < 64 {
		readSize = 64
	} else if readSize%4 != 0 {
		readSize = (readSize + 3) & 0xFFC
	}

	buf := make([]byte, readSize)

	opCtx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	n, err := t.inEP.ReadContext(opCtx, buf)
	if err != nil {
		return nil, wrapError(ErrTransport, "usb read failed", err)
	}
	if n < size {
		return nil, newError(ErrTransport, "short read from in endpoint")
	}

	return buf[:size], nil
}

func (t *usbTransport) Xfer(cmd []byte, data []byte, rxLen int, timeoutMs int) ([]byte, error) {
	if len(cmd) > 16 {
		return nil, newError(ErrTransport, "command frame exceeds 16 bytes")
	}

	frame := make([]byte, 16)
	copy(frame, cmd)

	if err := t.Write(frame, timeoutMs); err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := t.Write(data, timeoutMs); err != nil {
			return nil, err
		}
	}

	if rxLen > 0 {
		return t.Read(rxLen, timeoutMs)
	}

	return nil, nil
}

func (t *usbTransport) Close() error {
	if t.iface != nil {
		t.iface.Close()
	}
	if t.config != nil {
		t.config.Close()
	}
	if t.device != nil {
		t.device.Close()
	}
	if t.ctx != nil {
		t.ctx.Close()
	}
	return nil
}
