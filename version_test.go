// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package gostlink

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("version probe", func() {
	It("decodes major/jtag/api from the big-endian GET_VERSION word", func() {
		// word = (major<<12)|(jtag<<6)|tail with major=2, jtag=25, tail=0
		// -> 0x2640, sent big-endian as [0x26, 0x40].
		ft := newFakeTransport()
		ft.pushResponse([]byte{0x26, 0x40, 0, 0, 0, 0})

		v, err := probeVersion(ft, FamilyV21)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Major).To(BeEquivalentTo(2))
		Expect(v.Jtag).To(BeEquivalentTo(25))
		Expect(v.API).To(Equal(apiV2))
		Expect(v.String()).To(Equal("ST-Link/V2-1 V2J25M0"))

		Expect(ft.xfers).To(HaveLen(1))
		Expect(ft.xfers[0].frame[0]).To(BeEquivalentTo(cmdGetVersion))
		Expect(ft.xfers[0].frame[1]).To(BeEquivalentTo(byte(0x80)))
		Expect(ft.xfers[0].rxLen).To(Equal(6))
	})

	It("reports api v1 when jtag is 11 or below", func() {
		// major=1, jtag=10, tail=0 -> word = (1<<12)|(10<<6) = 0x1280
		ft := newFakeTransport()
		ft.pushResponse([]byte{0x12, 0x80, 0, 0, 0, 0})

		v, err := probeVersion(ft, FamilyV2)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Jtag).To(BeEquivalentTo(10))
		Expect(v.API).To(Equal(apiV1))
	})
})
