// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package gostlink

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("mode manager", func() {
	Describe("leaveCurrentState", func() {
		It("exits DFU mode when the probe reports DFU", func() {
			ft := newFakeTransport()
			ft.pushResponse([]byte{modeDFU, 0})

			Expect(leaveCurrentState(ft)).To(Succeed())
			Expect(ft.xfers).To(HaveLen(2))
			Expect(ft.xfers[1].frame[0]).To(BeEquivalentTo(cmdDfu))
			Expect(ft.xfers[1].frame[1]).To(BeEquivalentTo(dfuExit))
		})

		It("exits DEBUG mode when the probe reports DEBUG", func() {
			ft := newFakeTransport()
			ft.pushResponse([]byte{modeDebug, 0})

			Expect(leaveCurrentState(ft)).To(Succeed())
			Expect(ft.xfers[1].frame[0]).To(BeEquivalentTo(cmdDebug))
			Expect(ft.xfers[1].frame[1]).To(BeEquivalentTo(debugExit))
		})

		It("exits SWIM mode when the probe reports SWIM", func() {
			ft := newFakeTransport()
			ft.pushResponse([]byte{modeSwim, 0})

			Expect(leaveCurrentState(ft)).To(Succeed())
			Expect(ft.xfers[1].frame[0]).To(BeEquivalentTo(cmdSwim))
			Expect(ft.xfers[1].frame[1]).To(BeEquivalentTo(swimExit))
		})

		It("takes no action for any other reported mode", func() {
			ft := newFakeTransport()
			ft.pushResponse([]byte{modeMass, 0})

			Expect(leaveCurrentState(ft)).To(Succeed())
			Expect(ft.xfers).To(HaveLen(1))
		})
	})

	Describe("enterDebugSWD", func() {
		It("sends DEBUG/A2_ENTER/ENTER_SWD and ignores the response body", func() {
			ft := newFakeTransport()
			ft.pushResponse([]byte{0x80, 0x00})

			Expect(enterDebugSWD(ft)).To(Succeed())
			Expect(ft.xfers).To(HaveLen(1))
			Expect(ft.xfers[0].frame[0]).To(BeEquivalentTo(cmdDebug))
			Expect(ft.xfers[0].frame[1]).To(BeEquivalentTo(debugV2Enter))
			Expect(ft.xfers[0].frame[2]).To(BeEquivalentTo(debugEnterSWD))
		})
	})
})
