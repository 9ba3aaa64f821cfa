// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/swdprobe/gostlink"
)

func initLogger(level int) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.Level(level))
	return l
}

func main() {
	flagFrequency := flag.Uint("freq", 1800000, "requested SWD bit-rate in Hz")
	flagLogLevel := flag.Int("loglevel", int(logrus.InfoLevel), "logging verbosity [0-6]")

	flag.Parse()

	logger := initLogger(*flagLogLevel)
	gostlink.SetLogger(logger)

	logger.Info("opening first matching ST-Link V2/V2-1 on the USB bus...")

	session, err := gostlink.Open(uint32(*flagFrequency))
	if err != nil {
		logger.Fatalf("could not open session: %v", err)
	}
	defer session.Close()

	fmt.Printf("probe:      %s\n", session.Version())
	fmt.Printf("family:     %s\n", session.DeviceDescriptor().Family)
	fmt.Printf("frequency:  %d Hz\n", session.Frequency())
	fmt.Printf("core id:    0x%08x\n", session.CachedCoreID())

	if voltage, ok, err := session.GetTargetVoltage(); err != nil {
		logger.Warnf("could not read target voltage: %v", err)
	} else if ok {
		fmt.Printf("target VCC: %.3f V\n", voltage)
	} else {
		fmt.Println("target VCC: no target connected")
	}

	os.Exit(0)
}
