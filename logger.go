// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package gostlink

import (
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var logger *logrus.Logger = nil

func init() {
	logger = logrus.New()
	logger.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "15:04:05",
		FullTimestamp:   true,
	})
	logger.SetOutput(os.Stdout)
}

// SetLogger lets a consumer swap in its own configured logger, e.g. to
// change verbosity or redirect output.
func SetLogger(loggerInstance *logrus.Logger) {
	logger = loggerInstance
}
