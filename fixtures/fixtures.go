// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared test helpers
package fixtures

import (
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"
)

const dirName = "testing"

// Directory - the scratch directory for a test run
func Directory() string {
	return dirName
}

// DatabaseName - a database file inside the scratch directory
func DatabaseName(name string) string {
	return filepath.Join(dirName, name+".leveldb")
}

// SetupTestLogger - create the scratch directory and start logging
func SetupTestLogger() {
	_ = os.RemoveAll(dirName)
	_ = os.MkdirAll(dirName, 0700)

	logging := logger.Configuration{
		Directory: dirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove all scratch files
func TeardownTestLogger() {
	logger.Finalise()
	_ = os.RemoveAll(dirName)
}
