// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/storage"
)

const (
	testingDirName   = "testing"
	databaseFileName = testingDirName + "/test.leveldb"
)

// common test setup routines

// remove all files created by test
func removeFiles() {
	os.RemoveAll(testingDirName)
}

// configure for testing
func setup(t *testing.T) {
	removeFiles()
	os.MkdirAll(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)

	// open database
	err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
}

// post test cleanup
func teardown(t *testing.T) {
	storage.Finalise()
	logger.Finalise()
	removeFiles()
}

// a string data item
type stringElement struct {
	key   string
	value string
}

// make an element array
func makeElements(input []stringElement) []storage.Element {
	output := make([]storage.Element, 0, len(input))
	for _, e := range input {
		output = append(output, storage.Element{
			Key:   []byte(e.key),
			Value: []byte(e.value),
		})
	}
	return output
}

// data for various test routines

// this data must be in ascending key order
var expectedElements = makeElements([]stringElement{
	{"key-five", "data-five"},
	{"key-four", "data-four"},
	{"key-one", "data-one(NEW)"},
	{"key-seven", "data-seven"},
	{"key-six", "data-six"},
	{"key-three", "data-three"},
	{"key-two", "data-two"},
})

// the above data in non-ascending order
var testData = []stringElement{
	{"key-one", "data-one"},
	{"key-two", "data-two"},
	{"key-three", "data-three"},
	{"key-seven", "data-seven"},
	{"key-four", "data-four"},
	{"key-five", "data-five"},
	{"key-six", "data-six"},
	{"key-one", "data-one(NEW)"}, // overwrite existing
}

// main pool test
func TestPool(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData

	// ensure that pool was empty
	checkAgain(t, true)

	// add more data than poll will hold
	for _, e := range testData {
		p.Put([]byte(e.key), []byte(e.value))
	}

	// ensure that data is correct
	checkResults(t, p)

	// recheck
	checkAgain(t, false)

	// check that restarting database keeps data
	storage.Finalise()
	err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage reinitialise error: %s", err)
	}
	checkAgain(t, false)
}

func checkResults(t *testing.T, p storage.Handle) {

	// ensure we have all of the expected records
	for i, e := range expectedElements {
		data := p.Get(e.Key)
		if nil == data {
			t.Errorf("%d: not found: %q", i, e.Key)
		} else if !bytes.Equal(data, e.Value) {
			t.Errorf("%d: actual: %q  expected: %q", i, data, e.Value)
		}
	}

	// retrieve all data by scan
	n := 0
	p.Scan(func(key []byte, value []byte) bool {
		if n >= len(expectedElements) {
			t.Errorf("excess record: %q: %q", key, value)
			return false
		}
		e := expectedElements[n]
		if !bytes.Equal(key, e.Key) {
			t.Errorf("%d: key: actual: %q  expected: %q", n, key, e.Key)
		}
		if !bytes.Equal(value, e.Value) {
			t.Errorf("%d: value: actual: %q  expected: %q", n, value, e.Value)
		}
		n += 1
		return true
	})
	if len(expectedElements) != n {
		t.Errorf("scan count: actual: %d  expected: %d", n, len(expectedElements))
	}

	if len(expectedElements) != p.Count() {
		t.Errorf("count: actual: %d  expected: %d", p.Count(), len(expectedElements))
	}

	// check last element
	last, found := storage.Pool.TestData.LastElement()
	if !found {
		t.Error("last element: not found")
	} else {
		e := expectedElements[len(expectedElements)-1]
		if !bytes.Equal(last.Key, e.Key) {
			t.Errorf("last element key: actual: %q  expected: %q", last.Key, e.Key)
		}
	}
}

func checkAgain(t *testing.T, empty bool) {

	p := storage.Pool.TestData

	// ensure that pool has/has not data
	for i, e := range expectedElements {
		data := p.Get(e.Key)
		if empty {
			if nil != data {
				t.Errorf("checkAgain: %d: unexpected data for: %q", i, e.Key)
			}
			if p.Has(e.Key) {
				t.Errorf("checkAgain: %d: unexpected has for: %q", i, e.Key)
			}
		} else {
			if nil == data {
				t.Errorf("checkAgain: %d: missing data for: %q", i, e.Key)
			}
			if !p.Has(e.Key) {
				t.Errorf("checkAgain: %d: missing has for: %q", i, e.Key)
			}
		}
	}

	// check a never-stored key
	missing := []byte(fmt.Sprintf("absent-%d", len(expectedElements)))
	if data := p.Get(missing); nil != data {
		t.Errorf("checkAgain: unexpected data for: %q", missing)
	}
}

// GetN on 8-byte big endian values
func TestGetN(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData

	key := []byte("counter")
	p.Put(key, []byte{0, 0, 0, 0, 0, 0, 1, 42})

	n, found := p.GetN(key)
	if !found {
		t.Fatal("GetN: not found")
	}
	if 298 != n {
		t.Fatalf("GetN: actual: %d  expected: %d", n, 298)
	}

	_, found = p.GetN([]byte("no-such-key"))
	if found {
		t.Fatal("GetN: unexpected success")
	}
}
