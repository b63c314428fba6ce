// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package currency_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bitmark-inc/marketd/currency"
)

// test the conversion to text strings
func TestString(t *testing.T) {

	testList := []struct {
		c currency.Currency
		s string
	}{
		{currency.Nothing, ""},
		{currency.Native, "NATIVE"},
		{currency.Token, "TOKEN"},
	}

	for i, item := range testList {
		if item.c.String() != item.s {
			t.Errorf("%d: string: %q  expected: %q", i, item.c.String(), item.s)
		}
	}
}

// test the conversion from text strings
func TestScan(t *testing.T) {

	testList := []struct {
		s string
		c currency.Currency
	}{
		{"NATIVE", currency.Native},
		{"native", currency.Native},
		{"near", currency.Native},
		{"TOKEN", currency.Token},
		{"ft", currency.Token},
	}

	for i, item := range testList {
		var c currency.Currency
		n, err := fmt.Sscan(item.s, &c)
		if nil != err {
			t.Fatalf("%d: scan error: %v", i, err)
		}
		if 1 != n {
			t.Fatalf("%d: scanned %d items expected 1", i, n)
		}
		if c != item.c {
			t.Errorf("%d: scanned: %#v  expected: %#v", i, c, item.c)
		}
	}

	var c currency.Currency
	_, err := fmt.Sscan("doge", &c)
	if nil == err {
		t.Error("unexpected success for invalid currency")
	}
}

// test JSON marshalling round trip
func TestJSON(t *testing.T) {

	original := currency.Native

	buffer, err := json.Marshal(original)
	if nil != err {
		t.Fatalf("marshal error: %v", err)
	}
	if `"NATIVE"` != string(buffer) {
		t.Fatalf("unexpected JSON: %s", buffer)
	}

	var c currency.Currency
	err = json.Unmarshal(buffer, &c)
	if nil != err {
		t.Fatalf("unmarshal error: %v", err)
	}
	if original != c {
		t.Fatalf("recovered: %#v  expected: %#v", c, original)
	}
}

// only the native coin can settle
func TestIsSettleable(t *testing.T) {
	if currency.Nothing.IsSettleable() {
		t.Error("Nothing must not be settleable")
	}
	if !currency.Native.IsSettleable() {
		t.Error("Native must be settleable")
	}
	if currency.Token.IsSettleable() {
		t.Error("Token must not be settleable")
	}
}
