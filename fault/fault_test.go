// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/bitmark-inc/marketd/fault"
)

// test that errors are classified correctly
func TestClassification(t *testing.T) {

	errorList := []struct {
		err      error
		access   bool
		exists   bool
		invalid  bool
		length   bool
		notFound bool
		process  bool
		record   bool
	}{
		{fault.AlreadyInitialised, false, true, false, false, false, false, false},
		{fault.BidTooLow, false, false, true, false, false, false, false},
		{fault.CannotBidOnOwnListing, true, false, false, false, false, false, false},
		{fault.InvalidKeyLength, false, false, false, true, false, false, false},
		{fault.InvalidStructure, false, false, false, false, false, false, true},
		{fault.ListingNotFound, false, false, false, false, true, false, false},
		{fault.MissingParameters, false, false, false, true, false, false, false},
		{fault.NotListingOwner, true, false, false, false, false, false, false},
		{fault.OfferNotFound, false, false, false, false, true, false, false},
		{fault.PayoutOverClaimed, false, false, false, false, false, true, false},
		{fault.TradeSettlementFailed, false, false, false, false, false, true, false},
	}

	for i, item := range errorList {
		err := item.err
		if item.access != fault.IsErrAccess(err) {
			t.Errorf("%d: expected access: %v  error: %v", i, item.access, err)
		}
		if item.exists != fault.IsErrExists(err) {
			t.Errorf("%d: expected exists: %v  error: %v", i, item.exists, err)
		}
		if item.invalid != fault.IsErrInvalid(err) {
			t.Errorf("%d: expected invalid: %v  error: %v", i, item.invalid, err)
		}
		if item.length != fault.IsErrLength(err) {
			t.Errorf("%d: expected length: %v  error: %v", i, item.length, err)
		}
		if item.notFound != fault.IsErrNotFound(err) {
			t.Errorf("%d: expected not found: %v  error: %v", i, item.notFound, err)
		}
		if item.process != fault.IsErrProcess(err) {
			t.Errorf("%d: expected process: %v  error: %v", i, item.process, err)
		}
		if item.record != fault.IsErrRecord(err) {
			t.Errorf("%d: expected record: %v  error: %v", i, item.record, err)
		}
	}
}
