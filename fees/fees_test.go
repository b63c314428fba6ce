// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fees_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fees"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/storage"
)

const defaultRate uint16 = 200

func setup(t *testing.T) {
	fixtures.SetupTestLogger()
	err := storage.Initialise(fixtures.DatabaseName("fees"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
	err = fees.Initialise(storage.Pool.Settings, defaultRate)
	if nil != err {
		t.Fatalf("fees initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	_ = fees.Finalise()
	storage.Finalise()
	fixtures.TeardownTestLogger()
}

func TestDefaultRate(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.Equal(t, defaultRate, fees.Current(1000), "wrong default rate")
}

func TestImmediateChange(t *testing.T) {
	setup(t)
	defer teardown(t)

	err := fees.Set(500, 0, 1000)
	assert.NoError(t, err, "set error")
	assert.Equal(t, uint16(500), fees.Current(1000), "rate not applied")

	err = fees.Set(fees.MaximumFeeRate+1, 0, 1000)
	assert.Equal(t, fault.InvalidFeeRate, err, "wrong error")
}

func TestScheduledChange(t *testing.T) {
	setup(t)
	defer teardown(t)

	err := fees.Set(500, 900, 1000)
	assert.Equal(t, fault.InvalidFeeStartTime, err, "past start accepted")

	err = fees.Set(500, 2000, 1000)
	assert.NoError(t, err, "set error")

	// old rate until the start time
	assert.Equal(t, defaultRate, fees.Current(1999), "change applied early")
	assert.Equal(t, uint16(500), fees.Current(2000), "change not applied")

	// rotation clears the pending entry
	schedule := fees.Get(2001)
	assert.Equal(t, uint16(500), schedule.Current, "wrong rate")
	assert.False(t, schedule.HasNext, "pending change not cleared")
}

func TestSchedulePersists(t *testing.T) {
	setup(t)

	err := fees.Set(750, 2000, 1000)
	assert.NoError(t, err, "set error")

	_ = fees.Finalise()
	err = fees.Initialise(storage.Pool.Settings, defaultRate)
	assert.NoError(t, err, "reinitialise error")

	schedule := fees.Get(1500)
	assert.Equal(t, defaultRate, schedule.Current, "wrong rate after restart")
	assert.True(t, schedule.HasNext, "pending change lost")
	assert.Equal(t, uint16(750), schedule.Next, "wrong pending rate")

	teardown(t)
}

func TestTreasuryFee(t *testing.T) {
	assert.Equal(t, uint64(200), fees.TreasuryFee(10_000, 200), "wrong fee")
	assert.Zero(t, fees.TreasuryFee(10_000, 0), "wrong fee")
	assert.Zero(t, fees.TreasuryFee(49, 200), "rounding wrong")
	assert.Equal(t, uint64(1), fees.TreasuryFee(50, 200), "rounding wrong")

	// the product exceeds 64 bits at the price ceiling
	assert.Equal(t, uint64(50_000_000_000_000_000),
		fees.TreasuryFee(1_000_000_000_000_000_000, 500), "overflow at ceiling")
	assert.Equal(t, uint64(999_900_000_000_000_000),
		fees.TreasuryFee(1_000_000_000_000_000_000, fees.MaximumFeeRate), "overflow at ceiling")
}
