// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fees - the marketplace fee schedule
//
// the rate is expressed in basis points of the sale price; a future
// rate change is stored next to the current one and rotated in
// lazily the first time the schedule is read at or after its start
// time.  Each listing snapshots the rate at creation so a later
// change never alters a sale already listed.
package fees

import (
	"encoding/json"
	"math/bits"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

// fee rates are basis points of the price
const (
	Denominator    = 10_000
	MaximumFeeRate = Denominator - 1
)

// schedule record persisted in the settings pool
var scheduleKey = []byte("fee-schedule")

// Schedule - the current rate and any pending change
type Schedule struct {
	Current uint16 `json:"current"`
	Next    uint16 `json:"next,omitempty"`
	StartAt int64  `json:"start_at,omitempty"`
	HasNext bool   `json:"has_next,omitempty"`
}

var globalData struct {
	sync.RWMutex
	log      *logger.L
	settings storage.Handle
	schedule Schedule

	// set once during initialise
	initialised bool
}

// Initialise - load the schedule, seeding the default rate on first
// run
func Initialise(settings storage.Handle, defaultRate uint16) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}
	if defaultRate > MaximumFeeRate {
		return fault.InvalidFeeRate
	}

	globalData.log = logger.New("fees")
	globalData.log.Info("starting…")

	globalData.settings = settings

	buffer := settings.Get(scheduleKey)
	if nil == buffer {
		globalData.schedule = Schedule{Current: defaultRate}
		saveLocked()
	} else {
		err := json.Unmarshal(buffer, &globalData.schedule)
		if nil != err {
			return err
		}
	}

	globalData.initialised = true
	return nil
}

// Finalise - detach the settings pool
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.settings = nil
	globalData.initialised = false
	return nil
}

// caller must hold the write lock
func saveLocked() {
	buffer, err := json.Marshal(globalData.schedule)
	logger.PanicIfError("fees.save", err)
	globalData.settings.Put(scheduleKey, buffer)
}

// rotate a due pending rate; caller must hold the write lock
func rotateLocked(now int64) {
	if globalData.schedule.HasNext && now >= globalData.schedule.StartAt {
		globalData.log.Infof("fee rate: %d → %d", globalData.schedule.Current, globalData.schedule.Next)
		globalData.schedule = Schedule{Current: globalData.schedule.Next}
		saveLocked()
	}
}

// Current - the live rate at a moment
func Current(now int64) uint16 {
	globalData.Lock()
	defer globalData.Unlock()

	rotateLocked(now)
	return globalData.schedule.Current
}

// Set - change the rate
//
// a zero start time applies immediately; otherwise the start must be
// in the future and the change is held until then
func Set(rate uint16, startAt int64, now int64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if rate > MaximumFeeRate {
		return fault.InvalidFeeRate
	}

	if 0 == startAt {
		globalData.schedule = Schedule{Current: rate}
		saveLocked()
		return nil
	}

	if startAt <= now {
		return fault.InvalidFeeStartTime
	}

	rotateLocked(now)
	globalData.schedule.Next = rate
	globalData.schedule.StartAt = startAt
	globalData.schedule.HasNext = true
	saveLocked()
	return nil
}

// Get - the full schedule at a moment
func Get(now int64) Schedule {
	globalData.Lock()
	defer globalData.Unlock()

	rotateLocked(now)
	return globalData.schedule
}

// TreasuryFee - the treasury's cut of a sale price at a rate
//
// the intermediate product needs 128 bits at the price ceiling
func TreasuryFee(price uint64, rate uint16) uint64 {
	hi, lo := bits.Mul64(price, uint64(rate))
	fee, _ := bits.Div64(hi, lo, Denominator)
	return fee
}
