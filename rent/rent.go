// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rent - the storage-rent ledger
//
// every open record (listing, offer, trade list) must be covered by
// a per-record deposit; admission of a new record is refused when the
// depositor's balance cannot cover one more
package rent

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/storage"
)

// PerRecord - smallest currency units retained per open record
const PerRecord uint64 = 859_000_000

var globalData struct {
	sync.RWMutex
	log   *logger.L
	rent  storage.Handle // account → balance
	items storage.Handle // reverse index of open records

	// set once during initialise
	initialised bool
}

// Initialise - attach the rent pools
func Initialise(rentPool storage.Handle, itemPool storage.Handle) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("rent")
	globalData.log.Info("starting…")

	globalData.rent = rentPool
	globalData.items = itemPool

	globalData.initialised = true
	return nil
}

// Finalise - detach the rent pools
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.rent = nil
	globalData.items = nil
	globalData.initialised = false
	return nil
}

func balanceKey(owner account.Account) []byte {
	return marketdata.OwnerPrefix(owner)
}

// Balance - the standing deposit of an account
func Balance(owner account.Account) uint64 {
	globalData.RLock()
	defer globalData.RUnlock()

	n, _ := globalData.rent.GetN(balanceKey(owner))
	return n
}

// CountFor - number of open records charged to an account
func CountFor(owner account.Account) int {
	globalData.RLock()
	defer globalData.RUnlock()

	return countLocked(owner)
}

// Deposit - add to an account's standing deposit
//
// the first deposit must cover at least one record
func Deposit(owner account.Account, amount uint64) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	if amount < PerRecord {
		return 0, fault.DepositTooLow
	}

	key := balanceKey(owner)
	balance, _ := globalData.rent.GetN(key)
	balance += amount

	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, balance)
	globalData.rent.Put(key, buffer)

	globalData.log.Infof("deposit: %s  amount: %d  balance: %d", owner, amount, balance)
	return balance, nil
}

// Withdraw - release the deposit not covering open records
//
// the amount still needed by open records stays on deposit; the
// caller pays the returned refund
func Withdraw(owner account.Account) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	key := balanceKey(owner)
	balance, found := globalData.rent.GetN(key)
	if !found || 0 == balance {
		return 0, fault.StorageDepositNotFound
	}

	retained := uint64(countLocked(owner)) * PerRecord
	if retained >= balance {
		return 0, nil // nothing free to withdraw
	}
	refund := balance - retained

	if 0 == retained {
		globalData.rent.Delete(key)
	} else {
		buffer := make([]byte, 8)
		binary.BigEndian.PutUint64(buffer, retained)
		globalData.rent.Put(key, buffer)
	}

	globalData.log.Infof("withdraw: %s  refund: %d  retained: %d", owner, refund, retained)
	return refund, nil
}

// CheckCapacity - ensure the deposit covers the open records plus
// some additional ones
func CheckCapacity(owner account.Account, additional int) error {
	globalData.RLock()
	defer globalData.RUnlock()

	balance, _ := globalData.rent.GetN(balanceKey(owner))
	needed := uint64(countLocked(owner)+additional) * PerRecord
	if balance < needed {
		return fault.InsufficientStorageDeposit
	}
	return nil
}

// count open records; caller must hold a lock
func countLocked(owner account.Account) int {
	prefix := marketdata.OwnerPrefix(owner)
	n := 0
	globalData.items.Scan(func(key []byte, value []byte) bool {
		if bytes.HasPrefix(key, prefix) {
			n += 1
		}
		return true
	})
	return n
}
