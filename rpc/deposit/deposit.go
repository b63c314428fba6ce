// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deposit

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

// Storage
// -------

const (
	rateLimitStorage = 200
	rateBurstStorage = 100
)

// Storage - type for RPC
type Storage struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Storage {
	return &Storage{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitStorage, rateBurstStorage),
		IsNormalMode: isNormalMode,
	}
}

// Deposit storage rent
// --------------------

// DepositArguments - arguments for RPC
type DepositArguments struct {
	Caller     account.Account `json:"caller"`
	ForAccount account.Account `json:"forAccount"`
	Amount     uint64          `json:"amount"`
}

// DepositReply - the standing balance after the deposit
type DepositReply struct {
	Balance uint64 `json:"balance"`
}

// Deposit - add to a rent deposit, optionally for another account
func (storage *Storage) Deposit(arguments *DepositArguments, reply *DepositReply) error {

	if err := ratelimit.Limit(storage.Limiter); nil != err {
		return err
	}

	log := storage.Log
	log.Infof("Storage.Deposit: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !storage.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	balance, err := market.StorageDeposit(arguments.Caller, arguments.ForAccount, arguments.Amount)
	if nil != err {
		return err
	}

	reply.Balance = balance
	return nil
}

// Withdraw free storage rent
// --------------------------

// WithdrawArguments - arguments for RPC
type WithdrawArguments struct {
	Caller account.Account `json:"caller"`
}

// WithdrawReply - the amount paid back
type WithdrawReply struct {
	Refund uint64 `json:"refund"`
}

// Withdraw - release the deposit not covering open records
func (storage *Storage) Withdraw(arguments *WithdrawArguments, reply *WithdrawReply) error {

	if err := ratelimit.Limit(storage.Limiter); nil != err {
		return err
	}

	log := storage.Log
	log.Infof("Storage.Withdraw: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !storage.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	refund, err := market.StorageWithdraw(arguments.Caller)
	if nil != err {
		return err
	}

	reply.Refund = refund
	return nil
}

// Query a balance
// ---------------

// BalanceReply - deposit and open record count of an account
type BalanceReply struct {
	Balance uint64 `json:"balance"`
	Records int    `json:"records"`
}

// Balance - fetch the rent balance of an account
func (storage *Storage) Balance(arguments *WithdrawArguments, reply *BalanceReply) error {

	if err := ratelimit.Limit(storage.Limiter); nil != err {
		return err
	}

	if nil == arguments {
		return fault.InvalidItem
	}

	reply.Balance, reply.Records = market.StorageBalance(arguments.Caller)
	return nil
}
