// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - access to the host asset ledger
//
// the marketplace never moves a collectible or a coin itself; it
// asks the host ledger and reconciles in a continuation.  The
// interfaces here are what the settlement resolver depends on; the
// zmq client in this package is the production implementation.
package ledger

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/marketdata"
)

// at most this many royalty recipients may appear in a payout
const MaximumPayoutRecipients = 10

// TransferPayoutArgs - move an asset to a buyer and request the
// payout split for its sale price
type TransferPayoutArgs struct {
	Asset             marketdata.AssetKey `json:"asset"`
	Recipient         account.Account     `json:"recipient"`
	ApprovalID        uint64              `json:"approval_id"`
	Price             uint64              `json:"price"`
	MaximumRecipients int                 `json:"maximum_recipients"`
}

// PayoutResult - outcome of a transfer-and-payout request
//
// OK false or a nil payout map means the transfer failed or the
// collection declined to provide a payout; either way the sale
// cannot distribute funds
type PayoutResult struct {
	OK     bool              `json:"ok"`
	Payout map[string]uint64 `json:"payout"`
}

// TransferArgs - move an asset between accounts
//
// when UseApproval is set the move spends the owner's transfer
// approval; moves out of engine custody do not need one
type TransferArgs struct {
	Asset       marketdata.AssetKey `json:"asset"`
	Recipient   account.Account     `json:"recipient"`
	ApprovalID  uint64              `json:"approval_id"`
	UseApproval bool                `json:"use_approval"`
}

// Transfers - asynchronous asset moves
//
// each request carries a caller chosen id; the implementation must
// deliver exactly one continuation per id
type Transfers interface {
	TransferPayout(id uint64, args TransferPayoutArgs)
	Transfer(id uint64, args TransferArgs)
	Custodian() account.Account
}

// Funds - the native currency transfer primitive
//
// unconditional and non-blocking; results are never inspected
type Funds interface {
	Pay(to account.Account, amount uint64)
}

// Callbacks - continuations delivered by a Transfers implementation
type Callbacks struct {
	Payout   func(id uint64, result *PayoutResult)
	Transfer func(id uint64, ok bool)
}
