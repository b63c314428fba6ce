// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package approval - the settlement request attached to a transfer
// approval
//
// when an owner approves the engine to move a collectible, the host
// ledger forwards the approval together with a JSON message saying
// what the owner wants done with it.  This package decodes that
// message and routes it to the right market operation.
package approval

import (
	"encoding/json"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/marketdata"
)

// request kinds carried in the market_type field
const (
	TypeSale              = "sale"
	TypeAcceptOffer       = "accept_offer"
	TypeAcceptOfferSeries = "accept_offer_series"
	TypeAddTrade          = "add_trade"
	TypeAcceptTrade       = "accept_trade"
	TypeAcceptTradeSeries = "accept_trade_series"
)

// MarketArgs - the decoded request message
//
// only market_type is always present; the other fields belong to
// particular request kinds and are pointers so absence is detectable
type MarketArgs struct {
	MarketType string `json:"market_type"`

	// sale
	Price     *uint64 `json:"price,omitempty"`
	Currency  *string `json:"currency,omitempty"`
	EndPrice  *uint64 `json:"end_price,omitempty"`
	StartedAt *int64  `json:"started_at,omitempty"`
	EndedAt   *int64  `json:"ended_at,omitempty"`
	IsAuction *bool   `json:"is_auction,omitempty"`

	// accept_offer, accept_trade
	Buyer         *account.Account `json:"buyer,omitempty"`
	ExpectedPrice *uint64          `json:"expected_price,omitempty"`

	// add_trade: the counter asset wanted in exchange
	CounterCollection *account.Account `json:"counter_collection,omitempty"`
	CounterToken      *string          `json:"counter_token,omitempty"`
	CounterSeries     *string          `json:"counter_series,omitempty"`

	// accept_trade: the proposer's asset
	BuyerCollection *account.Account `json:"buyer_collection,omitempty"`
	BuyerToken      *string          `json:"buyer_token,omitempty"`
}

// Notice - one approval notification from the host ledger
//
// the host guarantees the owner is the signer of the approval; the
// collection is the notifying contract itself
type Notice struct {
	Owner      account.Account
	Collection account.Account
	TokenID    string
	ApprovalID uint64
	Message    []byte
}

// Market - the operations a request can invoke
type Market interface {
	Sell(owner account.Account, asset marketdata.AssetKey, approvalID uint64, args *MarketArgs) error
	AcceptOffer(owner account.Account, asset marketdata.AssetKey, approvalID uint64, buyer account.Account, expectedPrice *uint64, series bool) error
	AddTrade(owner account.Account, asset marketdata.AssetKey, approvalID uint64, targetCollection account.Account, target marketdata.Target) error
	AcceptTrade(owner account.Account, asset marketdata.AssetKey, approvalID uint64, proposerAsset marketdata.AssetKey, series bool) error
}

// Parse - decode a request message
func Parse(message []byte) (*MarketArgs, error) {
	args := &MarketArgs{}
	err := json.Unmarshal(message, args)
	if nil != err {
		return nil, err
	}
	if "" == args.MarketType {
		return nil, fault.MissingParameters
	}
	return args, nil
}

// Dispatch - decode a notice and run the requested operation
func Dispatch(m Market, notice Notice) error {
	args, err := Parse(notice.Message)
	if nil != err {
		return err
	}

	asset := marketdata.AssetKey{
		Collection: notice.Collection,
		TokenID:    notice.TokenID,
	}

	switch args.MarketType {

	case TypeSale:
		return m.Sell(notice.Owner, asset, notice.ApprovalID, args)

	case TypeAcceptOffer, TypeAcceptOfferSeries:
		if nil == args.Buyer {
			return fault.MissingParameters
		}
		return m.AcceptOffer(notice.Owner, asset, notice.ApprovalID,
			*args.Buyer, args.ExpectedPrice, TypeAcceptOfferSeries == args.MarketType)

	case TypeAddTrade:
		if nil == args.CounterCollection {
			return fault.MissingParameters
		}
		target := marketdata.Target{}
		switch {
		case nil != args.CounterToken:
			target.ID = *args.CounterToken
		case nil != args.CounterSeries:
			target.ID = *args.CounterSeries
			target.IsSeries = true
		default:
			return fault.MissingParameters
		}
		return m.AddTrade(notice.Owner, asset, notice.ApprovalID, *args.CounterCollection, target)

	case TypeAcceptTrade, TypeAcceptTradeSeries:
		if nil == args.BuyerCollection || nil == args.BuyerToken {
			return fault.MissingParameters
		}
		proposerAsset := marketdata.AssetKey{
			Collection: *args.BuyerCollection,
			TokenID:    *args.BuyerToken,
		}
		return m.AcceptTrade(notice.Owner, asset, notice.ApprovalID,
			proposerAsset, TypeAcceptTradeSeries == args.MarketType)

	default:
		return fault.InvalidItem
	}
}
