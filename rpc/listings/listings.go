// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listings

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

// Listing
// -------

const (
	rateLimitListing = 200
	rateBurstListing = 100
)

// Listing - type for RPC
type Listing struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Listing {
	return &Listing{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitListing, rateBurstListing),
		IsNormalMode: isNormalMode,
	}
}

// Buy a listed asset
// ------------------

// BuyArguments - arguments for RPC
type BuyArguments struct {
	Buyer      account.Account `json:"buyer"`
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"tokenId"`
	Deposit    uint64          `json:"deposit"`
}

// BuyReply - result of a purchase
type BuyReply struct {
	SettlementID uint64 `json:"settlementId"`
}

// Buy - purchase at the current price
func (listing *Listing) Buy(arguments *BuyArguments, reply *BuyReply) error {

	if err := ratelimit.Limit(listing.Limiter); nil != err {
		return err
	}

	log := listing.Log
	log.Infof("Listing.Buy: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !listing.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	id, err := market.Buy(arguments.Buyer, arguments.Collection, arguments.TokenID, arguments.Deposit)
	if nil != err {
		return err
	}

	reply.SettlementID = id
	return nil
}

// Bid on an auction
// -----------------

// BidArguments - arguments for RPC
type BidArguments struct {
	Bidder     account.Account `json:"bidder"`
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"tokenId"`
	Amount     uint64          `json:"amount"`
	Deposit    uint64          `json:"deposit"`
}

// BidReply - result of placing a bid
type BidReply struct {
	OK bool `json:"ok"`
}

// Bid - place a bid
func (listing *Listing) Bid(arguments *BidArguments, reply *BidReply) error {

	if err := ratelimit.Limit(listing.Limiter); nil != err {
		return err
	}

	log := listing.Log
	log.Infof("Listing.Bid: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !listing.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.AddBid(arguments.Bidder, arguments.Collection, arguments.TokenID, arguments.Amount, arguments.Deposit)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Cancel a bid
// ------------

// CancelBidArguments - arguments for RPC
type CancelBidArguments struct {
	Caller     account.Account `json:"caller"`
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"tokenId"`
	Bidder     account.Account `json:"bidder"`
}

// CancelBid - withdraw a standing bid
func (listing *Listing) CancelBid(arguments *CancelBidArguments, reply *BidReply) error {

	if err := ratelimit.Limit(listing.Limiter); nil != err {
		return err
	}

	log := listing.Log
	log.Infof("Listing.CancelBid: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !listing.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.CancelBid(arguments.Caller, arguments.Collection, arguments.TokenID, arguments.Bidder)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Settle an auction
// -----------------

// SettleArguments - arguments for RPC
type SettleArguments struct {
	Caller     account.Account `json:"caller"`
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"tokenId"`
}

// SettleReply - result of accepting a bid or ending an auction
type SettleReply struct {
	SettlementID uint64 `json:"settlementId"`
}

// AcceptBid - settle to the highest bidder
func (listing *Listing) AcceptBid(arguments *SettleArguments, reply *SettleReply) error {

	if err := ratelimit.Limit(listing.Limiter); nil != err {
		return err
	}

	log := listing.Log
	log.Infof("Listing.AcceptBid: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !listing.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	id, err := market.AcceptBid(arguments.Caller, arguments.Collection, arguments.TokenID)
	if nil != err {
		return err
	}

	reply.SettlementID = id
	return nil
}

// EndAuction - close an auction window
func (listing *Listing) EndAuction(arguments *SettleArguments, reply *SettleReply) error {

	if err := ratelimit.Limit(listing.Limiter); nil != err {
		return err
	}

	log := listing.Log
	log.Infof("Listing.EndAuction: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !listing.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	id, err := market.EndAuction(arguments.Caller, arguments.Collection, arguments.TokenID)
	if nil != err {
		return err
	}

	reply.SettlementID = id
	return nil
}

// Update the asking price
// -----------------------

// UpdatePriceArguments - arguments for RPC
type UpdatePriceArguments struct {
	Caller     account.Account `json:"caller"`
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"tokenId"`
	Price      uint64          `json:"price"`
}

// UpdatePrice - change the asking price
func (listing *Listing) UpdatePrice(arguments *UpdatePriceArguments, reply *BidReply) error {

	if err := ratelimit.Limit(listing.Limiter); nil != err {
		return err
	}

	log := listing.Log
	log.Infof("Listing.UpdatePrice: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !listing.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.UpdateListingPrice(arguments.Caller, arguments.Collection, arguments.TokenID, arguments.Price)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Delete a listing
// ----------------

// Delete - remove a listing, refunding standing bids
func (listing *Listing) Delete(arguments *SettleArguments, reply *BidReply) error {

	if err := ratelimit.Limit(listing.Limiter); nil != err {
		return err
	}

	log := listing.Log
	log.Infof("Listing.Delete: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !listing.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.DeleteListing(arguments.Caller, arguments.Collection, arguments.TokenID)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Query one listing
// -----------------

// GetArguments - arguments for RPC
type GetArguments struct {
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"tokenId"`
}

// GetReply - one listing with its live price
type GetReply struct {
	Listing      *marketdata.Listing `json:"listing"`
	CurrentPrice uint64              `json:"currentPrice"`
}

// Get - fetch one listing
func (listing *Listing) Get(arguments *GetArguments, reply *GetReply) error {

	if err := ratelimit.Limit(listing.Limiter); nil != err {
		return err
	}

	if nil == arguments {
		return fault.InvalidItem
	}

	l, price, err := market.GetListing(arguments.Collection, arguments.TokenID)
	if nil != err {
		return err
	}

	reply.Listing = l
	reply.CurrentPrice = price
	return nil
}
