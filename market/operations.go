// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/offer"
	"github.com/bitmark-inc/marketd/rent"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/trade"
)

// event payloads
type listingParams struct {
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"token_id"`
}

type bidParams struct {
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"token_id"`
	Bidder     account.Account `json:"bidder"`
	Amount     uint64          `json:"amount,omitempty"`
}

type extendParams struct {
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"token_id"`
	EndAt      int64           `json:"end_at"`
}

type offerParams struct {
	Collection account.Account   `json:"collection"`
	Buyer      account.Account   `json:"buyer"`
	Target     marketdata.Target `json:"target"`
	Price      uint64            `json:"price,omitempty"`
}

type tradeParams struct {
	Asset            marketdata.AssetKey `json:"asset"`
	TargetCollection account.Account     `json:"target_collection"`
	Target           marketdata.Target   `json:"target"`
}

// Buy - purchase a listed asset at its current price
//
// auctions sell by bid; a dutch auction sells at its decayed price.
// The deposit must cover the price; any excess is returned.  Returns
// the settlement id.
func Buy(caller account.Account, collection account.Account, tokenID string, deposit uint64) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	key := marketdata.AssetKey{Collection: collection, TokenID: tokenID}
	l, err := listing.Get(key)
	if nil != err {
		return 0, err
	}
	if _, ok := l.Terms.(marketdata.EnglishAuction); ok {
		return 0, fault.CannotBuyAuction
	}
	if caller == l.Owner {
		return 0, fault.CannotBidOnOwnListing
	}
	if !l.Currency.IsSettleable() {
		return 0, fault.CurrencyNotSupported
	}

	now := globalData.now()
	price := marketdata.CurrentPrice(l.Terms, now)
	if deposit < price {
		return 0, fault.DepositTooLow
	}

	// consume the record before any external call
	l, err = listing.Take(key)
	if nil != err {
		return 0, err
	}
	if deposit > price {
		globalData.funds.Pay(caller, deposit-price)
	}

	id := settlement.InitiateSale(caller, l.Owner, key, l.ApprovalID, price, l.FeeRate, globalData.settings.Treasury)
	event.Send(event.DeleteMarketData, listingParams{Collection: collection, TokenID: tokenID})
	return id, nil
}

// AddOffer - place a standing offer, escrowing its full price
func AddOffer(caller account.Account, collection account.Account, target marketdata.Target, c currency.Currency, price uint64, deposit uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !isApprovedCollection(collection) {
		return fault.CollectionNotApproved
	}
	if !isApprovedCurrency(c) {
		return fault.CurrencyNotApproved
	}

	o := marketdata.Offer{
		Buyer:      caller,
		Collection: collection,
		Target:     target,
		Currency:   c,
		Price:      price,
	}

	// a replacement reuses the old record's rent
	additional := 1
	if _, err := offer.Get(o.Key()); nil == err {
		additional = 0
	}
	if err := rent.CheckCapacity(caller, additional); nil != err {
		return err
	}

	refunds, err := offer.Add(o, deposit, isTrustedCollection)
	if nil != err {
		return err
	}
	payRefunds(refunds)

	event.Send(event.AddOffer, offerParams{
		Collection: collection,
		Buyer:      caller,
		Target:     target,
		Price:      price,
	})
	return nil
}

// DeleteOffer - withdraw an offer, releasing its escrow
func DeleteOffer(caller account.Account, collection account.Account, target marketdata.Target) error {
	globalData.Lock()
	defer globalData.Unlock()

	key := marketdata.OfferKey{Collection: collection, Buyer: caller, Target: target}
	o, refunds, err := offer.Delete(caller, key)
	if nil != err {
		return err
	}
	payRefunds(refunds)

	event.Send(event.DeleteOffer, offerParams{
		Collection: collection,
		Buyer:      o.Buyer,
		Target:     target,
	})
	return nil
}

// AddBid - bid on an english auction
//
// the deposit must cover the bid; any excess is returned at once
func AddBid(caller account.Account, collection account.Account, tokenID string, amount uint64, deposit uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	key := marketdata.AssetKey{Collection: collection, TokenID: tokenID}
	extendedTo, refunds, err := listing.AddBid(caller, key, amount, deposit, globalData.now())
	if nil != err {
		return err
	}
	payRefunds(refunds)
	if deposit > amount {
		globalData.funds.Pay(caller, deposit-amount)
	}

	event.Send(event.AddBid, bidParams{
		Collection: collection,
		TokenID:    tokenID,
		Bidder:     caller,
		Amount:     amount,
	})
	if 0 != extendedTo {
		event.Send(event.ExtendAuction, extendParams{
			Collection: collection,
			TokenID:    tokenID,
			EndAt:      extendedTo,
		})
	}
	return nil
}

// CancelBid - withdraw a standing bid and release its escrow
func CancelBid(caller account.Account, collection account.Account, tokenID string, bidder account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	key := marketdata.AssetKey{Collection: collection, TokenID: tokenID}
	refunds, err := listing.CancelBid(caller, key, bidder, caller == globalData.settings.Owner)
	if nil != err {
		return err
	}
	payRefunds(refunds)

	event.Send(event.CancelBid, bidParams{
		Collection: collection,
		TokenID:    tokenID,
		Bidder:     bidder,
	})
	return nil
}

// AcceptBid - settle an auction to its highest bidder
//
// the seller may accept at any time; the marketplace admin only once
// the window has closed.  Returns the settlement id.
func AcceptBid(caller account.Account, collection account.Account, tokenID string) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	return acceptBid(caller, collection, tokenID)
}

// caller must hold the write lock
func acceptBid(caller account.Account, collection account.Account, tokenID string) (uint64, error) {
	key := marketdata.AssetKey{Collection: collection, TokenID: tokenID}
	l, top, refunds, err := listing.TakeTopBid(caller, key, caller == globalData.settings.Owner, globalData.now())
	if nil != err {
		return 0, err
	}
	payRefunds(refunds)

	id := settlement.InitiateSale(top.Bidder, l.Owner, key, l.ApprovalID, top.Price, l.FeeRate, globalData.settings.Treasury)
	event.Send(event.DeleteMarketData, listingParams{Collection: collection, TokenID: tokenID})
	return id, nil
}

// EndAuction - close an auction window
//
// with bids outstanding this settles to the highest bidder; with none
// it just removes the listing.  Returns the settlement id, zero when
// there was nothing to settle.
func EndAuction(caller account.Account, collection account.Account, tokenID string) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	key := marketdata.AssetKey{Collection: collection, TokenID: tokenID}
	l, err := listing.Get(key)
	if nil != err {
		return 0, err
	}
	auction, ok := l.Terms.(marketdata.EnglishAuction)
	if !ok {
		return 0, fault.ListingNotAuction
	}

	if 0 != len(auction.Bids) {
		return acceptBid(caller, collection, tokenID)
	}

	_, refunds, err := listing.Delete(caller, key, caller == globalData.settings.Owner, globalData.now())
	if nil != err {
		return 0, err
	}
	payRefunds(refunds)
	event.Send(event.DeleteMarketData, listingParams{Collection: collection, TokenID: tokenID})
	return 0, nil
}

// UpdateListingPrice - change the asking price of a listing
func UpdateListingPrice(caller account.Account, collection account.Account, tokenID string, price uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	key := marketdata.AssetKey{Collection: collection, TokenID: tokenID}
	err := listing.UpdatePrice(caller, key, price)
	if nil != err {
		return err
	}

	event.Send(event.UpdateMarketData, listingParams{Collection: collection, TokenID: tokenID})
	return nil
}

// DeleteListing - remove a listing, refunding any standing bids
func DeleteListing(caller account.Account, collection account.Account, tokenID string) error {
	globalData.Lock()
	defer globalData.Unlock()

	key := marketdata.AssetKey{Collection: collection, TokenID: tokenID}
	_, refunds, err := listing.Delete(caller, key, caller == globalData.settings.Owner, globalData.now())
	if nil != err {
		return err
	}
	payRefunds(refunds)

	event.Send(event.DeleteMarketData, listingParams{Collection: collection, TokenID: tokenID})
	return nil
}

// DeleteTrade - withdraw a standing trade proposal
func DeleteTrade(caller account.Account, proposerAsset marketdata.AssetKey, targetCollection account.Account, target marketdata.Target) error {
	globalData.Lock()
	defer globalData.Unlock()

	err := trade.Cancel(caller, proposerAsset, targetCollection, target, caller == globalData.settings.Owner)
	if nil != err {
		return err
	}

	event.Send(event.DeleteTrade, tradeParams{
		Asset:            proposerAsset,
		TargetCollection: targetCollection,
		Target:           target,
	})
	return nil
}

// StorageDeposit - add to an account's rent deposit
//
// the deposit may be made on behalf of another account
func StorageDeposit(caller account.Account, forAccount account.Account, amount uint64) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	owner := caller
	if !forAccount.IsZero() {
		owner = forAccount
	}
	return rent.Deposit(owner, amount)
}

// StorageWithdraw - release the rent deposit not covering open
// records and pay it back
func StorageWithdraw(caller account.Account) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	refund, err := rent.Withdraw(caller)
	if nil != err {
		return 0, err
	}
	if refund > 0 {
		globalData.funds.Pay(caller, refund)
	}
	return refund, nil
}

// GetListing - one listing with its live price
func GetListing(collection account.Account, tokenID string) (*marketdata.Listing, uint64, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	l, err := listing.Get(marketdata.AssetKey{Collection: collection, TokenID: tokenID})
	if nil != err {
		return nil, 0, err
	}
	return l, marketdata.CurrentPrice(l.Terms, globalData.now()), nil
}

// GetOffer - one standing offer
func GetOffer(collection account.Account, buyer account.Account, target marketdata.Target) (*marketdata.Offer, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	return offer.Get(marketdata.OfferKey{Collection: collection, Buyer: buyer, Target: target})
}

// GetTrade - all proposals standing for one proposer asset
func GetTrade(proposerAsset marketdata.AssetKey) (*marketdata.TradeList, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	return trade.Get(proposerAsset)
}
