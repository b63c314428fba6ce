// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listing - the listing store and bid ledger
//
// one listing per asset; auction bids are held inside the listing
// record.  Mutations return the refunds they displace; the caller
// pays them once the change is committed.
package listing

import (
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/storage"
)

var globalData struct {
	sync.RWMutex
	log   *logger.L
	pool  storage.Handle // asset key → listing
	items storage.Handle // reverse index

	// set once during initialise
	initialised bool
}

// Initialise - attach the listing pools
func Initialise(pool storage.Handle, itemPool storage.Handle) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("listing")
	globalData.log.Info("starting…")

	globalData.pool = pool
	globalData.items = itemPool

	globalData.initialised = true
	return nil
}

// Finalise - detach the listing pools
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.pool = nil
	globalData.items = nil
	globalData.initialised = false
	return nil
}

// read and decode; caller must hold a lock
func getLocked(key marketdata.AssetKey) (*marketdata.Listing, error) {
	buffer := globalData.pool.Get(key.Pack())
	if nil == buffer {
		return nil, fault.ListingNotFound
	}
	l := &marketdata.Listing{}
	err := json.Unmarshal(buffer, l)
	if nil != err {
		return nil, err
	}
	return l, nil
}

// encode and write; caller must hold the write lock
func putLocked(l *marketdata.Listing) {
	buffer, err := json.Marshal(l)
	logger.PanicIfError("listing.put", err)
	globalData.pool.Put(l.Key().Pack(), buffer)
}

// remove record and index entry; caller must hold the write lock
func deleteLocked(l *marketdata.Listing) {
	packed := l.Key().Pack()
	globalData.pool.Delete(packed)
	globalData.items.Delete(marketdata.OwnerItemKey(l.Owner, marketdata.ItemListing, packed))
}

// refunds owed for every standing bid
func bidRefunds(l *marketdata.Listing) []marketdata.Refund {
	auction, ok := l.Terms.(marketdata.EnglishAuction)
	if !ok || 0 == len(auction.Bids) {
		return nil
	}
	refunds := make([]marketdata.Refund, 0, len(auction.Bids))
	for _, bid := range auction.Bids {
		refunds = append(refunds, marketdata.Refund{
			To:     bid.Bidder,
			Amount: bid.Price,
		})
	}
	return refunds
}

// Get - fetch one listing
func Get(key marketdata.AssetKey) (*marketdata.Listing, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	return getLocked(key)
}

// Has - check a listing exists
func Has(key marketdata.AssetKey) bool {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.pool.Has(key.Pack())
}

// validate the sale terms of a new listing
func validateTerms(terms marketdata.Terms, now int64) error {
	switch t := terms.(type) {
	case marketdata.FixedSale:
		if 0 == t.Price || t.Price >= marketdata.MaximumPrice {
			return fault.InvalidPrice
		}

	case marketdata.EnglishAuction:
		if 0 == t.StartPrice || t.StartPrice >= marketdata.MaximumPrice {
			return fault.InvalidPrice
		}
		if 0 != len(t.Bids) {
			return fault.InvalidItem
		}
		if t.EndAt <= t.StartAt || t.EndAt <= now {
			return fault.InvalidListingWindow
		}

	case marketdata.DutchAuction:
		if 0 == t.StartPrice || t.StartPrice >= marketdata.MaximumPrice {
			return fault.InvalidPrice
		}
		if t.EndPrice >= t.StartPrice {
			return fault.InvalidPriceRange
		}
		if t.EndAt <= t.StartAt || t.EndAt <= now {
			return fault.InvalidListingWindow
		}

	default:
		return fault.InvalidItem
	}
	return nil
}

// Create - store a new listing
//
// replaces any existing listing for the same asset; bids standing on
// the replaced listing are returned as refunds
func Create(l marketdata.Listing, now int64) ([]marketdata.Refund, bool, error) {
	globalData.Lock()
	defer globalData.Unlock()

	err := validateTerms(l.Terms, now)
	if nil != err {
		return nil, false, err
	}

	refunds := []marketdata.Refund(nil)
	replaced := false
	if old, err := getLocked(l.Key()); nil == err {
		refunds = bidRefunds(old)
		deleteLocked(old)
		replaced = true
	}

	putLocked(&l)
	packed := l.Key().Pack()
	globalData.items.Put(marketdata.OwnerItemKey(l.Owner, marketdata.ItemListing, packed), []byte{})

	globalData.log.Infof("create: %s/%s  owner: %s  kind: %s", l.Collection, l.TokenID, l.Owner, l.Terms.Kind())
	return refunds, replaced, nil
}

// UpdatePrice - change the asking price
//
// owner only; sets the fixed sale price or the auction start price,
// nothing else about the listing changes
func UpdatePrice(caller account.Account, key marketdata.AssetKey, price uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	l, err := getLocked(key)
	if nil != err {
		return err
	}
	if caller != l.Owner {
		return fault.NotListingOwner
	}
	if 0 == price || price >= marketdata.MaximumPrice {
		return fault.InvalidPrice
	}

	switch t := l.Terms.(type) {
	case marketdata.FixedSale:
		t.Price = price
		l.Terms = t
	case marketdata.EnglishAuction:
		t.StartPrice = price
		l.Terms = t
	case marketdata.DutchAuction:
		if price <= t.EndPrice {
			return fault.InvalidPriceRange
		}
		t.StartPrice = price
		l.Terms = t
	}

	putLocked(l)
	globalData.log.Infof("update: %s/%s  price: %d", key.Collection, key.TokenID, price)
	return nil
}

// Delete - remove a listing
//
// allowed for the owner at any time; the marketplace admin may also
// remove an english auction, but only once its window has closed.
// all standing bids are returned as refunds
func Delete(caller account.Account, key marketdata.AssetKey, isAdmin bool, now int64) (*marketdata.Listing, []marketdata.Refund, error) {
	globalData.Lock()
	defer globalData.Unlock()

	l, err := getLocked(key)
	if nil != err {
		return nil, nil, err
	}

	if caller != l.Owner {
		if !isAdmin {
			return nil, nil, fault.NotListingOwner
		}
		if auction, ok := l.Terms.(marketdata.EnglishAuction); ok && now < auction.EndAt {
			return nil, nil, fault.AuctionNotEnded
		}
	}

	refunds := bidRefunds(l)
	deleteLocked(l)

	globalData.log.Infof("delete: %s/%s  by: %s", key.Collection, key.TokenID, caller)
	return l, refunds, nil
}

// Take - consume a listing for settlement
//
// no authorization: the caller has already established the right to
// settle.  The record and its index entry are removed.
func Take(key marketdata.AssetKey) (*marketdata.Listing, error) {
	globalData.Lock()
	defer globalData.Unlock()

	l, err := getLocked(key)
	if nil != err {
		return nil, err
	}
	deleteLocked(l)
	return l, nil
}

// Prune - drop a listing displaced by another settlement path
//
// no authorization and a missing listing is not an error; standing
// bids are returned as refunds
func Prune(key marketdata.AssetKey) ([]marketdata.Refund, bool) {
	globalData.Lock()
	defer globalData.Unlock()

	l, err := getLocked(key)
	if nil != err {
		return nil, false
	}
	refunds := bidRefunds(l)
	deleteLocked(l)

	globalData.log.Infof("prune: %s/%s", key.Collection, key.TokenID)
	return refunds, true
}

// BumpApproval - record a fresh transfer approval for a listed asset
//
// a missing listing is not an error
func BumpApproval(key marketdata.AssetKey, approvalID uint64) {
	globalData.Lock()
	defer globalData.Unlock()

	l, err := getLocked(key)
	if nil != err {
		return
	}
	l.ApprovalID = approvalID
	putLocked(l)
}

// AddBid - place a bid on an english auction
//
// the deposit must cover the bid; a bid close to the end of the
// window extends it.  Returns the new end time (zero when not
// extended) and any refunds displaced by this bid.
func AddBid(bidder account.Account, key marketdata.AssetKey, amount uint64, deposit uint64, now int64) (int64, []marketdata.Refund, error) {
	globalData.Lock()
	defer globalData.Unlock()

	l, err := getLocked(key)
	if nil != err {
		return 0, nil, err
	}

	auction, ok := l.Terms.(marketdata.EnglishAuction)
	if !ok {
		return 0, nil, fault.ListingNotAuction
	}
	if bidder == l.Owner {
		return 0, nil, fault.CannotBidOnOwnListing
	}
	if now < auction.StartAt {
		return 0, nil, fault.AuctionNotStarted
	}
	if now >= auction.EndAt {
		return 0, nil, fault.AuctionEnded
	}
	if amount >= marketdata.MaximumPrice {
		return 0, nil, fault.InvalidPrice
	}
	if deposit < amount {
		return 0, nil, fault.IncorrectDeposit
	}
	if amount < auction.MinimumNextBid() {
		return 0, nil, fault.BidTooLow
	}

	refunds := []marketdata.Refund(nil)

	// a re-bid releases the bidder's previous bid
	for i, bid := range auction.Bids {
		if bid.Bidder == bidder {
			refunds = append(refunds, marketdata.Refund{To: bid.Bidder, Amount: bid.Price})
			auction.Bids = append(auction.Bids[:i], auction.Bids[i+1:]...)
			break
		}
	}

	auction.Bids = append(auction.Bids, marketdata.Bid{
		Bidder: bidder,
		Price:  amount,
	})

	// cap retained bids, evicting and refunding the oldest
	for len(auction.Bids) > marketdata.MaximumRetainedBids {
		evicted := auction.Bids[0]
		auction.Bids = auction.Bids[1:]
		refunds = append(refunds, marketdata.Refund{To: evicted.Bidder, Amount: evicted.Price})
	}

	// anti-snipe extension
	extendedTo := int64(0)
	if auction.EndAt-now <= marketdata.AntiSnipeGrace {
		auction.EndAt += marketdata.AntiSnipeGrace
		extendedTo = auction.EndAt
	}

	l.Terms = auction
	putLocked(l)

	globalData.log.Infof("bid: %s/%s  bidder: %s  amount: %d", key.Collection, key.TokenID, bidder, amount)
	return extendedTo, refunds, nil
}

// TakeTopBid - accept the highest bid and consume the listing
//
// allowed for the owner while the auction runs or after; the admin
// may only force acceptance once the window has closed.  Returns the
// winning bid plus refunds for every other standing bid.
func TakeTopBid(caller account.Account, key marketdata.AssetKey, isAdmin bool, now int64) (*marketdata.Listing, marketdata.Bid, []marketdata.Refund, error) {
	globalData.Lock()
	defer globalData.Unlock()

	l, err := getLocked(key)
	if nil != err {
		return nil, marketdata.Bid{}, nil, err
	}

	auction, ok := l.Terms.(marketdata.EnglishAuction)
	if !ok {
		return nil, marketdata.Bid{}, nil, fault.ListingNotAuction
	}

	if caller != l.Owner {
		if !isAdmin {
			return nil, marketdata.Bid{}, nil, fault.NotListingOwner
		}
		if now < auction.EndAt {
			return nil, marketdata.Bid{}, nil, fault.AuctionNotEnded
		}
	}

	top, ok := auction.TopBid()
	if !ok {
		return nil, marketdata.Bid{}, nil, fault.NoBidsOutstanding
	}

	refunds := []marketdata.Refund(nil)
	for _, bid := range auction.Bids[:len(auction.Bids)-1] {
		refunds = append(refunds, marketdata.Refund{To: bid.Bidder, Amount: bid.Price})
	}

	deleteLocked(l)

	globalData.log.Infof("accept bid: %s/%s  bidder: %s  amount: %d", key.Collection, key.TokenID, top.Bidder, top.Price)
	return l, top, refunds, nil
}

// CancelBid - withdraw one standing bid
//
// the bidder may cancel their own bid; the admin may cancel any
func CancelBid(caller account.Account, key marketdata.AssetKey, bidder account.Account, isAdmin bool) ([]marketdata.Refund, error) {
	globalData.Lock()
	defer globalData.Unlock()

	if caller != bidder && !isAdmin {
		return nil, fault.InvalidAccount
	}

	l, err := getLocked(key)
	if nil != err {
		return nil, err
	}
	auction, ok := l.Terms.(marketdata.EnglishAuction)
	if !ok {
		return nil, fault.ListingNotAuction
	}

	for i, bid := range auction.Bids {
		if bid.Bidder == bidder {
			auction.Bids = append(auction.Bids[:i], auction.Bids[i+1:]...)
			l.Terms = auction
			putLocked(l)

			globalData.log.Infof("cancel bid: %s/%s  bidder: %s", key.Collection, key.TokenID, bidder)
			return []marketdata.Refund{{To: bid.Bidder, Amount: bid.Price}}, nil
		}
	}
	return nil, fault.NoBidsOutstanding
}
