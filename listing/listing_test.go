// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/storage"
)

const (
	owner  = account.Account("alice")
	admin  = account.Account("market.admin")
	bidder = account.Account("bob")
	rival  = account.Account("carol")
)

func setup(t *testing.T) {
	fixtures.SetupTestLogger()
	err := storage.Initialise(fixtures.DatabaseName("listing"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
	err = listing.Initialise(storage.Pool.Listings, storage.Pool.OwnerItems)
	if nil != err {
		t.Fatalf("listing initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	_ = listing.Finalise()
	storage.Finalise()
	fixtures.TeardownTestLogger()
}

func fixedListing() marketdata.Listing {
	return marketdata.Listing{
		Owner:      owner,
		ApprovalID: 1,
		Collection: "col.a",
		TokenID:    "token-1",
		Currency:   1,
		FeeRate:    200,
		Terms:      marketdata.FixedSale{Price: 1000},
	}
}

func auctionListing() marketdata.Listing {
	l := fixedListing()
	l.Terms = marketdata.EnglishAuction{
		StartPrice: 100,
		StartAt:    1000,
		EndAt:      10_000,
	}
	return l
}

func TestCreateAndGet(t *testing.T) {
	setup(t)
	defer teardown(t)

	l := fixedListing()
	refunds, replaced, err := listing.Create(l, 500)
	assert.NoError(t, err, "create error")
	assert.False(t, replaced, "unexpected replace")
	assert.Empty(t, refunds, "unexpected refunds")

	stored, err := listing.Get(l.Key())
	assert.NoError(t, err, "get error")
	assert.Equal(t, l, *stored, "wrong listing")

	_, err = listing.Get(marketdata.AssetKey{Collection: "col.a", TokenID: "absent"})
	assert.Equal(t, fault.ListingNotFound, err, "wrong error")
}

func TestCreateValidation(t *testing.T) {
	setup(t)
	defer teardown(t)

	// zero price
	l := fixedListing()
	l.Terms = marketdata.FixedSale{}
	_, _, err := listing.Create(l, 500)
	assert.Equal(t, fault.InvalidPrice, err, "wrong error")

	// the admission ceiling itself is rejected
	l.Terms = marketdata.FixedSale{Price: marketdata.MaximumPrice}
	_, _, err = listing.Create(l, 500)
	assert.Equal(t, fault.InvalidPrice, err, "wrong error")

	l.Terms = marketdata.EnglishAuction{StartPrice: marketdata.MaximumPrice, StartAt: 500, EndAt: 900}
	_, _, err = listing.Create(l, 400)
	assert.Equal(t, fault.InvalidPrice, err, "wrong error")

	// auction window already elapsed
	l.Terms = marketdata.EnglishAuction{StartPrice: 100, StartAt: 100, EndAt: 200}
	_, _, err = listing.Create(l, 500)
	assert.Equal(t, fault.InvalidListingWindow, err, "wrong error")

	// inverted window
	l.Terms = marketdata.EnglishAuction{StartPrice: 100, StartAt: 900, EndAt: 800}
	_, _, err = listing.Create(l, 500)
	assert.Equal(t, fault.InvalidListingWindow, err, "wrong error")

	// dutch end price at or above start price
	l.Terms = marketdata.DutchAuction{StartPrice: 100, EndPrice: 100, StartAt: 500, EndAt: 900}
	_, _, err = listing.Create(l, 400)
	assert.Equal(t, fault.InvalidPriceRange, err, "wrong error")
}

func TestReListRefundsBids(t *testing.T) {
	setup(t)
	defer teardown(t)

	l := auctionListing()
	_, _, err := listing.Create(l, 500)
	assert.NoError(t, err, "create error")

	_, _, err = listing.AddBid(bidder, l.Key(), 100, 100, 2000)
	assert.NoError(t, err, "bid error")

	// replacing the listing refunds the standing bid
	refunds, replaced, err := listing.Create(fixedListing(), 2500)
	assert.NoError(t, err, "re-create error")
	assert.True(t, replaced, "expected replace")
	assert.Equal(t, []marketdata.Refund{{To: bidder, Amount: 100}}, refunds, "wrong refunds")
}

func TestAddBid(t *testing.T) {
	setup(t)
	defer teardown(t)

	l := auctionListing()
	key := l.Key()
	_, _, err := listing.Create(l, 500)
	assert.NoError(t, err, "create error")

	// before the window opens
	_, _, err = listing.AddBid(bidder, key, 100, 100, 999)
	assert.Equal(t, fault.AuctionNotStarted, err, "wrong error")

	// owner bidding
	_, _, err = listing.AddBid(owner, key, 100, 100, 2000)
	assert.Equal(t, fault.CannotBidOnOwnListing, err, "wrong error")

	// deposit under the bid
	_, _, err = listing.AddBid(bidder, key, 100, 99, 2000)
	assert.Equal(t, fault.IncorrectDeposit, err, "wrong error")

	// below the start price
	_, _, err = listing.AddBid(bidder, key, 99, 99, 2000)
	assert.Equal(t, fault.BidTooLow, err, "wrong error")

	// acceptable first bid
	extended, refunds, err := listing.AddBid(bidder, key, 100, 100, 2000)
	assert.NoError(t, err, "bid error")
	assert.Zero(t, extended, "unexpected extension")
	assert.Empty(t, refunds, "unexpected refunds")

	// below the five percent step over the top bid
	_, _, err = listing.AddBid(rival, key, 104, 104, 2100)
	assert.Equal(t, fault.BidTooLow, err, "wrong error")

	// exactly the step
	_, refunds, err = listing.AddBid(rival, key, 105, 105, 2100)
	assert.NoError(t, err, "bid error")
	assert.Empty(t, refunds, "unexpected refunds")

	// re-bid by the first bidder releases their old bid
	_, refunds, err = listing.AddBid(bidder, key, 200, 200, 2200)
	assert.NoError(t, err, "bid error")
	assert.Equal(t, []marketdata.Refund{{To: bidder, Amount: 100}}, refunds, "wrong refunds")

	// after the window closes
	_, _, err = listing.AddBid(rival, key, 300, 300, 10_000)
	assert.Equal(t, fault.AuctionEnded, err, "wrong error")
}

func TestAntiSnipeExtension(t *testing.T) {
	setup(t)
	defer teardown(t)

	l := auctionListing() // ends at 10_000
	key := l.Key()
	_, _, err := listing.Create(l, 500)
	assert.NoError(t, err, "create error")

	// a bid with more than the grace period remaining does not extend
	extended, _, err := listing.AddBid(bidder, key, 100, 100, 9000)
	assert.NoError(t, err, "bid error")
	assert.Zero(t, extended, "unexpected extension")

	// inside the grace period the window moves out by the grace
	extended, _, err = listing.AddBid(rival, key, 200, 200, 9800)
	assert.NoError(t, err, "bid error")
	assert.Equal(t, int64(10_000+marketdata.AntiSnipeGrace), extended, "wrong extension")

	// the moved window accepts later bids
	_, _, err = listing.AddBid(bidder, key, 300, 300, 10_100)
	assert.NoError(t, err, "bid error")
}

func TestBidEviction(t *testing.T) {
	setup(t)
	defer teardown(t)

	l := auctionListing()
	l.Terms = marketdata.EnglishAuction{
		StartPrice: 1,
		StartAt:    0,
		EndAt:      1 << 40,
	}
	key := l.Key()
	_, _, err := listing.Create(l, 0)
	assert.NoError(t, err, "create error")

	// many distinct bidders, each outbidding the last
	amount := uint64(1)
	firstBidder := account.Account("bidder000")
	firstAmount := amount
	for i := 0; i <= marketdata.MaximumRetainedBids; i += 1 {
		b := account.Account(fmt.Sprintf("bidder%03d", i))
		_, refunds, err := listing.AddBid(b, key, amount, amount, 100)
		assert.NoError(t, err, "bid %d error", i)
		if i < marketdata.MaximumRetainedBids {
			assert.Empty(t, refunds, "bid %d: unexpected refunds", i)
		} else {
			// the cap evicts and refunds the oldest bid
			assert.Equal(t, []marketdata.Refund{{To: firstBidder, Amount: firstAmount}}, refunds, "wrong eviction refund")
		}
		amount += amount*5/100 + 1
	}
}

func TestTakeTopBid(t *testing.T) {
	setup(t)
	defer teardown(t)

	l := auctionListing()
	key := l.Key()
	_, _, err := listing.Create(l, 500)
	assert.NoError(t, err, "create error")

	// no bids yet
	_, _, _, err = listing.TakeTopBid(owner, key, false, 2000)
	assert.Equal(t, fault.NoBidsOutstanding, err, "wrong error")

	_, _, err = listing.AddBid(bidder, key, 100, 100, 2000)
	assert.NoError(t, err, "bid error")
	_, _, err = listing.AddBid(rival, key, 200, 200, 2100)
	assert.NoError(t, err, "bid error")

	// admin cannot force acceptance while the auction runs
	_, _, _, err = listing.TakeTopBid(admin, key, true, 2200)
	assert.Equal(t, fault.AuctionNotEnded, err, "wrong error")

	// a stranger cannot accept at all
	_, _, _, err = listing.TakeTopBid(rival, key, false, 2200)
	assert.Equal(t, fault.NotListingOwner, err, "wrong error")

	// the owner accepts early; losing bids are refunded
	taken, top, refunds, err := listing.TakeTopBid(owner, key, false, 2200)
	assert.NoError(t, err, "accept error")
	assert.Equal(t, rival, top.Bidder, "wrong winner")
	assert.Equal(t, uint64(200), top.Price, "wrong winning amount")
	assert.Equal(t, owner, taken.Owner, "wrong listing")
	assert.Equal(t, []marketdata.Refund{{To: bidder, Amount: 100}}, refunds, "wrong refunds")

	// listing is consumed
	_, err = listing.Get(key)
	assert.Equal(t, fault.ListingNotFound, err, "listing not consumed")
}

func TestCancelBid(t *testing.T) {
	setup(t)
	defer teardown(t)

	l := auctionListing()
	key := l.Key()
	_, _, err := listing.Create(l, 500)
	assert.NoError(t, err, "create error")

	_, _, err = listing.AddBid(bidder, key, 100, 100, 2000)
	assert.NoError(t, err, "bid error")

	// a stranger cannot cancel someone else's bid
	_, err = listing.CancelBid(rival, key, bidder, false)
	assert.Equal(t, fault.InvalidAccount, err, "wrong error")

	// the bidder cancels their own bid
	refunds, err := listing.CancelBid(bidder, key, bidder, false)
	assert.NoError(t, err, "cancel error")
	assert.Equal(t, []marketdata.Refund{{To: bidder, Amount: 100}}, refunds, "wrong refunds")

	// nothing left to cancel
	_, err = listing.CancelBid(admin, key, bidder, true)
	assert.Equal(t, fault.NoBidsOutstanding, err, "wrong error")
}

func TestDelete(t *testing.T) {
	setup(t)
	defer teardown(t)

	l := auctionListing()
	key := l.Key()
	_, _, err := listing.Create(l, 500)
	assert.NoError(t, err, "create error")

	_, _, err = listing.AddBid(bidder, key, 100, 100, 2000)
	assert.NoError(t, err, "bid error")

	// admin cannot delete a running auction
	_, _, err = listing.Delete(admin, key, true, 2500)
	assert.Equal(t, fault.AuctionNotEnded, err, "wrong error")

	// owner deletes; the standing bid is refunded
	deleted, refunds, err := listing.Delete(owner, key, false, 2500)
	assert.NoError(t, err, "delete error")
	assert.Equal(t, owner, deleted.Owner, "wrong listing")
	assert.Equal(t, []marketdata.Refund{{To: bidder, Amount: 100}}, refunds, "wrong refunds")

	_, err = listing.Get(key)
	assert.Equal(t, fault.ListingNotFound, err, "listing not removed")
}

func TestUpdatePrice(t *testing.T) {
	setup(t)
	defer teardown(t)

	l := fixedListing()
	key := l.Key()
	_, _, err := listing.Create(l, 500)
	assert.NoError(t, err, "create error")

	// only the owner may reprice
	err = listing.UpdatePrice(bidder, key, 2000)
	assert.Equal(t, fault.NotListingOwner, err, "wrong error")

	err = listing.UpdatePrice(owner, key, 2000)
	assert.NoError(t, err, "update error")

	stored, err := listing.Get(key)
	assert.NoError(t, err, "get error")
	assert.Equal(t, marketdata.FixedSale{Price: 2000}, stored.Terms, "price not updated")
}
