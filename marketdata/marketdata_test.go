// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/marketdata"
)

func TestAssetKeyPack(t *testing.T) {

	k := marketdata.AssetKey{
		Collection: "collection.one",
		TokenID:    "token:17",
	}

	packed := k.Pack()
	recovered, err := marketdata.UnpackAssetKey(packed)
	assert.NoError(t, err, "unpack error")
	assert.Equal(t, k, recovered, "wrong asset key")

	// a token id containing bytes that look like another field
	// must not collide with a different key
	k1 := marketdata.AssetKey{Collection: "col.a", TokenID: "x||y"}
	k2 := marketdata.AssetKey{Collection: "col.a||x", TokenID: "y"}
	assert.NotEqual(t, k1.Pack(), k2.Pack(), "key collision")

	_, err = marketdata.UnpackAssetKey([]byte{0x05, 'a'})
	assert.Error(t, err, "unpack of truncated key")
}

func TestOfferKeyPack(t *testing.T) {

	series := marketdata.OfferKey{
		Collection: "col.a",
		Buyer:      "alice",
		Target:     marketdata.Target{ID: "series-1", IsSeries: true},
	}
	token := marketdata.OfferKey{
		Collection: "col.a",
		Buyer:      "alice",
		Target:     marketdata.Target{ID: "series-1", IsSeries: false},
	}
	assert.NotEqual(t, series.Pack(), token.Pack(), "series flag not in key")
}

func TestListingJSON(t *testing.T) {

	testList := []marketdata.Listing{
		{
			Owner:      "alice",
			ApprovalID: 7,
			Collection: "col.a",
			TokenID:    "token-1",
			Currency:   1, // native
			FeeRate:    200,
			Terms:      marketdata.FixedSale{Price: 1000},
		},
		{
			Owner:      "bob",
			ApprovalID: 9,
			Collection: "col.b",
			TokenID:    "token-2",
			Currency:   1,
			FeeRate:    500,
			Terms: marketdata.EnglishAuction{
				StartPrice: 100,
				StartAt:    1000,
				EndAt:      2000,
				Bids: []marketdata.Bid{
					{Bidder: "carol", Price: 150},
				},
			},
		},
		{
			Owner:      "carol",
			ApprovalID: 3,
			Collection: "col.c",
			TokenID:    "token-3",
			Currency:   1,
			FeeRate:    250,
			Terms: marketdata.DutchAuction{
				StartPrice: 1000,
				EndPrice:   100,
				StartAt:    1000,
				EndAt:      2000,
			},
		},
	}

	for i, original := range testList {
		buffer, err := json.Marshal(original)
		assert.NoError(t, err, "%d: marshal error", i)

		var recovered marketdata.Listing
		err = json.Unmarshal(buffer, &recovered)
		assert.NoError(t, err, "%d: unmarshal error", i)
		assert.Equal(t, original, recovered, "%d: wrong listing", i)
	}

	// unknown kind must fail
	var l marketdata.Listing
	err := json.Unmarshal([]byte(`{"kind":"raffle","terms":{}}`), &l)
	assert.Error(t, err, "unmarshal of unknown kind")
}

func TestDutchPrice(t *testing.T) {

	terms := marketdata.DutchAuction{
		StartPrice: 1000,
		EndPrice:   100,
		StartAt:    1000,
		EndAt:      1900, // duration 900, decline 1/second
	}

	testList := []struct {
		now      int64
		expected uint64
	}{
		{0, 1000},    // before start clamps to start price
		{1000, 1000}, // at start
		{1001, 999},
		{1450, 550}, // half way
		{1899, 101},
		{1900, 100}, // at end
		{5000, 100}, // after end clamps to end price
	}

	for i, item := range testList {
		actual := marketdata.CurrentPrice(terms, item.now)
		assert.Equal(t, item.expected, actual, "%d: price at %d", i, item.now)
	}
}

func TestCurrentPriceEnglish(t *testing.T) {

	auction := marketdata.EnglishAuction{
		StartPrice: 100,
		StartAt:    1000,
		EndAt:      2000,
	}
	assert.Equal(t, uint64(100), marketdata.CurrentPrice(auction, 1500), "no bids")

	auction.Bids = []marketdata.Bid{
		{Bidder: "alice", Price: 100},
		{Bidder: "bob", Price: 150},
	}
	assert.Equal(t, uint64(150), marketdata.CurrentPrice(auction, 1500), "top bid")
}

func TestMinimumNextBid(t *testing.T) {

	auction := marketdata.EnglishAuction{StartPrice: 100}
	assert.Equal(t, uint64(100), auction.MinimumNextBid(), "no bids")

	auction.Bids = []marketdata.Bid{{Bidder: "alice", Price: 100}}
	assert.Equal(t, uint64(105), auction.MinimumNextBid(), "five percent step")

	auction.Bids = append(auction.Bids, marketdata.Bid{Bidder: "bob", Price: 1000})
	assert.Equal(t, uint64(1050), auction.MinimumNextBid(), "five percent step")
}
