// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package offer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/offer"
	"github.com/bitmark-inc/marketd/storage"
)

const (
	buyer account.Account = "alice"
	other account.Account = "bob"
)

func setup(t *testing.T) {
	fixtures.SetupTestLogger()
	err := storage.Initialise(fixtures.DatabaseName("offer"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
	err = offer.Initialise(storage.Pool.Offers, storage.Pool.OwnerItems)
	if nil != err {
		t.Fatalf("offer initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	_ = offer.Finalise()
	storage.Finalise()
	fixtures.TeardownTestLogger()
}

func noTrust(account.Account) bool  { return false }
func allTrust(account.Account) bool { return true }

func tokenOffer() marketdata.Offer {
	return marketdata.Offer{
		Buyer:      buyer,
		Collection: "col.a",
		Target:     marketdata.Target{ID: "token-1"},
		Currency:   1,
		Price:      500,
	}
}

func TestAddAndGet(t *testing.T) {
	setup(t)
	defer teardown(t)

	o := tokenOffer()

	// the admission ceiling itself is rejected
	o.Price = marketdata.MaximumPrice
	_, err := offer.Add(o, o.Price, noTrust)
	assert.Equal(t, fault.InvalidPrice, err, "wrong error")
	o = tokenOffer()

	// deposit must match the price exactly
	_, err = offer.Add(o, 499, noTrust)
	assert.Equal(t, fault.IncorrectDeposit, err, "wrong error")
	_, err = offer.Add(o, 501, noTrust)
	assert.Equal(t, fault.IncorrectDeposit, err, "wrong error")

	refunds, err := offer.Add(o, 500, noTrust)
	assert.NoError(t, err, "add error")
	assert.Empty(t, refunds, "unexpected refunds")

	stored, err := offer.Get(o.Key())
	assert.NoError(t, err, "get error")
	assert.Equal(t, o, *stored, "wrong offer")
}

func TestReOfferRefundsOld(t *testing.T) {
	setup(t)
	defer teardown(t)

	o := tokenOffer()
	_, err := offer.Add(o, 500, noTrust)
	assert.NoError(t, err, "add error")

	o.Price = 700
	refunds, err := offer.Add(o, 700, noTrust)
	assert.NoError(t, err, "re-add error")
	assert.Equal(t, []marketdata.Refund{{To: buyer, Amount: 500}}, refunds, "old escrow not refunded")

	stored, err := offer.Get(o.Key())
	assert.NoError(t, err, "get error")
	assert.Equal(t, uint64(700), stored.Price, "wrong price")
}

func TestSeriesNeedsTrust(t *testing.T) {
	setup(t)
	defer teardown(t)

	o := tokenOffer()
	o.Target = marketdata.Target{ID: "series-1", IsSeries: true}

	_, err := offer.Add(o, 500, noTrust)
	assert.Equal(t, fault.CollectionNotTrusted, err, "wrong error")

	_, err = offer.Add(o, 500, allTrust)
	assert.NoError(t, err, "add error")
}

func TestDelete(t *testing.T) {
	setup(t)
	defer teardown(t)

	o := tokenOffer()
	_, err := offer.Add(o, 500, noTrust)
	assert.NoError(t, err, "add error")

	// only the buyer may withdraw
	_, _, err = offer.Delete(other, o.Key())
	assert.Equal(t, fault.NotOfferOwner, err, "wrong error")

	deleted, refunds, err := offer.Delete(buyer, o.Key())
	assert.NoError(t, err, "delete error")
	assert.Equal(t, o, *deleted, "wrong offer")
	assert.Equal(t, []marketdata.Refund{{To: buyer, Amount: 500}}, refunds, "escrow not refunded")

	_, err = offer.Get(o.Key())
	assert.Equal(t, fault.OfferNotFound, err, "offer not removed")
}

func TestTake(t *testing.T) {
	setup(t)
	defer teardown(t)

	o := tokenOffer()
	_, err := offer.Add(o, 500, noTrust)
	assert.NoError(t, err, "add error")

	// a price mismatch leaves the offer standing
	wrong := uint64(400)
	_, err = offer.Take(o.Key(), &wrong)
	assert.Equal(t, fault.PriceMismatch, err, "wrong error")
	_, err = offer.Get(o.Key())
	assert.NoError(t, err, "offer should still stand")

	// a matching take consumes the offer
	right := uint64(500)
	taken, err := offer.Take(o.Key(), &right)
	assert.NoError(t, err, "take error")
	assert.Equal(t, o, *taken, "wrong offer")

	_, err = offer.Get(o.Key())
	assert.Equal(t, fault.OfferNotFound, err, "offer not consumed")

	// taking again reports the stale reference
	_, err = offer.Take(o.Key(), nil)
	assert.Equal(t, fault.OfferNotFound, err, "wrong error")
}
