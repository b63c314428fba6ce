// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package approval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/approval"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/marketdata"
)

// records the last call made on it
type recorder struct {
	called string

	owner      account.Account
	asset      marketdata.AssetKey
	approvalID uint64

	args          *approval.MarketArgs
	buyer         account.Account
	expectedPrice *uint64
	target        marketdata.Target
	counterParty  account.Account
	proposerAsset marketdata.AssetKey
	series        bool
}

func (r *recorder) Sell(owner account.Account, asset marketdata.AssetKey, approvalID uint64, args *approval.MarketArgs) error {
	r.called = "sell"
	r.owner = owner
	r.asset = asset
	r.approvalID = approvalID
	r.args = args
	return nil
}

func (r *recorder) AcceptOffer(owner account.Account, asset marketdata.AssetKey, approvalID uint64, buyer account.Account, expectedPrice *uint64, series bool) error {
	r.called = "accept_offer"
	r.owner = owner
	r.asset = asset
	r.approvalID = approvalID
	r.buyer = buyer
	r.expectedPrice = expectedPrice
	r.series = series
	return nil
}

func (r *recorder) AddTrade(owner account.Account, asset marketdata.AssetKey, approvalID uint64, targetCollection account.Account, target marketdata.Target) error {
	r.called = "add_trade"
	r.owner = owner
	r.asset = asset
	r.approvalID = approvalID
	r.counterParty = targetCollection
	r.target = target
	return nil
}

func (r *recorder) AcceptTrade(owner account.Account, asset marketdata.AssetKey, approvalID uint64, proposerAsset marketdata.AssetKey, series bool) error {
	r.called = "accept_trade"
	r.owner = owner
	r.asset = asset
	r.approvalID = approvalID
	r.proposerAsset = proposerAsset
	r.series = series
	return nil
}

func notice(message string) approval.Notice {
	return approval.Notice{
		Owner:      "alice",
		Collection: "col-a",
		TokenID:    "token-1",
		ApprovalID: 7,
		Message:    []byte(message),
	}
}

func TestDispatchSale(t *testing.T) {
	r := &recorder{}
	err := approval.Dispatch(r, notice(`{"market_type":"sale","price":1000,"is_auction":true,"ended_at":9999}`))
	assert.NoError(t, err, "dispatch error")
	assert.Equal(t, "sell", r.called, "wrong operation")
	assert.Equal(t, account.Account("alice"), r.owner, "wrong owner")
	assert.Equal(t, marketdata.AssetKey{Collection: "col-a", TokenID: "token-1"}, r.asset, "wrong asset")
	assert.Equal(t, uint64(7), r.approvalID, "wrong approval")
	assert.Equal(t, uint64(1000), *r.args.Price, "wrong price")
	assert.True(t, *r.args.IsAuction, "auction flag lost")
}

func TestDispatchAcceptOffer(t *testing.T) {
	r := &recorder{}
	err := approval.Dispatch(r, notice(`{"market_type":"accept_offer","buyer":"bob","expected_price":500}`))
	assert.NoError(t, err, "dispatch error")
	assert.Equal(t, "accept_offer", r.called, "wrong operation")
	assert.Equal(t, account.Account("bob"), r.buyer, "wrong buyer")
	assert.Equal(t, uint64(500), *r.expectedPrice, "wrong expected price")
	assert.False(t, r.series, "series flag wrong")

	err = approval.Dispatch(r, notice(`{"market_type":"accept_offer_series","buyer":"bob"}`))
	assert.NoError(t, err, "dispatch error")
	assert.True(t, r.series, "series flag wrong")
	assert.Nil(t, r.expectedPrice, "unexpected price")

	err = approval.Dispatch(r, notice(`{"market_type":"accept_offer"}`))
	assert.Equal(t, fault.MissingParameters, err, "missing buyer accepted")
}

func TestDispatchAddTrade(t *testing.T) {
	r := &recorder{}
	err := approval.Dispatch(r, notice(`{"market_type":"add_trade","counter_collection":"col-b","counter_token":"token-9"}`))
	assert.NoError(t, err, "dispatch error")
	assert.Equal(t, "add_trade", r.called, "wrong operation")
	assert.Equal(t, account.Account("col-b"), r.counterParty, "wrong counter collection")
	assert.Equal(t, marketdata.Target{ID: "token-9"}, r.target, "wrong target")

	err = approval.Dispatch(r, notice(`{"market_type":"add_trade","counter_collection":"col-b","counter_series":"series-1"}`))
	assert.NoError(t, err, "dispatch error")
	assert.Equal(t, marketdata.Target{ID: "series-1", IsSeries: true}, r.target, "wrong target")

	err = approval.Dispatch(r, notice(`{"market_type":"add_trade","counter_collection":"col-b"}`))
	assert.Equal(t, fault.MissingParameters, err, "missing target accepted")
}

func TestDispatchAcceptTrade(t *testing.T) {
	r := &recorder{}
	err := approval.Dispatch(r, notice(`{"market_type":"accept_trade","buyer_collection":"col-b","buyer_token":"token-9"}`))
	assert.NoError(t, err, "dispatch error")
	assert.Equal(t, "accept_trade", r.called, "wrong operation")
	assert.Equal(t, marketdata.AssetKey{Collection: "col-b", TokenID: "token-9"}, r.proposerAsset, "wrong proposer asset")
	assert.False(t, r.series, "series flag wrong")

	err = approval.Dispatch(r, notice(`{"market_type":"accept_trade_series","buyer_collection":"col-b","buyer_token":"token-9"}`))
	assert.NoError(t, err, "dispatch error")
	assert.True(t, r.series, "series flag wrong")
}

func TestDispatchRejects(t *testing.T) {
	r := &recorder{}
	err := approval.Dispatch(r, notice(`{"market_type":"grab_everything"}`))
	assert.Equal(t, fault.InvalidItem, err, "unknown type accepted")

	err = approval.Dispatch(r, notice(`{}`))
	assert.Equal(t, fault.MissingParameters, err, "empty type accepted")

	err = approval.Dispatch(r, notice(`not json`))
	assert.Error(t, err, "bad json accepted")
	assert.Empty(t, r.called, "operation ran anyway")
}
