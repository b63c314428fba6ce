// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trade_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/storage"
	"github.com/bitmark-inc/marketd/trade"
)

const (
	proposer account.Account = "alice"
	stranger account.Account = "bob"
)

func setup(t *testing.T) {
	fixtures.SetupTestLogger()
	err := storage.Initialise(fixtures.DatabaseName("trade"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
	err = trade.Initialise(storage.Pool.Trades, storage.Pool.OwnerItems)
	if nil != err {
		t.Fatalf("trade initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	_ = trade.Finalise()
	storage.Finalise()
	fixtures.TeardownTestLogger()
}

func noTrust(account.Account) bool { return false }

func proposal() marketdata.TradeProposal {
	return marketdata.TradeProposal{
		Proposer:         proposer,
		Asset:            marketdata.AssetKey{Collection: "col.a", TokenID: "token-1"},
		ApprovalID:       5,
		TargetCollection: "col.b",
		Target:           marketdata.Target{ID: "token-9"},
	}
}

func TestProposeAndGet(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := proposal()
	created, err := trade.Propose(p, noTrust)
	assert.NoError(t, err, "propose error")
	assert.True(t, created, "expected a new list")

	list, err := trade.Get(p.Asset)
	assert.NoError(t, err, "get error")
	assert.Equal(t, proposer, list.Proposer, "wrong proposer")
	assert.Equal(t, uint64(5), list.ApprovalID, "wrong approval")
	assert.Len(t, list.Proposals, 1, "wrong proposal count")

	// a second wanted target appends to the same list
	p2 := p
	p2.Target = marketdata.Target{ID: "token-10"}
	p2.ApprovalID = 6
	created, err = trade.Propose(p2, noTrust)
	assert.NoError(t, err, "propose error")
	assert.False(t, created, "unexpected new list")

	list, err = trade.Get(p.Asset)
	assert.NoError(t, err, "get error")
	assert.Len(t, list.Proposals, 2, "wrong proposal count")
	assert.Equal(t, uint64(6), list.ApprovalID, "approval not refreshed")

	// re-proposing the same target supersedes, not appends
	created, err = trade.Propose(p, noTrust)
	assert.NoError(t, err, "propose error")
	assert.False(t, created, "unexpected new list")
	list, _ = trade.Get(p.Asset)
	assert.Len(t, list.Proposals, 2, "supersede appended instead")
}

func TestSeriesNeedsTrust(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := proposal()
	p.Target = marketdata.Target{ID: "series-1", IsSeries: true}
	_, err := trade.Propose(p, noTrust)
	assert.Equal(t, fault.CollectionNotTrusted, err, "wrong error")

	_, err = trade.Propose(p, func(account.Account) bool { return true })
	assert.NoError(t, err, "propose error")
}

func TestCancel(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := proposal()
	_, err := trade.Propose(p, noTrust)
	assert.NoError(t, err, "propose error")

	err = trade.Cancel(stranger, p.Asset, p.TargetCollection, p.Target, false)
	assert.Equal(t, fault.NotTradeProposer, err, "wrong error")

	err = trade.Cancel(proposer, p.Asset, p.TargetCollection, p.Target, false)
	assert.NoError(t, err, "cancel error")

	// the last proposal removed the list
	_, err = trade.Get(p.Asset)
	assert.Equal(t, fault.TradeNotFound, err, "list not removed")
}

func TestTake(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := proposal()
	_, err := trade.Propose(p, noTrust)
	assert.NoError(t, err, "propose error")

	// the approval id travels with the taken proposal
	trade.BumpApproval(p.Asset, 42)

	taken, err := trade.Take(p.Asset, p.TargetCollection, p.Target)
	assert.NoError(t, err, "take error")
	assert.Equal(t, uint64(42), taken.ApprovalID, "approval not refreshed")

	// consumed
	_, err = trade.Take(p.Asset, p.TargetCollection, p.Target)
	assert.Equal(t, fault.TradeNotFound, err, "wrong error")
}

func TestPrune(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := proposal()
	_, err := trade.Propose(p, noTrust)
	assert.NoError(t, err, "propose error")

	assert.True(t, trade.Prune(p.Asset), "prune found nothing")
	assert.False(t, trade.Prune(p.Asset), "prune found a removed list")

	_, err = trade.Get(p.Asset)
	assert.Equal(t, fault.TradeNotFound, err, "list not removed")
}
