// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/ledger"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/mocks"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/storage"
)

const (
	buyer     account.Account = "alice"
	seller    account.Account = "bob"
	royalty   account.Account = "creator"
	treasury  account.Account = "market.treasury"
	custodian account.Account = "market.custody"
	acceptor  account.Account = "carol"
)

var asset = marketdata.AssetKey{Collection: "col.a", TokenID: "token-1"}
var counterAsset = marketdata.AssetKey{Collection: "col.b", TokenID: "token-9"}

type fixture struct {
	ctrl      *gomock.Controller
	transfers *mocks.MockTransfers
	funds     *mocks.MockFunds
	pruned    []marketdata.AssetKey
}

func setup(t *testing.T) *fixture {
	fixtures.SetupTestLogger()
	err := storage.Initialise(fixtures.DatabaseName("settlement"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}

	f := &fixture{
		ctrl: gomock.NewController(t),
	}
	f.transfers = mocks.NewMockTransfers(f.ctrl)
	f.funds = mocks.NewMockFunds(f.ctrl)

	err = settlement.Initialise(
		settlement.Handles{Settlements: storage.Pool.Settlements},
		f.transfers,
		f.funds,
		func(a marketdata.AssetKey) { f.pruned = append(f.pruned, a) },
	)
	if nil != err {
		t.Fatalf("settlement initialise error: %s", err)
	}
	return f
}

func (f *fixture) teardown(t *testing.T) {
	f.ctrl.Finish()
	_ = settlement.Finalise()
	storage.Finalise()
	fixtures.TeardownTestLogger()
}

func TestSalePayout(t *testing.T) {
	f := setup(t)
	defer f.teardown(t)

	f.transfers.EXPECT().TransferPayout(gomock.Any(), ledger.TransferPayoutArgs{
		Asset:             asset,
		Recipient:         buyer,
		ApprovalID:        7,
		Price:             10_000,
		MaximumRecipients: ledger.MaximumPayoutRecipients,
	})

	// fee rate 200bp of 10_000 = 200, taken from the seller's share
	id := settlement.InitiateSale(buyer, seller, asset, 7, 10_000, 200, treasury)
	assert.Equal(t, 1, settlement.PendingCount(), "settlement not pending")

	f.funds.EXPECT().Pay(seller, uint64(8800))
	f.funds.EXPECT().Pay(treasury, uint64(200))
	f.funds.EXPECT().Pay(royalty, uint64(1000))

	settlement.Complete(id, &ledger.PayoutResult{
		OK: true,
		Payout: map[string]uint64{
			seller.String():  9000,
			royalty.String(): 1000,
		},
	})

	assert.Zero(t, settlement.PendingCount(), "settlement still pending")
	assert.Equal(t, []marketdata.AssetKey{asset}, f.pruned, "stale trades not pruned")

	// a repeated continuation must do nothing
	settlement.Complete(id, &ledger.PayoutResult{OK: true, Payout: map[string]uint64{seller.String(): 9000}})
}

func TestSaleFailureRefundsBuyer(t *testing.T) {
	f := setup(t)
	defer f.teardown(t)

	f.transfers.EXPECT().TransferPayout(gomock.Any(), gomock.Any())
	id := settlement.InitiateSale(buyer, seller, asset, 7, 5000, 200, treasury)

	f.funds.EXPECT().Pay(buyer, uint64(5000))
	settlement.Complete(id, &ledger.PayoutResult{OK: false})

	assert.Zero(t, settlement.PendingCount(), "settlement still pending")
	assert.Empty(t, f.pruned, "failed sale must not prune trades")
}

func TestSaleNilPayoutRefundsBuyer(t *testing.T) {
	f := setup(t)
	defer f.teardown(t)

	f.transfers.EXPECT().TransferPayout(gomock.Any(), gomock.Any())
	id := settlement.InitiateSale(buyer, seller, asset, 7, 5000, 200, treasury)

	f.funds.EXPECT().Pay(buyer, uint64(5000))
	settlement.Complete(id, &ledger.PayoutResult{OK: true, Payout: nil})
}

func TestSaleOverClaimRefundsBuyer(t *testing.T) {
	f := setup(t)
	defer f.teardown(t)

	f.transfers.EXPECT().TransferPayout(gomock.Any(), gomock.Any())
	id := settlement.InitiateSale(buyer, seller, asset, 7, 5000, 200, treasury)

	// the split claims more than the price
	f.funds.EXPECT().Pay(buyer, uint64(5000))
	settlement.Complete(id, &ledger.PayoutResult{
		OK: true,
		Payout: map[string]uint64{
			seller.String():  5000,
			royalty.String(): 1,
		},
	})
}

func TestSaleShortfallTolerance(t *testing.T) {
	f := setup(t)
	defer f.teardown(t)

	// shortfall inside the tolerance resolves; the dust stays with
	// the engine
	f.transfers.EXPECT().TransferPayout(gomock.Any(), gomock.Any())
	id := settlement.InitiateSale(buyer, seller, asset, 7, 5000, 0, treasury)

	f.funds.EXPECT().Pay(seller, uint64(4900))
	settlement.Complete(id, &ledger.PayoutResult{
		OK:     true,
		Payout: map[string]uint64{seller.String(): 4900},
	})

	// shortfall beyond the tolerance refunds the buyer
	f.transfers.EXPECT().TransferPayout(gomock.Any(), gomock.Any())
	id = settlement.InitiateSale(buyer, seller, asset, 8, 5000, 0, treasury)

	f.funds.EXPECT().Pay(buyer, uint64(5000))
	settlement.Complete(id, &ledger.PayoutResult{
		OK:     true,
		Payout: map[string]uint64{seller.String(): 4899},
	})
}

func TestSaleFeeNotCoveredBySellerShare(t *testing.T) {
	f := setup(t)
	defer f.teardown(t)

	f.transfers.EXPECT().TransferPayout(gomock.Any(), gomock.Any())
	// fee 5000bp of 10_000 = 5000 but the seller's entry is only 100
	id := settlement.InitiateSale(buyer, seller, asset, 7, 10_000, 5000, treasury)

	f.funds.EXPECT().Pay(seller, uint64(100))
	f.funds.EXPECT().Pay(royalty, uint64(9900))
	settlement.Complete(id, &ledger.PayoutResult{
		OK: true,
		Payout: map[string]uint64{
			seller.String():  100,
			royalty.String(): 9900,
		},
	})
}

func proposal() *marketdata.TradeProposal {
	return &marketdata.TradeProposal{
		Proposer:         seller,
		Asset:            counterAsset,
		ApprovalID:       11,
		TargetCollection: asset.Collection,
		Target:           marketdata.Target{ID: asset.TokenID},
	}
}

func TestSwapResolves(t *testing.T) {
	f := setup(t)
	defer f.teardown(t)

	f.transfers.EXPECT().Custodian().Return(custodian).AnyTimes()

	// phase 1: acceptor asset into custody
	f.transfers.EXPECT().Transfer(gomock.Any(), ledger.TransferArgs{
		Asset:       asset,
		Recipient:   custodian,
		ApprovalID:  3,
		UseApproval: true,
	})
	id := settlement.InitiateSwap(acceptor, asset, 3, proposal())

	// phase 2: proposer asset into custody
	f.transfers.EXPECT().Transfer(id, ledger.TransferArgs{
		Asset:       counterAsset,
		Recipient:   custodian,
		ApprovalID:  11,
		UseApproval: true,
	})
	settlement.CompleteSwapLeg(id, true)

	// phase 3: both final moves
	f.transfers.EXPECT().Transfer(id, ledger.TransferArgs{
		Asset:     asset,
		Recipient: seller,
	})
	f.transfers.EXPECT().Transfer(id, ledger.TransferArgs{
		Asset:     counterAsset,
		Recipient: acceptor,
	})
	settlement.CompleteSwapLeg(id, true)

	settlement.CompleteSwapLeg(id, true)
	assert.Equal(t, 1, settlement.PendingCount(), "one leg still outstanding")
	settlement.CompleteSwapLeg(id, true)
	assert.Zero(t, settlement.PendingCount(), "swap still pending")
	assert.Equal(t, []marketdata.AssetKey{asset, counterAsset}, f.pruned, "stale trades not pruned")
}

func TestSwapFirstLegFailure(t *testing.T) {
	f := setup(t)
	defer f.teardown(t)

	f.transfers.EXPECT().Custodian().Return(custodian).AnyTimes()
	f.transfers.EXPECT().Transfer(gomock.Any(), gomock.Any())
	id := settlement.InitiateSwap(acceptor, asset, 3, proposal())

	// nothing moved; the swap just dissolves
	settlement.CompleteSwapLeg(id, false)
	assert.Zero(t, settlement.PendingCount(), "swap still pending")
}

func TestSwapSecondLegFailureUnwinds(t *testing.T) {
	f := setup(t)
	defer f.teardown(t)

	f.transfers.EXPECT().Custodian().Return(custodian).AnyTimes()
	f.transfers.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(2)
	id := settlement.InitiateSwap(acceptor, asset, 3, proposal())
	settlement.CompleteSwapLeg(id, true)

	// the acceptor's asset must come back out of custody
	f.transfers.EXPECT().Transfer(id, ledger.TransferArgs{
		Asset:     asset,
		Recipient: acceptor,
	})
	settlement.CompleteSwapLeg(id, false)
	assert.Equal(t, 1, settlement.PendingCount(), "unwind not pending")

	settlement.CompleteSwapLeg(id, true)
	assert.Zero(t, settlement.PendingCount(), "unwind still pending")
}

func TestReloadAfterRestart(t *testing.T) {
	f := setup(t)

	f.transfers.EXPECT().TransferPayout(gomock.Any(), gomock.Any())
	settlement.InitiateSale(buyer, seller, asset, 7, 5000, 200, treasury)
	assert.Equal(t, 1, settlement.PendingCount(), "settlement not pending")

	// simulate a restart: the pending record must survive
	f.ctrl.Finish()
	_ = settlement.Finalise()

	err := settlement.Initialise(
		settlement.Handles{Settlements: storage.Pool.Settlements},
		f.transfers,
		f.funds,
		nil,
	)
	assert.NoError(t, err, "reinitialise error")
	assert.Equal(t, 1, settlement.PendingCount(), "pending settlement lost")

	_ = settlement.Finalise()
	storage.Finalise()
	fixtures.TeardownTestLogger()
}
