// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package settlement - reconcile sales against the host ledger
//
// a sale record is consumed by its store before a settlement is
// initiated here; the asset move is requested from the ledger and
// the payout distributed, or the buyer made whole, when the
// continuation arrives.  Every continuation fires exactly once: the
// pending record is removed before any payment goes out.
package settlement

import (
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fees"
	"github.com/bitmark-inc/marketd/ledger"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/storage"
)

// PayoutTolerance - a payout split may fall short of the sale price
// by up to this many smallest currency units; the dust is kept by
// the engine rather than failing the sale
const PayoutTolerance uint64 = 100

// settlement kinds
const (
	KindSale = "sale"
	KindSwap = "swap"
)

// swap phases
const (
	phaseAcceptorCustody = 1 // acceptor asset moving to custody
	phaseProposerCustody = 2 // proposer asset moving to custody
	phaseDistribute      = 3 // both final moves dispatched
	phaseUnwind          = 4 // returning the acceptor asset
)

// Pending - one settlement awaiting its ledger continuation
type Pending struct {
	ID    uint64 `json:"id"`
	Kind  string `json:"kind"`
	Phase int    `json:"phase,omitempty"`

	// sale fields
	Buyer      account.Account     `json:"buyer,omitempty"`
	Seller     account.Account     `json:"seller,omitempty"`
	Asset      marketdata.AssetKey `json:"asset,omitempty"`
	ApprovalID uint64              `json:"approval_id,omitempty"`
	Price      uint64              `json:"price,omitempty"`
	FeeRate    uint16              `json:"fee_rate,omitempty"`
	Treasury   account.Account     `json:"treasury,omitempty"`

	// swap fields
	Acceptor         account.Account     `json:"acceptor,omitempty"`
	AcceptorAsset    marketdata.AssetKey `json:"acceptor_asset,omitempty"`
	AcceptorApproval uint64              `json:"acceptor_approval,omitempty"`
	Proposer         account.Account     `json:"proposer,omitempty"`
	ProposerAsset    marketdata.AssetKey `json:"proposer_asset,omitempty"`
	ProposerApproval uint64              `json:"proposer_approval,omitempty"`
	Remaining        int                 `json:"remaining,omitempty"`
}

// Handles - the storage pools settlement needs
type Handles struct {
	Settlements storage.Handle
}

// the id counter lives in the same pool under a one byte key that
// cannot collide with the eight byte settlement ids
var counterKey = []byte{0x00}

var globalData struct {
	sync.RWMutex
	log       *logger.L
	pool      storage.Handle
	transfers ledger.Transfers
	funds     ledger.Funds
	cleanup   func(marketdata.AssetKey)
	pending   map[uint64]*Pending
	nextID    uint64

	// set once during initialise
	initialised bool
}

// Initialise - attach collaborators and reload unresolved settlements
func Initialise(handles Handles, transfers ledger.Transfers, funds ledger.Funds, cleanup func(marketdata.AssetKey)) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("settlement")
	globalData.log.Info("starting…")

	globalData.pool = handles.Settlements
	globalData.transfers = transfers
	globalData.funds = funds
	globalData.cleanup = cleanup
	globalData.pending = make(map[uint64]*Pending)

	n, _ := globalData.pool.GetN(counterKey)
	globalData.nextID = n

	// reload settlements that were in flight at shutdown; their
	// continuations were lost with the connection, so operator
	// intervention is needed to resolve them
	globalData.pool.Scan(func(key []byte, value []byte) bool {
		if 8 != len(key) {
			return true
		}
		p := &Pending{}
		if err := json.Unmarshal(value, p); nil != err {
			globalData.log.Errorf("corrupt pending settlement: %x", key)
			return true
		}
		globalData.pending[p.ID] = p
		return true
	})
	if 0 != len(globalData.pending) {
		globalData.log.Warnf("unresolved settlements from previous run: %d", len(globalData.pending))
	}

	globalData.initialised = true
	return nil
}

// Finalise - detach collaborators
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.pool = nil
	globalData.transfers = nil
	globalData.funds = nil
	globalData.pending = nil
	globalData.initialised = false
	return nil
}

// PendingCount - settlements awaiting continuations
func PendingCount() int {
	globalData.RLock()
	defer globalData.RUnlock()
	return len(globalData.pending)
}

// allocate a settlement id; caller must hold the write lock
func nextIDLocked() uint64 {
	globalData.nextID += 1
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, globalData.nextID)
	globalData.pool.Put(counterKey, buffer)
	return globalData.nextID
}

// store a pending record; caller must hold the write lock
func storeLocked(p *Pending) {
	buffer, err := json.Marshal(p)
	logger.PanicIfError("settlement.store", err)
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, p.ID)
	globalData.pool.Put(key, buffer)
	globalData.pending[p.ID] = p
}

// remove a pending record; caller must hold the write lock
func removeLocked(p *Pending) {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, p.ID)
	globalData.pool.Delete(key)
	delete(globalData.pending, p.ID)
}

// event payloads
type saleParams struct {
	Buyer  account.Account     `json:"buyer"`
	Seller account.Account     `json:"seller"`
	Asset  marketdata.AssetKey `json:"asset"`
	Price  uint64              `json:"price"`
}

type swapParams struct {
	Acceptor      account.Account     `json:"acceptor"`
	AcceptorAsset marketdata.AssetKey `json:"acceptor_asset"`
	Proposer      account.Account     `json:"proposer"`
	ProposerAsset marketdata.AssetKey `json:"proposer_asset"`
}

// InitiateSale - begin settling a purchase
//
// the caller has already consumed the listing, offer or winning bid
// and holds the buyer's payment; the asset move and payout split are
// requested from the ledger
func InitiateSale(buyer account.Account, seller account.Account, asset marketdata.AssetKey, approvalID uint64, price uint64, feeRate uint16, treasury account.Account) uint64 {
	globalData.Lock()
	defer globalData.Unlock()

	p := &Pending{
		ID:         nextIDLocked(),
		Kind:       KindSale,
		Buyer:      buyer,
		Seller:     seller,
		Asset:      asset,
		ApprovalID: approvalID,
		Price:      price,
		FeeRate:    feeRate,
		Treasury:   treasury,
	}
	storeLocked(p)

	globalData.log.Infof("sale: %d  %s/%s  %s → %s  price: %d",
		p.ID, asset.Collection, asset.TokenID, seller, buyer, price)

	globalData.transfers.TransferPayout(p.ID, ledger.TransferPayoutArgs{
		Asset:             asset,
		Recipient:         buyer,
		ApprovalID:        approvalID,
		Price:             price,
		MaximumRecipients: ledger.MaximumPayoutRecipients,
	})
	return p.ID
}

// Complete - continuation of a sale settlement
//
// an unknown id is a repeat or stale delivery and is ignored
func Complete(id uint64, result *ledger.PayoutResult) {
	globalData.Lock()
	defer globalData.Unlock()

	p, ok := globalData.pending[id]
	if !ok || KindSale != p.Kind {
		globalData.log.Warnf("complete: unknown settlement: %d", id)
		return
	}
	removeLocked(p)

	if nil == result || !result.OK || nil == result.Payout {
		refundLocked(p, "transfer failed")
		return
	}

	// the split must never claim more than the price and may fall
	// short only by the tolerance
	remaining := p.Price
	for _, amount := range result.Payout {
		if amount > remaining {
			refundLocked(p, fault.PayoutOverClaimed.Error())
			return
		}
		remaining -= amount
	}
	if remaining > PayoutTolerance {
		refundLocked(p, fault.PayoutShortfall.Error())
		return
	}

	// the treasury's cut comes out of the seller's share, and only
	// when that share covers it
	fee := fees.TreasuryFee(p.Price, p.FeeRate)
	for name, amount := range result.Payout {
		to := account.Account(name)
		if to == p.Seller && amount >= fee && fee > 0 {
			globalData.funds.Pay(to, amount-fee)
			globalData.funds.Pay(p.Treasury, fee)
		} else {
			globalData.funds.Pay(to, amount)
		}
	}

	globalData.log.Infof("resolved: %d  %s/%s  price: %d", p.ID, p.Asset.Collection, p.Asset.TokenID, p.Price)
	event.Send(event.ResolvePurchase, saleParams{
		Buyer:  p.Buyer,
		Seller: p.Seller,
		Asset:  p.Asset,
		Price:  p.Price,
	})

	if nil != globalData.cleanup {
		globalData.cleanup(p.Asset)
	}
}

// return the buyer's payment in full; caller must hold the write lock
func refundLocked(p *Pending, reason string) {
	globalData.log.Warnf("failed: %d  %s/%s  %s  refunding: %d to: %s",
		p.ID, p.Asset.Collection, p.Asset.TokenID, reason, p.Price, p.Buyer)
	globalData.funds.Pay(p.Buyer, p.Price)
	event.Send(event.ResolvePurchaseFail, saleParams{
		Buyer:  p.Buyer,
		Seller: p.Seller,
		Asset:  p.Asset,
		Price:  p.Price,
	})
}

// InitiateSwap - begin settling an asset-for-asset trade
//
// phase one moves the acceptor's asset into engine custody; later
// phases run from the continuation
func InitiateSwap(acceptor account.Account, acceptorAsset marketdata.AssetKey, acceptorApproval uint64, proposal *marketdata.TradeProposal) uint64 {
	globalData.Lock()
	defer globalData.Unlock()

	p := &Pending{
		ID:               nextIDLocked(),
		Kind:             KindSwap,
		Phase:            phaseAcceptorCustody,
		Acceptor:         acceptor,
		AcceptorAsset:    acceptorAsset,
		AcceptorApproval: acceptorApproval,
		Proposer:         proposal.Proposer,
		ProposerAsset:    proposal.Asset,
		ProposerApproval: proposal.ApprovalID,
	}
	storeLocked(p)

	globalData.log.Infof("swap: %d  %s/%s ⇄ %s/%s",
		p.ID, acceptorAsset.Collection, acceptorAsset.TokenID,
		proposal.Asset.Collection, proposal.Asset.TokenID)

	globalData.transfers.Transfer(p.ID, ledger.TransferArgs{
		Asset:       acceptorAsset,
		Recipient:   globalData.transfers.Custodian(),
		ApprovalID:  acceptorApproval,
		UseApproval: true,
	})
	return p.ID
}

// CompleteSwapLeg - continuation of one swap transfer
//
// phase one failure aborts with nothing moved; phase two failure
// returns the acceptor's asset; once both custody moves succeeded
// the final distribution is dispatched best effort with no rollback
func CompleteSwapLeg(id uint64, ok bool) {
	globalData.Lock()
	defer globalData.Unlock()

	p, found := globalData.pending[id]
	if !found || KindSwap != p.Kind {
		globalData.log.Warnf("swap leg: unknown settlement: %d", id)
		return
	}

	switch p.Phase {
	case phaseAcceptorCustody:
		if !ok {
			// nothing has moved
			removeLocked(p)
			globalData.log.Warnf("swap: %d  acceptor custody failed", p.ID)
			event.Send(event.ResolvePurchaseFail, swapParamsOf(p))
			return
		}
		p.Phase = phaseProposerCustody
		storeLocked(p)
		globalData.transfers.Transfer(p.ID, ledger.TransferArgs{
			Asset:       p.ProposerAsset,
			Recipient:   globalData.transfers.Custodian(),
			ApprovalID:  p.ProposerApproval,
			UseApproval: true,
		})

	case phaseProposerCustody:
		if !ok {
			// the acceptor's asset is in custody and must go back
			p.Phase = phaseUnwind
			storeLocked(p)
			globalData.log.Warnf("swap: %d  proposer custody failed, unwinding", p.ID)
			globalData.transfers.Transfer(p.ID, ledger.TransferArgs{
				Asset:     p.AcceptorAsset,
				Recipient: p.Acceptor,
			})
			event.Send(event.ResolvePurchaseFail, swapParamsOf(p))
			return
		}
		// both assets in custody: distribute
		p.Phase = phaseDistribute
		p.Remaining = 2
		storeLocked(p)
		globalData.transfers.Transfer(p.ID, ledger.TransferArgs{
			Asset:     p.AcceptorAsset,
			Recipient: p.Proposer,
		})
		globalData.transfers.Transfer(p.ID, ledger.TransferArgs{
			Asset:     p.ProposerAsset,
			Recipient: p.Acceptor,
		})

	case phaseDistribute:
		if !ok {
			// no rollback is possible after custody: a failed final
			// move leaves the asset with the custodian for manual
			// release
			globalData.log.Criticalf("swap: %d  final distribution leg failed", p.ID)
		}
		p.Remaining -= 1
		if p.Remaining > 0 {
			storeLocked(p)
			return
		}
		removeLocked(p)
		globalData.log.Infof("swap resolved: %d", p.ID)
		event.Send(event.ResolvePurchase, swapParamsOf(p))
		if nil != globalData.cleanup {
			globalData.cleanup(p.AcceptorAsset)
			globalData.cleanup(p.ProposerAsset)
		}

	case phaseUnwind:
		if !ok {
			globalData.log.Criticalf("swap: %d  unwind failed, asset stuck in custody", p.ID)
		}
		removeLocked(p)

	default:
		globalData.log.Errorf("swap: %d  invalid phase: %d", p.ID, p.Phase)
		removeLocked(p)
	}
}

func swapParamsOf(p *Pending) swapParams {
	return swapParams{
		Acceptor:      p.Acceptor,
		AcceptorAsset: p.AcceptorAsset,
		Proposer:      p.Proposer,
		ProposerAsset: p.ProposerAsset,
	}
}
