// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package trade - the asset-for-asset trade negotiation store
//
// proposals are grouped per proposer asset: the stored list is keyed
// by the collectible the proposer puts up, each entry naming the
// counter asset wanted in exchange
package trade

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
	pool  storage.Handle // proposer asset key → trade list
	items storage.Handle // reverse index

	// set once during initialise
	initialised bool
}

// Initialise - attach the trade pools
func Initialise(pool storage.Handle, itemPool storage.Handle) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("trade")
	globalData.log.Info("starting…")

	globalData.pool = pool
	globalData.items = itemPool

	globalData.initialised = true
	return nil
}

// Finalise - detach the trade pools
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

func getLocked(asset marketdata.AssetKey) (*marketdata.TradeList, error) {
	buffer := globalData.pool.Get(asset.Pack())
	if nil == buffer {
		return nil, fault.TradeNotFound
	}
	list := &marketdata.TradeList{}
	err := json.Unmarshal(buffer, list)
	if nil != err {
		return nil, err
	}
	return list, nil
}

func putLocked(asset marketdata.AssetKey, list *marketdata.TradeList) {
	buffer, err := json.Marshal(list)
	logger.PanicIfError("trade.put", err)
	globalData.pool.Put(asset.Pack(), buffer)
}

func deleteLocked(asset marketdata.AssetKey, proposer account.Account) {
	packed := asset.Pack()
	globalData.pool.Delete(packed)
	globalData.items.Delete(marketdata.OwnerItemKey(proposer, marketdata.ItemTrade, packed))
}

// Get - all proposals standing for one proposer asset
func Get(asset marketdata.AssetKey) (*marketdata.TradeList, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	return getLocked(asset)
}

// Propose - record a trade wanted by a proposer
//
// a new wanted target is appended to the proposer asset's list; an
// existing one is superseded.  The list approval id always tracks
// the proposer's latest transfer approval.
func Propose(p marketdata.TradeProposal, trusted func(account.Account) bool) (bool, error) {
	globalData.Lock()
	defer globalData.Unlock()

	if p.Target.IsSeries && !trusted(p.TargetCollection) {
		return false, fault.CollectionNotTrusted
	}
	if "" == p.Target.ID {
		return false, fault.InvalidTarget
	}

	created := false
	list, err := getLocked(p.Asset)
	if nil != err {
		list = &marketdata.TradeList{
			Proposer: p.Proposer,
		}
		created = true
	} else if list.Proposer != p.Proposer {
		// the asset changed hands; the old owner's list is stale
		deleteLocked(p.Asset, list.Proposer)
		list = &marketdata.TradeList{
			Proposer: p.Proposer,
		}
		created = true
	}

	list.ApprovalID = p.ApprovalID

	replaced := false
	for i, standing := range list.Proposals {
		if standing.Matches(p.TargetCollection, p.Target) {
			list.Proposals[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		list.Proposals = append(list.Proposals, p)
	}

	putLocked(p.Asset, list)
	if created {
		packed := p.Asset.Pack()
		globalData.items.Put(marketdata.OwnerItemKey(p.Proposer, marketdata.ItemTrade, packed), []byte{})
	}

	globalData.log.Infof("propose: %s/%s  for: %s/%s  by: %s",
		p.Asset.Collection, p.Asset.TokenID, p.TargetCollection, p.Target.ID, p.Proposer)
	return created, nil
}

// Cancel - withdraw one proposal
//
// the proposer or the admin; removing the last proposal removes the
// whole list
func Cancel(caller account.Account, asset marketdata.AssetKey, targetCollection account.Account, target marketdata.Target, isAdmin bool) error {
	globalData.Lock()
	defer globalData.Unlock()

	list, err := getLocked(asset)
	if nil != err {
		return err
	}
	if caller != list.Proposer && !isAdmin {
		return fault.NotTradeProposer
	}

	for i, standing := range list.Proposals {
		if standing.Matches(targetCollection, target) {
			list.Proposals = append(list.Proposals[:i], list.Proposals[i+1:]...)
			if 0 == len(list.Proposals) {
				deleteLocked(asset, list.Proposer)
			} else {
				putLocked(asset, list)
			}

			globalData.log.Infof("cancel: %s/%s  for: %s/%s",
				asset.Collection, asset.TokenID, targetCollection, target.ID)
			return nil
		}
	}
	return fault.TradeNotFound
}

// Take - consume one proposal for settlement
//
// returns the matching proposal carrying the list's current approval
// id; removing the last proposal removes the whole list
func Take(asset marketdata.AssetKey, targetCollection account.Account, target marketdata.Target) (*marketdata.TradeProposal, error) {
	globalData.Lock()
	defer globalData.Unlock()

	list, err := getLocked(asset)
	if nil != err {
		return nil, err
	}

	for i, standing := range list.Proposals {
		if standing.Matches(targetCollection, target) {
			taken := standing
			taken.ApprovalID = list.ApprovalID

			list.Proposals = append(list.Proposals[:i], list.Proposals[i+1:]...)
			if 0 == len(list.Proposals) {
				deleteLocked(asset, list.Proposer)
			} else {
				putLocked(asset, list)
			}
			return &taken, nil
		}
	}
	return nil, fault.TradeNotFound
}

// BumpApproval - record a proposer's fresh transfer approval
//
// used when an approval notification arrives for an asset with a
// standing trade list; a missing list is not an error
func BumpApproval(asset marketdata.AssetKey, approvalID uint64) {
	globalData.Lock()
	defer globalData.Unlock()

	list, err := getLocked(asset)
	if nil != err {
		return
	}
	list.ApprovalID = approvalID
	putLocked(asset, list)
}

// Prune - drop the trade list of an asset that changed hands
//
// returns true if a list was removed
func Prune(asset marketdata.AssetKey) bool {
	globalData.Lock()
	defer globalData.Unlock()

	list, err := getLocked(asset)
	if nil != err {
		return false
	}
	deleteLocked(asset, list.Proposer)

	globalData.log.Infof("prune: %s/%s", asset.Collection, asset.TokenID)
	return true
}
