// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/approval"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fees"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/offer"
	"github.com/bitmark-inc/marketd/rent"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/trade"
)

// AssetApproved - entry point for approval notifications
//
// by the time a notice arrives the host has already committed the
// transfer approval, so a request referencing records that no longer
// exist must degrade gracefully rather than fail
func AssetApproved(notice approval.Notice) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !isApprovedCollection(notice.Collection) {
		return fault.CollectionNotApproved
	}
	return approval.Dispatch(dispatcher{}, notice)
}

// dispatcher binds the approval requests to the engine operations
type dispatcher struct{}

// Sell - create or replace a listing
func (dispatcher) Sell(owner account.Account, asset marketdata.AssetKey, approvalID uint64, args *approval.MarketArgs) error {
	if nil == args.Price {
		return fault.MissingParameters
	}

	c := currency.Native
	if nil != args.Currency {
		if err := c.UnmarshalText([]byte(*args.Currency)); nil != err {
			return err
		}
	}
	if !isApprovedCurrency(c) {
		return fault.CurrencyNotApproved
	}

	now := globalData.now()

	startAt := now
	if nil != args.StartedAt {
		startAt = *args.StartedAt
	}
	endAt := int64(0)
	if nil != args.EndedAt {
		endAt = *args.EndedAt
	}

	var terms marketdata.Terms
	switch {
	case nil != args.IsAuction && *args.IsAuction && nil != args.EndPrice:
		terms = marketdata.DutchAuction{
			StartPrice: *args.Price,
			EndPrice:   *args.EndPrice,
			StartAt:    startAt,
			EndAt:      endAt,
		}
	case nil != args.IsAuction && *args.IsAuction:
		terms = marketdata.EnglishAuction{
			StartPrice: *args.Price,
			StartAt:    startAt,
			EndAt:      endAt,
		}
	default:
		terms = marketdata.FixedSale{Price: *args.Price}
	}

	// a replacement reuses the old record's rent
	additional := 1
	if listing.Has(asset) {
		additional = 0
	}
	if err := rent.CheckCapacity(owner, additional); nil != err {
		return err
	}

	l := marketdata.Listing{
		Owner:      owner,
		ApprovalID: approvalID,
		Collection: asset.Collection,
		TokenID:    asset.TokenID,
		Currency:   c,
		FeeRate:    fees.Current(now),
		Terms:      terms,
	}

	refunds, replaced, err := listing.Create(l, now)
	if nil != err {
		return err
	}
	payRefunds(refunds)

	kind := event.AddMarketData
	if replaced {
		kind = event.UpdateMarketData
	}
	event.Send(kind, listingParams{Collection: asset.Collection, TokenID: asset.TokenID})
	return nil
}

// AcceptOffer - settle a standing offer against the approved asset
func (dispatcher) AcceptOffer(owner account.Account, asset marketdata.AssetKey, approvalID uint64, buyer account.Account, expectedPrice *uint64, series bool) error {
	target := marketdata.Target{ID: asset.TokenID}
	if series {
		target = marketdata.Target{ID: marketdata.SeriesOf(asset.TokenID), IsSeries: true}
	}

	key := marketdata.OfferKey{Collection: asset.Collection, Buyer: buyer, Target: target}
	o, err := offer.Take(key, expectedPrice)
	if fault.OfferNotFound == err {
		// the approval is committed: record it and move on
		globalData.log.Warnf("accept offer: %s/%s  buyer: %s  offer gone, approval recorded",
			asset.Collection, asset.TokenID, buyer)
		listing.BumpApproval(asset, approvalID)
		trade.BumpApproval(asset, approvalID)
		return nil
	}
	if nil != err {
		return err
	}

	// an accepted offer displaces any competing listing for the asset
	if refunds, pruned := listing.Prune(asset); pruned {
		payRefunds(refunds)
		event.Send(event.DeleteMarketData, listingParams{Collection: asset.Collection, TokenID: asset.TokenID})
	}

	settlement.InitiateSale(o.Buyer, owner, asset, approvalID, o.Price, fees.Current(globalData.now()), globalData.settings.Treasury)
	event.Send(event.DeleteOffer, offerParams{
		Collection: asset.Collection,
		Buyer:      o.Buyer,
		Target:     target,
	})
	return nil
}

// AddTrade - record a trade wanted in exchange for the approved asset
func (dispatcher) AddTrade(owner account.Account, asset marketdata.AssetKey, approvalID uint64, targetCollection account.Account, target marketdata.Target) error {
	if !isApprovedCollection(targetCollection) {
		return fault.CollectionNotApproved
	}

	// a fresh proposal on an already listed asset reuses its rent
	additional := 1
	if _, err := trade.Get(asset); nil == err {
		additional = 0
	}
	if err := rent.CheckCapacity(owner, additional); nil != err {
		return err
	}

	// trading an asset for the target supersedes any currency offer
	// the proposer has standing on it
	_, refunds, err := offer.Delete(owner, marketdata.OfferKey{Collection: targetCollection, Buyer: owner, Target: target})
	switch err {
	case nil:
		payRefunds(refunds)
		event.Send(event.DeleteOffer, offerParams{Collection: targetCollection, Buyer: owner, Target: target})
	case fault.OfferNotFound:
	default:
		return err
	}

	p := marketdata.TradeProposal{
		Proposer:         owner,
		Asset:            asset,
		ApprovalID:       approvalID,
		TargetCollection: targetCollection,
		Target:           target,
	}
	_, err = trade.Propose(p, isTrustedCollection)
	if nil != err {
		return err
	}

	event.Send(event.AddTrade, tradeParams{
		Asset:            asset,
		TargetCollection: targetCollection,
		Target:           target,
	})
	return nil
}

// AcceptTrade - settle a standing proposal against the approved asset
func (dispatcher) AcceptTrade(owner account.Account, asset marketdata.AssetKey, approvalID uint64, proposerAsset marketdata.AssetKey, series bool) error {
	target := marketdata.Target{ID: asset.TokenID}
	if series {
		target = marketdata.Target{ID: marketdata.SeriesOf(asset.TokenID), IsSeries: true}
	}

	p, err := trade.Take(proposerAsset, asset.Collection, target)
	if fault.TradeNotFound == err {
		// the approval is committed: record it and move on
		globalData.log.Warnf("accept trade: %s/%s  proposal gone, approval recorded",
			asset.Collection, asset.TokenID)
		listing.BumpApproval(asset, approvalID)
		trade.BumpApproval(asset, approvalID)
		return nil
	}
	if nil != err {
		return err
	}

	// both swapped assets leave the market; their listings go too
	for _, key := range []marketdata.AssetKey{asset, p.Asset} {
		if refunds, pruned := listing.Prune(key); pruned {
			payRefunds(refunds)
			event.Send(event.DeleteMarketData, listingParams{Collection: key.Collection, TokenID: key.TokenID})
		}
	}

	settlement.InitiateSwap(owner, asset, approvalID, p)
	event.Send(event.AcceptTrade, tradeParams{
		Asset:            proposerAsset,
		TargetCollection: asset.Collection,
		Target:           target,
	})
	return nil
}
