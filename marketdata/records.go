// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata

import (
	"encoding/json"
	"strings"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
)

// limits for all priced records
const (
	// absolute admission ceiling for any price or bid
	MaximumPrice uint64 = 1_000_000_000_000_000_000

	// bids retained per auction; older bids beyond this are
	// evicted and refunded
	MaximumRetainedBids = 100

	// a bid this close to the end of an auction extends the
	// window by the same amount (seconds)
	AntiSnipeGrace int64 = 5 * 60
)

// SeriesOf - the series a token belongs to
//
// token ids are "series:edition"; a token without an edition suffix
// is its own series
func SeriesOf(tokenID string) string {
	if i := strings.IndexByte(tokenID, ':'); i >= 0 {
		return tokenID[:i]
	}
	return tokenID
}

// Bid - one standing auction bid
type Bid struct {
	Bidder account.Account `json:"bidder"`
	Price  uint64          `json:"price"`
}

// Refund - a payment owed back to an account
//
// the stores report refunds; the caller pays them after the record
// change has been committed
type Refund struct {
	To     account.Account `json:"to"`
	Amount uint64          `json:"amount"`
}

// Terms - the sale terms of a listing
//
// exactly one of the three concrete types below
type Terms interface {
	Kind() string
}

// FixedSale - buy now at a set price
type FixedSale struct {
	Price uint64 `json:"price"`
}

// EnglishAuction - ascending bids inside a time window
type EnglishAuction struct {
	StartPrice uint64 `json:"start_price"`
	StartAt    int64  `json:"start_at"`
	EndAt      int64  `json:"end_at"`
	Bids       []Bid  `json:"bids"`
}

// DutchAuction - price declines linearly inside a time window
type DutchAuction struct {
	StartPrice uint64 `json:"start_price"`
	EndPrice   uint64 `json:"end_price"`
	StartAt    int64  `json:"start_at"`
	EndAt      int64  `json:"end_at"`
}

// kind tags used in the stored JSON
const (
	KindSale    = "sale"
	KindEnglish = "english_auction"
	KindDutch   = "dutch_auction"
)

func (FixedSale) Kind() string      { return KindSale }
func (EnglishAuction) Kind() string { return KindEnglish }
func (DutchAuction) Kind() string   { return KindDutch }

// TopBid - the highest standing bid
//
// bids are stored oldest first and must increase, so the top bid is
// the last one
func (a EnglishAuction) TopBid() (Bid, bool) {
	if 0 == len(a.Bids) {
		return Bid{}, false
	}
	return a.Bids[len(a.Bids)-1], true
}

// MinimumNextBid - the lowest acceptable next bid
//
// the start price while no bids stand, otherwise the top bid plus
// five percent
func (a EnglishAuction) MinimumNextBid() uint64 {
	top, ok := a.TopBid()
	if !ok {
		return a.StartPrice
	}
	return top.Price + top.Price*5/100
}

// Listing - one asset offered for sale
//
// the fee rate is snapshot from the schedule when the listing is
// created and stays fixed for its settlement
type Listing struct {
	Owner      account.Account   `json:"owner"`
	ApprovalID uint64            `json:"approval_id"`
	Collection account.Account   `json:"collection"`
	TokenID    string            `json:"token_id"`
	Currency   currency.Currency `json:"currency"`
	FeeRate    uint16            `json:"fee_rate"`
	Terms      Terms             `json:"-"`
}

// Key - the asset this listing sells
func (l Listing) Key() AssetKey {
	return AssetKey{
		Collection: l.Collection,
		TokenID:    l.TokenID,
	}
}

// envelope for the tagged union encoding
type listingJSON struct {
	Owner      account.Account   `json:"owner"`
	ApprovalID uint64            `json:"approval_id"`
	Collection account.Account   `json:"collection"`
	TokenID    string            `json:"token_id"`
	Currency   currency.Currency `json:"currency"`
	FeeRate    uint16            `json:"fee_rate"`
	Kind       string            `json:"kind"`
	Terms      json.RawMessage   `json:"terms"`
}

// MarshalJSON - encode a listing with its terms tagged by kind
func (l Listing) MarshalJSON() ([]byte, error) {
	if nil == l.Terms {
		return nil, fault.InvalidStructure
	}
	terms, err := json.Marshal(l.Terms)
	if nil != err {
		return nil, err
	}
	return json.Marshal(listingJSON{
		Owner:      l.Owner,
		ApprovalID: l.ApprovalID,
		Collection: l.Collection,
		TokenID:    l.TokenID,
		Currency:   l.Currency,
		FeeRate:    l.FeeRate,
		Kind:       l.Terms.Kind(),
		Terms:      terms,
	})
}

// UnmarshalJSON - decode a listing selecting the terms type by kind
func (l *Listing) UnmarshalJSON(buffer []byte) error {
	var envelope listingJSON
	if err := json.Unmarshal(buffer, &envelope); nil != err {
		return err
	}

	var terms Terms
	switch envelope.Kind {
	case KindSale:
		t := FixedSale{}
		if err := json.Unmarshal(envelope.Terms, &t); nil != err {
			return err
		}
		terms = t
	case KindEnglish:
		t := EnglishAuction{}
		if err := json.Unmarshal(envelope.Terms, &t); nil != err {
			return err
		}
		terms = t
	case KindDutch:
		t := DutchAuction{}
		if err := json.Unmarshal(envelope.Terms, &t); nil != err {
			return err
		}
		terms = t
	default:
		return fault.InvalidStructure
	}

	l.Owner = envelope.Owner
	l.ApprovalID = envelope.ApprovalID
	l.Collection = envelope.Collection
	l.TokenID = envelope.TokenID
	l.Currency = envelope.Currency
	l.FeeRate = envelope.FeeRate
	l.Terms = terms
	return nil
}

// Offer - a standing buy offer with its full price on deposit
type Offer struct {
	Buyer      account.Account   `json:"buyer"`
	Collection account.Account   `json:"collection"`
	Target     Target            `json:"target"`
	Currency   currency.Currency `json:"currency"`
	Price      uint64            `json:"price"`
}

// Key - the identifying key of this offer
func (o Offer) Key() OfferKey {
	return OfferKey{
		Collection: o.Collection,
		Buyer:      o.Buyer,
		Target:     o.Target,
	}
}

// TradeProposal - an asset-for-asset exchange wanted by a proposer
//
// Asset is the proposer's own collectible; Target is the counter
// asset wanted in exchange
type TradeProposal struct {
	Proposer         account.Account `json:"proposer"`
	Asset            AssetKey        `json:"asset"`
	ApprovalID       uint64          `json:"approval_id"`
	TargetCollection account.Account `json:"target_collection"`
	Target           Target          `json:"target"`
}

// Matches - true if the proposal wants the given counter asset
func (p TradeProposal) Matches(collection account.Account, target Target) bool {
	return p.TargetCollection == collection &&
		p.Target.IsSeries == target.IsSeries &&
		p.Target.ID == target.ID
}

// TradeList - all proposals standing for one proposer asset
//
// keyed in the store by the proposer's own asset; the approval id is
// the proposer's latest transfer approval for that asset
type TradeList struct {
	Proposer   account.Account `json:"proposer"`
	ApprovalID uint64          `json:"approval_id"`
	Proposals  []TradeProposal `json:"proposals"`
}
