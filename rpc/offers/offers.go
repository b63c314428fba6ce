// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package offers

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

// Offer
// -----

const (
	rateLimitOffer = 200
	rateBurstOffer = 100
)

// Offer - type for RPC
type Offer struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Offer {
	return &Offer{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitOffer, rateBurstOffer),
		IsNormalMode: isNormalMode,
	}
}

// Add an offer
// ------------

// AddArguments - arguments for RPC
type AddArguments struct {
	Buyer      account.Account   `json:"buyer"`
	Collection account.Account   `json:"collection"`
	Target     marketdata.Target `json:"target"`
	Currency   currency.Currency `json:"currency"`
	Price      uint64            `json:"price"`
	Deposit    uint64            `json:"deposit"`
}

// AddReply - result of placing an offer
type AddReply struct {
	OK bool `json:"ok"`
}

// Add - place a standing offer, escrowing the price
func (offer *Offer) Add(arguments *AddArguments, reply *AddReply) error {

	if err := ratelimit.Limit(offer.Limiter); nil != err {
		return err
	}

	log := offer.Log
	log.Infof("Offer.Add: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !offer.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.AddOffer(arguments.Buyer, arguments.Collection, arguments.Target,
		arguments.Currency, arguments.Price, arguments.Deposit)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Delete an offer
// ---------------

// DeleteArguments - arguments for RPC
type DeleteArguments struct {
	Buyer      account.Account   `json:"buyer"`
	Collection account.Account   `json:"collection"`
	Target     marketdata.Target `json:"target"`
}

// Delete - withdraw an offer, releasing its escrow
func (offer *Offer) Delete(arguments *DeleteArguments, reply *AddReply) error {

	if err := ratelimit.Limit(offer.Limiter); nil != err {
		return err
	}

	log := offer.Log
	log.Infof("Offer.Delete: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !offer.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.DeleteOffer(arguments.Buyer, arguments.Collection, arguments.Target)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Query one offer
// ---------------

// GetReply - one standing offer
type GetReply struct {
	Offer *marketdata.Offer `json:"offer"`
}

// Get - fetch one offer
func (offer *Offer) Get(arguments *DeleteArguments, reply *GetReply) error {

	if err := ratelimit.Limit(offer.Limiter); nil != err {
		return err
	}

	if nil == arguments {
		return fault.InvalidItem
	}

	o, err := market.GetOffer(arguments.Collection, arguments.Buyer, arguments.Target)
	if nil != err {
		return err
	}

	reply.Offer = o
	return nil
}
