// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trades

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

// Trade
// -----

const (
	rateLimitTrade = 200
	rateBurstTrade = 100
)

// Trade - type for RPC
type Trade struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Trade {
	return &Trade{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitTrade, rateBurstTrade),
		IsNormalMode: isNormalMode,
	}
}

// Delete a trade proposal
// -----------------------

// DeleteArguments - arguments for RPC
type DeleteArguments struct {
	Caller           account.Account   `json:"caller"`
	Collection       account.Account   `json:"collection"`
	TokenID          string            `json:"tokenId"`
	TargetCollection account.Account   `json:"targetCollection"`
	Target           marketdata.Target `json:"target"`
}

// DeleteReply - result of withdrawing a proposal
type DeleteReply struct {
	OK bool `json:"ok"`
}

// Delete - withdraw a standing trade proposal
func (trade *Trade) Delete(arguments *DeleteArguments, reply *DeleteReply) error {

	if err := ratelimit.Limit(trade.Limiter); nil != err {
		return err
	}

	log := trade.Log
	log.Infof("Trade.Delete: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !trade.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	asset := marketdata.AssetKey{
		Collection: arguments.Collection,
		TokenID:    arguments.TokenID,
	}
	err := market.DeleteTrade(arguments.Caller, asset, arguments.TargetCollection, arguments.Target)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Query the proposals of one asset
// --------------------------------

// GetArguments - arguments for RPC
type GetArguments struct {
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"tokenId"`
}

// GetReply - all proposals standing for one proposer asset
type GetReply struct {
	Trades *marketdata.TradeList `json:"trades"`
}

// Get - fetch the trade list of one asset
func (trade *Trade) Get(arguments *GetArguments, reply *GetReply) error {

	if err := ratelimit.Limit(trade.Limiter); nil != err {
		return err
	}

	if nil == arguments {
		return fault.InvalidItem
	}

	list, err := market.GetTrade(marketdata.AssetKey{
		Collection: arguments.Collection,
		TokenID:    arguments.TokenID,
	})
	if nil != err {
		return err
	}

	reply.Trades = list
	return nil
}
