// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/rpc/trades"
)

// TradeData - parameters for withdrawing a trade proposal
type TradeData struct {
	Caller           string
	Collection       string
	TokenID          string
	TargetCollection string
	Target           string
	IsSeries         bool
}

// DeleteTrade - withdraw a standing trade proposal
func (client *Client) DeleteTrade(tradeData *TradeData) (*trades.DeleteReply, error) {

	args := trades.DeleteArguments{
		Caller:           account.Account(tradeData.Caller),
		Collection:       account.Account(tradeData.Collection),
		TokenID:          tradeData.TokenID,
		TargetCollection: account.Account(tradeData.TargetCollection),
		Target: marketdata.Target{
			ID:       tradeData.Target,
			IsSeries: tradeData.IsSeries,
		},
	}

	client.printJson("Trade Delete Request", args)

	var reply trades.DeleteReply
	if err := client.client.Call("Trade.Delete", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Trade Delete Reply", reply)

	return &reply, nil
}

// GetTrades - fetch the trade list of one asset
func (client *Client) GetTrades(collection string, tokenID string) (*trades.GetReply, error) {

	args := trades.GetArguments{
		Collection: account.Account(collection),
		TokenID:    tokenID,
	}

	client.printJson("Trade Get Request", args)

	var reply trades.GetReply
	if err := client.client.Call("Trade.Get", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Trade Get Reply", reply)

	return &reply, nil
}
