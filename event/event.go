// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package event - the append-only marketplace event surface
//
// every state transition is emitted exactly once as a JSON line on a
// dedicated logger channel and republished on the message bus for
// the external relay
package event

import (
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/messagebus"
)

// event kinds
const (
	AddMarketData       = "add_market_data"
	UpdateMarketData    = "update_market_data"
	DeleteMarketData    = "delete_market_data"
	AddBid              = "add_bid"
	CancelBid           = "cancel_bid"
	ExtendAuction       = "extend_auction"
	AddOffer            = "add_offer"
	DeleteOffer         = "delete_offer"
	AddTrade            = "add_trade"
	DeleteTrade         = "delete_trade"
	AcceptTrade         = "accept_trade"
	ResolvePurchase     = "resolve_purchase"
	ResolvePurchaseFail = "resolve_purchase_fail"
)

var globalData struct {
	sync.RWMutex
	log *logger.L

	// set once during initialise
	initialised bool
}

// Initialise - set up the event channel
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("events")

	globalData.initialised = true
	return nil
}

// Finalise - flush pending event lines
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Flush()
	globalData.initialised = false
	return nil
}

// wire record
type envelope struct {
	Type   string      `json:"type"`
	Params interface{} `json:"params"`
}

// Send - emit one event
//
// params must marshal to JSON; a marshalling failure is a programming
// error and panics
func Send(kind string, params interface{}) {
	globalData.RLock()
	log := globalData.log
	globalData.RUnlock()

	buffer, err := json.Marshal(envelope{
		Type:   kind,
		Params: params,
	})
	logger.PanicIfError("event.Send", err)

	if nil != log {
		log.Info(string(buffer))
	}
	messagebus.Bus.Events.Send(kind, buffer)
}
