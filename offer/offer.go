// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package offer - the standing buy offer store
//
// an offer escrows its full price; one live offer per
// (collection, buyer, target).  Series targets are only accepted for
// collections on the trusted list.
package offer

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
	pool  storage.Handle // offer key → offer
	items storage.Handle // reverse index

	// set once during initialise
	initialised bool
}

// Initialise - attach the offer pools
func Initialise(pool storage.Handle, itemPool storage.Handle) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("offer")
	globalData.log.Info("starting…")

	globalData.pool = pool
	globalData.items = itemPool

	globalData.initialised = true
	return nil
}

// Finalise - detach the offer pools
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

func getLocked(key marketdata.OfferKey) (*marketdata.Offer, error) {
	buffer := globalData.pool.Get(key.Pack())
	if nil == buffer {
		return nil, fault.OfferNotFound
	}
	o := &marketdata.Offer{}
	err := json.Unmarshal(buffer, o)
	if nil != err {
		return nil, err
	}
	return o, nil
}

func deleteLocked(o *marketdata.Offer) {
	packed := o.Key().Pack()
	globalData.pool.Delete(packed)
	globalData.items.Delete(marketdata.OwnerItemKey(o.Buyer, marketdata.ItemOffer, packed))
}

// Get - fetch one offer
func Get(key marketdata.OfferKey) (*marketdata.Offer, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	return getLocked(key)
}

// Add - store a new offer
//
// the deposit must equal the offered price exactly.  A prior offer
// by the same buyer on the same target is replaced and its escrowed
// price returned as a refund.
func Add(o marketdata.Offer, deposit uint64, trusted func(account.Account) bool) ([]marketdata.Refund, error) {
	globalData.Lock()
	defer globalData.Unlock()

	if !o.Currency.IsSettleable() {
		return nil, fault.CurrencyNotSupported
	}
	if 0 == o.Price || o.Price >= marketdata.MaximumPrice {
		return nil, fault.InvalidPrice
	}
	if deposit != o.Price {
		return nil, fault.IncorrectDeposit
	}
	if o.Target.IsSeries && !trusted(o.Collection) {
		return nil, fault.CollectionNotTrusted
	}
	if "" == o.Target.ID {
		return nil, fault.InvalidTarget
	}

	refunds := []marketdata.Refund(nil)
	if old, err := getLocked(o.Key()); nil == err {
		refunds = append(refunds, marketdata.Refund{To: old.Buyer, Amount: old.Price})
		deleteLocked(old)
	}

	buffer, err := json.Marshal(o)
	logger.PanicIfError("offer.add", err)
	packed := o.Key().Pack()
	globalData.pool.Put(packed, buffer)
	globalData.items.Put(marketdata.OwnerItemKey(o.Buyer, marketdata.ItemOffer, packed), []byte{})

	globalData.log.Infof("add: %s/%s  buyer: %s  price: %d", o.Collection, o.Target.ID, o.Buyer, o.Price)
	return refunds, nil
}

// Delete - withdraw an offer
//
// buyer only; the escrowed price is returned as a refund
func Delete(caller account.Account, key marketdata.OfferKey) (*marketdata.Offer, []marketdata.Refund, error) {
	globalData.Lock()
	defer globalData.Unlock()

	o, err := getLocked(key)
	if nil != err {
		return nil, nil, err
	}
	if caller != o.Buyer {
		return nil, nil, fault.NotOfferOwner
	}

	deleteLocked(o)

	globalData.log.Infof("delete: %s/%s  buyer: %s", o.Collection, o.Target.ID, o.Buyer)
	return o, []marketdata.Refund{{To: o.Buyer, Amount: o.Price}}, nil
}

// Take - consume an offer for settlement
//
// when an expected price is given it must match the escrowed one; a
// mismatch leaves the offer standing
func Take(key marketdata.OfferKey, expectedPrice *uint64) (*marketdata.Offer, error) {
	globalData.Lock()
	defer globalData.Unlock()

	o, err := getLocked(key)
	if nil != err {
		return nil, err
	}
	if nil != expectedPrice && *expectedPrice != o.Price {
		return nil, fault.PriceMismatch
	}

	deleteLocked(o)
	return o, nil
}
