// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package market - the marketplace engine
//
// every state mutation funnels through this package: it authorizes
// the caller, drives the record stores, pays the refunds they report
// and hands consumed records to the settlement resolver
package market

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fees"
	"github.com/bitmark-inc/marketd/ledger"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/rent"
	"github.com/bitmark-inc/marketd/storage"
)

// settings record persisted in the settings pool
var settingsKey = []byte("market")

// the mutable marketplace settings
type settings struct {
	Owner       account.Account     `json:"owner"`
	Treasury    account.Account     `json:"treasury"`
	Currencies  []currency.Currency `json:"currencies"`
	Collections []account.Account   `json:"collections"`
	Trusted     []account.Account   `json:"trusted"`
}

// Configuration - genesis settings, applied on first run only
type Configuration struct {
	Owner              string   `gluamapper:"owner" json:"owner"`
	Treasury           string   `gluamapper:"treasury" json:"treasury"`
	Collections        []string `gluamapper:"collections" json:"collections"`
	TrustedCollections []string `gluamapper:"trusted_collections" json:"trusted_collections"`
}

// every operation runs under this one lock so that a consumed record
// and its settlement always commit together
var globalData struct {
	sync.RWMutex
	log      *logger.L
	pool     storage.Handle
	funds    ledger.Funds
	settings settings

	// overridable in tests
	now func() int64

	// set once during initialise
	initialised bool
}

// Initialise - load the settings, seeding from the genesis
// configuration on first run
//
// the record stores, fee schedule, rent ledger and settlement
// resolver must already be initialised
func Initialise(settingsPool storage.Handle, funds ledger.Funds, genesis *Configuration) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("market")
	globalData.log.Info("starting…")

	globalData.pool = settingsPool
	globalData.funds = funds
	globalData.now = func() int64 { return time.Now().Unix() }

	buffer := settingsPool.Get(settingsKey)
	if nil == buffer {
		s, err := genesisSettings(genesis)
		if nil != err {
			return err
		}
		globalData.settings = s
		saveSettings()
		globalData.log.Infof("genesis: owner: %s  treasury: %s", s.Owner, s.Treasury)
	} else {
		err := json.Unmarshal(buffer, &globalData.settings)
		if nil != err {
			return err
		}
	}

	globalData.initialised = true
	return nil
}

// Finalise - detach the settings pool
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.pool = nil
	globalData.funds = nil
	globalData.initialised = false
	return nil
}

// build the first-run settings record
func genesisSettings(genesis *Configuration) (settings, error) {
	owner := account.Account(genesis.Owner)
	if err := owner.Validate(); nil != err {
		return settings{}, err
	}
	treasury := account.Account(genesis.Treasury)
	if err := treasury.Validate(); nil != err {
		return settings{}, err
	}

	s := settings{
		Owner:      owner,
		Treasury:   treasury,
		Currencies: []currency.Currency{currency.Native},
	}
	for _, name := range genesis.Collections {
		c := account.Account(name)
		if err := c.Validate(); nil != err {
			return settings{}, err
		}
		s.Collections = append(s.Collections, c)
	}
	for _, name := range genesis.TrustedCollections {
		c := account.Account(name)
		if err := c.Validate(); nil != err {
			return settings{}, err
		}
		s.Trusted = append(s.Trusted, c)
	}
	return s, nil
}

func saveSettings() {
	buffer, err := json.Marshal(globalData.settings)
	logger.PanicIfError("market.settings", err)
	globalData.pool.Put(settingsKey, buffer)
}

func containsAccount(list []account.Account, a account.Account) bool {
	for _, item := range list {
		if item == a {
			return true
		}
	}
	return false
}

func isApprovedCollection(c account.Account) bool {
	return containsAccount(globalData.settings.Collections, c)
}

func isTrustedCollection(c account.Account) bool {
	return containsAccount(globalData.settings.Trusted, c)
}

func isApprovedCurrency(c currency.Currency) bool {
	for _, item := range globalData.settings.Currencies {
		if item == c {
			return true
		}
	}
	return false
}

// pay every refund a store reported
func payRefunds(refunds []marketdata.Refund) {
	for _, refund := range refunds {
		globalData.funds.Pay(refund.To, refund.Amount)
	}
}

// Owner - the marketplace admin account
func Owner() account.Account {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.settings.Owner
}

// Treasury - the fee destination account
func Treasury() account.Account {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.settings.Treasury
}

// Currencies - the approved settlement currencies
func Currencies() []currency.Currency {
	globalData.RLock()
	defer globalData.RUnlock()
	return append([]currency.Currency(nil), globalData.settings.Currencies...)
}

// Collections - the approved collectible contracts
func Collections() []account.Account {
	globalData.RLock()
	defer globalData.RUnlock()
	return append([]account.Account(nil), globalData.settings.Collections...)
}

// TrustedCollections - the contracts trusted for series targets
func TrustedCollections() []account.Account {
	globalData.RLock()
	defer globalData.RUnlock()
	return append([]account.Account(nil), globalData.settings.Trusted...)
}

// FeeSchedule - the current fee schedule
func FeeSchedule() fees.Schedule {
	return fees.Get(globalData.now())
}

// StorageBalance - an account's rent deposit and open record count
func StorageBalance(owner account.Account) (uint64, int) {
	return rent.Balance(owner), rent.CountFor(owner)
}
