// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fees"
)

// caller must hold the write lock
func requireOwner(caller account.Account) error {
	if caller != globalData.settings.Owner {
		return fault.NotMarketplaceOwner
	}
	return nil
}

// SetFee - change the marketplace fee rate
//
// a zero start time applies immediately; otherwise the change is held
// until the start time passes
func SetFee(caller account.Account, rate uint16, startAt int64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if err := requireOwner(caller); nil != err {
		return err
	}
	return fees.Set(rate, startAt, globalData.now())
}

// SetTreasury - change the fee destination account
func SetTreasury(caller account.Account, treasury account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if err := requireOwner(caller); nil != err {
		return err
	}
	if err := treasury.Validate(); nil != err {
		return err
	}

	globalData.settings.Treasury = treasury
	saveSettings()
	globalData.log.Infof("treasury: %s", treasury)
	return nil
}

// TransferOwnership - hand the marketplace to a new admin
func TransferOwnership(caller account.Account, newOwner account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if err := requireOwner(caller); nil != err {
		return err
	}
	if err := newOwner.Validate(); nil != err {
		return err
	}

	globalData.settings.Owner = newOwner
	saveSettings()
	globalData.log.Infof("owner: %s", newOwner)
	return nil
}

// AddApprovedCollections - allow listings from these contracts
func AddApprovedCollections(caller account.Account, collections []account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if err := requireOwner(caller); nil != err {
		return err
	}

	for _, c := range collections {
		if err := c.Validate(); nil != err {
			return err
		}
		if !containsAccount(globalData.settings.Collections, c) {
			globalData.settings.Collections = append(globalData.settings.Collections, c)
		}
	}
	saveSettings()
	return nil
}

// RemoveApprovedCollections - stop accepting listings from these
// contracts; standing records are untouched
func RemoveApprovedCollections(caller account.Account, collections []account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if err := requireOwner(caller); nil != err {
		return err
	}

	kept := globalData.settings.Collections[:0]
	for _, c := range globalData.settings.Collections {
		if !containsAccount(collections, c) {
			kept = append(kept, c)
		}
	}
	globalData.settings.Collections = kept
	saveSettings()
	return nil
}

// AddTrustedSeriesCollections - trust these contracts for series
// targeted offers and trades
func AddTrustedSeriesCollections(caller account.Account, collections []account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if err := requireOwner(caller); nil != err {
		return err
	}

	for _, c := range collections {
		if err := c.Validate(); nil != err {
			return err
		}
		if !containsAccount(globalData.settings.Trusted, c) {
			globalData.settings.Trusted = append(globalData.settings.Trusted, c)
		}
	}
	saveSettings()
	return nil
}

// AddApprovedCurrencies - accept listings priced in these currencies
//
// admission only: settlement still rejects anything that is not the
// native coin
func AddApprovedCurrencies(caller account.Account, currencies []currency.Currency) error {
	globalData.Lock()
	defer globalData.Unlock()

	if err := requireOwner(caller); nil != err {
		return err
	}

	for _, c := range currencies {
		if !c.IsValid() {
			return fault.InvalidCurrency
		}
		if !isApprovedCurrency(c) {
			globalData.settings.Currencies = append(globalData.settings.Currencies, c)
		}
	}
	saveSettings()
	return nil
}
