// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
)

var (
	ErrRequiredAccount    = fault.InvalidError("account is required")
	ErrRequiredCollection = fault.InvalidError("collection is required")
	ErrRequiredTokenID    = fault.InvalidError("token id is required")
	ErrRequiredTarget     = fault.InvalidError("target is required")
	ErrRequiredAmount     = fault.InvalidError("amount is required")
	ErrRequiredCurrency   = fault.InvalidError("currency is required")
)

// account name is required and must be well formed
func checkAccount(name string) (string, error) {
	if "" == name {
		return "", ErrRequiredAccount
	}
	if err := account.Validate(name); nil != err {
		return "", err
	}
	return name, nil
}

// collection contract account is required and must be well formed
func checkCollection(name string) (string, error) {
	if "" == name {
		return "", ErrRequiredCollection
	}
	if err := account.Validate(name); nil != err {
		return "", err
	}
	return name, nil
}

// token id is required
func checkTokenID(tokenID string) (string, error) {
	if "" == tokenID {
		return "", ErrRequiredTokenID
	}
	return tokenID, nil
}

// offer or trade target is required
func checkTarget(target string) (string, error) {
	if "" == target {
		return "", ErrRequiredTarget
	}
	return target, nil
}

// a price, bid or deposit must be non-zero
func checkAmount(amount uint64) (uint64, error) {
	if 0 == amount {
		return 0, ErrRequiredAmount
	}
	return amount, nil
}
