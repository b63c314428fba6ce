// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - named accounts on the host asset ledger
//
// An account is the identifier of a participant or of a collection
// contract.  The host ledger authenticates callers; this package only
// validates the textual form.
package account

import (
	"github.com/bitmark-inc/marketd/fault"
)

// length limits for an account name
const (
	MinimumLength = 2
	MaximumLength = 64
)

// Account - a validated ledger account name
type Account string

// characters allowed inside an account name
func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	case '-' == b, '_' == b, '.' == b:
		return true
	default:
		return false
	}
}

func isSeparator(b byte) bool {
	return '-' == b || '_' == b || '.' == b
}

// Validate - check an account name is acceptable
//
// lowercase alphanumerics and separators "-", "_", "."; separators
// may not lead, trail or double up
func Validate(s string) error {
	if len(s) < MinimumLength || len(s) > MaximumLength {
		return fault.InvalidAccount
	}
	if isSeparator(s[0]) || isSeparator(s[len(s)-1]) {
		return fault.InvalidAccount
	}
	previousSeparator := false
	for i := 0; i < len(s); i += 1 {
		if !isNameByte(s[i]) {
			return fault.InvalidAccount
		}
		sep := isSeparator(s[i])
		if sep && previousSeparator {
			return fault.InvalidAccount
		}
		previousSeparator = sep
	}
	return nil
}

// New - validate and convert a string to an Account
func New(s string) (Account, error) {
	if err := Validate(s); nil != err {
		return "", err
	}
	return Account(s), nil
}

// Validate - check an already converted Account
//
// needed for accounts arriving through struct decoding, which
// bypasses New
func (account Account) Validate() error {
	return Validate(string(account))
}

// String - the name as a plain string
func (account Account) String() string {
	return string(account)
}

// IsZero - true for the unset account
func (account Account) IsZero() bool {
	return "" == account
}

// MarshalText - JSON/text encoding
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account), nil
}

// UnmarshalText - JSON/text decoding with validation
func (account *Account) UnmarshalText(s []byte) error {
	a, err := New(string(s))
	if nil != err {
		return err
	}
	*account = a
	return nil
}
