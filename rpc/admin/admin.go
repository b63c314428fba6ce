// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package admin

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fees"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

// Admin
// -----

const (
	rateLimitAdmin = 20
	rateBurstAdmin = 10
)

// Admin - type for RPC
type Admin struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Admin {
	return &Admin{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitAdmin, rateBurstAdmin),
		IsNormalMode: isNormalMode,
	}
}

// OKReply - generic success result
type OKReply struct {
	OK bool `json:"ok"`
}

// Change the fee rate
// -------------------

// SetFeeArguments - arguments for RPC
type SetFeeArguments struct {
	Caller  account.Account `json:"caller"`
	Rate    uint16          `json:"rate"`
	StartAt int64           `json:"startAt"`
}

// SetFee - change the marketplace fee rate
func (admin *Admin) SetFee(arguments *SetFeeArguments, reply *OKReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	log := admin.Log
	log.Infof("Admin.SetFee: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !admin.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.SetFee(arguments.Caller, arguments.Rate, arguments.StartAt)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Change an account setting
// -------------------------

// AccountArguments - arguments for RPC
type AccountArguments struct {
	Caller  account.Account `json:"caller"`
	Account account.Account `json:"account"`
}

// SetTreasury - change the fee destination
func (admin *Admin) SetTreasury(arguments *AccountArguments, reply *OKReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	log := admin.Log
	log.Infof("Admin.SetTreasury: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !admin.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.SetTreasury(arguments.Caller, arguments.Account)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// TransferOwnership - hand the marketplace to a new admin
func (admin *Admin) TransferOwnership(arguments *AccountArguments, reply *OKReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	log := admin.Log
	log.Infof("Admin.TransferOwnership: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !admin.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.TransferOwnership(arguments.Caller, arguments.Account)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Change the approved lists
// -------------------------

// CollectionsArguments - arguments for RPC
type CollectionsArguments struct {
	Caller      account.Account   `json:"caller"`
	Collections []account.Account `json:"collections"`
}

// AddCollections - approve collectible contracts
func (admin *Admin) AddCollections(arguments *CollectionsArguments, reply *OKReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	log := admin.Log
	log.Infof("Admin.AddCollections: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !admin.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.AddApprovedCollections(arguments.Caller, arguments.Collections)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// RemoveCollections - stop accepting listings from these contracts
func (admin *Admin) RemoveCollections(arguments *CollectionsArguments, reply *OKReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	log := admin.Log
	log.Infof("Admin.RemoveCollections: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !admin.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.RemoveApprovedCollections(arguments.Caller, arguments.Collections)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// AddTrustedCollections - trust contracts for series targets
func (admin *Admin) AddTrustedCollections(arguments *CollectionsArguments, reply *OKReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	log := admin.Log
	log.Infof("Admin.AddTrustedCollections: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !admin.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.AddTrustedSeriesCollections(arguments.Caller, arguments.Collections)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// CurrenciesArguments - arguments for RPC
type CurrenciesArguments struct {
	Caller     account.Account     `json:"caller"`
	Currencies []currency.Currency `json:"currencies"`
}

// AddCurrencies - accept listings priced in these currencies
func (admin *Admin) AddCurrencies(arguments *CurrenciesArguments, reply *OKReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	log := admin.Log
	log.Infof("Admin.AddCurrencies: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !admin.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.AddApprovedCurrencies(arguments.Caller, arguments.Currencies)
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}

// Query the marketplace settings
// ------------------------------

// SettingsReply - the marketplace settings
type SettingsReply struct {
	Owner       account.Account     `json:"owner"`
	Treasury    account.Account     `json:"treasury"`
	FeeSchedule fees.Schedule       `json:"feeSchedule"`
	Currencies  []currency.Currency `json:"currencies"`
	Collections []account.Account   `json:"collections"`
	Trusted     []account.Account   `json:"trusted"`
}

// Settings - fetch the marketplace settings
func (admin *Admin) Settings(arguments *struct{}, reply *SettingsReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	reply.Owner = market.Owner()
	reply.Treasury = market.Treasury()
	reply.FeeSchedule = market.FeeSchedule()
	reply.Currencies = market.Currencies()
	reply.Collections = market.Collections()
	reply.Trusted = market.TrustedCollections()
	return nil
}
