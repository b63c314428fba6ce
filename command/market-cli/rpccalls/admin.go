// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/rpc/admin"
)

// SetFee - change the marketplace fee rate
func (client *Client) SetFee(caller string, rate uint16, startAt int64) (*admin.OKReply, error) {

	args := admin.SetFeeArguments{
		Caller:  account.Account(caller),
		Rate:    rate,
		StartAt: startAt,
	}

	client.printJson("Admin SetFee Request", args)

	var reply admin.OKReply
	if err := client.client.Call("Admin.SetFee", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Admin SetFee Reply", reply)

	return &reply, nil
}

// SetTreasury - change the fee destination
func (client *Client) SetTreasury(caller string, treasury string) (*admin.OKReply, error) {
	return client.accountCall("Admin.SetTreasury", caller, treasury)
}

// TransferOwnership - hand the marketplace to a new admin
func (client *Client) TransferOwnership(caller string, owner string) (*admin.OKReply, error) {
	return client.accountCall("Admin.TransferOwnership", caller, owner)
}

func (client *Client) accountCall(method string, caller string, target string) (*admin.OKReply, error) {

	args := admin.AccountArguments{
		Caller:  account.Account(caller),
		Account: account.Account(target),
	}

	client.printJson(method+" Request", args)

	var reply admin.OKReply
	if err := client.client.Call(method, &args, &reply); err != nil {
		return nil, err
	}

	client.printJson(method+" Reply", reply)

	return &reply, nil
}

// AddCollections - approve collectible contracts
func (client *Client) AddCollections(caller string, collections []string) (*admin.OKReply, error) {
	return client.collectionsCall("Admin.AddCollections", caller, collections)
}

// RemoveCollections - stop accepting listings from these contracts
func (client *Client) RemoveCollections(caller string, collections []string) (*admin.OKReply, error) {
	return client.collectionsCall("Admin.RemoveCollections", caller, collections)
}

// AddTrustedCollections - trust contracts for series targets
func (client *Client) AddTrustedCollections(caller string, collections []string) (*admin.OKReply, error) {
	return client.collectionsCall("Admin.AddTrustedCollections", caller, collections)
}

func (client *Client) collectionsCall(method string, caller string, collections []string) (*admin.OKReply, error) {

	accounts := make([]account.Account, len(collections))
	for i, c := range collections {
		accounts[i] = account.Account(c)
	}

	args := admin.CollectionsArguments{
		Caller:      account.Account(caller),
		Collections: accounts,
	}

	client.printJson(method+" Request", args)

	var reply admin.OKReply
	if err := client.client.Call(method, &args, &reply); err != nil {
		return nil, err
	}

	client.printJson(method+" Reply", reply)

	return &reply, nil
}

// AddCurrencies - accept listings priced in these currencies
func (client *Client) AddCurrencies(caller string, currencies []string) (*admin.OKReply, error) {

	list := make([]currency.Currency, len(currencies))
	for i, s := range currencies {
		if err := list[i].UnmarshalText([]byte(s)); nil != err {
			return nil, err
		}
	}

	args := admin.CurrenciesArguments{
		Caller:     account.Account(caller),
		Currencies: list,
	}

	client.printJson("Admin AddCurrencies Request", args)

	var reply admin.OKReply
	if err := client.client.Call("Admin.AddCurrencies", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Admin AddCurrencies Reply", reply)

	return &reply, nil
}

// Settings - fetch the marketplace settings
func (client *Client) Settings() (*admin.SettingsReply, error) {

	var reply admin.SettingsReply
	if err := client.client.Call("Admin.Settings", &struct{}{}, &reply); err != nil {
		return nil, err
	}

	client.printJson("Admin Settings Reply", reply)

	return &reply, nil
}
