// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/rpc/deposit"
)

// Deposit - add to a storage rent deposit
func (client *Client) Deposit(caller string, forAccount string, amount uint64) (*deposit.DepositReply, error) {

	args := deposit.DepositArguments{
		Caller:     account.Account(caller),
		ForAccount: account.Account(forAccount),
		Amount:     amount,
	}

	client.printJson("Storage Deposit Request", args)

	var reply deposit.DepositReply
	if err := client.client.Call("Storage.Deposit", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Storage Deposit Reply", reply)

	return &reply, nil
}

// Withdraw - release the deposit not covering open records
func (client *Client) Withdraw(caller string) (*deposit.WithdrawReply, error) {

	args := deposit.WithdrawArguments{
		Caller: account.Account(caller),
	}

	client.printJson("Storage Withdraw Request", args)

	var reply deposit.WithdrawReply
	if err := client.client.Call("Storage.Withdraw", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Storage Withdraw Reply", reply)

	return &reply, nil
}

// Balance - fetch the rent balance of an account
func (client *Client) Balance(caller string) (*deposit.BalanceReply, error) {

	args := deposit.WithdrawArguments{
		Caller: account.Account(caller),
	}

	client.printJson("Storage Balance Request", args)

	var reply deposit.BalanceReply
	if err := client.client.Call("Storage.Balance", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Storage Balance Reply", reply)

	return &reply, nil
}
