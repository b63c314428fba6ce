// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

func runDeposit(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := checkAccount(c.String("caller"))
	if err != nil {
		return err
	}

	amount, err := checkAmount(c.Uint64("amount"))
	if err != nil {
		return err
	}

	// crediting another account is optional
	forAccount := c.String("for")

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.Deposit(caller, forAccount, amount)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runWithdraw(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := checkAccount(c.String("caller"))
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.Withdraw(caller)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runBalance(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := checkAccount(c.String("caller"))
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.Balance(caller)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}
