// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

func runSetFee(c *cli.Context) error {

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

	response, err := client.SetFee(caller, uint16(c.Uint64("rate")), c.Int64("start-at"))
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runSetTreasury(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := checkAccount(c.String("caller"))
	if err != nil {
		return err
	}

	treasury, err := checkAccount(c.String("account"))
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.SetTreasury(caller, treasury)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runTransferOwnership(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := checkAccount(c.String("caller"))
	if err != nil {
		return err
	}

	owner, err := checkAccount(c.String("account"))
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.TransferOwnership(caller, owner)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

// read the flags shared by the collection admin commands
func collectionsData(c *cli.Context) (string, []string, error) {

	caller, err := checkAccount(c.String("caller"))
	if err != nil {
		return "", nil, err
	}

	collections := c.StringSlice("collection")
	if 0 == len(collections) {
		return "", nil, ErrRequiredCollection
	}
	for _, collection := range collections {
		if _, err := checkCollection(collection); err != nil {
			return "", nil, err
		}
	}

	return caller, collections, nil
}

func runAddCollections(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, collections, err := collectionsData(c)
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.AddCollections(caller, collections)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runRemoveCollections(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, collections, err := collectionsData(c)
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.RemoveCollections(caller, collections)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runAddTrustedCollections(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, collections, err := collectionsData(c)
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.AddTrustedCollections(caller, collections)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runAddCurrencies(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := checkAccount(c.String("caller"))
	if err != nil {
		return err
	}

	currencies := c.StringSlice("currency")
	if 0 == len(currencies) {
		return ErrRequiredCurrency
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.AddCurrencies(caller, currencies)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}
