// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

func runDeleteTrade(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := checkAccount(c.String("caller"))
	if err != nil {
		return err
	}

	collection, err := checkCollection(c.String("collection"))
	if err != nil {
		return err
	}

	tokenID, err := checkTokenID(c.String("token"))
	if err != nil {
		return err
	}

	targetCollection, err := checkCollection(c.String("target-collection"))
	if err != nil {
		return err
	}

	target, err := checkTarget(c.String("target"))
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.DeleteTrade(&rpccalls.TradeData{
		Caller:           caller,
		Collection:       collection,
		TokenID:          tokenID,
		TargetCollection: targetCollection,
		Target:           target,
		IsSeries:         c.Bool("series"),
	})
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runTrades(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	collection, err := checkCollection(c.String("collection"))
	if err != nil {
		return err
	}

	tokenID, err := checkTokenID(c.String("token"))
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.GetTrades(collection, tokenID)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}
