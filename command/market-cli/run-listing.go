// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

func runBuy(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	buyer, err := checkAccount(c.String("buyer"))
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

	deposit, err := checkAmount(c.Uint64("deposit"))
	if err != nil {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "buyer: %s\n", buyer)
		fmt.Fprintf(m.e, "asset: %s/%s\n", collection, tokenID)
		fmt.Fprintf(m.e, "deposit: %d\n", deposit)
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.Buy(&rpccalls.BuyData{
		Buyer:      buyer,
		Collection: collection,
		TokenID:    tokenID,
		Deposit:    deposit,
	})
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runBid(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	bidder, err := checkAccount(c.String("bidder"))
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

	amount, err := checkAmount(c.Uint64("amount"))
	if err != nil {
		return err
	}

	deposit, err := checkAmount(c.Uint64("deposit"))
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.Bid(&rpccalls.BidData{
		Bidder:     bidder,
		Collection: collection,
		TokenID:    tokenID,
		Amount:     amount,
		Deposit:    deposit,
	})
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runCancelBid(c *cli.Context) error {

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

	bidder, err := checkAccount(c.String("bidder"))
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.CancelBid(&rpccalls.CancelBidData{
		Caller:     caller,
		Collection: collection,
		TokenID:    tokenID,
		Bidder:     bidder,
	})
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

// read the flags shared by the settle style commands
func settleData(c *cli.Context) (*rpccalls.SettleData, error) {

	caller, err := checkAccount(c.String("caller"))
	if err != nil {
		return nil, err
	}

	collection, err := checkCollection(c.String("collection"))
	if err != nil {
		return nil, err
	}

	tokenID, err := checkTokenID(c.String("token"))
	if err != nil {
		return nil, err
	}

	return &rpccalls.SettleData{
		Caller:     caller,
		Collection: collection,
		TokenID:    tokenID,
	}, nil
}

func runAcceptBid(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := settleData(c)
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.AcceptBid(data)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runEndAuction(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := settleData(c)
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.EndAuction(data)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runUpdatePrice(c *cli.Context) error {

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

	price, err := checkAmount(c.Uint64("price"))
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.UpdatePrice(&rpccalls.UpdatePriceData{
		Caller:     caller,
		Collection: collection,
		TokenID:    tokenID,
		Price:      price,
	})
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runDeleteListing(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := settleData(c)
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.DeleteListing(data)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runListing(c *cli.Context) error {

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

	response, err := client.GetListing(collection, tokenID)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}
