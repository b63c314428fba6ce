// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

// read the flags shared by the offer commands
func offerData(c *cli.Context) (*rpccalls.OfferData, error) {

	buyer, err := checkAccount(c.String("buyer"))
	if err != nil {
		return nil, err
	}

	collection, err := checkCollection(c.String("collection"))
	if err != nil {
		return nil, err
	}

	target, err := checkTarget(c.String("target"))
	if err != nil {
		return nil, err
	}

	return &rpccalls.OfferData{
		Buyer:      buyer,
		Collection: collection,
		Target:     target,
		IsSeries:   c.Bool("series"),
		Currency:   c.String("currency"),
		Price:      c.Uint64("price"),
		Deposit:    c.Uint64("deposit"),
	}, nil
}

func runAddOffer(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := offerData(c)
	if err != nil {
		return err
	}

	if _, err := checkAmount(data.Price); err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.AddOffer(data)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runDeleteOffer(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := offerData(c)
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.DeleteOffer(data)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}

func runOffer(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := offerData(c)
	if err != nil {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.GetOffer(data)
	if err != nil {
		return err
	}

	return printJson(m.w, response)
}
