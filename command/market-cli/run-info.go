// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	if c.Bool("compat") {
		response, err := client.GetInfoCompat()
		if nil != err {
			return err
		}
		response["_connection"] = m.connect
		return printJson(m.w, response)
	}

	response, err := client.GetInfo()
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}

func runSettings(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Settings()
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}
