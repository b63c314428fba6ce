// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/exitwithstatus"
)

type metadata struct {
	connect string
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "market-cli"
	app.Usage = "command line tool for a marketd settlement engine"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: "",
			Usage: " connect to marketd `HOST:PORT`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "info",
			Usage: "display the marketd status",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "compat, m",
					Usage: " decode as a raw map for any marketd version",
				},
			},
			Action: runInfo,
		},
		{
			Name:   "settings",
			Usage:  "display the marketplace settings",
			Action: runSettings,
		},
		{
			Name:  "buy",
			Usage: "purchase a listed asset at its current price",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "buyer, b", Usage: " buying `ACCOUNT`"},
				cli.StringFlag{Name: "collection, o", Usage: " collection `CONTRACT`"},
				cli.StringFlag{Name: "token, t", Usage: " token `ID`"},
				cli.Uint64Flag{Name: "deposit, d", Usage: " escrowed `AMOUNT`, at least the price"},
			},
			Action: runBuy,
		},
		{
			Name:  "bid",
			Usage: "place an auction bid",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "bidder, b", Usage: " bidding `ACCOUNT`"},
				cli.StringFlag{Name: "collection, o", Usage: " collection `CONTRACT`"},
				cli.StringFlag{Name: "token, t", Usage: " token `ID`"},
				cli.Uint64Flag{Name: "amount, a", Usage: " bid `AMOUNT`"},
				cli.Uint64Flag{Name: "deposit, d", Usage: " escrowed `AMOUNT`, at least the bid"},
			},
			Action: runBid,
		},
		{
			Name:  "cancel-bid",
			Usage: "withdraw a standing bid",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " calling `ACCOUNT`, the bidder or the admin"},
				cli.StringFlag{Name: "collection, o", Usage: " collection `CONTRACT`"},
				cli.StringFlag{Name: "token, t", Usage: " token `ID`"},
				cli.StringFlag{Name: "bidder, b", Usage: " bidding `ACCOUNT`"},
			},
			Action: runCancelBid,
		},
		{
			Name:   "accept-bid",
			Usage:  "settle an auction to the highest bidder",
			Flags:  settleFlags,
			Action: runAcceptBid,
		},
		{
			Name:   "end-auction",
			Usage:  "close an expired auction window",
			Flags:  settleFlags,
			Action: runEndAuction,
		},
		{
			Name:  "update-price",
			Usage: "change the asking price of a fixed sale",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " the listing owner `ACCOUNT`"},
				cli.StringFlag{Name: "collection, o", Usage: " collection `CONTRACT`"},
				cli.StringFlag{Name: "token, t", Usage: " token `ID`"},
				cli.Uint64Flag{Name: "price, p", Usage: " new asking `PRICE`"},
			},
			Action: runUpdatePrice,
		},
		{
			Name:   "delete-listing",
			Usage:  "remove a listing, refunding standing bids",
			Flags:  settleFlags,
			Action: runDeleteListing,
		},
		{
			Name:  "listing",
			Usage: "display one listing with its live price",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "collection, o", Usage: " collection `CONTRACT`"},
				cli.StringFlag{Name: "token, t", Usage: " token `ID`"},
			},
			Action: runListing,
		},
		{
			Name:   "add-offer",
			Usage:  "place a standing offer, escrowing the price",
			Flags:  offerFlags,
			Action: runAddOffer,
		},
		{
			Name:   "delete-offer",
			Usage:  "withdraw an offer, releasing its escrow",
			Flags:  offerFlags,
			Action: runDeleteOffer,
		},
		{
			Name:   "offer",
			Usage:  "display one standing offer",
			Flags:  offerFlags,
			Action: runOffer,
		},
		{
			Name:  "delete-trade",
			Usage: "withdraw a standing trade proposal",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " the proposing `ACCOUNT`"},
				cli.StringFlag{Name: "collection, o", Usage: " proposer collection `CONTRACT`"},
				cli.StringFlag{Name: "token, t", Usage: " proposer token `ID`"},
				cli.StringFlag{Name: "target-collection, g", Usage: " wanted collection `CONTRACT`"},
				cli.StringFlag{Name: "target, r", Usage: " wanted token or series `ID`"},
				cli.BoolFlag{Name: "series, s", Usage: " target is a series"},
			},
			Action: runDeleteTrade,
		},
		{
			Name:  "trades",
			Usage: "display the trade proposals of one asset",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "collection, o", Usage: " collection `CONTRACT`"},
				cli.StringFlag{Name: "token, t", Usage: " token `ID`"},
			},
			Action: runTrades,
		},
		{
			Name:  "deposit",
			Usage: "add to a storage rent deposit",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " paying `ACCOUNT`"},
				cli.StringFlag{Name: "for, f", Usage: " credited `ACCOUNT` [default: the caller]"},
				cli.Uint64Flag{Name: "amount, a", Usage: " deposit `AMOUNT`"},
			},
			Action: runDeposit,
		},
		{
			Name:  "withdraw",
			Usage: "release the rent deposit not covering open records",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " withdrawing `ACCOUNT`"},
			},
			Action: runWithdraw,
		},
		{
			Name:  "balance",
			Usage: "display the rent balance of an account",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " queried `ACCOUNT`"},
			},
			Action: runBalance,
		},
		{
			Name:  "set-fee",
			Usage: "change the marketplace fee rate",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " admin `ACCOUNT`"},
				cli.Uint64Flag{Name: "rate, r", Usage: " fee `RATE` in basis points"},
				cli.Int64Flag{Name: "start-at, s", Usage: " unix `TIME` the rate applies [default: immediately]"},
			},
			Action: runSetFee,
		},
		{
			Name:  "set-treasury",
			Usage: "change the fee destination",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " admin `ACCOUNT`"},
				cli.StringFlag{Name: "account, a", Usage: " treasury `ACCOUNT`"},
			},
			Action: runSetTreasury,
		},
		{
			Name:  "transfer-ownership",
			Usage: "hand the marketplace to a new admin",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " admin `ACCOUNT`"},
				cli.StringFlag{Name: "account, a", Usage: " new admin `ACCOUNT`"},
			},
			Action: runTransferOwnership,
		},
		{
			Name:   "add-collections",
			Usage:  "approve collectible contracts",
			Flags:  collectionsFlags,
			Action: runAddCollections,
		},
		{
			Name:   "remove-collections",
			Usage:  "stop accepting listings from these contracts",
			Flags:  collectionsFlags,
			Action: runRemoveCollections,
		},
		{
			Name:   "add-trusted-collections",
			Usage:  "trust contracts for series targets",
			Flags:  collectionsFlags,
			Action: runAddTrustedCollections,
		},
		{
			Name:  "add-currencies",
			Usage: "accept listings priced in these currencies",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "caller, u", Usage: " admin `ACCOUNT`"},
				cli.StringSliceFlag{Name: "currency, y", Usage: " currency `NAME`, repeatable"},
			},
			Action: runAddCurrencies,
		},
		{
			Name:  "version",
			Usage: "display this program version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		if "" == c.GlobalString("connect") {
			return fmt.Errorf("missing connect argument")
		}
		app.Metadata = map[string]interface{}{
			"config": &metadata{
				connect: c.GlobalString("connect"),
				verbose: c.GlobalBool("verbose"),
				e:       app.ErrWriter,
				w:       app.Writer,
			},
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		exitwithstatus.Message("terminated with error: %s", err)
	}
}

// flags shared by the settle style commands
var settleFlags = []cli.Flag{
	cli.StringFlag{Name: "caller, u", Usage: " calling `ACCOUNT`"},
	cli.StringFlag{Name: "collection, o", Usage: " collection `CONTRACT`"},
	cli.StringFlag{Name: "token, t", Usage: " token `ID`"},
}

// flags shared by the offer commands
var offerFlags = []cli.Flag{
	cli.StringFlag{Name: "buyer, b", Usage: " buying `ACCOUNT`"},
	cli.StringFlag{Name: "collection, o", Usage: " collection `CONTRACT`"},
	cli.StringFlag{Name: "target, r", Usage: " wanted token or series `ID`"},
	cli.BoolFlag{Name: "series, s", Usage: " target is a series"},
	cli.StringFlag{Name: "currency, y", Usage: " pricing `CURRENCY` [default: native]"},
	cli.Uint64Flag{Name: "price, p", Usage: " offered `PRICE`"},
	cli.Uint64Flag{Name: "deposit, d", Usage: " escrowed `AMOUNT`, exactly the price"},
}

// flags shared by the collection admin commands
var collectionsFlags = []cli.Flag{
	cli.StringFlag{Name: "caller, u", Usage: " admin `ACCOUNT`"},
	cli.StringSliceFlag{Name: "collection, o", Usage: " collection `CONTRACT`, repeatable"},
}
