// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/rpc/offers"
)

// OfferData - parameters for placing a standing offer
type OfferData struct {
	Buyer      string
	Collection string
	Target     string
	IsSeries   bool
	Currency   string
	Price      uint64
	Deposit    uint64
}

// AddOffer - place a standing offer, escrowing the price
func (client *Client) AddOffer(offerData *OfferData) (*offers.AddReply, error) {

	var c currency.Currency
	if "" != offerData.Currency {
		if err := c.UnmarshalText([]byte(offerData.Currency)); nil != err {
			return nil, err
		}
	}

	args := offers.AddArguments{
		Buyer:      account.Account(offerData.Buyer),
		Collection: account.Account(offerData.Collection),
		Target: marketdata.Target{
			ID:       offerData.Target,
			IsSeries: offerData.IsSeries,
		},
		Currency: c,
		Price:    offerData.Price,
		Deposit:  offerData.Deposit,
	}

	client.printJson("Offer Add Request", args)

	var reply offers.AddReply
	if err := client.client.Call("Offer.Add", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Offer Add Reply", reply)

	return &reply, nil
}

// DeleteOffer - withdraw an offer, releasing its escrow
func (client *Client) DeleteOffer(offerData *OfferData) (*offers.AddReply, error) {

	args := offers.DeleteArguments{
		Buyer:      account.Account(offerData.Buyer),
		Collection: account.Account(offerData.Collection),
		Target: marketdata.Target{
			ID:       offerData.Target,
			IsSeries: offerData.IsSeries,
		},
	}

	client.printJson("Offer Delete Request", args)

	var reply offers.AddReply
	if err := client.client.Call("Offer.Delete", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Offer Delete Reply", reply)

	return &reply, nil
}

// GetOffer - fetch one standing offer
func (client *Client) GetOffer(offerData *OfferData) (*offers.GetReply, error) {

	args := offers.DeleteArguments{
		Buyer:      account.Account(offerData.Buyer),
		Collection: account.Account(offerData.Collection),
		Target: marketdata.Target{
			ID:       offerData.Target,
			IsSeries: offerData.IsSeries,
		},
	}

	client.printJson("Offer Get Request", args)

	var reply offers.GetReply
	if err := client.client.Call("Offer.Get", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Offer Get Reply", reply)

	return &reply, nil
}
