// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/rpc/listings"
)

// BuyData - parameters for a purchase at the current price
type BuyData struct {
	Buyer      string
	Collection string
	TokenID    string
	Deposit    uint64
}

// Buy - purchase a listed asset
func (client *Client) Buy(buyData *BuyData) (*listings.BuyReply, error) {

	args := listings.BuyArguments{
		Buyer:      account.Account(buyData.Buyer),
		Collection: account.Account(buyData.Collection),
		TokenID:    buyData.TokenID,
		Deposit:    buyData.Deposit,
	}

	client.printJson("Buy Request", args)

	var reply listings.BuyReply
	if err := client.client.Call("Listing.Buy", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Buy Reply", reply)

	return &reply, nil
}

// BidData - parameters for an auction bid
type BidData struct {
	Bidder     string
	Collection string
	TokenID    string
	Amount     uint64
	Deposit    uint64
}

// Bid - place an auction bid
func (client *Client) Bid(bidData *BidData) (*listings.BidReply, error) {

	args := listings.BidArguments{
		Bidder:     account.Account(bidData.Bidder),
		Collection: account.Account(bidData.Collection),
		TokenID:    bidData.TokenID,
		Amount:     bidData.Amount,
		Deposit:    bidData.Deposit,
	}

	client.printJson("Bid Request", args)

	var reply listings.BidReply
	if err := client.client.Call("Listing.Bid", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Bid Reply", reply)

	return &reply, nil
}

// CancelBidData - parameters for withdrawing a bid
type CancelBidData struct {
	Caller     string
	Collection string
	TokenID    string
	Bidder     string
}

// CancelBid - withdraw a standing bid
func (client *Client) CancelBid(cancelData *CancelBidData) (*listings.BidReply, error) {

	args := listings.CancelBidArguments{
		Caller:     account.Account(cancelData.Caller),
		Collection: account.Account(cancelData.Collection),
		TokenID:    cancelData.TokenID,
		Bidder:     account.Account(cancelData.Bidder),
	}

	client.printJson("CancelBid Request", args)

	var reply listings.BidReply
	if err := client.client.Call("Listing.CancelBid", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("CancelBid Reply", reply)

	return &reply, nil
}

// SettleData - parameters for settling or deleting a listing
type SettleData struct {
	Caller     string
	Collection string
	TokenID    string
}

func (d *SettleData) arguments() listings.SettleArguments {
	return listings.SettleArguments{
		Caller:     account.Account(d.Caller),
		Collection: account.Account(d.Collection),
		TokenID:    d.TokenID,
	}
}

// AcceptBid - settle an auction to the highest bidder
func (client *Client) AcceptBid(settleData *SettleData) (*listings.SettleReply, error) {

	args := settleData.arguments()

	client.printJson("AcceptBid Request", args)

	var reply listings.SettleReply
	if err := client.client.Call("Listing.AcceptBid", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("AcceptBid Reply", reply)

	return &reply, nil
}

// EndAuction - close an expired auction window
func (client *Client) EndAuction(settleData *SettleData) (*listings.SettleReply, error) {

	args := settleData.arguments()

	client.printJson("EndAuction Request", args)

	var reply listings.SettleReply
	if err := client.client.Call("Listing.EndAuction", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("EndAuction Reply", reply)

	return &reply, nil
}

// UpdatePriceData - parameters for changing the asking price
type UpdatePriceData struct {
	Caller     string
	Collection string
	TokenID    string
	Price      uint64
}

// UpdatePrice - change the asking price of a fixed sale
func (client *Client) UpdatePrice(updateData *UpdatePriceData) (*listings.BidReply, error) {

	args := listings.UpdatePriceArguments{
		Caller:     account.Account(updateData.Caller),
		Collection: account.Account(updateData.Collection),
		TokenID:    updateData.TokenID,
		Price:      updateData.Price,
	}

	client.printJson("UpdatePrice Request", args)

	var reply listings.BidReply
	if err := client.client.Call("Listing.UpdatePrice", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("UpdatePrice Reply", reply)

	return &reply, nil
}

// DeleteListing - remove a listing, refunding standing bids
func (client *Client) DeleteListing(settleData *SettleData) (*listings.BidReply, error) {

	args := settleData.arguments()

	client.printJson("Delete Request", args)

	var reply listings.BidReply
	if err := client.client.Call("Listing.Delete", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Delete Reply", reply)

	return &reply, nil
}

// GetListing - fetch one listing with its live price
func (client *Client) GetListing(collection string, tokenID string) (*listings.GetReply, error) {

	args := listings.GetArguments{
		Collection: account.Account(collection),
		TokenID:    tokenID,
	}

	client.printJson("Get Request", args)

	var reply listings.GetReply
	if err := client.client.Call("Listing.Get", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Get Reply", reply)

	return &reply, nil
}
