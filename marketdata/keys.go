// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/util"
)

// database keys are built from fields each prefixed by its varint
// length so that no field content can collide with a separator

// PackString - append one length prefixed field
func PackString(buffer []byte, s string) []byte {
	buffer = append(buffer, util.ToVarint64(uint64(len(s)))...)
	return append(buffer, s...)
}

// UnpackString - extract one length prefixed field
//
// returns the field and the remainder of the buffer
func UnpackString(buffer []byte) (string, []byte, error) {
	length, used := util.FromVarint64(buffer)
	if 0 == used {
		return "", nil, fault.InvalidStructure
	}
	buffer = buffer[used:]
	if uint64(len(buffer)) < length {
		return "", nil, fault.InvalidStructure
	}
	return string(buffer[:length]), buffer[length:], nil
}

// AssetKey - identifies one collectible on the host ledger
type AssetKey struct {
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"token_id"`
}

// Pack - database key for an asset
func (k AssetKey) Pack() []byte {
	buffer := PackString(nil, k.Collection.String())
	return PackString(buffer, k.TokenID)
}

// UnpackAssetKey - decode a packed asset key
func UnpackAssetKey(buffer []byte) (AssetKey, error) {
	collection, buffer, err := UnpackString(buffer)
	if nil != err {
		return AssetKey{}, err
	}
	tokenID, buffer, err := UnpackString(buffer)
	if nil != err {
		return AssetKey{}, err
	}
	if 0 != len(buffer) {
		return AssetKey{}, fault.InvalidStructure
	}
	return AssetKey{
		Collection: account.Account(collection),
		TokenID:    tokenID,
	}, nil
}

// Target - what an offer or trade proposal wants
//
// either one specific token or any token of a series; exactly one
// interpretation applies
type Target struct {
	ID       string `json:"id"`
	IsSeries bool   `json:"is_series"`
}

// pack a target as key fields
func (t Target) pack(buffer []byte) []byte {
	flag := byte(0x00)
	if t.IsSeries {
		flag = 0x01
	}
	buffer = append(buffer, flag)
	return PackString(buffer, t.ID)
}

// OfferKey - identifies one offer record
//
// one live offer per (collection, buyer, target)
type OfferKey struct {
	Collection account.Account `json:"collection"`
	Buyer      account.Account `json:"buyer"`
	Target     Target          `json:"target"`
}

// Pack - database key for an offer
func (k OfferKey) Pack() []byte {
	buffer := PackString(nil, k.Collection.String())
	buffer = PackString(buffer, k.Buyer.String())
	return k.Target.pack(buffer)
}

// kinds of open record charged storage rent
const (
	ItemListing = byte('L')
	ItemOffer   = byte('O')
	ItemTrade   = byte('T')
)

// OwnerItemKey - reverse index entry: all open records of one account
//
// key is the owner followed by the record kind and the record's own
// pool key; the value is empty
func OwnerItemKey(owner account.Account, kind byte, recordKey []byte) []byte {
	buffer := PackString(nil, owner.String())
	buffer = append(buffer, kind)
	return append(buffer, recordKey...)
}

// OwnerPrefix - leading bytes shared by all of one owner's index keys
func OwnerPrefix(owner account.Account) []byte {
	return PackString(nil, owner.String())
}
