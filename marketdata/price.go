// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata

// CurrentPrice - the live purchase price of a listing at a moment
//
// fixed sale: the set price
// english auction: the top bid if any, else the start price
// dutch auction: linear decline from start to end price over the
// window, integer floor arithmetic, clamped at both ends
func CurrentPrice(terms Terms, now int64) uint64 {
	switch t := terms.(type) {
	case FixedSale:
		return t.Price

	case EnglishAuction:
		if top, ok := t.TopBid(); ok {
			return top.Price
		}
		return t.StartPrice

	case DutchAuction:
		if now <= t.StartAt {
			return t.StartPrice
		}
		if now >= t.EndAt {
			return t.EndPrice
		}
		duration := uint64(t.EndAt - t.StartAt)
		elapsed := uint64(now - t.StartAt)
		decline := (t.StartPrice - t.EndPrice) / duration * elapsed
		return t.StartPrice - decline

	default:
		return 0
	}
}
