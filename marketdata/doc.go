// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package marketdata - record types held by the marketplace stores
//
// defines the listing, bid, offer and trade records together with
// their packed database keys and the price arithmetic shared by the
// stores and the settlement resolver
package marketdata
