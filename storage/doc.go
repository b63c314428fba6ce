// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintains a single LevelDB database divided into a series of
// prefixed pools, one pool per record type
//
// the keys of each pool are structured: every variable length field
// is prefixed by its varint length so no delimiter byte can collide
// with field content
package storage
