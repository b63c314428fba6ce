// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/rpc/admin"
	"github.com/bitmark-inc/marketd/rpc/approvals"
	"github.com/bitmark-inc/marketd/rpc/deposit"
	"github.com/bitmark-inc/marketd/rpc/listings"
	"github.com/bitmark-inc/marketd/rpc/node"
	"github.com/bitmark-inc/marketd/rpc/offers"
	"github.com/bitmark-inc/marketd/rpc/trades"
)

func Create(log *logger.L, version string, rpcCount *counter.Counter) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(listings.New(log, mode.Is))
	_ = server.Register(offers.New(log, mode.Is))
	_ = server.Register(trades.New(log, mode.Is))
	_ = server.Register(deposit.New(log, mode.Is))
	_ = server.Register(approvals.New(log, mode.Is))
	_ = server.Register(admin.New(log, mode.Is))
	_ = server.Register(node.New(log, start, version, rpcCount))

	return server
}
