// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package approvals

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/approval"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

// Approval
// --------

const (
	rateLimitApproval = 200
	rateBurstApproval = 100
)

// Approval - type for RPC
type Approval struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Approval {
	return &Approval{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitApproval, rateBurstApproval),
		IsNormalMode: isNormalMode,
	}
}

// NotifyArguments - one approval notification relayed from the host
// ledger
//
// the relay guarantees the owner signed the approval and the
// collection is the notifying contract
type NotifyArguments struct {
	Owner      account.Account `json:"owner"`
	Collection account.Account `json:"collection"`
	TokenID    string          `json:"tokenId"`
	ApprovalID uint64          `json:"approvalId"`
	Message    string          `json:"message"`
}

// NotifyReply - result of processing the notification
type NotifyReply struct {
	OK bool `json:"ok"`
}

// Notify - process one approval notification
func (a *Approval) Notify(arguments *NotifyArguments, reply *NotifyReply) error {

	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}

	log := a.Log
	log.Infof("Approval.Notify: %+v", arguments)

	if nil == arguments {
		return fault.InvalidItem
	}
	if !a.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	err := market.AssetApproved(approval.Notice{
		Owner:      arguments.Owner,
		Collection: arguments.Collection,
		TokenID:    arguments.TokenID,
		ApprovalID: arguments.ApprovalID,
		Message:    []byte(arguments.Message),
	})
	if nil != err {
		return err
	}

	reply.OK = true
	return nil
}
