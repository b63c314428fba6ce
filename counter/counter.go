// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sync/atomic"
)

// Counter - atomic count of live RPC connections
//
// the listener increments on accept and decrements on close, so the
// value caps concurrency and feeds the node status reply
type Counter uint64

// Increment - add 1 to a counter, returns new value
func (counter *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(counter), 1)
}

// Decrement - subtract 1 from a counter, returns new value
func (counter *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(counter), ^uint64(0))
}

// Uint64 - returns current value
func (counter *Counter) Uint64() uint64 {
	return atomic.AddUint64((*uint64)(counter), 0)
}

// IsZero - check if zero
func (counter *Counter) IsZero() bool {
	return atomic.AddUint64((*uint64)(counter), 0) == 0
}
