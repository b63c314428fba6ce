// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - a queue-based message passing system
//
// routes marketplace events from the engine to the background
// processes that relay them externally
package messagebus

// Message - a message from the bus
type Message struct {
	Command    string   // type of the message
	Parameters [][]byte // message data
}

// Queue - a named fixed-size queue
type Queue struct {
	c    chan Message
	size int
}

// the set of queues
type busses struct {
	Events    *Queue // marketplace events for relay
	TestQueue *Queue // for testing use
}

// Bus - all available queues
var Bus busses

const (
	eventsQueueSize = 1000
	testQueueSize   = 50
)

func init() {
	Bus.Events = &Queue{
		c:    make(chan Message, eventsQueueSize),
		size: eventsQueueSize,
	}
	Bus.TestQueue = &Queue{
		c:    make(chan Message, testQueueSize),
		size: testQueueSize,
	}
}

// Send - send a message to a queue
//
// drops the message if the queue is full rather than blocking the
// caller
func (queue *Queue) Send(command string, parameters ...[]byte) {
	message := Message{
		Command:    command,
		Parameters: parameters,
	}
	select {
	case queue.c <- message:
	default:
	}
}

// Chan - channel to read from a queue
func (queue *Queue) Chan() <-chan Message {
	return queue.c
}

// Release - drain any unread messages
func (queue *Queue) Release() {
loop:
	for {
		select {
		case <-queue.c:
		default:
			break loop
		}
	}
}
