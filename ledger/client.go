// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/json"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/background"
	"github.com/bitmark-inc/marketd/fault"
)

// Configuration - ledger connection settings from the configuration file
type Configuration struct {
	Connect   string `gluamapper:"connect" json:"connect"`
	Custodian string `gluamapper:"custodian" json:"custodian"`
}

const (
	requestQueueSize = 500
	replyTimeout     = 60 * time.Second
)

// request wire record
type requestEnvelope struct {
	ID     uint64      `json:"id"`
	Method string      `json:"method"`
	Args   interface{} `json:"args"`
}

// reply wire record
type replyEnvelope struct {
	ID     uint64            `json:"id"`
	OK     bool              `json:"ok"`
	Payout map[string]uint64 `json:"payout"`
}

// queued outgoing request
type request struct {
	envelope requestEnvelope
	kind     byte // 'p' payout, 't' transfer, 'f' funds
}

// globals for background process
type clientData struct {
	sync.RWMutex

	log       *logger.L
	connect   string
	custodian account.Account
	callbacks Callbacks

	queue chan request

	// for background
	background *background.T

	// set once during initialise
	initialised bool
}

var globalData clientData

// Initialise - connect to the ledger daemon
func Initialise(configuration *Configuration, callbacks Callbacks) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("ledger")
	globalData.log.Info("starting…")

	if "" == configuration.Connect {
		globalData.log.Error("missing connect address")
		return fault.MissingParameters
	}
	custodian, err := account.New(configuration.Custodian)
	if nil != err {
		globalData.log.Errorf("invalid custodian: %q", configuration.Custodian)
		return err
	}

	globalData.connect = configuration.Connect
	globalData.custodian = custodian
	globalData.callbacks = callbacks
	globalData.queue = make(chan request, requestQueueSize)

	globalData.initialised = true

	// start background processes
	globalData.log.Info("start background…")

	processes := background.Processes{
		&requester{},
	}
	globalData.background = background.Start(processes, globalData.log)

	return nil
}

// Finalise - stop the ledger connection
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.background.Stop()

	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// Client - the production Transfers and Funds implementation
type Client struct{}

// Get - access the shared client
func Get() Client {
	return Client{}
}

// Custodian - the engine's custody account on the ledger
func (Client) Custodian() account.Account {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.custodian
}

// TransferPayout - queue an asset transfer with payout request
func (Client) TransferPayout(id uint64, args TransferPayoutArgs) {
	enqueue(request{
		kind: 'p',
		envelope: requestEnvelope{
			ID:     id,
			Method: "transfer_payout",
			Args:   args,
		},
	})
}

// Transfer - queue a plain asset transfer
func (Client) Transfer(id uint64, args TransferArgs) {
	enqueue(request{
		kind: 't',
		envelope: requestEnvelope{
			ID:     id,
			Method: "transfer",
			Args:   args,
		},
	})
}

// funds transfer record
type fundsArgs struct {
	Recipient account.Account `json:"recipient"`
	Amount    uint64          `json:"amount"`
}

// Pay - queue a native coin transfer, result is not inspected
func (Client) Pay(to account.Account, amount uint64) {
	enqueue(request{
		kind: 'f',
		envelope: requestEnvelope{
			Method: "pay",
			Args: fundsArgs{
				Recipient: to,
				Amount:    amount,
			},
		},
	})
}

func enqueue(r request) {
	globalData.RLock()
	queue := globalData.queue
	log := globalData.log
	globalData.RUnlock()
	if nil == queue {
		logger.Panicf("ledger: enqueue before initialise")
	}
	select {
	case queue <- r:
	default:
		log.Criticalf("ledger: request queue full, dropping: %d", r.envelope.ID)
	}
}

// background process pumping the request queue over a REQ socket
type requester struct {
	socket *zmq.Socket
}

func (state *requester) Run(args interface{}, shutdown <-chan struct{}) {

	log := args.(*logger.L)

	log.Info("requester: starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case r := <-globalData.queue:
			state.process(log, r)
		}
	}

	if nil != state.socket {
		state.socket.Close()
		state.socket = nil
	}
	log.Info("requester: stopped")
}

// send one request and wait for its reply
//
// a dead socket is rebuilt; a failed round trip resolves the request
// as failed so its continuation still fires exactly once
func (state *requester) process(log *logger.L, r request) {

	reply, err := state.roundTrip(r.envelope)
	if nil != err {
		log.Errorf("request: %d failed: %s", r.envelope.ID, err)

		// socket is in an unknown state after an error
		if nil != state.socket {
			state.socket.Close()
			state.socket = nil
		}
		reply = &replyEnvelope{
			ID: r.envelope.ID,
			OK: false,
		}
	}

	globalData.RLock()
	callbacks := globalData.callbacks
	globalData.RUnlock()

	switch r.kind {
	case 'p':
		result := &PayoutResult{
			OK:     reply.OK,
			Payout: reply.Payout,
		}
		if nil != callbacks.Payout {
			callbacks.Payout(reply.ID, result)
		}
	case 't':
		if nil != callbacks.Transfer {
			callbacks.Transfer(reply.ID, reply.OK)
		}
	case 'f':
		// coin transfers are fire and forget
		if !reply.OK {
			log.Warnf("pay request failed: %v", r.envelope.Args)
		}
	}
}

func (state *requester) roundTrip(envelope requestEnvelope) (*replyEnvelope, error) {

	if nil == state.socket {
		socket, err := zmq.NewSocket(zmq.REQ)
		if nil != err {
			return nil, err
		}
		socket.SetLinger(0)
		socket.SetRcvtimeo(replyTimeout)
		err = socket.Connect(globalData.connect)
		if nil != err {
			socket.Close()
			return nil, err
		}
		state.socket = socket
	}

	buffer, err := json.Marshal(envelope)
	if nil != err {
		return nil, err
	}

	_, err = state.socket.SendBytes(buffer, 0)
	if nil != err {
		return nil, err
	}

	data, err := state.socket.RecvBytes(0)
	if nil != err {
		return nil, err
	}

	reply := &replyEnvelope{}
	err = json.Unmarshal(data, reply)
	if nil != err {
		return nil, err
	}
	return reply, nil
}
