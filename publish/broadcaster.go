// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/messagebus"
)

const sendHighWaterMark = 1000

// broadcaster - the background event relay
type broadcaster struct {
	log    *logger.L
	socket *zmq.Socket
}

// bind the PUB socket to all broadcast addresses
func (brdc *broadcaster) initialise(addresses []string) error {
	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		return err
	}

	socket.SetLinger(0)
	socket.SetSndhwm(sendHighWaterMark)

	for _, address := range addresses {
		err = socket.Bind(address)
		if nil != err {
			socket.Close()
			return err
		}
		globalData.log.Infof("bind: %q", address)
	}

	brdc.socket = socket
	return nil
}

// Run - pump the event queue out of the PUB socket
func (brdc *broadcaster) Run(args interface{}, shutdown <-chan struct{}) {

	log := args.(*logger.L)
	brdc.log = log

	log.Info("broadcaster: starting…")

	queue := messagebus.Bus.Events.Chan()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case message := <-queue:
			brdc.process(message)
		}
	}

	brdc.socket.Close()
	brdc.socket = nil
	log.Info("broadcaster: stopped")
}

// publish one event; subscribers filter on the first frame
func (brdc *broadcaster) process(message messagebus.Message) {

	last := len(message.Parameters)
	first := zmq.Flag(zmq.SNDMORE)
	if 0 == last {
		first = 0
	}
	_, err := brdc.socket.Send(message.Command, first)
	if nil != err {
		brdc.log.Errorf("publish: %q  error: %s", message.Command, err)
		return
	}
	for i, parameter := range message.Parameters {
		flag := zmq.Flag(zmq.SNDMORE)
		if i == last-1 {
			flag = 0
		}
		_, err = brdc.socket.SendBytes(parameter, flag)
		if nil != err {
			brdc.log.Errorf("publish: %q  error: %s", message.Command, err)
			return
		}
	}
	brdc.log.Debugf("published: %q", message.Command)
}
