// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run processes in the background with
// controlled shutdown
package background

// T - handle for later stopping of the group
type T struct {
	shutdown chan struct{}
	finished chan struct{}
	count    int
}

// Process - a background process must implement this interface
//
// Run is started as a goroutine; it must return promptly after the
// shutdown channel is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// Start - start up a set of background processes
// all with the same arg value
func Start(processes Processes, args interface{}) *T {

	register := &T{
		shutdown: make(chan struct{}),
		finished: make(chan struct{}),
		count:    len(processes),
	}

	// start each background
	for _, p := range processes {
		go func(p Process) {
			p.Run(args, register.shutdown)
			register.finished <- struct{}{}
		}(p)
	}
	return register
}

// Stop - stop a set of background processes and wait for them to
// finish
func (t *T) Stop() {

	if nil == t {
		return
	}

	// shutdown all background tasks
	close(t.shutdown)

	// wait for finished
	for i := 0; i < t.count; i += 1 {
		<-t.finished
	}
}
