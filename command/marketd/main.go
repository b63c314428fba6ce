// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fees"
	"github.com/bitmark-inc/marketd/ledger"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/marketdata"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/offer"
	"github.com/bitmark-inc/marketd/publish"
	"github.com/bitmark-inc/marketd/rent"
	"github.com/bitmark-inc/marketd/rpc"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/storage"
	"github.com/bitmark-inc/marketd/trade"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	err = mode.Initialise(theConfiguration.Testing)
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer mode.Finalise()

	// start a profiling http server
	// this uses the default builtin HTTP handler
	// and is not associated with the normal ClientRPC server
	if "" != theConfiguration.ProfileHTTP {
		go func() {
			log.Warnf("profile listener on: %s", theConfiguration.ProfileHTTP)
			err = http.ListenAndServe(theConfiguration.ProfileHTTP, nil)
			exitwithstatus.Message("profile error: %s", err)
		}()
	}

	// general info
	log.Infof("test mode: %v", mode.IsTesting())
	log.Infof("database: %q", theConfiguration.Database)

	// connection info
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)
	log.Debugf("%s = %#v", "Ledger", theConfiguration.Ledger)

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// start the event relay queue before any store can report changes
	log.Info("initialise event")
	err = event.Initialise()
	if nil != err {
		log.Criticalf("event initialise error: %s", err)
		exitwithstatus.Message("event initialise error: %s", err)
	}
	defer event.Finalise()

	// fee schedule
	log.Info("initialise fees")
	err = fees.Initialise(storage.Pool.Settings, uint16(theConfiguration.FeeRate))
	if nil != err {
		log.Criticalf("fees initialise error: %s", err)
		exitwithstatus.Message("fees initialise error: %s", err)
	}
	defer fees.Finalise()

	// storage rent accounts
	log.Info("initialise rent")
	err = rent.Initialise(storage.Pool.Rent, storage.Pool.OwnerItems)
	if nil != err {
		log.Criticalf("rent initialise error: %s", err)
		exitwithstatus.Message("rent initialise error: %s", err)
	}
	defer rent.Finalise()

	// market record stores
	log.Info("initialise listing")
	err = listing.Initialise(storage.Pool.Listings, storage.Pool.OwnerItems)
	if nil != err {
		log.Criticalf("listing initialise error: %s", err)
		exitwithstatus.Message("listing initialise error: %s", err)
	}
	defer listing.Finalise()

	log.Info("initialise offer")
	err = offer.Initialise(storage.Pool.Offers, storage.Pool.OwnerItems)
	if nil != err {
		log.Criticalf("offer initialise error: %s", err)
		exitwithstatus.Message("offer initialise error: %s", err)
	}
	defer offer.Finalise()

	log.Info("initialise trade")
	err = trade.Initialise(storage.Pool.Trades, storage.Pool.OwnerItems)
	if nil != err {
		log.Criticalf("trade initialise error: %s", err)
		exitwithstatus.Message("trade initialise error: %s", err)
	}
	defer trade.Finalise()

	// settlement resolver must be ready before the ledger client can
	// deliver continuations
	log.Info("initialise settlement")
	err = settlement.Initialise(
		settlement.Handles{Settlements: storage.Pool.Settlements},
		ledger.Get(),
		ledger.Get(),
		func(asset marketdata.AssetKey) { trade.Prune(asset) },
	)
	if nil != err {
		log.Criticalf("settlement initialise error: %s", err)
		exitwithstatus.Message("settlement initialise error: %s", err)
	}
	defer settlement.Finalise()

	// connect to the host ledger daemon
	log.Info("initialise ledger")
	err = ledger.Initialise(&theConfiguration.Ledger, ledger.Callbacks{
		Payout:   settlement.Complete,
		Transfer: settlement.CompleteSwapLeg,
	})
	if nil != err {
		log.Criticalf("ledger initialise error: %s", err)
		exitwithstatus.Message("ledger initialise error: %s", err)
	}
	defer ledger.Finalise()

	// start up the publishing background processes
	log.Info("initialise publish")
	err = publish.Initialise(&theConfiguration.Publishing)
	if nil != err {
		log.Criticalf("publish initialise error: %s", err)
		exitwithstatus.Message("publish initialise error: %s", err)
	}
	defer publish.Finalise()

	// marketplace settings and operations
	log.Info("initialise market")
	err = market.Initialise(storage.Pool.Settings, ledger.Get(), &theConfiguration.Market)
	if nil != err {
		log.Criticalf("market initialise error: %s", err)
		exitwithstatus.Message("market initialise error: %s", err)
	}
	defer market.Finalise()

	// start up the rpc background processes
	log.Info("initialise rpc")
	err = rpc.Initialise(&theConfiguration.ClientRPC, version)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	// all pending settlements reloaded and services running
	mode.Set(mode.Normal)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	mode.Set(mode.Stopped)
}
