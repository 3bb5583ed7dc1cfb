// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/cidnoded/background"
	"github.com/bitmark-inc/cidnoded/bitswap"
	"github.com/bitmark-inc/cidnoded/journal"
	"github.com/bitmark-inc/cidnoded/p2p"
	"github.com/bitmark-inc/cidnoded/storage"
	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"
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
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
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

	log.Infof("database: %q", theConfiguration.Database.Name)
	log.Debugf("%s = %#v", "P2P", theConfiguration.P2P.Listen)
	log.Debugf("%s = %#v", "Exchange", theConfiguration.Exchange)
	log.Debugf("%s = %#v", "Journal", theConfiguration.Journal.Peers)

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// start the peer to peer host
	log.Info("initialise p2p")
	theConfiguration.P2P.PrivateKey, err = peerPrivateKey(theConfiguration)
	if nil != err {
		log.Criticalf("peer key error: %s", err)
		exitwithstatus.Message("peer key error: %s", err)
	}
	node, err := p2p.New(&theConfiguration.P2P)
	if nil != err {
		log.Criticalf("p2p initialise error: %s", err)
		exitwithstatus.Message("p2p initialise error: %s", err)
	}
	defer node.Close()
	log.Infof("peer id: %s", node.ID().Pretty())

	// block exchange
	queue := bitswap.NewQueue()
	err = node.Register(bitswap.NewHandler(queue, storage.Blocks))
	if nil != err {
		log.Criticalf("bitswap register error: %s", err)
		exitwithstatus.Message("bitswap register error: %s", err)
	}
	node.OnDisconnect(func(sessionID uint64) {
		if n := queue.RemovePeer(bitswap.PeerID(sessionID)); n > 0 {
			log.Debugf("session: %d  cancelled: %d requests", sessionID, n)
		}
	})
	exchange := bitswap.NewEngine(queue, storage.Blocks, sessionSender{node: node}, theConfiguration.Exchange.RateLimit, theConfiguration.Exchange.Burst)

	// journal replication
	engine, err := journal.NewEngine(storage.Journal, theConfiguration.Journal.Window, journal.WithDialTimeout(theConfiguration.Journal.dialTimeout))
	if nil != err {
		log.Criticalf("journal initialise error: %s", err)
		exitwithstatus.Message("journal initialise error: %s", err)
	}
	replicator := journal.NewReplicator(engine, storage.Replication, storage.Journal, theConfiguration.Journal.interval, theConfiguration.Journal.syncTimeout)

	var announcer *journal.Announcer
	if theConfiguration.Journal.Announce {
		announcer = journal.NewAnnouncer(node.ID(), node)
	}
	announceHead := func() {
		if nil == announcer {
			return
		}
		newest, found, err := storage.Journal.Newest()
		if nil != err || !found {
			return
		}
		_ = announcer.Announce(newest.Timestamp)
	}

	handler, err := journal.NewHandler(&journal.HandlerContext{
		Store:    storage.Journal,
		OnMerged: func(int) { announceHead() },
	})
	if nil != err {
		log.Criticalf("journal handler error: %s", err)
		exitwithstatus.Message("journal handler error: %s", err)
	}
	err = node.Register(handler)
	if nil != err {
		log.Criticalf("journal register error: %s", err)
		exitwithstatus.Message("journal register error: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = node.Subscribe(ctx, journal.HeadTopic, func(publication p2p.Publication) {
		head, err := journal.DecodeHead(publication.Data)
		if nil != err {
			log.Debugf("head from: %s  error: %s", publication.From.ShortString(), err)
			return
		}
		if head.PeerID != publication.From {
			return
		}
		replicator.HandleHead(head)
	})
	if nil != err {
		log.Criticalf("head subscribe error: %s", err)
		exitwithstatus.Message("head subscribe error: %s", err)
	}

	replication := newReplicationSet(node, replicator)
	replication.apply(theConfiguration.Journal.Peers)

	// list of background processes to start
	processes := background.Processes{
		exchange,
		replicator,
	}

	watcher, err := newConfigWatcher(configurationFile, func() {
		reloaded, err := getConfiguration(configurationFile)
		if nil != err {
			log.Errorf("configuration reload error: %s", err)
			return
		}
		replication.apply(reloaded.Journal.Peers)
	})
	if nil != err {
		log.Warnf("configuration watch disabled: %s", err)
	} else {
		processes = append(processes, watcher)
	}

	if "" != theConfiguration.Status.Listen {
		processes = append(processes, newStatusServer(theConfiguration.Status.Listen, queue, replicator))
	}

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		processes = append(processes, memstats{queue: queue, node: node})
	}

	running := background.Start(processes, nil)

	announceHead()

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
	running.Stop()
}
