// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"context"
	"sync"
	"time"

	libp2p "github.com/libp2p/go-libp2p"
	connmgr "github.com/libp2p/go-libp2p-connmgr"
	"github.com/libp2p/go-libp2p-core/host"
	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/libp2p/go-libp2p-core/protocol"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	tls "github.com/libp2p/go-libp2p-tls"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/util"
	"github.com/bitmark-inc/logger"
)

// the single libp2p stream protocol that carries all frames
const streamProtocol = protocol.ID("/cidnode/stream/1.0.0")

// connection manager defaults
const (
	defaultLowConnections  = 16
	defaultHighConnections = 64
	connectionGracePeriod  = 30 * time.Second
)

// Configuration - a block of configuration data
// this is read from the configuration file
type Configuration struct {
	Listen          []string `gluamapper:"listen" yaml:"listen" json:"listen"`
	Announce        []string `gluamapper:"announce" yaml:"announce" json:"announce"`
	PrivateKey      string   `gluamapper:"private_key" yaml:"private_key" json:"private_key"`
	LowConnections  int      `gluamapper:"low_connections" yaml:"low_connections" json:"low_connections"`
	HighConnections int      `gluamapper:"high_connections" yaml:"high_connections" json:"high_connections"`
}

// Node - a p2p node
type Node struct {
	sync.RWMutex
	log      *logger.L
	host     host.Host
	pubsub   *pubsub.PubSub
	announce []ma.Multiaddr
	sessions *sessionTable
	mux      *multiplexer
	cancel   context.CancelFunc
	closed   bool
}

// New - create a host listening on the configured addresses
func New(configuration *Configuration) (*Node, error) {
	log := logger.New("p2p")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	if 0 == len(configuration.Listen) {
		return nil, fault.ErrMissingListenAddress
	}
	listen, err := util.ListenAddresses(configuration.Listen)
	if nil != err {
		return nil, err
	}
	announce, err := util.ListenAddresses(configuration.Announce)
	if nil != err {
		return nil, err
	}

	privateKey, err := util.DecodePrivateKeyFromHex(configuration.PrivateKey)
	if nil != err {
		return nil, err
	}

	low := configuration.LowConnections
	if low <= 0 {
		low = defaultLowConnections
	}
	high := configuration.HighConnections
	if high < low {
		high = defaultHighConnections
		if high < low {
			high = low
		}
	}

	options := []libp2p.Option{
		libp2p.Identity(privateKey),
		libp2p.ListenAddrs(listen...),
		libp2p.Security(tls.ID, tls.New),
		libp2p.ConnectionManager(connmgr.NewConnManager(low, high, connectionGracePeriod)),
	}
	if 0 != len(announce) {
		options = append(options, libp2p.AddrsFactory(func([]ma.Multiaddr) []ma.Multiaddr {
			return announce
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())

	h, err := libp2p.New(ctx, options...)
	if nil != err {
		cancel()
		return nil, err
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if nil != err {
		h.Close()
		cancel()
		return nil, err
	}

	n := &Node{
		log:      log,
		host:     h,
		pubsub:   ps,
		announce: announce,
		cancel:   cancel,
	}
	n.sessions = newSessionTable(h, log)
	n.mux = newMultiplexer(n.sessions, log)

	h.Network().Notify(n.sessions.notifiee())
	h.SetStreamHandler(streamProtocol, n.mux.handleStream)

	for _, a := range h.Addrs() {
		log.Infof("host address: %s/p2p/%s", a, h.ID().Pretty())
	}
	return n, nil
}

// ID - the peer id of this node
func (n *Node) ID() peer.ID {
	return n.host.ID()
}

// Addresses - full addresses of this node including the peer id
func (n *Node) Addresses() []ma.Multiaddr {
	suffix, err := ma.NewMultiaddr("/p2p/" + n.host.ID().Pretty())
	if nil != err {
		return nil
	}
	result := make([]ma.Multiaddr, 0, len(n.host.Addrs()))
	for _, a := range n.host.Addrs() {
		result = append(result, a.Encapsulate(suffix))
	}
	return result
}

// Register - add a protocol handler to the multiplexer
func (n *Node) Register(handler Handler) error {
	return n.mux.register(handler)
}

// OnDisconnect - call f with the session number of each peer that
// loses its last connection
func (n *Node) OnDisconnect(f func(sessionID uint64)) {
	n.sessions.onDisconnect(f)
}

// Protect - keep connections to a peer open regardless of the connection limits
func (n *Node) Protect(id peer.ID, tag string) {
	n.host.ConnManager().Protect(id, tag)
}

// Unprotect - remove the protection of a peer
func (n *Node) Unprotect(id peer.ID, tag string) {
	n.host.ConnManager().Unprotect(id, tag)
}

// Close - shut down handlers and the host
func (n *Node) Close() error {
	n.Lock()
	defer n.Unlock()

	if n.closed {
		return fault.ErrNotInitialised
	}
	n.closed = true

	n.log.Info("shutting down…")
	n.host.RemoveStreamHandler(streamProtocol)
	n.mux.shutdown()
	n.cancel()
	err := n.host.Close()
	n.log.Info("finished")
	n.log.Flush()
	return err
}
