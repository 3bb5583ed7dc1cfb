// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"context"
	"fmt"
	"time"

	"github.com/libp2p/go-libp2p-core/network"
	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/libp2p/go-libp2p-core/peerstore"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/bitmark-inc/cidnoded/fault"
)

// RemotePeer - handle used to push frames to one remote node
type RemotePeer struct {
	node *Node
	info peer.AddrInfo
}

// Peer - handle for a remote node at the given addresses
func (n *Node) Peer(info peer.AddrInfo) *RemotePeer {
	if 0 != len(info.Addrs) && !n.IsLocal(info.ID) {
		n.host.Peerstore().AddAddrs(info.ID, info.Addrs, peerstore.PermanentAddrTTL)
	}
	return &RemotePeer{
		node: n,
		info: info,
	}
}

// IsLocal - true if the id is this node
func (n *Node) IsLocal(id peer.ID) bool {
	return id == n.host.ID()
}

// ID - remote peer id
func (r *RemotePeer) ID() peer.ID {
	return r.info.ID
}

// String - for logging
func (r *RemotePeer) String() string {
	return r.info.ID.ShortString()
}

// IsLocal - true if the handle refers to this node
func (r *RemotePeer) IsLocal() bool {
	return r.node.IsLocal(r.info.ID)
}

// IsSecure - true if a verified session is established
func (r *RemotePeer) IsSecure() bool {
	return r.node.sessions.isSecure(r.info.ID)
}

// IsConnected - true if the swarm has a live connection
func (r *RemotePeer) IsConnected() bool {
	return network.Connected == r.node.host.Network().Connectedness(r.info.ID)
}

// Connect - dial the peer, giving up after timeout
func (r *RemotePeer) Connect(ctx context.Context, timeout time.Duration) error {
	if r.IsLocal() {
		return fault.ErrLocalPeer
	}
	if r.IsConnected() {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.node.host.Connect(dialCtx, r.info); nil != err {
		r.node.log.Warnf("connect to: %s  error: %s", r, err)
		return fmt.Errorf("%w: %s", fault.ErrConnectionUnavailable, err)
	}
	return nil
}

// Write - send one complete frame on a new stream
//
// the stream is closed after the frame, once writing has started it
// is not interrupted by ctx
func (r *RemotePeer) Write(ctx context.Context, frame []byte) error {
	stream, err := r.node.host.NewStream(ctx, r.info.ID, streamProtocol)
	if nil != err {
		return fmt.Errorf("%w: %s", fault.ErrConnectionUnavailable, err)
	}

	key := stream.Conn().RemotePublicKey()
	if nil == key || !r.info.ID.MatchesPublicKey(key) {
		stream.Reset()
		return fault.ErrInsecureChannel
	}

	n, err := stream.Write(frame)
	if nil != err || n != len(frame) {
		stream.Reset()
		return fault.ErrWriteFailure
	}
	if err := stream.Close(); nil != err {
		return fault.ErrWriteFailure
	}
	return nil
}

// Send - write a frame to the peer of a session number
func (n *Node) Send(ctx context.Context, sessionID uint64, frame []byte) error {
	s, ok := n.sessions.lookupID(sessionID)
	if !ok {
		return fault.ErrPeerNotFound
	}
	return n.Peer(peer.AddrInfo{ID: s.peerID}).Write(ctx, frame)
}

// PeerInfo - combine a base58 peer id and a multiaddr string
//
// the address may be empty if the peer store already knows the peer,
// dns addresses are resolved
func (n *Node) PeerInfo(ctx context.Context, peerID string, address string) (peer.AddrInfo, error) {
	id, err := peer.IDB58Decode(peerID)
	if nil != err {
		return peer.AddrInfo{}, fmt.Errorf("%w: %s", fault.ErrInvalidPeerID, err)
	}
	info := peer.AddrInfo{ID: id}
	if "" == address {
		return info, nil
	}

	addr, err := ma.NewMultiaddr(address)
	if nil != err {
		return peer.AddrInfo{}, fmt.Errorf("%w: %s", fault.ErrInvalidConfiguration, err)
	}
	addrs, err := resolve(ctx, addr)
	if nil != err {
		return peer.AddrInfo{}, err
	}

	for _, a := range addrs {
		// strip any /p2p/<id> component, the id is given separately
		transport, last := ma.SplitLast(a)
		if nil != last && ma.P_P2P == last.Protocol().Code {
			a = transport
		}
		if nil != a {
			info.Addrs = append(info.Addrs, a)
		}
	}
	return info, nil
}
