// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal

import (
	"context"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p-core/peer"
)

// Peer - the network handle of a remote node
type Peer interface {
	IsLocal() bool
	IsSecure() bool
	IsConnected() bool
	Connect(ctx context.Context, timeout time.Duration) error
	Write(ctx context.Context, frame []byte) error
}

// ReplicationPeer - a remote node that receives journal syncs
//
// the high-water marks only change after a confirmed send
type ReplicationPeer struct {
	sync.RWMutex
	id              peer.ID
	peer            Peer
	lastConnect     uint64
	lastJournalTime uint64
}

// NewReplicationPeer - create with previously saved high-water marks
func NewReplicationPeer(id peer.ID, p Peer, lastConnect uint64, lastJournalTime uint64) *ReplicationPeer {
	return &ReplicationPeer{
		id:              id,
		peer:            p,
		lastConnect:     lastConnect,
		lastJournalTime: lastJournalTime,
	}
}

// ID - remote peer id
func (r *ReplicationPeer) ID() peer.ID {
	return r.id
}

// Peer - network handle
func (r *ReplicationPeer) Peer() Peer {
	return r.peer
}

// LastConnect - time of the last successful send
func (r *ReplicationPeer) LastConnect() uint64 {
	r.RLock()
	defer r.RUnlock()
	return r.lastConnect
}

// LastJournalTime - newest timestamp delivered by the last successful send
func (r *ReplicationPeer) LastJournalTime() uint64 {
	r.RLock()
	defer r.RUnlock()
	return r.lastJournalTime
}

func (r *ReplicationPeer) update(lastConnect uint64, lastJournalTime uint64) {
	r.Lock()
	r.lastConnect = lastConnect
	r.lastJournalTime = lastJournalTime
	r.Unlock()
}
