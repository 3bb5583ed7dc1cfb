// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p-core/peer"

	"github.com/bitmark-inc/cidnoded/journal"
	"github.com/bitmark-inc/cidnoded/p2p"
	"github.com/bitmark-inc/cidnoded/storage"
	"github.com/bitmark-inc/logger"
)

const (
	replicationTag = "journal-replication"
	resolveTimeout = 30 * time.Second
)

// replicationSet - keeps the replicator peers in step with the configuration
type replicationSet struct {
	sync.Mutex
	log        *logger.L
	node       *p2p.Node
	replicator *journal.Replicator
	protected  map[peer.ID]struct{}
}

func newReplicationSet(node *p2p.Node, replicator *journal.Replicator) *replicationSet {
	return &replicationSet{
		log:        logger.New("replication"),
		node:       node,
		replicator: replicator,
		protected:  make(map[peer.ID]struct{}),
	}
}

// apply - resolve the configured peers and hand them to the replicator
//
// peers that cannot be resolved are skipped, the rest still apply
func (s *replicationSet) apply(configured []ReplicationPeerType) {
	s.Lock()
	defer s.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	peers := make([]*journal.ReplicationPeer, 0, len(configured))
	next := make(map[peer.ID]struct{}, len(configured))

	for _, c := range configured {
		info, err := s.node.PeerInfo(ctx, c.PeerID, c.Address)
		if nil != err {
			s.log.Warnf("peer: %s  address: %q  error: %s", c.PeerID, c.Address, err)
			continue
		}
		if s.node.IsLocal(info.ID) {
			s.log.Warnf("peer: %s  is this node, skipped", c.PeerID)
			continue
		}
		if _, ok := next[info.ID]; ok {
			continue
		}

		lastConnect, lastJournalTime, _, err := storage.Replication.Load([]byte(info.ID))
		if nil != err {
			s.log.Errorf("peer: %s  bookkeeping error: %s", c.PeerID, err)
		}

		peers = append(peers, journal.NewReplicationPeer(info.ID, s.node.Peer(info), lastConnect, lastJournalTime))
		next[info.ID] = struct{}{}
		s.node.Protect(info.ID, replicationTag)
	}

	for id := range s.protected {
		if _, ok := next[id]; !ok {
			s.node.Unprotect(id, replicationTag)
		}
	}
	s.protected = next

	s.replicator.SetPeers(peers)
	s.log.Infof("configured: %d  active: %d", len(configured), len(peers))
}
