// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p-core/peer"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/logger"
)

// defaults for the replicator
const (
	DefaultInterval    = 1 * time.Minute
	DefaultSyncTimeout = 30 * time.Second
)

// Bookkeeper - persistent store of replication high-water marks
type Bookkeeper interface {
	Save(peerID []byte, lastConnect uint64, lastJournalTime uint64) error
}

// Newest - the newest local record
type Newest interface {
	Newest() (Record, bool, error)
}

// Replicator - background process that runs a sync to every
// replication peer on each tick
type Replicator struct {
	sync.Mutex
	log         *logger.L
	engine      *Engine
	bookkeeper  Bookkeeper
	newest      Newest
	interval    time.Duration
	syncTimeout time.Duration
	peers       map[peer.ID]*ReplicationPeer
	running     map[peer.ID]struct{}
	nudge       chan peer.ID
	wg          sync.WaitGroup
}

// NewReplicator - create a replicator with an empty peer set
func NewReplicator(engine *Engine, bookkeeper Bookkeeper, newest Newest, interval time.Duration, syncTimeout time.Duration) *Replicator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if syncTimeout <= 0 {
		syncTimeout = DefaultSyncTimeout
	}
	return &Replicator{
		log:         logger.New("replicator"),
		engine:      engine,
		bookkeeper:  bookkeeper,
		newest:      newest,
		interval:    interval,
		syncTimeout: syncTimeout,
		peers:       make(map[peer.ID]*ReplicationPeer),
		running:     make(map[peer.ID]struct{}),
		nudge:       make(chan peer.ID, 16),
	}
}

// SetPeers - replace the replication set
//
// a peer already in the set keeps its in-memory high-water marks if
// they are newer than the ones given
func (r *Replicator) SetPeers(peers []*ReplicationPeer) {
	r.Lock()
	defer r.Unlock()

	next := make(map[peer.ID]*ReplicationPeer, len(peers))
	for _, p := range peers {
		if old, ok := r.peers[p.id]; ok && old.LastConnect() > p.LastConnect() {
			p.update(old.LastConnect(), old.LastJournalTime())
		}
		next[p.id] = p
	}
	r.peers = next
	r.log.Infof("replication peers: %d", len(next))
}

// Peers - current replication set ordered by peer id
func (r *Replicator) Peers() []*ReplicationPeer {
	r.Lock()
	defer r.Unlock()

	result := make([]*ReplicationPeer, 0, len(r.peers))
	for _, p := range r.peers {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].id < result[j].id
	})
	return result
}

// Nudge - request an early sync to one peer
func (r *Replicator) Nudge(id peer.ID) {
	select {
	case r.nudge <- id:
	default:
	}
}

// HandleHead - nudge a replication peer that announced an older head
func (r *Replicator) HandleHead(head Head) {
	if nil == r.newest {
		return
	}

	r.Lock()
	_, ok := r.peers[head.PeerID]
	r.Unlock()
	if !ok {
		return
	}

	local, found, err := r.newest.Newest()
	if nil != err || !found {
		return
	}
	if head.Newest < local.Timestamp {
		r.log.Debugf("peer: %s  head: %d behind: %d", head.PeerID.ShortString(), head.Newest, local.Timestamp)
		r.Nudge(head.PeerID)
	}
}

// Run - sync on every tick and on every nudge until shutdown
func (r *Replicator) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

loop:
	for {
		log.Debug("waiting…")
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			for _, p := range r.Peers() {
				r.start(ctx, p)
			}
		case id := <-r.nudge:
			r.Lock()
			p, ok := r.peers[id]
			r.Unlock()
			if ok {
				r.start(ctx, p)
			}
		}
	}

	log.Info("shutting down…")
	cancel()
	r.wg.Wait()
	log.Info("stopped")
}

// run one sync in the background unless one is already running
func (r *Replicator) start(ctx context.Context, p *ReplicationPeer) {
	r.Lock()
	if _, busy := r.running[p.id]; busy {
		r.Unlock()
		return
	}
	r.running[p.id] = struct{}{}
	r.wg.Add(1)
	r.Unlock()

	go func() {
		defer func() {
			r.Lock()
			delete(r.running, p.id)
			r.Unlock()
			r.wg.Done()
		}()
		if err := r.SyncPeer(ctx, p); nil != err {
			r.log.Warnf("sync: %s  error: %s", p.id.ShortString(), err)
		}
	}()
}

// SyncPeer - one bounded sync attempt, saving the high-water marks on success
func (r *Replicator) SyncPeer(ctx context.Context, p *ReplicationPeer) error {
	if nil == p || nil == p.peer {
		return fault.ErrNilPeer
	}

	syncCtx, cancel := context.WithTimeout(ctx, r.syncTimeout)
	defer cancel()

	// first contact establishes the authenticated session
	if !p.peer.IsLocal() && !p.peer.IsSecure() {
		if err := p.peer.Connect(syncCtx, r.engine.DialTimeout()); nil != err {
			return err
		}
	}

	lastConnect, lastJournalTime := p.LastConnect(), p.LastJournalTime()
	if err := r.engine.Sync(syncCtx, p); nil != err {
		return err
	}
	if p.LastConnect() == lastConnect && p.LastJournalTime() == lastJournalTime {
		return nil
	}
	if nil == r.bookkeeper {
		return nil
	}
	return r.bookkeeper.Save([]byte(p.id), p.LastConnect(), p.LastJournalTime())
}
