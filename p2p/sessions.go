// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/libp2p/go-libp2p-core/host"
	"github.com/libp2p/go-libp2p-core/network"
	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/zhangyunhao116/skipmap"

	"github.com/bitmark-inc/logger"
)

// one connected remote peer
//
// a session is never modified once stored, an upgrade to secure
// replaces it with a copy
type session struct {
	id     uint64
	peerID peer.ID
	secure bool
	start  time.Time
}

// PeerID - remote peer id
func (s *session) PeerID() peer.ID {
	return s.peerID
}

// ID - session number, unique for the life of the node
func (s *session) ID() uint64 {
	return s.id
}

// IsSecure - true if the remote key was verified during the handshake
func (s *session) IsSecure() bool {
	return s.secure
}

// table of connected peers
type sessionTable struct {
	sync.Mutex // serialises connect/disconnect bookkeeping
	host       host.Host
	log        *logger.L
	byPeer     *skipmap.FuncMap[peer.ID, *session]
	counts     map[peer.ID]int
	nextID     uint64

	callbacks []func(uint64)
}

func newSessionTable(h host.Host, log *logger.L) *sessionTable {
	return &sessionTable{
		host: h,
		log:  log,
		byPeer: skipmap.NewFunc[peer.ID, *session](func(a, b peer.ID) bool {
			return a < b
		}),
		counts: make(map[peer.ID]int),
	}
}

func (t *sessionTable) onDisconnect(f func(uint64)) {
	t.Lock()
	t.callbacks = append(t.callbacks, f)
	t.Unlock()
}

// connection notifications from the swarm
func (t *sessionTable) notifiee() network.Notifiee {
	return &network.NotifyBundle{
		ConnectedF: func(_ network.Network, conn network.Conn) {
			t.connected(conn)
		},
		DisconnectedF: func(_ network.Network, conn network.Conn) {
			t.disconnected(conn)
		},
	}
}

func (t *sessionTable) connected(conn network.Conn) {
	id := conn.RemotePeer()

	// the handshake must have proved ownership of the peer id
	secure := false
	if key := conn.RemotePublicKey(); nil != key {
		secure = id.MatchesPublicKey(key)
	}

	t.Lock()
	defer t.Unlock()

	s, ok := t.byPeer.Load(id)
	if !ok {
		s = &session{
			id:     atomic.AddUint64(&t.nextID, 1),
			peerID: id,
			secure: secure,
			start:  time.Now(),
		}
		t.byPeer.Store(id, s)
	} else if secure && !s.secure {
		upgraded := *s
		upgraded.secure = true
		s = &upgraded
		t.byPeer.Store(id, s)
	}
	t.counts[id] += 1

	t.log.Infof("connected: %s  session: %d  secure: %t  connections: %d", id.ShortString(), s.id, s.secure, t.counts[id])
}

func (t *sessionTable) disconnected(conn network.Conn) {
	id := conn.RemotePeer()

	t.Lock()
	s, ok := t.byPeer.Load(id)
	if !ok {
		t.Unlock()
		return
	}
	t.counts[id] -= 1
	if t.counts[id] > 0 {
		t.Unlock()
		return
	}
	delete(t.counts, id)
	t.byPeer.Delete(id)
	callbacks := t.callbacks
	t.Unlock()

	t.log.Infof("disconnected: %s  session: %d", id.ShortString(), s.id)
	for _, f := range callbacks {
		f(s.id)
	}
}

// find the session of a connected peer
func (t *sessionTable) lookup(id peer.ID) (*session, bool) {
	return t.byPeer.Load(id)
}

// find a session by its number
func (t *sessionTable) lookupID(sessionID uint64) (*session, bool) {
	var found *session
	t.byPeer.Range(func(_ peer.ID, s *session) bool {
		if s.id == sessionID {
			found = s
			return false
		}
		return true
	})
	return found, nil != found
}

// true if the peer is connected with a verified session
func (t *sessionTable) isSecure(id peer.ID) bool {
	s, ok := t.byPeer.Load(id)
	return ok && s.IsSecure() && network.Connected == t.host.Network().Connectedness(id)
}

// SessionInfo - details of one connected peer
type SessionInfo struct {
	PeerID  peer.ID
	Session uint64
	Secure  bool
	Since   time.Time
}

// Sessions - list all connected peers
func (n *Node) Sessions() []SessionInfo {
	result := make([]SessionInfo, 0, n.sessions.byPeer.Len())
	n.sessions.byPeer.Range(func(id peer.ID, s *session) bool {
		result = append(result, SessionInfo{
			PeerID:  id,
			Session: s.id,
			Secure:  s.secure,
			Since:   s.start,
		})
		return true
	})
	return result
}
