// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cidnoded/bitswap"
	"github.com/bitmark-inc/cidnoded/journal"
	"github.com/bitmark-inc/cidnoded/util"
)

type emptyJournal struct{}

func (emptyJournal) OpenCursor() (journal.Cursor, error) { return nil, nil }
func (emptyJournal) Newest() (journal.Record, bool, error) {
	return journal.Record{}, false, nil
}

func testPeerID(t *testing.T) peer.ID {
	key, _ := util.MakeEd25519PeerKey()
	id, err := util.PeerIDFromHexKey(key)
	if nil != err {
		t.Fatalf("peer id error: %s", err)
	}
	return id
}

func TestStatus(t *testing.T) {
	queue := bitswap.NewQueue()
	mh, _ := multihash.Sum([]byte("block"), multihash.SHA2_256, -1)
	request, _ := bitswap.NewPeerRequest(7, cid.NewCidV1(cid.Raw, mh))
	_ = queue.Add(request)
	_ = queue.Add(request)

	engine, _ := journal.NewEngine(emptyJournal{}, journal.DefaultWindow)
	replicator := journal.NewReplicator(engine, nil, emptyJournal{}, 0, 0)
	id := testPeerID(t)
	replicator.SetPeers([]*journal.ReplicationPeer{
		journal.NewReplicationPeer(id, nil, 1600000000, 1599999999),
	})

	s := newStatusServer("127.0.0.1:0", queue, replicator)

	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Equal(t, contentTypeJSON, w.Header().Get("Content-Type"), "wrong content type")

	var status nodeStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	assert.Nil(t, err, "json error")
	assert.Equal(t, 2, status.QueueLength, "wrong queue length")
	assert.Equal(t, 1, len(status.Peers), "wrong peer count")
	assert.Equal(t, id.Pretty(), status.Peers[0].PeerID, "wrong peer id")
	assert.Equal(t, uint64(1600000000), status.Peers[0].LastConnect, "wrong last connect")
	assert.Equal(t, uint64(1599999999), status.Peers[0].LastJournalTime, "wrong last journal time")

	w = httptest.NewRecorder()
	s.router().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/status", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "post accepted")
}
