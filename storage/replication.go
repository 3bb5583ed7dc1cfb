// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/cidnoded/fault"
)

const bookkeepingSize = 16

// ReplicationStore - per peer replication high-water marks
type ReplicationStore struct {
	pool *PoolHandle
}

// Bookkeeping - persisted replication state of one peer
type Bookkeeping struct {
	PeerID          []byte
	LastConnect     uint64
	LastJournalTime uint64
}

// Save - store the high-water mark of a peer
func (r *ReplicationStore) Save(peerID []byte, lastConnect uint64, lastJournalTime uint64) error {
	if 0 == len(peerID) {
		return fault.ErrInvalidPeerID
	}
	value := make([]byte, bookkeepingSize)
	binary.BigEndian.PutUint64(value[:8], lastConnect)
	binary.BigEndian.PutUint64(value[8:], lastJournalTime)
	return r.pool.Put(peerID, value)
}

// Load - read the high-water mark of a peer
func (r *ReplicationStore) Load(peerID []byte) (uint64, uint64, bool, error) {
	if 0 == len(peerID) {
		return 0, 0, false, fault.ErrInvalidPeerID
	}
	value, err := r.pool.Get(peerID)
	if nil != err || nil == value {
		return 0, 0, false, err
	}
	if bookkeepingSize != len(value) {
		return 0, 0, false, fault.ErrTruncatedFrame
	}
	return binary.BigEndian.Uint64(value[:8]), binary.BigEndian.Uint64(value[8:]), true, nil
}

// List - bookkeeping of every peer ever synced
func (r *ReplicationStore) List() ([]Bookkeeping, error) {
	iter, err := r.pool.newIterator()
	if nil != err {
		return nil, err
	}

	result := make([]Bookkeeping, 0)
	for iter.Next() {
		element := r.pool.element(iter)
		if bookkeepingSize != len(element.Value) {
			continue
		}
		result = append(result, Bookkeeping{
			PeerID:          element.Key,
			LastConnect:     binary.BigEndian.Uint64(element.Value[:8]),
			LastJournalTime: binary.BigEndian.Uint64(element.Value[8:]),
		})
	}
	iter.Release()
	return result, iter.Error()
}
