// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/journal"
)

func TestBuildMessageWindow(t *testing.T) {
	records := []journal.Record{
		makeRecord(5, "a"),
		makeRecord(20, "b"),
		makeRecord(9, "c"),
	}

	m, err := journal.BuildMessage(records, nil)
	assert.Nil(t, err, "build error")
	assert.Equal(t, uint64(5), m.StartEpoch, "wrong start epoch")
	assert.Equal(t, uint64(20), m.EndEpoch, "wrong end epoch")
	assert.Equal(t, 3, len(m.Entries), "wrong entry count")

	for i, e := range m.Entries {
		assert.Equal(t, records[i].Timestamp, e.Timestamp, "wrong order at: %d", i)
		assert.Equal(t, records[i].Hash, e.Hash, "wrong hash at: %d", i)
		assert.True(t, e.Pin, "pin flag not set at: %d", i)
	}

	// entries own their hash bytes
	records[0].Hash[0] ^= 0xff
	assert.NotEqual(t, records[0].Hash, m.Entries[0].Hash, "hash shared with record")
}

func TestBuildMessageSingle(t *testing.T) {
	m, err := journal.BuildMessage([]journal.Record{makeRecord(42, "x")}, nil)
	assert.Nil(t, err, "build error")
	assert.Equal(t, uint64(42), m.StartEpoch, "wrong start epoch")
	assert.Equal(t, uint64(42), m.EndEpoch, "wrong end epoch")
}

func TestBuildMessageAllocationFailure(t *testing.T) {
	allocator := &trackingAllocator{failAt: 3}
	records := []journal.Record{
		makeRecord(1, "a"),
		makeRecord(2, "b"),
		makeRecord(3, "c"),
		makeRecord(4, "d"),
	}

	m, err := journal.BuildMessage(records, allocator)
	assert.Nil(t, m, "message returned after failure")
	assert.True(t, fault.IsErrAllocation(err), "wrong error: %v", err)
	assert.Equal(t, 2, allocator.allocated, "wrong allocation count")
	assert.Equal(t, 0, allocator.outstanding(), "buffers leaked")
}

func TestMessageRelease(t *testing.T) {
	allocator := &trackingAllocator{}
	m, err := journal.BuildMessage([]journal.Record{makeRecord(1, "a"), makeRecord(2, "b")}, allocator)
	assert.Nil(t, err, "build error")
	assert.Equal(t, 2, allocator.outstanding(), "wrong outstanding count")

	m.Release()
	assert.Equal(t, 0, allocator.outstanding(), "buffers leaked")
	assert.Equal(t, 0, len(m.Entries), "entries still reachable")

	m.Release()
	assert.Equal(t, 2, allocator.freed, "double free")
}

func TestHeapAllocatorLimit(t *testing.T) {
	_, err := journal.BuildMessage([]journal.Record{{Timestamp: 1, Hash: make([]byte, journal.MaxHashSize+1)}}, nil)
	assert.True(t, fault.IsErrAllocation(err), "oversize hash accepted")
}

func TestMessageRecords(t *testing.T) {
	m, _ := journal.BuildMessage([]journal.Record{makeRecord(1, "a"), makeRecord(2, "b")}, nil)
	m.Entries[0].Pin = false

	records := m.Records()
	assert.Equal(t, 1, len(records), "unpin entry included")
	assert.Equal(t, uint64(2), records[0].Timestamp, "wrong record")
}
