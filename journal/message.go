// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal

import (
	"fmt"

	"github.com/bitmark-inc/cidnoded/fault"
)

// MaxHashSize - largest hash accepted in an entry
const MaxHashSize = 128

// Allocator - source of hash buffers for entries
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Free(buffer []byte)
}

type heapAllocator struct{}

func (heapAllocator) Allocate(size int) ([]byte, error) {
	if size < 0 || size > MaxHashSize {
		return nil, fault.ErrHashTooLarge
	}
	return make([]byte, size), nil
}

func (heapAllocator) Free([]byte) {}

// HeapAllocator - allocate hash buffers from the Go heap
var HeapAllocator Allocator = heapAllocator{}

// Entry - wire copy of one record
type Entry struct {
	Timestamp uint64
	Pin       bool
	Hash      []byte // owned by the entry
}

// Message - a window of entries sent to one peer
type Message struct {
	StartEpoch   uint64 // oldest entry timestamp
	EndEpoch     uint64 // newest entry timestamp
	CurrentEpoch uint64 // time the message was sent
	Entries      []*Entry

	allocator Allocator
}

// BuildMessage - copy records into a new message, keeping their order
//
// if any hash buffer cannot be allocated every buffer already taken
// is freed and no message is returned
func BuildMessage(records []Record, allocator Allocator) (*Message, error) {
	if nil == allocator {
		allocator = HeapAllocator
	}

	m := &Message{
		Entries:   make([]*Entry, 0, len(records)),
		allocator: allocator,
	}

	for i, r := range records {
		hash, err := allocator.Allocate(len(r.Hash))
		if nil != err {
			m.Release()
			return nil, fmt.Errorf("%w: entry: %d: %s", fault.ErrAllocationFailure, i, err)
		}
		copy(hash, r.Hash)

		m.Entries = append(m.Entries, &Entry{
			Timestamp: r.Timestamp,
			Pin:       true,
			Hash:      hash,
		})

		if 0 == i || r.Timestamp < m.StartEpoch {
			m.StartEpoch = r.Timestamp
		}
		if 0 == i || r.Timestamp > m.EndEpoch {
			m.EndEpoch = r.Timestamp
		}
	}
	return m, nil
}

// Release - return every hash buffer to the allocator
//
// safe to call more than once
func (m *Message) Release() {
	if nil == m {
		return
	}
	for _, e := range m.Entries {
		if nil != e.Hash && nil != m.allocator {
			m.allocator.Free(e.Hash)
		}
		e.Hash = nil
	}
	m.Entries = nil
}

// Records - the pinned entries of the message as records
func (m *Message) Records() []Record {
	records := make([]Record, 0, len(m.Entries))
	for _, e := range m.Entries {
		if !e.Pin {
			continue
		}
		records = append(records, Record{
			Timestamp: e.Timestamp,
			Hash:      e.Hash,
		})
	}
	return records
}
