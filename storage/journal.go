// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	ldb_iterator "github.com/syndtr/goleveldb/leveldb/iterator"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/journal"
)

const (
	timestampSize = 8
	maxHashSize   = 128
)

// JournalStore - time ordered log of pin events
type JournalStore struct {
	pool *PoolHandle
}

// key = timestamp ++ hash
func journalKey(record journal.Record) ([]byte, error) {
	if 0 == len(record.Hash) {
		return nil, fault.ErrInvalidHash
	}
	if len(record.Hash) > maxHashSize {
		return nil, fault.ErrHashTooLarge
	}
	key := make([]byte, timestampSize, timestampSize+len(record.Hash))
	binary.BigEndian.PutUint64(key, record.Timestamp)
	return append(key, record.Hash...), nil
}

// split a stored key back into a record, the hash is a fresh copy
func journalRecord(key []byte) (journal.Record, bool) {
	if len(key) <= timestampSize {
		return journal.Record{}, false
	}
	hash := make([]byte, len(key)-timestampSize)
	copy(hash, key[timestampSize:])
	return journal.Record{
		Timestamp: binary.BigEndian.Uint64(key[:timestampSize]),
		Hash:      hash,
	}, true
}

// Append - store a single record
//
// origin is the binary peer id the record came from, empty for local events
func (j *JournalStore) Append(record journal.Record, origin []byte) error {
	key, err := journalKey(record)
	if nil != err {
		return err
	}
	return j.pool.Put(key, origin)
}

// Has - check if a record is already stored
func (j *JournalStore) Has(record journal.Record) (bool, error) {
	key, err := journalKey(record)
	if nil != err {
		return false, err
	}
	return j.pool.Has(key)
}

// Origin - peer id a record was received from
func (j *JournalStore) Origin(record journal.Record) ([]byte, bool, error) {
	key, err := journalKey(record)
	if nil != err {
		return nil, false, err
	}
	value, err := j.pool.Get(key)
	if nil != err || nil == value {
		return nil, false, err
	}
	return value, true, nil
}

// Merge - add all records not already present in one atomic write
//
// returns the number of records added
func (j *JournalStore) Merge(records []journal.Record, origin []byte) (int, error) {
	batch := j.pool.NewBatch()
	seen := make(map[string]struct{}, len(records))

	for _, record := range records {
		key, err := journalKey(record)
		if nil != err {
			return 0, err
		}
		if _, ok := seen[string(key)]; ok {
			continue
		}
		seen[string(key)] = struct{}{}

		found, err := j.pool.Has(key)
		if nil != err {
			return 0, err
		}
		if found {
			continue
		}
		batch.Put(key, origin)
	}

	n := batch.Len()
	if 0 == n {
		return 0, nil
	}
	if err := batch.Commit(); nil != err {
		return 0, err
	}
	return n, nil
}

// Newest - the most recent record
func (j *JournalStore) Newest() (journal.Record, bool, error) {
	element, found, err := j.pool.LastElement()
	if nil != err || !found {
		return journal.Record{}, false, err
	}
	record, ok := journalRecord(element.Key)
	if !ok {
		return journal.Record{}, false, fault.ErrInvalidCursor
	}
	return record, true, nil
}

// Count - number of stored records
func (j *JournalStore) Count() (int, error) {
	return j.pool.Count()
}

// OpenCursor - reverse cursor over the journal
//
// the cursor sees a snapshot of the journal as of this call
func (j *JournalStore) OpenCursor() (journal.Cursor, error) {
	iter, err := j.pool.newIterator()
	if nil != err {
		return nil, err
	}
	return &journalCursor{
		iter: iter,
	}, nil
}

type journalCursor struct {
	iter    ldb_iterator.Iterator
	started bool
}

// Get - move the cursor and return the record under it
func (c *journalCursor) Get(position journal.CursorPosition) (journal.Record, bool) {
	var ok bool
	switch position {
	case journal.CursorLast:
		ok = c.iter.Last()
		c.started = ok
	case journal.CursorPrevious:
		if !c.started {
			return journal.Record{}, false
		}
		ok = c.iter.Prev()
	default:
		return journal.Record{}, false
	}
	if !ok {
		return journal.Record{}, false
	}

	// strip the pool prefix, journalRecord copies the hash out of the iterator
	key := c.iter.Key()
	if len(key) < 1 {
		return journal.Record{}, false
	}
	return journalRecord(key[1:])
}

// Close - release the underlying iterator
func (c *journalCursor) Close() error {
	c.iter.Release()
	return c.iter.Error()
}
