// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_iterator "github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/cidnoded/fault"
)

// PoolHandle - a single prefixed key space in the database
type PoolHandle struct {
	prefix   byte
	limit    []byte
	database *leveldb.DB
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		return fault.ErrDatabaseIsNotSet
	}
	return p.database.Put(p.prefixKey(key), value, nil)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) error {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		return fault.ErrDatabaseIsNotSet
	}
	return p.database.Delete(p.prefixKey(key), nil)
}

// Get - read a value for a given key
//
// returns nil, nil if the key is not present
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		return nil, fault.ErrDatabaseIsNotSet
	}
	value, err := p.database.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
func (p *PoolHandle) GetN(key []byte) (uint64, bool, error) {
	buffer, err := p.Get(key)
	if nil != err || nil == buffer {
		return 0, false, err
	}
	if len(buffer) < 8 {
		return 0, false, fault.ErrTruncatedFrame
	}
	n := binary.BigEndian.Uint64(buffer[:8])
	return n, true, nil
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		return false, fault.ErrDatabaseIsNotSet
	}
	return p.database.Has(p.prefixKey(key), nil)
}

// Count - number of keys in the pool
func (p *PoolHandle) Count() (int, error) {
	iter, err := p.newIterator()
	if nil != err {
		return 0, err
	}
	n := 0
	for iter.Next() {
		n += 1
	}
	iter.Release()
	return n, iter.Error()
}

// LastElement - get the last element in a pool
func (p *PoolHandle) LastElement() (Element, bool, error) {
	iter, err := p.newIterator()
	if nil != err {
		return Element{}, false, err
	}

	found := false
	result := Element{}
	if iter.Last() {
		result = p.element(iter)
		found = true
	}
	iter.Release()
	return result, found, iter.Error()
}

// iterator over the whole pool range
//
// the iterator operates on an implicit snapshot of the database so
// later writes are not observed
func (p *PoolHandle) newIterator() (ldb_iterator.Iterator, error) {
	maxRange := ldb_util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: p.limit,          // Limit of key range, excluded from the range
	}

	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		return nil, fault.ErrDatabaseIsNotSet
	}
	return p.database.NewIterator(&maxRange, nil), nil
}

// copy out the current iterator element with the prefix stripped
//
// the iterator slices are only valid until the next move
func (p *PoolHandle) element(iter ldb_iterator.Iterator) Element {
	key := iter.Key()
	value := iter.Value()

	dataKey := make([]byte, len(key)-1) // strip the prefix
	copy(dataKey, key[1:])              // ...

	dataValue := make([]byte, len(value))
	copy(dataValue, value)

	return Element{
		Key:   dataKey,
		Value: dataValue,
	}
}

// Batch - a set of writes to a pool applied atomically
type Batch struct {
	pool  *PoolHandle
	batch *leveldb.Batch
}

// NewBatch - start a batch of writes for this pool
func (p *PoolHandle) NewBatch() *Batch {
	return &Batch{
		pool:  p,
		batch: new(leveldb.Batch),
	}
}

// Put - queue a key/value pair
func (b *Batch) Put(key []byte, value []byte) {
	b.batch.Put(b.pool.prefixKey(key), value)
}

// Len - number of queued writes
func (b *Batch) Len() int {
	return b.batch.Len()
}

// Commit - write all queued pairs in one operation
func (b *Batch) Commit() error {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == b.pool.database {
		return fault.ErrDatabaseIsNotSet
	}
	return b.pool.database.Write(b.batch, nil)
}
