// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	"github.com/ipfs/go-cid"
	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/cidnoded/fault"
)

const (
	blockCacheExpiration = 2 * time.Minute
	blockCacheCleanup    = 1 * time.Minute
)

// BlockStore - content blocks keyed by cid
//
// reads go through a short lived cache since the same block is
// usually requested by several peers in a row
type BlockStore struct {
	pool  *PoolHandle
	cache *cache.Cache
}

func newBlockStore(pool *PoolHandle) *BlockStore {
	return &BlockStore{
		pool:  pool,
		cache: cache.New(blockCacheExpiration, blockCacheCleanup),
	}
}

// Put - store a block
func (b *BlockStore) Put(c cid.Cid, data []byte) error {
	if !c.Defined() {
		return fault.ErrUndefinedCID
	}
	key := c.Bytes()
	if err := b.pool.Put(key, data); nil != err {
		return err
	}
	b.cache.Set(string(key), data, cache.DefaultExpiration)
	return nil
}

// Get - read a block, the bool is false if the block is not stored
func (b *BlockStore) Get(c cid.Cid) ([]byte, bool, error) {
	if !c.Defined() {
		return nil, false, fault.ErrUndefinedCID
	}
	key := c.Bytes()
	if obj, found := b.cache.Get(string(key)); found {
		return obj.([]byte), true, nil
	}

	data, err := b.pool.Get(key)
	if nil != err || nil == data {
		return nil, false, err
	}
	b.cache.Set(string(key), data, cache.DefaultExpiration)
	return data, true, nil
}

// Has - check if a block is stored
func (b *BlockStore) Has(c cid.Cid) (bool, error) {
	if !c.Defined() {
		return false, fault.ErrUndefinedCID
	}
	key := c.Bytes()
	if _, found := b.cache.Get(string(key)); found {
		return true, nil
	}
	return b.pool.Has(key)
}

// Delete - remove a block
func (b *BlockStore) Delete(c cid.Cid) error {
	if !c.Defined() {
		return fault.ErrUndefinedCID
	}
	key := c.Bytes()
	b.cache.Delete(string(key))
	return b.pool.Delete(key)
}
