// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/storage"
)

func poolPut(t *testing.T, p *storage.PoolHandle, key string, data string) {
	err := p.Put([]byte(key), []byte(data))
	assert.Nil(t, err, "put error")
}

func poolDelete(t *testing.T, p *storage.PoolHandle, key string) {
	err := p.Delete([]byte(key))
	assert.Nil(t, err, "delete error")
}

func TestPool(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData

	n, err := p.Count()
	assert.Nil(t, err, "count error")
	assert.Equal(t, 0, n, "pool not empty")

	poolPut(t, p, "key-one", "data-one")
	poolPut(t, p, "key-two", "data-two")
	poolPut(t, p, "key-remove-me", "to be deleted")
	poolDelete(t, p, "key-remove-me")
	poolPut(t, p, "key-three", "data-three")
	poolPut(t, p, "key-one", "data-one(NEW)") // duplicate

	n, err = p.Count()
	assert.Nil(t, err, "count error")
	assert.Equal(t, 3, n, "wrong count")

	value, err := p.Get([]byte("key-one"))
	assert.Nil(t, err, "get error")
	assert.Equal(t, "data-one(NEW)", string(value), "wrong value")

	value, err = p.Get([]byte("key-remove-me"))
	assert.Nil(t, err, "get error")
	assert.Nil(t, value, "deleted key still present")

	found, err := p.Has([]byte("key-two"))
	assert.Nil(t, err, "has error")
	assert.True(t, found, "key-two missing")

	last, found, err := p.LastElement()
	assert.Nil(t, err, "last element error")
	assert.True(t, found, "no last element")
	assert.Equal(t, "key-two", string(last.Key), "wrong last key")
	assert.Equal(t, "data-two", string(last.Value), "wrong last value")

	// restarting the database keeps the data
	storage.Finalise()
	err = storage.Initialise(databaseFileName, storage.ReadWrite)
	assert.Nil(t, err, "reopen error")

	p = storage.Pool.TestData
	value, err = p.Get([]byte("key-three"))
	assert.Nil(t, err, "get error")
	assert.Equal(t, "data-three", string(value), "data lost on restart")
}

func TestPoolBatch(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData

	batch := p.NewBatch()
	batch.Put([]byte("a"), []byte("1"))
	batch.Put([]byte("b"), []byte("2"))
	assert.Equal(t, 2, batch.Len(), "wrong batch length")

	n, _ := p.Count()
	assert.Equal(t, 0, n, "batch written before commit")

	err := batch.Commit()
	assert.Nil(t, err, "commit error")

	n, _ = p.Count()
	assert.Equal(t, 2, n, "batch not written")
}

func TestPoolAfterFinalise(t *testing.T) {
	setup(t)
	p := storage.Pool.TestData
	teardown(t)

	err := p.Put([]byte("key"), []byte("value"))
	assert.Equal(t, fault.ErrDatabaseIsNotSet, err, "wrong error")

	_, err = p.Get([]byte("key"))
	assert.Equal(t, fault.ErrDatabaseIsNotSet, err, "wrong error")
}

func TestDoubleInitialise(t *testing.T) {
	setup(t)
	defer teardown(t)

	err := storage.Initialise(databaseFileName, storage.ReadWrite)
	assert.Equal(t, fault.ErrAlreadyInitialised, err, "wrong error")
}
