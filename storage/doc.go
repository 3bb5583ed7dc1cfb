// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// This maintains a LevelDB database split into a series of pools.
// Each pool is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available pools.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. timestamp    = big endian uint64 (8 bytes), seconds since the epoch
// 4. hash         = multihash bytes of the pinned content
// 5. peer id      = binary libp2p peer id
// 6. cid          = binary content identifier
//
// Journal:
//
//   J ++ timestamp ++ hash     - one journal record, ordered by time
//                                data: origin peer id (empty for local events)
//
// Blocks:
//
//   B ++ cid                   - block store
//                                data: raw block bytes
//
// Replication:
//
//   R ++ peer id               - replication high-water mark
//                                data: last connect timestamp ++ last journal timestamp
//
// Testing:
//   Z ++ key                   - testing data
package storage
