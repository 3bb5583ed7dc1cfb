// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal

import (
	"encoding/hex"
	"fmt"
)

// Record - one persisted log event
//
// records belong to the log store and must be treated as read only
type Record struct {
	Timestamp uint64 // seconds since the epoch
	Hash      []byte // multihash of the pinned content
}

// String - for logging
func (r Record) String() string {
	return fmt.Sprintf("%d:%s", r.Timestamp, hex.EncodeToString(r.Hash))
}

// CursorPosition - move instruction for a cursor
type CursorPosition int

// cursor moves
const (
	CursorLast     CursorPosition = iota // newest record
	CursorPrevious                       // one step older than the current record
)

// Cursor - reverse iteration over the log store
type Cursor interface {
	Get(position CursorPosition) (Record, bool)
	Close() error
}

// Store - the log store that feeds outbound syncs
type Store interface {
	OpenCursor() (Cursor, error)
}

// Merger - the log store that accepts inbound entries
//
// Merge must skip records that are already present and return the
// number actually added
type Merger interface {
	Merge(records []Record, origin []byte) (int, error)
}
