// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/mr-tron/base58"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/cidnoded/journal"
	"github.com/bitmark-inc/cidnoded/storage"
)

const localOrigin = "local"

type listEntry struct {
	Timestamp uint64 `json:"timestamp"`
	Hash      string `json:"hash"`
	Origin    string `json:"origin"`
}

func runList(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	cursor, err := storage.Journal.OpenCursor()
	if nil != err {
		return err
	}
	defer cursor.Close()

	entries := make([]listEntry, 0, count)
	for r, ok := cursor.Get(journal.CursorLast); ok; r, ok = cursor.Get(journal.CursorPrevious) {
		origin, _, err := storage.Journal.Origin(r)
		if nil != err {
			return err
		}
		entries = append(entries, listEntry{
			Timestamp: r.Timestamp,
			Hash:      base58.Encode(r.Hash),
			Origin:    originName(origin),
		})
		if len(entries) == count {
			break
		}
	}

	return printJson(m.w, entries)
}

func originName(origin []byte) string {
	if 0 == len(origin) {
		return localOrigin
	}
	id, err := peer.IDFromBytes(origin)
	if nil != err {
		return base58.Encode(origin)
	}
	return id.Pretty()
}
