// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/cidnoded/storage"
)

type peerEntry struct {
	PeerID          string `json:"peer_id"`
	LastConnect     uint64 `json:"last_connect"`
	LastJournalTime uint64 `json:"last_journal_time"`
}

func runPeers(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	bookkeeping, err := storage.Replication.List()
	if nil != err {
		return err
	}

	peers := make([]peerEntry, 0, len(bookkeeping))
	for _, b := range bookkeeping {
		peers = append(peers, peerEntry{
			PeerID:          originName(b.PeerID),
			LastConnect:     b.LastConnect,
			LastJournalTime: b.LastJournalTime,
		})
	}

	return printJson(m.w, peers)
}
