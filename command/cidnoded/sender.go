// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/bitmark-inc/cidnoded/bitswap"
	"github.com/bitmark-inc/cidnoded/p2p"
)

// block responses go back over the session that asked for them
type sessionSender struct {
	node *p2p.Node
}

func (s sessionSender) Send(ctx context.Context, peerID bitswap.PeerID, frame []byte) error {
	return s.node.Send(ctx, uint64(peerID), frame)
}
