// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"github.com/libp2p/go-libp2p-core/peer"
)

// Session - the remote side of an incoming frame
type Session interface {
	PeerID() peer.ID
	ID() uint64
	IsSecure() bool
}

// Handler - one protocol served over the multiplexer
//
// CanHandle must only inspect the frame, HandleMessage receives the
// whole frame including its header and Shutdown is called once when
// the node stops
type Handler interface {
	CanHandle(incoming []byte) bool
	HandleMessage(incoming []byte, session Session) error
	Shutdown() bool
}
