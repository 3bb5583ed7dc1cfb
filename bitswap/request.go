// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitswap

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/bitmark-inc/cidnoded/fault"
)

// PeerID - session number of a connected remote peer
type PeerID uint64

// PeerRequest - one outstanding block request from one peer
//
// a request cannot be changed after it is created
type PeerRequest struct {
	peerID PeerID
	cid    cid.Cid
}

// NewPeerRequest - create a request for block 'c' on behalf of a peer
func NewPeerRequest(peerID PeerID, c cid.Cid) (*PeerRequest, error) {
	if !c.Defined() {
		return nil, fault.ErrUndefinedCID
	}
	return &PeerRequest{
		peerID: peerID,
		cid:    c,
	}, nil
}

// PeerID - the requesting peer
func (r *PeerRequest) PeerID() PeerID {
	return r.peerID
}

// Cid - the requested block
func (r *PeerRequest) Cid() cid.Cid {
	return r.cid
}

// Equal - two requests are the same if both peer and cid match
func (r *PeerRequest) Equal(other *PeerRequest) bool {
	if nil == r || nil == other {
		return r == other
	}
	return r.peerID == other.peerID && r.cid.Equals(other.cid)
}

// String - for logging
func (r *PeerRequest) String() string {
	return fmt.Sprintf("%d/%s", r.peerID, r.cid)
}

// identity of a request within the queue index
type requestKey struct {
	peerID PeerID
	cid    string
}

func (r *PeerRequest) key() requestKey {
	return requestKey{
		peerID: r.peerID,
		cid:    r.cid.KeyString(),
	}
}
