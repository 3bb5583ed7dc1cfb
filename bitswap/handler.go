// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitswap

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/p2p"
	"github.com/bitmark-inc/logger"
)

// Handler - accepts bitswap frames from the multiplexer
type Handler struct {
	log    *logger.L
	queue  *Queue
	blocks Blockstore
}

// NewHandler - queue incoming wants and store incoming blocks
func NewHandler(queue *Queue, blocks Blockstore) *Handler {
	return &Handler{
		log:    logger.New("bitswap"),
		queue:  queue,
		blocks: blocks,
	}
}

// CanHandle - true for frames with the bitswap identifier
func (h *Handler) CanHandle(incoming []byte) bool {
	return p2p.HasIdentifier(ProtocolID, incoming)
}

// HandleMessage - apply the wantlist and blocks of one frame
func (h *Handler) HandleMessage(incoming []byte, session p2p.Session) error {
	message, err := decodeFrame(incoming)
	if nil != err {
		return err
	}

	peerID := PeerID(session.ID())

	for _, want := range message.Wantlist {
		c, err := cid.Cast(want.Cid)
		if nil != err {
			return fmt.Errorf("%w: %s", fault.ErrUndefinedCID, err)
		}
		request, err := NewPeerRequest(peerID, c)
		if nil != err {
			return err
		}

		if want.Cancel {
			err = h.queue.Remove(request)
			if nil != err && !fault.IsErrNotFound(err) {
				return err
			}
			h.log.Debugf("cancel: %s", request)
			continue
		}
		if err := h.queue.Add(request); nil != err {
			return err
		}
		h.log.Debugf("want: %s", request)
	}

	for _, block := range message.Blocks {
		c, err := cid.Cast(block.Cid)
		if nil != err {
			return fmt.Errorf("%w: %s", fault.ErrUndefinedCID, err)
		}

		// only keep data that hashes to its cid
		actual, err := c.Prefix().Sum(block.Data)
		if nil != err || !actual.Equals(c) {
			return fault.ErrInvalidHash
		}
		if err := h.blocks.Put(c, block.Data); nil != err {
			return err
		}
		h.log.Debugf("block: %s  from session: %d", c, peerID)
	}
	return nil
}

// Shutdown - release all pending requests
func (h *Handler) Shutdown() bool {
	n := h.queue.Destroy()
	h.log.Infof("shutdown released: %d requests", n)
	return true
}
