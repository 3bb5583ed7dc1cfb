// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal

import (
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/limitedset"
	"github.com/bitmark-inc/cidnoded/p2p"
	"github.com/bitmark-inc/logger"
)

// number of recent payload digests remembered
const replayMemory = 1000

// HandlerContext - node services used by the inbound handler
type HandlerContext struct {
	Store    Merger
	OnMerged func(added int) // optional, called after new records are stored
}

// Handler - accepts journal frames from the multiplexer
type Handler struct {
	sync.Mutex
	log     *logger.L
	context *HandlerContext
	seen    *limitedset.LimitedSet
}

// NewHandler - create a handler bound to the node context
func NewHandler(context *HandlerContext) (*Handler, error) {
	if nil == context || nil == context.Store {
		return nil, fault.ErrDatabaseIsNotSet
	}
	return &Handler{
		log:     logger.New("journal"),
		context: context,
		seen:    limitedset.New(replayMemory),
	}, nil
}

// CanHandle - true if the frame starts with the journal identifier
func (h *Handler) CanHandle(incoming []byte) bool {
	return p2p.HasIdentifier(ProtocolID, incoming)
}

// HandleMessage - merge the entries of one frame into the local journal
//
// a frame already merged is ignored
func (h *Handler) HandleMessage(incoming []byte, session p2p.Session) error {
	if !session.IsSecure() {
		return fault.ErrInsecureChannel
	}

	added, err := h.Merge(incoming, []byte(session.PeerID()))
	if fault.IsErrExists(err) {
		h.log.Debugf("replay from session: %d", session.ID())
		return nil
	}
	if nil != err {
		return err
	}
	h.log.Infof("merged: %d records from: %s", added, session.PeerID().ShortString())
	return nil
}

// Merge - decode a frame and store its new records
//
// returns the number of records added
func (h *Handler) Merge(incoming []byte, origin []byte) (int, error) {
	if !h.CanHandle(incoming) {
		return 0, fault.ErrInvalidHeader
	}

	m, payload, err := Decode(incoming)
	if nil != err {
		return 0, err
	}

	digest := sha3.Sum256(payload)
	key := hex.EncodeToString(digest[:])

	h.Lock()
	ctx := h.context
	seen := h.seen
	h.Unlock()

	if nil == ctx {
		return 0, fault.ErrNotInitialised
	}
	if seen.Exists(key) {
		return 0, fault.ErrReplayedMessage
	}

	records := m.Records()
	if len(records) != len(m.Entries) {
		h.log.Debugf("ignored: %d unpin entries", len(m.Entries)-len(records))
	}

	added, err := ctx.Store.Merge(records, origin)
	if nil != err {
		return 0, err
	}

	// only remember frames that were stored
	seen.Add(key)

	if added > 0 && nil != ctx.OnMerged {
		ctx.OnMerged(added)
	}
	return added, nil
}

// Shutdown - release the node context
func (h *Handler) Shutdown() bool {
	h.Lock()
	defer h.Unlock()

	h.context = nil
	h.log.Info("shutdown")
	return true
}
