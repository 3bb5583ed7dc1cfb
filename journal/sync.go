// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/logger"
)

// defaults for the sync engine
const (
	DefaultWindow      = 10
	DefaultDialTimeout = 10 * time.Second
)

// Engine - pushes the newest window of the journal to one peer at a time
type Engine struct {
	log         *logger.L
	store       Store
	window      int
	dialTimeout time.Duration
	allocator   Allocator
	now         func() time.Time
}

// Option - change an engine default
type Option func(*Engine)

// WithDialTimeout - bound on connecting to a peer
func WithDialTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout > 0 {
			e.dialTimeout = timeout
		}
	}
}

// WithAllocator - source of entry hash buffers
func WithAllocator(allocator Allocator) Option {
	return func(e *Engine) {
		if nil != allocator {
			e.allocator = allocator
		}
	}
}

// WithClock - time source for message and bookkeeping stamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if nil != now {
			e.now = now
		}
	}
}

// NewEngine - create a sync engine sending up to 'window' records
func NewEngine(store Store, window int, options ...Option) (*Engine, error) {
	if window < 1 {
		return nil, fault.ErrInvalidWindow
	}
	if nil == store {
		return nil, fault.ErrDatabaseIsNotSet
	}
	e := &Engine{
		log:         logger.New("journal"),
		store:       store,
		window:      window,
		dialTimeout: DefaultDialTimeout,
		allocator:   HeapAllocator,
		now:         time.Now,
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// DialTimeout - bound on connecting to a peer
func (e *Engine) DialTimeout() time.Duration {
	return e.dialTimeout
}

// Sync - send the newest records to one peer
//
// nothing is sent and nil is returned if the journal is empty; the
// peer's high-water marks only change when the frame was written
func (e *Engine) Sync(ctx context.Context, rp *ReplicationPeer) error {
	if nil == rp || nil == rp.peer {
		return fault.ErrNilPeer
	}
	p := rp.peer

	// journal data only travels over an authenticated channel
	if p.IsLocal() {
		return fault.ErrLocalPeer
	}
	if !p.IsSecure() {
		return fault.ErrInsecureChannel
	}

	records, err := e.newest()
	if nil != err {
		return err
	}

	if 0 == len(records) {
		e.log.Debugf("sync: %s  journal empty", rp.id.ShortString())
		return nil
	}

	m, err := BuildMessage(records, e.allocator)
	if nil != err {
		return err
	}
	defer m.Release()

	now := uint64(e.now().Unix())
	m.CurrentEpoch = now

	if !p.IsConnected() {
		if err := p.Connect(ctx, e.dialTimeout); nil != err {
			if fault.IsErrConnection(err) {
				return err
			}
			return fmt.Errorf("%w: %s", fault.ErrConnectionUnavailable, err)
		}
	}

	frame, err := Encode(m)
	if nil != err {
		return err
	}

	if err := p.Write(ctx, frame); nil != err {
		if fault.IsErrIO(err) {
			return err
		}
		return fmt.Errorf("%w: %s", fault.ErrWriteFailure, err)
	}

	rp.update(now, m.EndEpoch)
	e.log.Infof("sync: %s  entries: %d  epochs: %d…%d", rp.id.ShortString(), len(m.Entries), m.StartEpoch, m.EndEpoch)
	return nil
}

// read up to window records, newest first
func (e *Engine) newest() ([]Record, error) {
	cursor, err := e.store.OpenCursor()
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrInvalidCursor, err)
	}
	defer func() {
		if err := cursor.Close(); nil != err {
			e.log.Warnf("cursor close error: %s", err)
		}
	}()

	records := make([]Record, 0, e.window)
	for r, ok := cursor.Get(CursorLast); ok; r, ok = cursor.Get(CursorPrevious) {
		records = append(records, r)
		if len(records) == e.window {
			break
		}
	}
	return records, nil
}
