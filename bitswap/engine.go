// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitswap

import (
	"context"
	"time"

	"github.com/ipfs/go-cid"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/logger"
)

const sendTimeout = 30 * time.Second

// Blockstore - local block storage
type Blockstore interface {
	Get(c cid.Cid) ([]byte, bool, error)
	Put(c cid.Cid, data []byte) error
}

// Sender - delivers a frame to the peer of a session
type Sender interface {
	Send(ctx context.Context, peerID PeerID, frame []byte) error
}

// Engine - serves queued requests in order
type Engine struct {
	log     *logger.L
	queue   *Queue
	blocks  Blockstore
	sender  Sender
	limiter *rate.Limiter
}

// NewEngine - create an engine serving at most 'limit' blocks per
// second with bursts of up to 'burst'
//
// a zero limit means unlimited
func NewEngine(queue *Queue, blocks Blockstore, sender Sender, limit float64, burst int) *Engine {
	l := rate.Inf
	if limit > 0 {
		l = rate.Limit(limit)
	}
	if burst < 1 {
		burst = 1
	}
	return &Engine{
		log:     logger.New("bitswap"),
		queue:   queue,
		blocks:  blocks,
		sender:  sender,
		limiter: rate.NewLimiter(l, burst),
	}
}

// Run - wait for requests and serve them until shutdown
func (e *Engine) Run(args interface{}, shutdown <-chan struct{}) {
	log := e.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

loop:
	for {
		log.Debug("waiting…")
		select {
		case <-shutdown:
			break loop
		case <-e.queue.Ready():
			e.drain(ctx)
		}
	}
	log.Info("shutting down…")
}

// serve requests until the queue is empty or ctx ends
func (e *Engine) drain(ctx context.Context) {
	for {
		request, err := e.queue.Pop()
		if fault.IsErrEmpty(err) {
			return
		}
		if err := e.limiter.Wait(ctx); nil != err {
			// shutting down, the request is dropped with the queue
			return
		}
		if err := e.serve(ctx, request); nil != err {
			e.log.Warnf("serve: %s  error: %s", request, err)
		}
	}
}

// send one block to the requesting peer
func (e *Engine) serve(ctx context.Context, request *PeerRequest) error {
	data, found, err := e.blocks.Get(request.Cid())
	if nil != err {
		return err
	}
	if !found {
		e.log.Debugf("not found: %s", request)
		return nil
	}

	frame, err := BlockFrame(request.Cid(), data)
	if nil != err {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := e.sender.Send(sendCtx, request.PeerID(), frame); nil != err {
		return err
	}
	e.log.Debugf("sent: %s  bytes: %d", request, len(data))
	return nil
}
