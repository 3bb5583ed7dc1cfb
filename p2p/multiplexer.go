// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"bufio"
	"io"
	"sync"

	"github.com/libp2p/go-libp2p-core/network"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/logger"
)

// dispatch incoming frames to protocol handlers
type multiplexer struct {
	sync.RWMutex
	sessions *sessionTable
	handlers []Handler
	log      *logger.L
	stopped  bool
}

func newMultiplexer(sessions *sessionTable, log *logger.L) *multiplexer {
	return &multiplexer{
		sessions: sessions,
		handlers: make([]Handler, 0, 4),
		log:      log,
	}
}

func (m *multiplexer) register(handler Handler) error {
	if nil == handler {
		return fault.ErrNoHandler
	}

	m.Lock()
	defer m.Unlock()

	for _, h := range m.handlers {
		if h == handler {
			return fault.ErrHandlerExists
		}
	}
	m.handlers = append(m.handlers, handler)
	return nil
}

// first handler that accepts the frame
func (m *multiplexer) find(frame []byte) (Handler, error) {
	m.RLock()
	defer m.RUnlock()

	if m.stopped {
		return nil, fault.ErrNotInitialised
	}
	for _, h := range m.handlers {
		if h.CanHandle(frame) {
			return h, nil
		}
	}
	return nil, fault.ErrNoHandler
}

// read frames until the remote closes the stream
//
// a bad frame only resets this stream
func (m *multiplexer) handleStream(stream network.Stream) {
	remote := stream.Conn().RemotePeer()
	log := m.log

	s, ok := m.sessions.lookup(remote)
	if !ok {
		log.Warnf("stream from: %s  without a session", remote.ShortString())
		stream.Reset()
		return
	}

	reader := bufio.NewReader(stream)
	for {
		frame, err := readFrame(reader)
		if io.EOF == err {
			stream.Close()
			return
		}
		if nil != err {
			log.Warnf("read from: %s  error: %s", remote.ShortString(), err)
			stream.Reset()
			return
		}

		h, err := m.find(frame)
		if nil != err {
			log.Warnf("frame from: %s  error: %s", remote.ShortString(), err)
			stream.Reset()
			return
		}

		// refresh in case the session was upgraded
		if current, ok := m.sessions.lookup(remote); ok {
			s = current
		}

		if err := h.HandleMessage(frame, s); nil != err {
			log.Warnf("handle from: %s  session: %d  error: %s", remote.ShortString(), s.ID(), err)
			stream.Reset()
			return
		}
	}
}

// shut down every handler once
func (m *multiplexer) shutdown() {
	m.Lock()
	defer m.Unlock()

	if m.stopped {
		return
	}
	m.stopped = true
	for _, h := range m.handlers {
		if !h.Shutdown() {
			m.log.Warn("handler shutdown failed")
		}
	}
}
