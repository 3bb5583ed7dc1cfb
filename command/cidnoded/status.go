// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bitmark-inc/cidnoded/bitswap"
	"github.com/bitmark-inc/cidnoded/journal"
	"github.com/bitmark-inc/logger"
)

const (
	contentTypeJSON        = "application/json"
	defaultShutdownTimeout = 5 * time.Second
)

type peerStatus struct {
	PeerID          string `json:"peer_id"`
	LastConnect     uint64 `json:"last_connect"`
	LastJournalTime uint64 `json:"last_journal_time"`
}

type nodeStatus struct {
	QueueLength int          `json:"queue_length"`
	Peers       []peerStatus `json:"peers"`
}

// statusServer - read-only HTTP view of the queue and replication peers
type statusServer struct {
	log        *logger.L
	queue      *bitswap.Queue
	replicator *journal.Replicator
	server     *http.Server
}

func newStatusServer(listen string, queue *bitswap.Queue, replicator *journal.Replicator) *statusServer {
	s := &statusServer{
		log:        logger.New("status"),
		queue:      queue,
		replicator: replicator,
	}
	s.server = &http.Server{
		Addr:              listen,
		Handler:           s.router(),
		ReadHeaderTimeout: time.Second,
	}
	return s
}

func (s *statusServer) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/status", s.handleStatus)
	return r
}

func (s *statusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := nodeStatus{
		QueueLength: s.queue.Len(),
		Peers:       []peerStatus{},
	}
	for _, p := range s.replicator.Peers() {
		status.Peers = append(status.Peers, peerStatus{
			PeerID:          p.ID().Pretty(),
			LastConnect:     p.LastConnect(),
			LastJournalTime: p.LastJournalTime(),
		})
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); nil != err {
		s.log.Warnf("encode error: %s", err)
	}
}

// Run - background process
func (s *statusServer) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Infof("listening on: %s", s.server.Addr)

	go func() {
		if err := s.server.ListenAndServe(); nil != err && http.ErrServerClosed != err {
			log.Errorf("server error: %s", err)
		}
	}()

	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); nil != err {
		log.Errorf("shutdown error: %s", err)
	}
	log.Info("stopped")
}
