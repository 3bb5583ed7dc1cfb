// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"runtime"
	"time"

	"github.com/bitmark-inc/cidnoded/bitswap"
	"github.com/bitmark-inc/cidnoded/p2p"
	"github.com/bitmark-inc/logger"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

// memstats - periodic memory and queue figures, background process
type memstats struct {
	queue *bitswap.Queue
	node  *p2p.Node
}

func (m memstats) Run(args interface{}, shutdown <-chan struct{}) {

	log := logger.New("memory")

	ticker := time.NewTicker(statsDelay)
	defer ticker.Stop()

	for {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		text, err := json.Marshal(ms)
		if nil != err {
			log.Errorf("marshal error: %s", err)
		} else {
			log.Debugf("stats: %s", text)
		}
		a := ms.Alloc / mega
		t := ms.TotalAlloc / mega
		s := ms.Sys / mega
		log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M", a, t, s)
		log.Infof("queue: %d  sessions: %d", m.queue.Len(), len(m.node.Sessions()))

		select {
		case <-shutdown:
			return
		case <-ticker.C:
		}
	}
}
