// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"context"

	"github.com/libp2p/go-libp2p-core/peer"
)

// Publication - one message received on a topic
type Publication struct {
	From peer.ID
	Data []byte
}

// Publish - send data to every subscriber of a topic
func (n *Node) Publish(topic string, data []byte) error {
	return n.pubsub.Publish(topic, data)
}

// Subscribe - deliver messages on a topic from other nodes to f
//
// runs until ctx is cancelled or the node is closed
func (n *Node) Subscribe(ctx context.Context, topic string, f func(Publication)) error {
	sub, err := n.pubsub.Subscribe(topic)
	if nil != err {
		return err
	}

	go func() {
		defer sub.Cancel()
		for {
			msg, err := sub.Next(ctx)
			if nil != err {
				n.log.Debugf("subscription: %s  ended: %s", topic, err)
				return
			}
			from, err := peer.IDFromBytes(msg.Message.GetFrom())
			if nil != err || n.IsLocal(from) {
				continue
			}
			f(Publication{
				From: from,
				Data: msg.GetData(),
			})
		}
	}()
	return nil
}
