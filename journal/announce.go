// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal

import (
	"github.com/gogo/protobuf/proto"
	"github.com/libp2p/go-libp2p-core/peer"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/logger"
)

// HeadTopic - pubsub topic of journal head announcements
const HeadTopic = "/cidnode/journal-head/1.0.0"

// Head - newest journal timestamp of a node
type Head struct {
	PeerID peer.ID
	Newest uint64
}

type wireHead struct {
	PeerId []byte `protobuf:"bytes,1,opt,name=peer_id,json=peerId,proto3" json:"peer_id,omitempty"`
	Newest uint64 `protobuf:"varint,2,opt,name=newest,proto3" json:"newest,omitempty"`
}

func (m *wireHead) Reset()         { *m = wireHead{} }
func (m *wireHead) String() string { return proto.CompactTextString(m) }
func (*wireHead) ProtoMessage()    {}

// EncodeHead - pack an announcement
func EncodeHead(head Head) ([]byte, error) {
	data, err := proto.Marshal(&wireHead{
		PeerId: []byte(head.PeerID),
		Newest: head.Newest,
	})
	if nil != err {
		return nil, fault.ErrEncodeFailure
	}
	return data, nil
}

// DecodeHead - unpack an announcement
func DecodeHead(data []byte) (Head, error) {
	w := &wireHead{}
	if err := proto.Unmarshal(data, w); nil != err {
		return Head{}, fault.ErrTruncatedFrame
	}
	id, err := peer.IDFromBytes(w.PeerId)
	if nil != err {
		return Head{}, fault.ErrInvalidPeerID
	}
	return Head{
		PeerID: id,
		Newest: w.Newest,
	}, nil
}

// Publisher - pubsub access
type Publisher interface {
	Publish(topic string, data []byte) error
}

// Announcer - tells other nodes about the local journal head
type Announcer struct {
	log       *logger.L
	local     peer.ID
	publisher Publisher
}

// NewAnnouncer - create an announcer for the local node
func NewAnnouncer(local peer.ID, publisher Publisher) *Announcer {
	return &Announcer{
		log:       logger.New("journal"),
		local:     local,
		publisher: publisher,
	}
}

// Announce - publish the newest local timestamp
func (a *Announcer) Announce(newest uint64) error {
	data, err := EncodeHead(Head{
		PeerID: a.local,
		Newest: newest,
	})
	if nil != err {
		return err
	}
	if err := a.publisher.Publish(HeadTopic, data); nil != err {
		a.log.Warnf("announce error: %s", err)
		return err
	}
	a.log.Debugf("announced head: %d", newest)
	return nil
}
