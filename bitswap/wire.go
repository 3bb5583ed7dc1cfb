// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitswap

import (
	proto "github.com/golang/protobuf/proto"
	"github.com/ipfs/go-cid"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/p2p"
)

// ProtocolID - identifier line of every bitswap frame
const ProtocolID = "/cidnode/bitswap/1.0.0"

// Message - payload of a bitswap frame
type Message struct {
	Wantlist []*WantEntry `protobuf:"bytes,1,rep,name=wantlist,proto3" json:"wantlist,omitempty"`
	Blocks   []*Block     `protobuf:"bytes,2,rep,name=blocks,proto3" json:"blocks,omitempty"`
}

func (m *Message) Reset()         { *m = Message{} }
func (m *Message) String() string { return proto.CompactTextString(m) }
func (*Message) ProtoMessage()    {}

// WantEntry - request (or cancel a request) for one block
type WantEntry struct {
	Cid    []byte `protobuf:"bytes,1,opt,name=cid,proto3" json:"cid,omitempty"`
	Cancel bool   `protobuf:"varint,2,opt,name=cancel,proto3" json:"cancel,omitempty"`
}

func (m *WantEntry) Reset()         { *m = WantEntry{} }
func (m *WantEntry) String() string { return proto.CompactTextString(m) }
func (*WantEntry) ProtoMessage()    {}

// Block - one block sent in reply to a want
type Block struct {
	Cid  []byte `protobuf:"bytes,1,opt,name=cid,proto3" json:"cid,omitempty"`
	Data []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *Block) Reset()         { *m = Block{} }
func (m *Block) String() string { return proto.CompactTextString(m) }
func (*Block) ProtoMessage()    {}

// WantFrame - frame asking a peer for blocks, or cancelling the ask
func WantFrame(cids []cid.Cid, cancel bool) ([]byte, error) {
	message := &Message{
		Wantlist: make([]*WantEntry, 0, len(cids)),
	}
	for _, c := range cids {
		if !c.Defined() {
			return nil, fault.ErrUndefinedCID
		}
		message.Wantlist = append(message.Wantlist, &WantEntry{
			Cid:    c.Bytes(),
			Cancel: cancel,
		})
	}
	return encodeFrame(message)
}

// BlockFrame - frame carrying one block
func BlockFrame(c cid.Cid, data []byte) ([]byte, error) {
	if !c.Defined() {
		return nil, fault.ErrUndefinedCID
	}
	return encodeFrame(&Message{
		Blocks: []*Block{
			{
				Cid:  c.Bytes(),
				Data: data,
			},
		},
	})
}

func encodeFrame(message *Message) ([]byte, error) {
	payload, err := proto.Marshal(message)
	if nil != err {
		return nil, fault.ErrEncodeFailure
	}
	return p2p.Frame(ProtocolID, payload)
}

func decodeFrame(incoming []byte) (*Message, error) {
	payload, err := p2p.ParseFrame(ProtocolID, incoming)
	if nil != err {
		return nil, err
	}
	message := &Message{}
	if err := proto.Unmarshal(payload, message); nil != err {
		return nil, fault.ErrTruncatedFrame
	}
	return message, nil
}
