// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal

import (
	"github.com/gogo/protobuf/proto"
	"github.com/multiformats/go-multihash"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/p2p"
)

// ProtocolID - identifier line of every journal frame, both directions
const ProtocolID = "/ipfs/journal/1.0.0"

// MaxEntries - most entries accepted in one inbound message
const MaxEntries = 1024

// protobuf form of Message, see journal.proto
type wireMessage struct {
	StartEpoch   uint64       `protobuf:"varint,1,opt,name=start_epoch,json=startEpoch,proto3" json:"start_epoch,omitempty"`
	EndEpoch     uint64       `protobuf:"varint,2,opt,name=end_epoch,json=endEpoch,proto3" json:"end_epoch,omitempty"`
	CurrentEpoch uint64       `protobuf:"varint,3,opt,name=current_epoch,json=currentEpoch,proto3" json:"current_epoch,omitempty"`
	Entries      []*wireEntry `protobuf:"bytes,4,rep,name=entries,proto3" json:"entries,omitempty"`
}

func (m *wireMessage) Reset()         { *m = wireMessage{} }
func (m *wireMessage) String() string { return proto.CompactTextString(m) }
func (*wireMessage) ProtoMessage()    {}

type wireEntry struct {
	Timestamp uint64 `protobuf:"varint,1,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Pin       bool   `protobuf:"varint,2,opt,name=pin,proto3" json:"pin,omitempty"`
	Hash      []byte `protobuf:"bytes,3,opt,name=hash,proto3" json:"hash,omitempty"`
}

func (m *wireEntry) Reset()         { *m = wireEntry{} }
func (m *wireEntry) String() string { return proto.CompactTextString(m) }
func (*wireEntry) ProtoMessage()    {}

// Encode - a framed message ready to write to a stream
func Encode(m *Message) ([]byte, error) {
	w := &wireMessage{
		StartEpoch:   m.StartEpoch,
		EndEpoch:     m.EndEpoch,
		CurrentEpoch: m.CurrentEpoch,
		Entries:      make([]*wireEntry, 0, len(m.Entries)),
	}
	for _, e := range m.Entries {
		w.Entries = append(w.Entries, &wireEntry{
			Timestamp: e.Timestamp,
			Pin:       e.Pin,
			Hash:      e.Hash,
		})
	}

	payload, err := proto.Marshal(w)
	if nil != err {
		return nil, fault.ErrEncodeFailure
	}
	frame, err := p2p.Frame(ProtocolID, payload)
	if nil != err {
		return nil, fault.ErrEncodeFailure
	}
	return frame, nil
}

// Decode - unpack and validate a framed message
//
// returns the message and the raw payload
func Decode(incoming []byte) (*Message, []byte, error) {
	payload, err := p2p.ParseFrame(ProtocolID, incoming)
	if nil != err {
		return nil, nil, err
	}

	w := &wireMessage{}
	if err := proto.Unmarshal(payload, w); nil != err {
		return nil, nil, fault.ErrTruncatedFrame
	}
	if err := validate(w); nil != err {
		return nil, nil, err
	}

	m := &Message{
		StartEpoch:   w.StartEpoch,
		EndEpoch:     w.EndEpoch,
		CurrentEpoch: w.CurrentEpoch,
		Entries:      make([]*Entry, 0, len(w.Entries)),
	}
	for _, e := range w.Entries {
		m.Entries = append(m.Entries, &Entry{
			Timestamp: e.Timestamp,
			Pin:       e.Pin,
			Hash:      e.Hash,
		})
	}
	return m, payload, nil
}

func validate(w *wireMessage) error {
	if w.StartEpoch > w.EndEpoch {
		return fault.ErrInvalidEpochRange
	}
	if len(w.Entries) > MaxEntries {
		return fault.ErrTooManyEntries
	}
	for _, e := range w.Entries {
		if nil == e {
			return fault.ErrTruncatedFrame
		}
		if e.Timestamp < w.StartEpoch || e.Timestamp > w.EndEpoch {
			return fault.ErrInvalidEpochRange
		}
		if len(e.Hash) > MaxHashSize {
			return fault.ErrHashTooLarge
		}
		if _, err := multihash.Cast(e.Hash); nil != err {
			return fault.ErrInvalidHash
		}
	}
	return nil
}
