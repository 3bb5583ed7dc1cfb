// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package journal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/journal"
	"github.com/bitmark-inc/cidnoded/p2p"
)

func TestEncodeDecode(t *testing.T) {
	m, _ := journal.BuildMessage([]journal.Record{
		makeRecord(5, "a"),
		makeRecord(20, "b"),
		makeRecord(9, "c"),
	}, nil)
	m.CurrentEpoch = 1234

	frame, err := journal.Encode(m)
	assert.Nil(t, err, "encode error")
	assert.True(t, p2p.HasIdentifier(journal.ProtocolID, frame), "header missing")
	assert.Equal(t, journal.ProtocolID+"\n", string(frame[:len(journal.ProtocolID)+1]), "wrong header line")

	decoded, payload, err := journal.Decode(frame)
	assert.Nil(t, err, "decode error")
	assert.NotEqual(t, 0, len(payload), "empty payload")
	assert.Equal(t, m.StartEpoch, decoded.StartEpoch, "wrong start")
	assert.Equal(t, m.EndEpoch, decoded.EndEpoch, "wrong end")
	assert.Equal(t, uint64(1234), decoded.CurrentEpoch, "wrong current")
	assert.Equal(t, len(m.Entries), len(decoded.Entries), "wrong entry count")
	for i := range m.Entries {
		assert.Equal(t, *m.Entries[i], *decoded.Entries[i], "wrong entry: %d", i)
	}
}

// encode without the build time checks
func rawFrame(t *testing.T, m *journal.Message) []byte {
	frame, err := journal.Encode(m)
	if nil != err {
		t.Fatalf("encode error: %s", err)
	}
	return frame
}

func TestDecodeRejects(t *testing.T) {
	good := rawFrame(t, &journal.Message{
		StartEpoch: 1,
		EndEpoch:   2,
		Entries:    []*journal.Entry{{Timestamp: 1, Pin: true, Hash: makeHash("a")}},
	})

	tooMany := &journal.Message{StartEpoch: 1, EndEpoch: 1}
	for i := 0; i <= journal.MaxEntries; i += 1 {
		tooMany.Entries = append(tooMany.Entries, &journal.Entry{Timestamp: 1, Pin: true, Hash: makeHash("x")})
	}

	wrongHeader, _ := p2p.Frame("/ipfs/journal/0.9.0", []byte{})
	garbage, _ := p2p.Frame(journal.ProtocolID, []byte{0x08, 0xff})

	items := []struct {
		name     string
		incoming []byte
		err      error
	}{
		{"empty", []byte{}, fault.ErrInvalidHeader},
		{"wrong header", wrongHeader, fault.ErrInvalidHeader},
		{"truncated", good[:len(good)-3], fault.ErrTruncatedFrame},
		{"garbage", garbage, fault.ErrTruncatedFrame},
		{"reversed epochs", rawFrame(t, &journal.Message{StartEpoch: 9, EndEpoch: 2}), fault.ErrInvalidEpochRange},
		{"entry out of range", rawFrame(t, &journal.Message{
			StartEpoch: 1,
			EndEpoch:   2,
			Entries:    []*journal.Entry{{Timestamp: 3, Pin: true, Hash: makeHash("a")}},
		}), fault.ErrInvalidEpochRange},
		{"invalid hash", rawFrame(t, &journal.Message{
			StartEpoch: 1,
			EndEpoch:   2,
			Entries:    []*journal.Entry{{Timestamp: 1, Pin: true, Hash: []byte("not a multihash")}},
		}), fault.ErrInvalidHash},
		{"too many entries", rawFrame(t, tooMany), fault.ErrTooManyEntries},
	}

	for _, item := range items {
		m, _, err := journal.Decode(item.incoming)
		assert.Nil(t, m, item.name)
		assert.Equal(t, item.err, err, item.name)
	}

	_, _, err := journal.Decode(good)
	assert.Nil(t, err, "good frame rejected")
}
