// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitswap_test

import (
	"sync"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cidnoded/bitswap"
	"github.com/bitmark-inc/cidnoded/fault"
)

// pop everything, returning requests in the order received
func drain(t *testing.T, q *bitswap.Queue) []*bitswap.PeerRequest {
	result := make([]*bitswap.PeerRequest, 0)
	for {
		r, err := q.Pop()
		if nil != err {
			assert.Equal(t, fault.ErrQueueEmpty, err, "wrong pop error")
			return result
		}
		result = append(result, r)
	}
}

func TestNewPeerRequest(t *testing.T) {
	_, err := bitswap.NewPeerRequest(1, cid.Undef)
	assert.Equal(t, fault.ErrUndefinedCID, err, "undefined cid accepted")

	r := makeRequest(t, 7, "data")
	assert.Equal(t, bitswap.PeerID(7), r.PeerID(), "wrong peer")
	assert.True(t, makeCid("data").Equals(r.Cid()), "wrong cid")

	assert.True(t, r.Equal(makeRequest(t, 7, "data")), "same identity not equal")
	assert.False(t, r.Equal(makeRequest(t, 8, "data")), "different peer equal")
	assert.False(t, r.Equal(makeRequest(t, 7, "other")), "different cid equal")
	assert.False(t, r.Equal(nil), "nil equal")
}

func TestPopEmpty(t *testing.T) {
	q := bitswap.NewQueue()
	r, err := q.Pop()
	assert.Nil(t, r, "request from empty queue")
	assert.Equal(t, fault.ErrQueueEmpty, err, "wrong error")
	assert.True(t, fault.IsErrEmpty(err), "wrong error class")
	assert.Equal(t, 0, q.Len(), "empty queue has length")
}

func TestFIFO(t *testing.T) {
	q := bitswap.NewQueue()
	expected := make([]*bitswap.PeerRequest, 0, 20)
	for i := 0; i < 20; i += 1 {
		r := makeRequest(t, bitswap.PeerID(i%3), blockName(i))
		expected = append(expected, r)
		assert.Nil(t, q.Add(r), "add error")
	}
	assert.Equal(t, 20, q.Len(), "wrong length")

	actual := drain(t, q)
	assert.Equal(t, len(expected), len(actual), "wrong count")
	for i := range expected {
		assert.Same(t, expected[i], actual[i], "wrong order at: %d", i)
	}
	assert.Equal(t, 0, q.Len(), "queue not empty")
}

func TestNilRequest(t *testing.T) {
	q := bitswap.NewQueue()
	assert.Equal(t, fault.ErrNilRequest, q.Add(nil), "add nil")
	assert.Equal(t, fault.ErrNilRequest, q.Remove(nil), "remove nil")
	_, err := q.Find(nil)
	assert.Equal(t, fault.ErrNilRequest, err, "find nil")
	assert.True(t, fault.IsErrInvalid(err), "wrong error class")
}

func TestRemove(t *testing.T) {
	items := []struct {
		name     string
		remove   int
		expected []int
	}{
		{"head", 0, []int{1, 2, 3, 4}},
		{"middle", 2, []int{0, 1, 3, 4}},
		{"tail", 4, []int{0, 1, 2, 3}},
	}

	for _, item := range items {
		q := bitswap.NewQueue()
		requests := make([]*bitswap.PeerRequest, 5)
		for i := range requests {
			requests[i] = makeRequest(t, 1, blockName(i))
			assert.Nil(t, q.Add(requests[i]), item.name)
		}

		// a distinct but equal request selects the queued entry
		err := q.Remove(makeRequest(t, 1, blockName(item.remove)))
		assert.Nil(t, err, item.name)
		assert.Equal(t, 4, q.Len(), item.name)

		_, err = q.Find(requests[item.remove])
		assert.Equal(t, fault.ErrRequestNotFound, err, item.name)

		actual := drain(t, q)
		assert.Equal(t, len(item.expected), len(actual), item.name)
		for i, n := range item.expected {
			assert.Same(t, requests[n], actual[i], "%s: position %d", item.name, i)
		}
	}
}

func TestRemoveOnlyEntry(t *testing.T) {
	q := bitswap.NewQueue()
	r := makeRequest(t, 1, "only")
	assert.Nil(t, q.Add(r), "add error")
	assert.Nil(t, q.Remove(r), "remove error")

	_, err := q.Pop()
	assert.Equal(t, fault.ErrQueueEmpty, err, "queue not empty")

	// queue is usable after becoming empty
	r2 := makeRequest(t, 2, "next")
	assert.Nil(t, q.Add(r2), "add error")
	actual := drain(t, q)
	assert.Equal(t, 1, len(actual), "wrong count")
	assert.Same(t, r2, actual[0], "wrong request")
}

func TestRemoveAbsent(t *testing.T) {
	q := bitswap.NewQueue()
	r1 := makeRequest(t, 1, "one")
	r2 := makeRequest(t, 1, "two")
	assert.Nil(t, q.Add(r1), "add error")
	assert.Nil(t, q.Add(r2), "add error")

	// same cid, different peer
	err := q.Remove(makeRequest(t, 2, "one"))
	assert.Equal(t, fault.ErrRequestNotFound, err, "wrong peer removed")
	assert.True(t, fault.IsErrNotFound(err), "wrong error class")

	// same peer, different cid
	err = q.Remove(makeRequest(t, 1, "three"))
	assert.Equal(t, fault.ErrRequestNotFound, err, "wrong cid removed")

	assert.Equal(t, 2, q.Len(), "queue changed")
	actual := drain(t, q)
	assert.Same(t, r1, actual[0], "wrong first")
	assert.Same(t, r2, actual[1], "wrong second")

	err = q.Remove(r1)
	assert.Equal(t, fault.ErrRequestNotFound, err, "remove from empty queue")
}

func TestDuplicates(t *testing.T) {
	q := bitswap.NewQueue()
	first := makeRequest(t, 1, "dup")
	other := makeRequest(t, 2, "other")
	second := makeRequest(t, 1, "dup")
	assert.Nil(t, q.Add(first), "add error")
	assert.Nil(t, q.Add(other), "add error")
	assert.Nil(t, q.Add(second), "add error")

	found, err := q.Find(second)
	assert.Nil(t, err, "find error")
	assert.Same(t, first, found, "find did not return the oldest")

	assert.Nil(t, q.Remove(second), "remove error")
	actual := drain(t, q)
	assert.Equal(t, 2, len(actual), "wrong count")
	assert.Same(t, other, actual[0], "wrong first")
	assert.Same(t, second, actual[1], "wrong second")
}

func TestRemovePeer(t *testing.T) {
	q := bitswap.NewQueue()
	keep := make([]*bitswap.PeerRequest, 0)
	for i := 0; i < 10; i += 1 {
		r := makeRequest(t, bitswap.PeerID(i%2), blockName(i))
		assert.Nil(t, q.Add(r), "add error")
		if 0 == i%2 {
			keep = append(keep, r)
		}
	}

	n := q.RemovePeer(1)
	assert.Equal(t, 5, n, "wrong removed count")
	assert.Equal(t, 0, q.RemovePeer(1), "second removal found requests")
	assert.Equal(t, 0, q.RemovePeer(42), "unknown peer had requests")

	actual := drain(t, q)
	assert.Equal(t, len(keep), len(actual), "wrong count")
	for i := range keep {
		assert.Same(t, keep[i], actual[i], "wrong order at: %d", i)
	}
}

func TestReady(t *testing.T) {
	q := bitswap.NewQueue()

	select {
	case <-q.Ready():
		t.Fatal("ready before add")
	default:
	}

	// several adds leave a single signal
	assert.Nil(t, q.Add(makeRequest(t, 1, "a")), "add error")
	assert.Nil(t, q.Add(makeRequest(t, 1, "b")), "add error")

	select {
	case <-q.Ready():
	default:
		t.Fatal("no ready signal")
	}
	select {
	case <-q.Ready():
		t.Fatal("second ready signal")
	default:
	}
}

func TestDestroy(t *testing.T) {
	q := bitswap.NewQueue()
	for i := 0; i < 7; i += 1 {
		assert.Nil(t, q.Add(makeRequest(t, 3, blockName(i))), "add error")
	}
	assert.Equal(t, 7, q.Destroy(), "wrong released count")
	assert.Equal(t, 0, q.Len(), "entries remain")
	_, err := q.Find(makeRequest(t, 3, blockName(0)))
	assert.Equal(t, fault.ErrRequestNotFound, err, "index not cleared")
}

func TestConcurrentAddPop(t *testing.T) {
	const (
		producers = 8
		perThread = 250
		consumers = 4
	)

	q := bitswap.NewQueue()

	var producing sync.WaitGroup
	producing.Add(producers)
	for p := 0; p < producers; p += 1 {
		go func(p int) {
			defer producing.Done()
			for i := 0; i < perThread; i += 1 {
				r, err := bitswap.NewPeerRequest(bitswap.PeerID(p), makeCid(blockName(i)))
				if nil == err {
					err = q.Add(r)
				}
				if nil != err {
					t.Errorf("producer: %d  error: %s", p, err)
				}
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		producing.Wait()
		close(done)
	}()

	var lock sync.Mutex
	seen := make(map[string]int)
	total := 0

	var consuming sync.WaitGroup
	consuming.Add(consumers)
	for c := 0; c < consumers; c += 1 {
		go func() {
			defer consuming.Done()
			for {
				r, err := q.Pop()
				if nil == err {
					lock.Lock()
					seen[r.String()] += 1
					total += 1
					lock.Unlock()
					continue
				}
				select {
				case <-done:
					// producers finished, stop once drained
					if 0 == q.Len() {
						return
					}
				default:
				}
			}
		}()
	}
	consuming.Wait()

	assert.Equal(t, producers*perThread, total, "wrong total")
	assert.Equal(t, producers*perThread, len(seen), "wrong distinct count")
	for k, n := range seen {
		assert.Equal(t, 1, n, "request: %s popped %d times", k, n)
	}
	assert.Equal(t, 0, q.Len(), "queue not empty")
	_, err := q.Pop()
	assert.Equal(t, fault.ErrQueueEmpty, err, "dangling entry")
}

func TestConcurrentRemove(t *testing.T) {
	q := bitswap.NewQueue()
	const n = 200
	for i := 0; i < n; i += 1 {
		assert.Nil(t, q.Add(makeRequest(t, 1, blockName(i))), "add error")
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i += 1 {
		go func(i int) {
			defer wg.Done()
			r, _ := bitswap.NewPeerRequest(1, makeCid(blockName(i)))
			if err := q.Remove(r); nil != err {
				t.Errorf("remove: %d  error: %s", i, err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, q.Len(), "queue not empty")
}
