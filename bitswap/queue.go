// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitswap

import (
	"container/list"
	"sync"

	"github.com/bitmark-inc/cidnoded/fault"
)

// Queue - FIFO of peer requests that also supports removal by identity
//
// every operation holds the one lock for its full duration; the
// index maps an identity to its queued elements, oldest first
type Queue struct {
	sync.Mutex
	order *list.List
	index map[requestKey][]*list.Element
	ready chan struct{}
}

// NewQueue - create an empty queue
func NewQueue() *Queue {
	return &Queue{
		order: list.New(),
		index: make(map[requestKey][]*list.Element),
		ready: make(chan struct{}, 1),
	}
}

// Add - append a request to the tail of the queue
//
// duplicate requests are kept, each is served in turn
func (q *Queue) Add(request *PeerRequest) error {
	if nil == request {
		return fault.ErrNilRequest
	}

	q.Lock()
	k := request.key()
	q.index[k] = append(q.index[k], q.order.PushBack(request))
	q.Unlock()

	// wake a waiting consumer, never block
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Pop - remove and return the request at the head of the queue
func (q *Queue) Pop() (*PeerRequest, error) {
	q.Lock()
	defer q.Unlock()

	head := q.order.Front()
	if nil == head {
		return nil, fault.ErrQueueEmpty
	}
	return q.unlink(head), nil
}

// Find - the oldest queued request with the same identity as 'request'
func (q *Queue) Find(request *PeerRequest) (*PeerRequest, error) {
	if nil == request {
		return nil, fault.ErrNilRequest
	}

	q.Lock()
	defer q.Unlock()

	elements := q.index[request.key()]
	if 0 == len(elements) {
		return nil, fault.ErrRequestNotFound
	}
	return elements[0].Value.(*PeerRequest), nil
}

// Remove - drop the oldest queued request with the same identity as 'request'
func (q *Queue) Remove(request *PeerRequest) error {
	if nil == request {
		return fault.ErrNilRequest
	}

	q.Lock()
	defer q.Unlock()

	elements := q.index[request.key()]
	if 0 == len(elements) {
		return fault.ErrRequestNotFound
	}
	q.unlink(elements[0])
	return nil
}

// RemovePeer - drop every request of one peer
//
// returns the number of requests removed
func (q *Queue) RemovePeer(peerID PeerID) int {
	q.Lock()
	defer q.Unlock()

	n := 0
	for e := q.order.Front(); nil != e; {
		next := e.Next()
		if e.Value.(*PeerRequest).peerID == peerID {
			q.unlink(e)
			n += 1
		}
		e = next
	}
	return n
}

// Len - number of queued requests
func (q *Queue) Len() int {
	q.Lock()
	defer q.Unlock()
	return q.order.Len()
}

// Ready - signalled after an Add
//
// the channel holds at most one pending signal so a consumer must
// drain the queue each time it wakes
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Destroy - release every queued request
//
// returns the number of requests released; must not be called
// while other operations are in progress
func (q *Queue) Destroy() int {
	q.Lock()
	defer q.Unlock()

	n := q.order.Len()
	q.order.Init()
	q.index = make(map[requestKey][]*list.Element)
	return n
}

// take an element out of both the list and the index
//
// must be called with the lock held
func (q *Queue) unlink(e *list.Element) *PeerRequest {
	request := q.order.Remove(e).(*PeerRequest)

	k := request.key()
	elements := q.index[k]
	for i, element := range elements {
		if element == e {
			elements = append(elements[:i], elements[i+1:]...)
			break
		}
	}
	if 0 == len(elements) {
		delete(q.index, k)
	} else {
		q.index[k] = elements
	}
	return request
}
