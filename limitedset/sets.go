// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package limitedset - a set of strings that remembers at most a
// fixed number of the most recently added items
package limitedset

import (
	"container/list"
	"sync"
)

// LimitedSet - bounded set, least recently added item is evicted first
type LimitedSet struct {
	sync.Mutex
	size  int
	order *list.List
	items map[string]*list.Element
}

// New - create a new limited set that holds up to 'n' items
//
// returns nil if n is not positive
func New(n int) *LimitedSet {
	if n <= 0 {
		return nil
	}
	return &LimitedSet{
		size:  n,
		order: list.New(),
		items: make(map[string]*list.Element, n),
	}
}

// Add - add an item to the set
//
// returns true if the item was not already present; an item that
// was present is refreshed to be the newest
func (ls *LimitedSet) Add(item string) bool {
	ls.Lock()
	defer ls.Unlock()

	if e, ok := ls.items[item]; ok {
		ls.order.MoveToBack(e)
		return false
	}

	if ls.order.Len() >= ls.size {
		oldest := ls.order.Front()
		ls.order.Remove(oldest)
		delete(ls.items, oldest.Value.(string))
	}
	ls.items[item] = ls.order.PushBack(item)
	return true
}

// Remove - forget an item, no effect if not present
func (ls *LimitedSet) Remove(item string) {
	ls.Lock()
	defer ls.Unlock()

	if e, ok := ls.items[item]; ok {
		ls.order.Remove(e)
		delete(ls.items, item)
	}
}

// Exists - check to see if item is in the set
func (ls *LimitedSet) Exists(item string) bool {
	ls.Lock()
	defer ls.Unlock()
	_, ok := ls.items[item]
	return ok
}

// Len - number of items currently held
func (ls *LimitedSet) Len() int {
	ls.Lock()
	defer ls.Unlock()
	return ls.order.Len()
}
