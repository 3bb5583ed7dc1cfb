// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bitswap - block exchange between peers
//
// Block requests received from remote peers are held in a Queue and
// served strictly in arrival order by the Engine. A peer may cancel
// a pending request, and all of a peer's requests are dropped when
// it disconnects.
//
// Frames on the wire:
//
//   /cidnode/bitswap/1.0.0\n ++ varint length ++ protobuf Message
package bitswap
