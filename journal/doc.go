// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package journal - replicate the local event log to approved peers
//
// Outbound: the Engine takes the newest window of records from the
// log store, builds a Message and pushes it to one replication peer
// over an authenticated stream.
//
// Inbound: the Handler recognises the protocol header, decodes and
// validates the Message and merges its entries into the local log.
//
// Every frame starts with the protocol identifier line:
//
//   /ipfs/journal/1.0.0\n
//
// followed by a varint length and a protobuf encoded Message.
package journal
