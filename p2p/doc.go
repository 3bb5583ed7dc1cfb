// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package p2p - libp2p host, sessions and protocol dispatch
//
// All protocol traffic uses one libp2p stream protocol. Each stream
// carries one or more frames of the form:
//
//   identifier ++ "\n" ++ varint length ++ payload
//
// Incoming frames are offered to the registered handlers in turn and
// the first handler whose CanHandle accepts the frame receives it.
// Only connections that completed the TLS handshake with a verified
// remote key are treated as secure sessions.
package p2p
