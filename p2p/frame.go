// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"bufio"
	"bytes"
	"io"

	"github.com/multiformats/go-varint"

	"github.com/bitmark-inc/cidnoded/fault"
)

// frame limits
const (
	MaxIdentifierLength = 64
	MaxPayloadSize      = 4 * 1024 * 1024
)

const headerTerminator = '\n'

// HasIdentifier - true if the frame starts with the identifier at offset zero
func HasIdentifier(identifier string, incoming []byte) bool {
	if 0 == len(identifier) || len(incoming) < len(identifier) {
		return false
	}
	return identifier == string(incoming[:len(identifier)])
}

// Frame - wrap a payload with its identifier line and length
func Frame(identifier string, payload []byte) ([]byte, error) {
	if 0 == len(identifier) {
		return nil, fault.ErrEmptyIdentifier
	}
	if len(identifier) > MaxIdentifierLength {
		return nil, fault.ErrInvalidHeader
	}
	if len(payload) > MaxPayloadSize {
		return nil, fault.ErrFrameTooLarge
	}

	length := varint.ToUvarint(uint64(len(payload)))
	frame := make([]byte, 0, len(identifier)+1+len(length)+len(payload))
	frame = append(frame, identifier...)
	frame = append(frame, headerTerminator)
	frame = append(frame, length...)
	return append(frame, payload...), nil
}

// ParseFrame - check the header of a frame and return its payload
//
// the payload is a sub-slice of incoming
func ParseFrame(identifier string, incoming []byte) ([]byte, error) {
	if !HasIdentifier(identifier, incoming) {
		return nil, fault.ErrInvalidHeader
	}
	rest := incoming[len(identifier):]
	if 0 == len(rest) || headerTerminator != rest[0] {
		return nil, fault.ErrInvalidHeader
	}
	rest = rest[1:]

	length, n, err := varint.FromUvarint(rest)
	if nil != err {
		return nil, fault.ErrTruncatedFrame
	}
	if length > MaxPayloadSize {
		return nil, fault.ErrFrameTooLarge
	}
	rest = rest[n:]
	if uint64(len(rest)) != length {
		return nil, fault.ErrTruncatedFrame
	}
	return rest, nil
}

// read one complete frame from a stream
//
// returns io.EOF only if the stream ended cleanly before a frame started
func readFrame(reader *bufio.Reader) ([]byte, error) {
	header, err := reader.ReadSlice(headerTerminator)
	if io.EOF == err && 0 == len(header) {
		return nil, io.EOF
	}
	if nil != err {
		return nil, fault.ErrInvalidHeader
	}
	if len(header) > MaxIdentifierLength+1 || 1 == len(header) {
		return nil, fault.ErrInvalidHeader
	}

	// header aliases the reader buffer
	frame := bytes.NewBuffer(make([]byte, 0, len(header)+16))
	frame.Write(header)

	length, err := varint.ReadUvarint(reader)
	if nil != err {
		return nil, fault.ErrTruncatedFrame
	}
	if length > MaxPayloadSize {
		return nil, fault.ErrFrameTooLarge
	}
	frame.Write(varint.ToUvarint(length))

	payload := make([]byte, length)
	if _, err := io.ReadFull(reader, payload); nil != err {
		return nil, fault.ErrTruncatedFrame
	}
	frame.Write(payload)
	return frame.Bytes(), nil
}
