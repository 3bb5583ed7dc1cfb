// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type AllocationError GenericError
type ConnectionError GenericError
type EmptyError GenericError
type ExistsError GenericError
type IOError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type SecurityError GenericError

// common errors - keep in alphabetic order
var (
	ErrAllocationFailure     = AllocationError("allocation failure")
	ErrAlreadyInitialised    = ExistsError("already initialised")
	ErrConnectionUnavailable = ConnectionError("connection unavailable")
	ErrDatabaseIsNotSet      = ProcessError("database is not set")
	ErrEmptyIdentifier       = InvalidError("protocol identifier is empty")
	ErrEncodeFailure         = ProcessError("encode failure")
	ErrFrameTooLarge         = InvalidError("frame too large")
	ErrHandlerExists         = ExistsError("protocol handler already registered")
	ErrHashTooLarge          = AllocationError("hash too large")
	ErrInsecureChannel       = SecurityError("no authenticated session")
	ErrInvalidConfiguration  = InvalidError("invalid configuration")
	ErrInvalidCursor         = InvalidError("invalid cursor")
	ErrInvalidEpochRange     = InvalidError("invalid epoch range")
	ErrInvalidHash           = InvalidError("invalid hash")
	ErrInvalidHeader         = InvalidError("invalid protocol header")
	ErrInvalidKeyLength      = InvalidError("invalid key length")
	ErrInvalidLoggerChannel  = InvalidError("invalid logger channel")
	ErrInvalidPeerID         = InvalidError("invalid peer id")
	ErrInvalidStructPointer  = InvalidError("invalid struct pointer")
	ErrInvalidWindow         = InvalidError("invalid journal window")
	ErrKeyFileAlreadyExists  = ExistsError("key file already exists")
	ErrLocalPeer             = SecurityError("peer is the local node")
	ErrMissingListenAddress  = InvalidError("missing listen address")
	ErrMissingPrivateKey     = InvalidError("missing private key")
	ErrNilPeer               = InvalidError("peer is nil")
	ErrNilRequest            = InvalidError("request is nil")
	ErrNoHandler             = NotFoundError("no protocol handler for stream")
	ErrNotInitialised        = NotFoundError("not initialised")
	ErrPeerNotFound          = NotFoundError("peer not found")
	ErrQueueEmpty            = EmptyError("queue is empty")
	ErrReplayedMessage       = ExistsError("message already received")
	ErrRequestNotFound       = NotFoundError("request not found")
	ErrTooManyEntries        = InvalidError("too many journal entries")
	ErrTruncatedFrame        = InvalidError("truncated frame")
	ErrUndefinedCID          = InvalidError("content identifier is undefined")
	ErrUnsupportedConfigFile = InvalidError("unsupported configuration file type")
	ErrWriteFailure          = IOError("write failure")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AllocationError) Error() string { return string(e) }
func (e ConnectionError) Error() string { return string(e) }
func (e EmptyError) Error() string      { return string(e) }
func (e ExistsError) Error() string     { return string(e) }
func (e IOError) Error() string         { return string(e) }
func (e InvalidError) Error() string    { return string(e) }
func (e NotFoundError) Error() string   { return string(e) }
func (e ProcessError) Error() string    { return string(e) }
func (e SecurityError) Error() string   { return string(e) }

// determine the class of an error, unwrapping any %w chain
func IsErrAllocation(e error) bool { var t AllocationError; return errors.As(e, &t) }
func IsErrConnection(e error) bool { var t ConnectionError; return errors.As(e, &t) }
func IsErrEmpty(e error) bool      { var t EmptyError; return errors.As(e, &t) }
func IsErrExists(e error) bool     { var t ExistsError; return errors.As(e, &t) }
func IsErrIO(e error) bool         { var t IOError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool    { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool   { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool    { var t ProcessError; return errors.As(e, &t) }
func IsErrSecurity(e error) bool   { var t SecurityError; return errors.As(e, &t) }
