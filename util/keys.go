// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	crypto "github.com/libp2p/go-libp2p-core/crypto"
	"github.com/libp2p/go-libp2p-core/peer"

	"github.com/bitmark-inc/cidnoded/fault"
)

// MakeEd25519PeerKey - generate a random ED25519 node key in hex string format
func MakeEd25519PeerKey() (string, error) {
	privateKey, _, err := crypto.GenerateKeyPairWithReader(crypto.Ed25519, 0, rand.Reader)
	if nil != err {
		return "", err
	}
	return EncodePrivateKeyToHex(privateKey)
}

// DecodePrivateKeyFromHex - decode a hex string to a private key
//
// surrounding whitespace is ignored so keys can be pasted from files
func DecodePrivateKeyFromHex(privateKey string) (crypto.PrivKey, error) {
	privateKey = strings.TrimSpace(privateKey)
	if 0 == len(privateKey) {
		return nil, fault.ErrMissingPrivateKey
	}
	keyBytes, err := hex.DecodeString(privateKey)
	if nil != err {
		return nil, err
	}
	return crypto.UnmarshalPrivateKey(keyBytes)
}

// EncodePrivateKeyToHex - encode a private key to a hex string
func EncodePrivateKeyToHex(privateKey crypto.PrivKey) (string, error) {
	keyBytes, err := crypto.MarshalPrivateKey(privateKey)
	if nil != err {
		return "", err
	}
	return hex.EncodeToString(keyBytes), nil
}

// PeerIDFromHexKey - the peer id that a hex private key will run as
func PeerIDFromHexKey(privateKey string) (peer.ID, error) {
	key, err := DecodePrivateKeyFromHex(privateKey)
	if nil != err {
		return "", err
	}
	return peer.IDFromPrivateKey(key)
}
