// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"
)

const testingDirName = "testing"

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func removeFiles() {
	_ = os.RemoveAll(testingDirName)
}

func TestMain(m *testing.M) {
	setupTestLogger()
	rc := m.Run()
	logger.Finalise()
	removeFiles()
	os.Exit(rc)
}

func run(t *testing.T, arguments ...string) (string, error) {
	var w bytes.Buffer
	var e bytes.Buffer
	app := newApp(&w, &e)
	err := app.Run(append([]string{"cidnode-cli"}, arguments...))
	return w.String(), err
}

func makeCid(t *testing.T, data string) cid.Cid {
	mh, err := multihash.Sum([]byte(data), multihash.SHA2_256, -1)
	if nil != err {
		t.Fatalf("hash error: %s", err)
	}
	return cid.NewCidV1(cid.Raw, mh)
}

func TestPinAndList(t *testing.T) {
	database := filepath.Join(testingDirName, "cli.leveldb")
	defer os.RemoveAll(database)

	first := makeCid(t, "first")
	second := makeCid(t, "second")

	out, err := run(t, "--database", database, "pin", "--timestamp", "100", first.String())
	assert.Nil(t, err, "pin error")

	var pinned pinResult
	assert.Nil(t, json.Unmarshal([]byte(out), &pinned), "pin output")
	assert.Equal(t, uint64(100), pinned.Timestamp, "wrong timestamp")
	assert.Equal(t, base58.Encode(first.Hash()), pinned.Hash, "wrong hash")

	_, err = run(t, "--database", database, "pin", "--timestamp", "200", second.String())
	assert.Nil(t, err, "pin error")

	out, err = run(t, "--database", database, "list")
	assert.Nil(t, err, "list error")

	var entries []listEntry
	assert.Nil(t, json.Unmarshal([]byte(out), &entries), "list output")
	assert.Equal(t, 2, len(entries), "wrong entry count")
	assert.Equal(t, uint64(200), entries[0].Timestamp, "newest not first")
	assert.Equal(t, base58.Encode(second.Hash()), entries[0].Hash, "wrong hash")
	assert.Equal(t, localOrigin, entries[0].Origin, "wrong origin")
	assert.Equal(t, uint64(100), entries[1].Timestamp, "wrong order")

	out, err = run(t, "--database", database, "list", "--count", "1")
	assert.Nil(t, err, "list error")
	entries = nil
	assert.Nil(t, json.Unmarshal([]byte(out), &entries), "list output")
	assert.Equal(t, 1, len(entries), "count ignored")

	out, err = run(t, "--database", database, "peers")
	assert.Nil(t, err, "peers error")
	var peers []peerEntry
	assert.Nil(t, json.Unmarshal([]byte(out), &peers), "peers output")
	assert.Equal(t, 0, len(peers), "unexpected peers")
}

func TestPinRejects(t *testing.T) {
	database := filepath.Join(testingDirName, "reject.leveldb")
	defer os.RemoveAll(database)

	_, err := run(t, "pin", makeCid(t, "x").String())
	assert.NotNil(t, err, "missing database accepted")

	_, err = run(t, "--database", database, "pin", "not-a-cid")
	assert.NotNil(t, err, "bad cid accepted")

	_, err = run(t, "--database", database, "pin")
	assert.NotNil(t, err, "missing cid accepted")
}

func TestKeygen(t *testing.T) {
	out, err := run(t, "keygen")
	assert.Nil(t, err, "keygen error")

	var result keygenResult
	assert.Nil(t, json.Unmarshal([]byte(out), &result), "keygen output")
	assert.NotEqual(t, "", result.PrivateKey, "missing key")
	assert.NotEqual(t, "", result.PeerID, "missing peer id")
}
