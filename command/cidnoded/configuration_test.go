// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/journal"
)

const luaConfiguration = `
local M = {}

M.data_directory = "."
M.pidfile = "cidnoded.pid"

M.p2p = {
    listen = { "127.0.0.1:2136" },
}

M.exchange = {
    rate_limit = 50,
}

M.journal = {
    window = 20,
    interval = "15s",
    announce = true,
    peers = {
        {
            peer_id = "12D3KooWBtgd1DtU6qa2ySYzLdLRgL7bzsBQqHYmSh6kp6wsvbSm",
            address = "/ip4/127.0.0.1/tcp/2137",
        },
    },
}

M.status = {
    listen = "127.0.0.1:2180",
}

M.logging = {
    size = 4096,
    count = 3,
    levels = {
        DEFAULT = "info",
    },
}

return M
`

const yamlConfiguration = `
data_directory: "."
journal:
  window: 5
  dial_timeout: 3s
`

func writeConfiguration(t *testing.T, name string, text string) (string, string) {
	dir, err := ioutil.TempDir("", "cidnoded-config")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	fileName := filepath.Join(dir, name)
	if err := ioutil.WriteFile(fileName, []byte(text), 0600); nil != err {
		t.Fatalf("write error: %s", err)
	}
	return dir, fileName
}

func TestGetConfigurationLua(t *testing.T) {
	dir, fileName := writeConfiguration(t, "cidnoded.conf", luaConfiguration)
	defer os.RemoveAll(dir)

	options, err := getConfiguration(fileName)
	assert.Nil(t, err, "configuration error")

	assert.Equal(t, filepath.Join(dir, "cidnoded.pid"), options.PidFile, "pid file not absolute")
	assert.Equal(t, filepath.Join(dir, defaultPeerKeyFile), options.PeerKeyFile, "key file not absolute")
	assert.Equal(t, filepath.Join(dir, defaultLevelDBDirectory, defaultDatabase), options.Database.Name, "wrong database")
	assert.Equal(t, []string{"127.0.0.1:2136"}, options.P2P.Listen, "wrong listen")
	assert.Equal(t, defaultLowConnections, options.P2P.LowConnections, "default lost")
	assert.Equal(t, float64(50), options.Exchange.RateLimit, "wrong rate limit")
	assert.Equal(t, defaultBurst, options.Exchange.Burst, "default lost")

	assert.Equal(t, 20, options.Journal.Window, "wrong window")
	assert.Equal(t, 15*time.Second, options.Journal.interval, "wrong interval")
	assert.Equal(t, journal.DefaultDialTimeout, options.Journal.dialTimeout, "wrong dial timeout")
	assert.Equal(t, journal.DefaultSyncTimeout, options.Journal.syncTimeout, "wrong sync timeout")
	assert.True(t, options.Journal.Announce, "announce not set")
	assert.Equal(t, 1, len(options.Journal.Peers), "wrong peer count")
	assert.Equal(t, "/ip4/127.0.0.1/tcp/2137", options.Journal.Peers[0].Address, "wrong peer address")

	assert.Equal(t, "127.0.0.1:2180", options.Status.Listen, "wrong status listen")
	assert.Equal(t, 4096, options.Logging.Size, "wrong log size")
	assert.Equal(t, filepath.Join(dir, defaultLogDirectory), options.Logging.Directory, "log directory not absolute")

	_, err = os.Stat(filepath.Join(dir, defaultLevelDBDirectory))
	assert.Nil(t, err, "database directory not created")
}

func TestGetConfigurationYAML(t *testing.T) {
	dir, fileName := writeConfiguration(t, "cidnoded.yaml", yamlConfiguration)
	defer os.RemoveAll(dir)

	options, err := getConfiguration(fileName)
	assert.Nil(t, err, "configuration error")
	assert.Equal(t, 5, options.Journal.Window, "wrong window")
	assert.Equal(t, 3*time.Second, options.Journal.dialTimeout, "wrong dial timeout")
	assert.Equal(t, journal.DefaultInterval, options.Journal.interval, "wrong interval")
}

func TestGetConfigurationRejects(t *testing.T) {
	items := []struct {
		name string
		text string
	}{
		{"no data directory", "return { journal = { window = 3 } }"},
		{"zero window", `return { data_directory = ".", journal = { window = 0 } }`},
		{"bad interval", `return { data_directory = ".", journal = { interval = "soon" } }`},
		{"negative timeout", `return { data_directory = ".", journal = { sync_timeout = "-1s" } }`},
		{"peer without id", `return { data_directory = ".", journal = { peers = { { address = "/ip4/1.2.3.4/tcp/1" } } } }`},
		{"database path", `return { data_directory = ".", database = { name = "a/b.leveldb" } }`},
	}

	for _, item := range items {
		dir, fileName := writeConfiguration(t, "cidnoded.conf", item.text)
		_, err := getConfiguration(fileName)
		assert.NotNil(t, err, item.name)
		os.RemoveAll(dir)
	}
}

func TestPeerPrivateKey(t *testing.T) {
	dir, fileName := writeConfiguration(t, "peer.private", "  0801abcd\n")
	defer os.RemoveAll(dir)

	options := &Configuration{PeerKeyFile: fileName}
	key, err := peerPrivateKey(options)
	assert.Nil(t, err, "key file error")
	assert.Equal(t, "  0801abcd\n", key, "wrong key text")

	options.P2P.PrivateKey = "0801ffff"
	key, _ = peerPrivateKey(options)
	assert.Equal(t, "0801ffff", key, "inline key ignored")

	options = &Configuration{PeerKeyFile: filepath.Join(dir, "missing")}
	_, err = peerPrivateKey(options)
	assert.True(t, fault.IsErrInvalid(err), "wrong error: %v", err)
}
