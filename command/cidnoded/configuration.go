// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/cidnoded/configuration"
	"github.com/bitmark-inc/cidnoded/fault"
	"github.com/bitmark-inc/cidnoded/journal"
	"github.com/bitmark-inc/cidnoded/p2p"
	"github.com/bitmark-inc/cidnoded/util"
	"github.com/bitmark-inc/logger"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultPeerKeyFile = "peer.private"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "cidnode.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "cidnoded.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultLowConnections  = 25
	defaultHighConnections = 100

	defaultRateLimit = 0 // unlimited
	defaultBurst     = 16
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

type DatabaseType struct {
	Directory string `gluamapper:"directory" yaml:"directory" json:"directory"`
	Name      string `gluamapper:"name" yaml:"name" json:"name"`
}

type ExchangeType struct {
	RateLimit float64 `gluamapper:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	Burst     int     `gluamapper:"burst" yaml:"burst" json:"burst"`
}

type ReplicationPeerType struct {
	PeerID  string `gluamapper:"peer_id" yaml:"peer_id" json:"peer_id"`
	Address string `gluamapper:"address" yaml:"address" json:"address"`
}

type JournalType struct {
	Window      int                   `gluamapper:"window" yaml:"window" json:"window"`
	Interval    string                `gluamapper:"interval" yaml:"interval" json:"interval"`
	DialTimeout string                `gluamapper:"dial_timeout" yaml:"dial_timeout" json:"dial_timeout"`
	SyncTimeout string                `gluamapper:"sync_timeout" yaml:"sync_timeout" json:"sync_timeout"`
	Announce    bool                  `gluamapper:"announce" yaml:"announce" json:"announce"`
	Peers       []ReplicationPeerType `gluamapper:"peers" yaml:"peers" json:"peers"`

	// parsed from the strings above
	interval    time.Duration
	dialTimeout time.Duration
	syncTimeout time.Duration
}

type StatusType struct {
	Listen string `gluamapper:"listen" yaml:"listen" json:"listen"`
}

type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" yaml:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" yaml:"pidfile" json:"pidfile"`
	PeerKeyFile   string       `gluamapper:"peer_key_file" yaml:"peer_key_file" json:"peer_key_file"`
	Database      DatabaseType `gluamapper:"database" yaml:"database" json:"database"`

	P2P      p2p.Configuration    `gluamapper:"p2p" yaml:"p2p" json:"p2p"`
	Exchange ExchangeType         `gluamapper:"exchange" yaml:"exchange" json:"exchange"`
	Journal  JournalType          `gluamapper:"journal" yaml:"journal" json:"journal"`
	Status   StatusType           `gluamapper:"status" yaml:"status" json:"status"`
	Logging  logger.Configuration `gluamapper:"logging" yaml:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		PeerKeyFile:   defaultPeerKeyFile,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		P2P: p2p.Configuration{
			LowConnections:  defaultLowConnections,
			HighConnections: defaultHighConnections,
		},

		Exchange: ExchangeType{
			RateLimit: defaultRateLimit,
			Burst:     defaultBurst,
		},

		Journal: JournalType{
			Window:      journal.DefaultWindow,
			Interval:    journal.DefaultInterval.String(),
			DialTimeout: journal.DefaultDialTimeout.String(),
			SyncTimeout: journal.DefaultSyncTimeout.String(),
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	variables := map[string]string{
		"data_directory": dataDirectory,
	}
	if err := configuration.ParseConfigurationFileWithVariables(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	if options.Journal.Window < 1 {
		return nil, fmt.Errorf("%w: journal window: %d", fault.ErrInvalidWindow, options.Journal.Window)
	}
	durations := []struct {
		name  string
		text  string
		value *time.Duration
	}{
		{"interval", options.Journal.Interval, &options.Journal.interval},
		{"dial_timeout", options.Journal.DialTimeout, &options.Journal.dialTimeout},
		{"sync_timeout", options.Journal.SyncTimeout, &options.Journal.syncTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.text)
		if nil != err || v <= 0 {
			return nil, fmt.Errorf("%w: journal %s: %q", fault.ErrInvalidConfiguration, d.name, d.text)
		}
		*d.value = v
	}

	for i, p := range options.Journal.Peers {
		if "" == p.PeerID {
			return nil, fmt.Errorf("%w: journal peer[%d] has no peer_id", fault.ErrInvalidConfiguration, i)
		}
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("%w: path: %q is not a valid directory", fault.ErrInvalidConfiguration, options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("%w: path: %q is not a directory", fault.ErrInvalidConfiguration, options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.PeerKeyFile,
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.AbsolutePath(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	util.AbsoluteOptional(options.DataDirectory, &options.PidFile)

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.AbsolutePath(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("%w: files: %q is not plain name", fault.ErrInvalidConfiguration, *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.AbsolutePath(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// the node key, from the configuration or from the key file
func peerPrivateKey(options *Configuration) (string, error) {
	if "" != options.P2P.PrivateKey {
		return options.P2P.PrivateKey, nil
	}
	data, err := os.ReadFile(options.PeerKeyFile)
	if nil != err {
		return "", fmt.Errorf("%w: %s", fault.ErrMissingPrivateKey, err)
	}
	return string(data), nil
}
