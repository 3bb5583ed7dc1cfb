// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/mr-tron/base58"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/cidnoded/journal"
	"github.com/bitmark-inc/cidnoded/storage"
)

type pinResult struct {
	Timestamp uint64 `json:"timestamp"`
	Hash      string `json:"hash"`
}

func runPin(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	text := strings.TrimSpace(c.Args().Get(0))
	if "" == text {
		return fmt.Errorf("missing CID argument")
	}

	id, err := cid.Decode(text)
	if nil != err {
		return err
	}

	timestamp := c.Uint64("timestamp")
	if 0 == timestamp {
		timestamp = uint64(time.Now().Unix())
	}

	record := journal.Record{
		Timestamp: timestamp,
		Hash:      id.Hash(),
	}

	if m.verbose {
		fmt.Fprintf(m.e, "cid: %s  record: %s\n", id, record)
	}

	if err := storage.Journal.Append(record, nil); nil != err {
		return err
	}

	return printJson(m.w, pinResult{
		Timestamp: record.Timestamp,
		Hash:      base58.Encode(record.Hash),
	})
}
