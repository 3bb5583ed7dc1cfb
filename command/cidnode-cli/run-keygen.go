// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/cidnoded/util"
)

type keygenResult struct {
	PrivateKey string `json:"private_key"`
	PeerID     string `json:"peer_id"`
}

func runKeygen(c *cli.Context) error {

	key, err := util.MakeEd25519PeerKey()
	if nil != err {
		return err
	}
	id, err := util.PeerIDFromHexKey(key)
	if nil != err {
		return err
	}

	return printJson(c.App.Writer, keygenResult{
		PrivateKey: key,
		PeerID:     id.Pretty(),
	})
}
