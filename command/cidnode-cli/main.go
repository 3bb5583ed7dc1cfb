// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/cidnoded/storage"
	"github.com/bitmark-inc/logger"
)

type metadata struct {
	database string
	verbose  bool
	e        io.Writer
	w        io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// commands that only read the database
var readOnlyCommands = map[string]bool{
	"list":  true,
	"peers": true,
}

func main() {

	logging := logger.Configuration{
		Directory: os.TempDir(),
		File:      "cidnode-cli.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if err := logger.Initialise(logging); nil != err {
		fmt.Fprintf(os.Stderr, "logger setup failed with error: %s\n", err)
		os.Exit(1)
	}

	app := newApp(os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	logger.Finalise()
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "cidnode-cli"
	app.Usage = "inspect and update a stopped cidnoded database"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "database, d",
			Value: "",
			Usage: "*leveldb directory of the node `PATH`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "pin",
			Usage:     "record a content identifier in the local journal",
			ArgsUsage: "CID\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "timestamp, t",
					Value: 0,
					Usage: " journal time `SECONDS` default is now",
				},
			},
			Action: runPin,
		},
		{
			Name:      "list",
			Usage:     "list journal records, newest first",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runList,
		},
		{
			Name:      "peers",
			Usage:     "list replication bookkeeping",
			ArgsUsage: "\n   (* = required)",
			Action:    runPeers,
		},
		{
			Name:      "keygen",
			Usage:     "generate a node private key",
			ArgsUsage: "\n   (* = required)",
			Action:    runKeygen,
		},
		{
			Name:  "version",
			Usage: "display cidnode-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		command := c.Args().Get(0)
		switch command {
		case "pin", "list", "peers":
		default:
			// no database needed
			return nil
		}

		database := c.GlobalString("database")
		if "" == database {
			return fmt.Errorf("missing --database option")
		}

		if verbose {
			fmt.Fprintf(e, "database: %q\n", database)
		}

		if err := storage.Initialise(database, readOnlyCommands[command]); nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			database: database,
			verbose:  verbose,
			e:        e,
			w:        w,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		if _, ok := c.App.Metadata["config"].(*metadata); ok {
			storage.Finalise()
		}
		return nil
	}

	return app
}
