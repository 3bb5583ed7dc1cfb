// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cidnoded/configuration"
	"github.com/bitmark-inc/cidnoded/fault"
)

type journalBlock struct {
	Window   int    `gluamapper:"window" yaml:"window"`
	Interval string `gluamapper:"interval" yaml:"interval"`
}

type testConfiguration struct {
	Name    string       `gluamapper:"name" yaml:"name"`
	Port    int          `gluamapper:"port" yaml:"port"`
	Listen  []string     `gluamapper:"listen" yaml:"listen"`
	Journal journalBlock `gluamapper:"journal" yaml:"journal"`
}

const luaText = `
local node = "node-" .. suffix
return {
    name = node,
    port = 2136,
    listen = { "127.0.0.1:2136", "[::1]:2136" },
    journal = {
        window = 10,
        interval = "1m",
    },
}
`

const yamlText = `
name: node-yaml
port: 2137
listen:
  - 127.0.0.1:2137
journal:
  window: 12
  interval: 30s
`

func writeFile(t *testing.T, dir string, name string, text string) string {
	fileName := filepath.Join(dir, name)
	err := ioutil.WriteFile(fileName, []byte(text), 0600)
	assert.NoError(t, err, "write configuration file")
	return fileName
}

func TestParseLua(t *testing.T) {
	dir, err := ioutil.TempDir("", "configuration")
	assert.NoError(t, err, "temporary directory")
	defer os.RemoveAll(dir)

	fileName := writeFile(t, dir, "test.lua", luaText)

	var c testConfiguration
	err = configuration.ParseConfigurationFileWithVariables(fileName, &c, map[string]string{"suffix": "lua"})
	assert.NoError(t, err, "parse lua")
	assert.Equal(t, "node-lua", c.Name, "name")
	assert.Equal(t, 2136, c.Port, "port")
	assert.Equal(t, []string{"127.0.0.1:2136", "[::1]:2136"}, c.Listen, "listen")
	assert.Equal(t, 10, c.Journal.Window, "window")
	assert.Equal(t, "1m", c.Journal.Interval, "interval")
}

func TestParseYAML(t *testing.T) {
	dir, err := ioutil.TempDir("", "configuration")
	assert.NoError(t, err, "temporary directory")
	defer os.RemoveAll(dir)

	fileName := writeFile(t, dir, "test.yaml", yamlText)

	var c testConfiguration
	err = configuration.ParseConfigurationFile(fileName, &c)
	assert.NoError(t, err, "parse yaml")
	assert.Equal(t, "node-yaml", c.Name, "name")
	assert.Equal(t, 2137, c.Port, "port")
	assert.Equal(t, []string{"127.0.0.1:2137"}, c.Listen, "listen")
	assert.Equal(t, 12, c.Journal.Window, "window")
	assert.Equal(t, "30s", c.Journal.Interval, "interval")
}

func TestParseRejects(t *testing.T) {
	var c testConfiguration

	err := configuration.ParseConfigurationFile("settings.ini", &c)
	assert.Equal(t, fault.ErrUnsupportedConfigFile, err, "unknown extension")

	err = configuration.ParseConfigurationFile("settings.lua", c)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "non-pointer")

	err = configuration.ParseConfigurationFile("/nonexistent/settings.lua", &c)
	assert.Error(t, err, "missing file")
}
