// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/bitmark-inc/cidnoded/fault"
)

// ParseConfigurationFile - read a configuration file and assign the
// results to a configuration structure
//
// the file type is chosen from the extension: .lua or .yaml/.yml
func ParseConfigurationFile(fileName string, config interface{}) error {
	return ParseConfigurationFileWithVariables(fileName, config, nil)
}

// ParseConfigurationFileWithVariables - as ParseConfigurationFile but
// with extra global string variables visible to a Lua file
func ParseConfigurationFileWithVariables(fileName string, config interface{}, variables map[string]string) error {

	// since interface{} is untyped, have to verify type compatibility at run-time
	rv := reflect.ValueOf(config)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fault.ErrInvalidStructPointer
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".lua", ".conf":
		return parseLua(fileName, config, variables)
	case ".yaml", ".yml":
		return parseYAML(fileName, config)
	default:
		return fault.ErrUnsupportedConfigFile
	}
}
