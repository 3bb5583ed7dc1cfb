// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua or YAML configuration file
//
// for Lua most of base Lua is available such as reading files to set
// key data and getenv to extract environment supplied items; the file
// must return a single table.  Variables passed by the caller are
// available as Lua globals before the file runs.
package configuration
