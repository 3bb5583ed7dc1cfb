// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"path/filepath"
)

// AbsolutePath - name resolved against directory unless already absolute
func AbsolutePath(directory string, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(directory, name)
}

// AbsoluteOptional - rewrite each non-blank path in place
func AbsoluteOptional(directory string, paths ...*string) {
	for _, p := range paths {
		if "" != *p {
			*p = AbsolutePath(directory, *p)
		}
	}
}
