// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"context"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	madns "github.com/multiformats/go-multiaddr-dns"
)

const resolveTimeout = 10 * time.Second

// expand /dns4 /dns6 /dnsaddr addresses to ip addresses
func resolve(ctx context.Context, addr ma.Multiaddr) ([]ma.Multiaddr, error) {
	if !madns.Matches(addr) {
		return []ma.Multiaddr{addr}, nil
	}

	resolveCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	return madns.Resolve(resolveCtx, addr)
}
