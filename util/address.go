// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	ma "github.com/multiformats/go-multiaddr"

	"github.com/bitmark-inc/cidnoded/fault"
)

// ParseHostPort - parse host:port  return version(ip4/ip6), ip, port, error
func ParseHostPort(hostPort string) (string, string, string, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return "", "", "", err
	}
	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err {
		return "", "", "", err
	}
	if numericPort < 1 || numericPort > 65535 {
		return "", "", "", fault.ErrInvalidConfiguration
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	if nil == ip {
		return "", "", "", fault.ErrInvalidConfiguration
	}
	version := "ip6"
	if nil != ip.To4() {
		version = "ip4"
	}
	return version, ip.String(), strconv.Itoa(numericPort), nil
}

// ListenAddresses - convert host:port strings to tcp multiaddrs
//
// "*:port" expands to both 0.0.0.0:port and [::]:port, a string that
// already is a multiaddr is used as is, duplicates are merged
func ListenAddresses(addresses []string) ([]ma.Multiaddr, error) {
	unique := make(map[string]struct{})
	for _, address := range addresses {
		address = strings.TrimSpace(address)
		if strings.HasPrefix(address, "/") {
			unique[address] = struct{}{}
			continue
		}
		if strings.HasPrefix(address, "*:") {
			port := address[2:]
			unique["/ip4/0.0.0.0/tcp/"+port] = struct{}{}
			unique["/ip6/::/tcp/"+port] = struct{}{}
			continue
		}
		version, ip, port, err := ParseHostPort(address)
		if nil != err {
			return nil, fmt.Errorf("address: %q  error: %w", address, err)
		}
		unique[fmt.Sprintf("/%s/%s/tcp/%s", version, ip, port)] = struct{}{}
	}

	keys := make([]string, 0, len(unique))
	for k := range unique {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]ma.Multiaddr, 0, len(keys))
	for _, k := range keys {
		addr, err := ma.NewMultiaddr(k)
		if nil != err {
			return nil, fmt.Errorf("address: %q  error: %w", k, err)
		}
		result = append(result, addr)
	}
	return result, nil
}
