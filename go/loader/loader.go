// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package loader converts hex-encoded byte-code inputs into executable code
// buffers.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/catena-vm/catena/go/catena"
)

// DecodeHex decodes a hex-encoded byte-code string. A leading "0x" prefix is
// optional; inputs of odd length or containing non-hex characters are
// rejected.
func DecodeHex(input string) (catena.Code, error) {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid byte-code: %w", err)
	}
	return data, nil
}

// LoadCode reads a hex-encoded byte-code file from disk and decodes it.
func LoadCode(path string) (catena.Code, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read code file: %w", err)
	}
	return DecodeHex(string(content))
}
