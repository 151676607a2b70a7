// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package catena defines the public interface of the Catena project: the
// types exchanged with an EVM interpreter, the interpreter interface itself,
// and a registry through which implementations are made available to client
// code.
package catena

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/holiman/uint256"
)

// Word is a 256-bit value in big-endian byte order, as it appears on the
// stack and in storage slots.
type Word [32]byte

// Key is the type used to address storage slots.
type Key [32]byte

// Hash is a 32-byte cryptographic hash, used for instance to identify code.
type Hash [32]byte

// Value is a 256-bit quantity in big-endian byte order, used for call values.
type Value [32]byte

// Code is the byte-code processed by an interpreter.
type Code []byte

// Data represents the input or output of a code execution.
type Data []byte

// Gas represents an amount of computation budget. It is modeled as a signed
// integer to make accidental underflows detectable; all valid gas values are
// non-negative.
type Gas int64

func (w Word) String() string {
	return fmt.Sprintf("0x%x", w[:])
}

func (k Key) String() string {
	return fmt.Sprintf("0x%x", k[:])
}

func (v Value) String() string {
	return v.ToUint256().String()
}

// ToUint256 interprets the value as a big-endian 256-bit integer.
func (v Value) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(v[:])
}

// ValueFromUint256 converts a *uint256.Int to a Value. A nil input yields
// the zero value.
func ValueFromUint256(value *uint256.Int) (result Value) {
	if value == nil {
		return result
	}
	return value.Bytes32()
}

// NewValue creates a new Value instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewValue(args ...uint64) (result Value) {
	if len(args) > 4 {
		panic("too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args); i++ {
		start := (offset + i) * 8
		binary.BigEndian.PutUint64(result[start:start+8], args[i])
	}
	return
}

// SizeInWords returns the number of 32-byte words required to store the given
// number of bytes, checking that size+31 does not overflow uint64.
func SizeInWords(size uint64) uint64 {
	if size > math.MaxUint64-31 {
		return math.MaxUint64/32 + 1
	}
	return (size + 31) / 32
}
