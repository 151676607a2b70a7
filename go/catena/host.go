// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package catena

//go:generate mockgen -source host.go -destination host_mock.go -package catena

// HostContext provides access to state outside the scope of a single code
// execution. The self-contained opcode subset of the baseline interpreter
// operates without any host queries; the interface exists as the extension
// point for the call-family and world-state opcodes of a fuller opcode set.
type HostContext interface {
	// GetStorage reads a slot of the persistent storage of the executing
	// account.
	GetStorage(key Key) Word

	// SetStorage writes a slot of the persistent storage of the executing
	// account.
	SetStorage(key Key, value Word)

	// GetBlockHash returns the hash of the block with the given number.
	GetBlockHash(number int64) Hash
}
