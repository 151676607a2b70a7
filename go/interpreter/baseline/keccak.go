// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package baseline

import (
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/catena-vm/catena/go/catena"
)

// Keccak256 computes the keccak256 hash of the given data. Hasher instances
// are pooled to avoid allocations on the hot path.
func Keccak256(data []byte) catena.Hash {
	if len(data) == 0 {
		return emptyKeccak256Hash
	}
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	hasher.Write(data)
	var res catena.Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

var emptyKeccak256Hash = func() catena.Hash {
	hasher := sha3.NewLegacyKeccak256().(keccakHasher)
	var res catena.Hash
	hasher.Read(res[:])
	return res
}()
