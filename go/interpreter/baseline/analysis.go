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
	"github.com/bits-and-blooms/bitset"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/catena-vm/catena/go/catena"
)

// codePadding is the number of STOP sentinels appended to the analyzed code:
// 32 bytes for the possibly missing data bytes of a PUSH32 at the very end of
// the code, plus one terminating instruction.
const codePadding = 32 + 1

// CodeAnalysis is the result of the pre-execution scan of a code buffer. It
// provides a padded copy of the code that makes push-data reads at the tail
// deterministic, and a bitmap of valid jump destinations enabling O(1) jump
// validation. A CodeAnalysis is immutable after creation and may be shared
// between concurrent executions.
type CodeAnalysis struct {
	padded    []byte
	codeSize  int
	jumpdests *bitset.BitSet
}

// Analyze scans the given code and produces its analysis. The scan walks the
// code left to right, skipping push data, and records each JUMPDEST
// instruction that is not part of the immediate data of a push.
func Analyze(code catena.Code) *CodeAnalysis {
	padded := make([]byte, len(code)+codePadding)
	copy(padded, code) // trailing sentinels are STOP == 0x00

	jumpdests := bitset.New(uint(len(code)))
	for i := 0; i < len(code); i++ {
		op := OpCode(code[i])
		if PUSH1 <= op && op <= PUSH32 {
			i += int(op - PUSH1 + 1)
		} else if op == JUMPDEST {
			jumpdests.Set(uint(i))
		}
	}

	return &CodeAnalysis{
		padded:    padded,
		codeSize:  len(code),
		jumpdests: jumpdests,
	}
}

// CodeSize returns the length of the original, unpadded code.
func (a *CodeAnalysis) CodeSize() int {
	return a.codeSize
}

// IsJumpDest returns whether the given position is a valid jump destination,
// which is the case exactly if it is inside the code and addresses a
// JUMPDEST instruction outside of any push data.
func (a *CodeAnalysis) IsJumpDest(pos uint64) bool {
	return pos < uint64(a.codeSize) && a.jumpdests.Test(uint(pos))
}

// --- analyzer ---

// AnalysisConfig contains the configuration options for the code analysis.
type AnalysisConfig struct {
	// CacheSize is the maximum approximate size of the maintained analysis
	// cache in bytes. If set to 0, a default size is used. If negative, no
	// cache is used.
	CacheSize int
}

// analyzer produces CodeAnalysis instances and caches them by code hash.
// Analyzing a code buffer is linear in its length, and production workloads
// re-execute the same codes frequently, so retaining analyses pays off.
// The analyzer is thread-safe.
type analyzer struct {
	cache *lru.Cache[catena.Hash, *CodeAnalysis]
}

// maxCachedCodeLength is the maximum length of a code in bytes that is
// retained in the cache. Longer codes are initialization codes, which see
// little re-use and are deliberately not cached. The limit is the maximum
// size of codes stored on the chain.
const maxCachedCodeLength = 1<<14 + 1<<13 // = 24_576 bytes

func newAnalyzer(config AnalysisConfig) (*analyzer, error) {
	if config.CacheSize == 0 {
		config.CacheSize = 1 << 28 // = 256 MiB
	}

	var cache *lru.Cache[catena.Hash, *CodeAnalysis]
	if config.CacheSize > 0 {
		var err error
		capacity := config.CacheSize / maxCachedCodeLength
		if capacity < 1 {
			capacity = 1
		}
		cache, err = lru.New[catena.Hash, *CodeAnalysis](capacity)
		if err != nil {
			return nil, err
		}
	}
	return &analyzer{cache: cache}, nil
}

// analyze returns the analysis of the given code, either by computing it or
// by fetching a previously computed result from the cache. If codeHash is
// nil, the hash used as the cache key is computed on demand.
func (a *analyzer) analyze(code catena.Code, codeHash *catena.Hash) *CodeAnalysis {
	if a.cache == nil {
		return Analyze(code)
	}

	hash := catena.Hash{}
	if codeHash != nil {
		hash = *codeHash
	} else {
		hash = Keccak256(code)
	}

	res, exists := a.cache.Get(hash)
	if exists {
		return res
	}

	res = Analyze(code)
	if len(code) > maxCachedCodeLength {
		return res
	}

	a.cache.Add(hash, res)
	return res
}
