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
	"math"

	"github.com/holiman/uint256"

	"github.com/catena-vm/catena/go/catena"
)

// Memory is the byte-addressable scratch space of a single frame. It starts
// empty, grows in 32-byte words on demand, and never shrinks during the
// lifetime of the frame.
type Memory struct {
	store             []byte
	currentMemoryCost catena.Gas
}

func NewMemory() *Memory {
	return &Memory{}
}

// toValidMemorySize rounds the given size up to the next multiple of the
// 32-byte word size.
func toValidMemorySize(size uint64) uint64 {
	fullWordsSize := catena.SizeInWords(size) * 32
	if size != 0 && fullWordsSize < size {
		return math.MaxUint64
	}
	return fullWordsSize
}

func (m *Memory) length() uint64 {
	return uint64(len(m.store))
}

// getExpansionCosts computes the fee for growing the memory to hold at least
// size bytes. The total cost of a memory of w words is w*w/512 + 3*w; the
// fee is the difference between the total cost of the new and the current
// size. A memory that is already large enough is free.
func (m *Memory) getExpansionCosts(size uint64) catena.Gas {
	if m.length() >= size {
		return 0
	}
	size = toValidMemorySize(size)

	// The largest addressable offset is bounded by the 32-bit offset
	// limit enforced on all memory instructions, so the quadratic term
	// stays well within the int64 range.
	words := catena.SizeInWords(size)
	newCosts := catena.Gas((words*words)/512 + (3 * words))
	return newCosts - m.currentMemoryCost
}

// expandMemory charges the expansion fee for accessing the range
// [offset, offset+size) and grows the memory accordingly. Accesses of size
// zero do not trigger an expansion, independent of the offset.
func (m *Memory) expandMemory(offset, size uint64, f *frame) error {
	if size == 0 {
		return nil
	}
	needed := offset + size
	if needed < offset {
		return catena.FaultIntegerOverflow
	}
	if m.length() < needed {
		fee := m.getExpansionCosts(needed)
		if err := f.useGas(fee); err != nil {
			return err
		}
		m.expandMemoryWithoutCharging(needed)
	}
	return nil
}

// expandMemoryWithoutCharging grows the memory to the given size without
// charging gas. The caller must have charged the expansion fee beforehand.
func (m *Memory) expandMemoryWithoutCharging(needed uint64) {
	needed = toValidMemorySize(needed)
	size := m.length()
	if size < needed {
		m.currentMemoryCost += m.getExpansionCosts(needed)
		m.store = append(m.store, make([]byte, needed-size)...)
	}
}

// setByte writes a single byte at the given offset, charging for and
// performing the required expansion.
func (m *Memory) setByte(offset uint64, value byte, f *frame) error {
	if err := m.expandMemory(offset, 1, f); err != nil {
		return err
	}
	m.store[offset] = value
	return nil
}

// setWord writes the 32-byte big-endian representation of the given value at
// the given offset, charging for and performing the required expansion.
func (m *Memory) setWord(offset uint64, value *uint256.Int, f *frame) error {
	if err := m.expandMemory(offset, 32, f); err != nil {
		return err
	}
	value.WriteToSlice(m.store[offset : offset+32])
	return nil
}

// readWord reads a 32-byte big-endian word from the given offset into the
// provided target, charging for and performing the required expansion.
func (m *Memory) readWord(offset uint64, target *uint256.Int, f *frame) error {
	data, err := m.getSlice(offset, 32, f)
	if err != nil {
		return err
	}
	target.SetBytes32(data)
	return nil
}

// set copies the given data into the memory at the given offset, charging
// for and performing the required expansion.
func (m *Memory) set(offset uint64, data []byte, f *frame) error {
	trg, err := m.getSlice(offset, uint64(len(data)), f)
	if err != nil {
		return err
	}
	copy(trg, data)
	return nil
}

// getSlice obtains a slice of size bytes from the memory at the given
// offset, charging for and performing the required expansion. The returned
// slice is backed by the memory's internal store; it is invalidated by any
// subsequent operation that may grow the memory.
func (m *Memory) getSlice(offset, size uint64, f *frame) ([]byte, error) {
	if err := m.expandMemory(offset, size, f); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	return m.store[offset : offset+size], nil
}
