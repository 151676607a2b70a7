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
	"bytes"
	"math"

	"github.com/holiman/uint256"

	"github.com/catena-vm/catena/go/catena"
)

// maxMemoryOffset bounds all memory addresses. Offsets beyond this limit
// fault instead of attempting an expansion that could never be paid for.
const maxMemoryOffset = math.MaxUint32

// checkOffset converts a memory offset operand, faulting if it exceeds the
// 32-bit address range.
func checkOffset(offset *uint256.Int) (uint64, error) {
	if !offset.IsUint64() || offset.Uint64() > maxMemoryOffset {
		return 0, catena.FaultIntegerOverflow
	}
	return offset.Uint64(), nil
}

// checkOffsetAndSize converts an offset/size operand pair, faulting unless
// both operands and their sum stay within the 32-bit address range. The sum
// is computed in 64-bit arithmetic and cannot wrap.
func checkOffsetAndSize(offset, size *uint256.Int) (uint64, uint64, error) {
	if !offset.IsUint64() || !size.IsUint64() {
		return 0, 0, catena.FaultIntegerOverflow
	}
	o, s := offset.Uint64(), size.Uint64()
	if o > maxMemoryOffset || s > maxMemoryOffset || o+s > maxMemoryOffset {
		return 0, 0, catena.FaultIntegerOverflow
	}
	return o, s, nil
}

// --- Arithmetic operations ---

func opAdd(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.Add(a, b)
}

func opSub(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.Sub(a, b)
}

func opMul(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.Mul(a, b)
}

func opDiv(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.Div(a, b)
}

func opSDiv(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.SDiv(a, b)
}

func opMod(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.Mod(a, b)
}

func opSMod(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.SMod(a, b)
}

func opAddMod(f *frame) {
	a := f.stack.pop()
	b := f.stack.pop()
	n := f.stack.peek()
	n.AddMod(a, b, n)
}

func opMulMod(f *frame) {
	a := f.stack.pop()
	b := f.stack.pop()
	n := f.stack.peek()
	n.MulMod(a, b, n)
}

func opExp(f *frame) error {
	base, exponent := f.stack.pop(), f.stack.peek()
	// 50 gas per significant byte of the exponent.
	if err := f.useGas(catena.Gas(50 * exponent.ByteLen())); err != nil {
		return err
	}
	exponent.Exp(base, exponent)
	return nil
}

func opSignExtend(f *frame) {
	back, num := f.stack.pop(), f.stack.peek()
	num.ExtendSign(num, back)
}

// --- Comparison operations ---

func opLt(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	if a.Lt(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opGt(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	if a.Gt(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opSlt(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	if a.Slt(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opSgt(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	if a.Sgt(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opEq(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	if a.Eq(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opIszero(f *frame) {
	top := f.stack.peek()
	if top.IsZero() {
		top.SetOne()
	} else {
		top.Clear()
	}
}

// --- Bitwise operations ---

func opAnd(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.And(a, b)
}

func opOr(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.Or(a, b)
}

func opXor(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	b.Xor(a, b)
}

func opNot(f *frame) {
	a := f.stack.peek()
	a.Not(a)
}

func opByte(f *frame) {
	th, val := f.stack.pop(), f.stack.peek()
	val.Byte(th)
}

func opShl(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	if a.LtUint64(256) {
		b.Lsh(b, uint(a.Uint64()))
	} else {
		b.Clear()
	}
}

func opShr(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	if a.LtUint64(256) {
		b.Rsh(b, uint(a.Uint64()))
	} else {
		b.Clear()
	}
}

func opSar(f *frame) {
	a := f.stack.pop()
	b := f.stack.peek()
	if !a.LtUint64(256) {
		if b.Sign() >= 0 {
			b.Clear()
		} else {
			b.SetAllOne()
		}
		return
	}
	b.SRsh(b, uint(a.Uint64()))
}

// --- Stack operations ---

func opPop(f *frame) {
	f.stack.pop()
}

// opPush reads the n immediate bytes following the opcode and pushes their
// big-endian zero-extended value. Reads beyond the end of the code observe
// the zero-valued padding. The program counter is advanced past the
// immediate data; the dispatch loop adds the final increment.
func opPush(c *context, f *frame, n int) {
	data := c.analysis.padded[int(f.pc)+1 : int(f.pc)+1+n]
	f.stack.pushUndefined().SetBytes(data)
	f.pc += int32(n)
}

func opDup(f *frame, pos int) {
	f.stack.dup(pos - 1)
}

func opSwap(f *frame, pos int) {
	f.stack.swap(pos)
}

// --- Memory operations ---

func opMload(f *frame) error {
	trg := f.stack.peek()
	offset, err := checkOffset(trg)
	if err != nil {
		return err
	}
	return f.memory.readWord(offset, trg, f)
}

func opMstore(f *frame) error {
	addr := f.stack.pop()
	value := f.stack.pop()

	offset, err := checkOffset(addr)
	if err != nil {
		return err
	}
	return f.memory.setWord(offset, value, f)
}

func opMstore8(f *frame) error {
	addr := f.stack.pop()
	value := f.stack.pop()

	offset, err := checkOffset(addr)
	if err != nil {
		return err
	}
	return f.memory.setByte(offset, byte(value.Uint64()), f)
}

func opMsize(f *frame) {
	f.stack.pushUndefined().SetUint64(f.memory.length())
}

// --- Storage operations ---

func opSload(f *frame) {
	top := f.stack.peek()
	value := f.storage[*top] // reads of absent slots yield zero
	*top = value
}

func opSstore(f *frame) {
	key := *f.stack.pop()
	value := *f.stack.pop()
	f.getStorage()[key] = value
}

// --- Control flow operations ---

func checkJumpDest(c *context, dest *uint256.Int) error {
	if !dest.IsUint64() || !c.analysis.IsJumpDest(dest.Uint64()) {
		return catena.FaultBadJumpDestination
	}
	return nil
}

func opJump(c *context, f *frame) error {
	dest := f.stack.pop()
	if err := checkJumpDest(c, dest); err != nil {
		return err
	}
	f.pc = int32(dest.Uint64())
	c.jumpFlag = true
	return nil
}

func opJumpi(c *context, f *frame) error {
	dest := f.stack.pop()
	cond := f.stack.pop()
	if cond.IsZero() {
		return nil
	}
	if err := checkJumpDest(c, dest); err != nil {
		return err
	}
	f.pc = int32(dest.Uint64())
	c.jumpFlag = true
	return nil
}

// opPc pushes the byte offset of the PC instruction itself, which the
// dispatch loop has not yet advanced past.
func opPc(f *frame) {
	f.stack.pushUndefined().SetUint64(uint64(f.pc))
}

// --- Environment operations ---

// opGas pushes the gas remaining after the deduction for the GAS
// instruction itself.
func opGas(f *frame) {
	f.stack.pushUndefined().SetUint64(uint64(f.gas))
}

func opGasLimit(f *frame) {
	f.stack.pushUndefined().SetUint64(uint64(f.gasLimit))
}

func opCallvalue(f *frame) {
	f.stack.pushUndefined().SetBytes32(f.value[:])
}

func opCallDatasize(c *context, f *frame) {
	f.stack.pushUndefined().SetUint64(uint64(len(c.params.Input)))
}

func opCallDataload(c *context, f *frame) {
	top := f.stack.peek()
	offset, overflow := top.Uint64WithOverflow()
	if overflow {
		top.Clear()
		return
	}
	var value [32]byte
	copy(value[:], getData(c.params.Input, offset, 32))
	top.SetBytes32(value[:])
}

func opCallDataCopy(c *context, f *frame) error {
	memOffset := f.stack.pop()
	dataOffset := f.stack.pop()
	length := f.stack.pop()

	dataOffset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		dataOffset64 = math.MaxUint64
	}

	memOffset64, length64, err := checkOffsetAndSize(memOffset, length)
	if err != nil {
		return err
	}

	// Charge for the copy costs.
	words := catena.SizeInWords(length64)
	if err := f.useGas(catena.Gas(3 * words)); err != nil {
		return err
	}

	data, err := f.memory.getSlice(memOffset64, length64, f)
	if err != nil {
		return err
	}
	copy(data, getData(c.params.Input, dataOffset64, length64))
	return nil
}

// getData returns a slice of the given size from the data, starting at the
// given offset and right-padded with zeros.
func getData(data []byte, start uint64, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length {
		end = length
	}
	res := make([]byte, int(size))
	copy(res, data[start:end])
	return res
}

// --- Halting operations ---

// opEndWithResult captures the memory range [offset, offset+size) as the
// return data of the execution. It is the shared implementation of RETURN
// and REVERT; the terminal status is determined by the dispatch loop.
func opEndWithResult(c *context, f *frame) error {
	offset := f.stack.pop()
	size := f.stack.pop()
	o, s, err := checkOffsetAndSize(offset, size)
	if err != nil {
		return err
	}
	data, err := f.memory.getSlice(o, s, f)
	if err != nil {
		return err
	}
	// Detach the result from the frame's memory, which is released when
	// the frame is popped.
	c.returnData = bytes.Clone(data)
	return nil
}
