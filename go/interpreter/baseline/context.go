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
	"github.com/holiman/uint256"

	"github.com/catena-vm/catena/go/catena"
)

// status is an enumeration of the execution state of an interpreter run.
type status byte

const (
	statusRunning  status = iota // < all fine, ops are processed
	statusStopped                // < execution stopped with a STOP
	statusReturned               // < execution stopped with a RETURN
	statusReverted               // < execution stopped with a REVERT
)

// frame is a single call frame: its value stack, its memory, its transient
// storage view, its program counter, and its gas accounting. A frame is
// created on call entry and destroyed on call exit; memory and storage are
// released with it.
type frame struct {
	stack    *stack
	memory   *Memory
	storage  map[uint256.Int]uint256.Int // allocated on first use
	pc       int32
	gas      catena.Gas
	gasLimit catena.Gas
	value    catena.Value
}

// useGas reduces the gas level by the given amount. If the gas level is
// insufficient, an out-of-gas fault is returned and the gas level remains
// unchanged.
func (f *frame) useGas(amount catena.Gas) error {
	if f.gas < 0 || amount < 0 || f.gas < amount {
		return catena.FaultOutOfGas
	}
	f.gas -= amount
	return nil
}

// getStorage provides the frame's transient storage view, allocating it on
// first access.
func (f *frame) getStorage() map[uint256.Int]uint256.Int {
	if f.storage == nil {
		f.storage = map[uint256.Int]uint256.Int{}
	}
	return f.storage
}

// context is the execution environment of an interpreter run. It owns the
// stack of frames, the terminal state of the run, and the return data
// produced by the outermost frame. For each code execution, a new context is
// created.
type context struct {
	// Inputs
	params   catena.Parameters
	analysis *CodeAnalysis

	// Execution state
	frames   []frame
	jumpFlag bool // set by a taken jump to suppress the PC post-increment

	// Outputs
	returnData []byte
	exitGas    catena.Gas // gas left in the outermost frame when it exited
}

// depth returns the number of active frames.
func (c *context) depth() int {
	return len(c.frames)
}

// currentFrame returns the top frame of the frame stack. The returned
// pointer is invalidated by any operation that pushes or pops a frame;
// callers must re-resolve it afterwards.
func (c *context) currentFrame() *frame {
	return &c.frames[len(c.frames)-1]
}

// pushFrame enters a new frame with the given gas budget and call value.
func (c *context) pushFrame(gasLimit catena.Gas, value catena.Value) *frame {
	c.frames = append(c.frames, frame{
		stack:    NewStack(),
		memory:   NewMemory(),
		gas:      gasLimit,
		gasLimit: gasLimit,
		value:    value,
	})
	return c.currentFrame()
}

// popFrame exits the top frame, releasing its resources, and returns its
// remaining gas for the caller to hand back to the parent frame.
func (c *context) popFrame() catena.Gas {
	f := c.currentFrame()
	gasLeft := f.gas
	ReturnStack(f.stack)
	f.stack = nil
	f.memory = nil
	f.storage = nil
	c.frames = c.frames[:len(c.frames)-1]
	return gasLeft
}
