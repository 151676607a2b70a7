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
	"testing"

	"github.com/catena-vm/catena/go/catena"
)

func TestContext_FramesAreStackedAndReleasedInOrder(t *testing.T) {
	ctxt := &context{analysis: Analyze(nil)}

	outer := ctxt.pushFrame(100, catena.Value{})
	if want, got := 1, ctxt.depth(); want != got {
		t.Fatalf("unexpected depth, wanted %d, got %d", want, got)
	}
	outer.gas -= 40

	inner := ctxt.pushFrame(30, catena.Value{})
	if want, got := 2, ctxt.depth(); want != got {
		t.Fatalf("unexpected depth, wanted %d, got %d", want, got)
	}
	if inner != ctxt.currentFrame() {
		t.Fatalf("current frame is not the innermost frame")
	}
	inner.gas -= 10

	if want, got := catena.Gas(20), ctxt.popFrame(); want != got {
		t.Errorf("unexpected remaining gas, wanted %d, got %d", want, got)
	}
	if want, got := 1, ctxt.depth(); want != got {
		t.Fatalf("unexpected depth after pop, wanted %d, got %d", want, got)
	}
	if want, got := catena.Gas(60), ctxt.currentFrame().gas; want != got {
		t.Errorf("outer frame gas was modified, wanted %d, got %d", want, got)
	}
}

func TestContext_LeaveFrameHandsRemainingGasToTheParent(t *testing.T) {
	ctxt := &context{analysis: Analyze(nil)}
	ctxt.pushFrame(100, catena.Value{})
	ctxt.currentFrame().gas = 50
	ctxt.pushFrame(30, catena.Value{})

	halt, done := ctxt.leaveFrame(statusStopped)
	if done {
		t.Fatalf("leaving a nested frame should not terminate the run")
	}
	if want, got := statusRunning, halt; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := catena.Gas(80), ctxt.currentFrame().gas; want != got {
		t.Errorf("remaining gas not handed to the parent, wanted %d, got %d", want, got)
	}

	halt, done = ctxt.leaveFrame(statusStopped)
	if !done {
		t.Fatalf("leaving the outermost frame should terminate the run")
	}
	if want, got := statusStopped, halt; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := catena.Gas(80), ctxt.exitGas; want != got {
		t.Errorf("unexpected exit gas, wanted %d, got %d", want, got)
	}
}

func TestFrame_UseGasDetectsInsufficientBudget(t *testing.T) {
	f := &frame{gas: 10}
	if err := f.useGas(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := catena.Gas(6), f.gas; want != got {
		t.Fatalf("unexpected gas level, wanted %d, got %d", want, got)
	}
	if want, got := error(catena.FaultOutOfGas), f.useGas(7); want != got {
		t.Errorf("expected an out-of-gas fault, got %v", got)
	}
	if want, got := catena.Gas(6), f.gas; want != got {
		t.Errorf("failed deduction changed the gas level to %d", got)
	}
	if want, got := error(catena.FaultOutOfGas), f.useGas(-1); want != got {
		t.Errorf("negative amounts should be rejected, got %v", got)
	}
}

func TestFrame_TransientStorageIsAllocatedLazily(t *testing.T) {
	ctxt := &context{analysis: Analyze(nil)}
	f := ctxt.pushFrame(100, catena.Value{})
	if f.storage != nil {
		t.Fatalf("fresh frame should have no storage allocated")
	}
	store := f.getStorage()
	if store == nil {
		t.Fatalf("storage not allocated on access")
	}
	if f.storage == nil {
		t.Errorf("allocated storage not retained in the frame")
	}
}
