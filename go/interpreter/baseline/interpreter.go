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
	"errors"
	"fmt"

	"github.com/catena-vm/catena/go/catena"
)

// run executes the given code analysis in a fresh execution context and
// produces the observable outcome.
func run(params catena.Parameters, analysis *CodeAnalysis) (catena.Outcome, error) {
	// Don't bother with the execution if there's no code.
	if analysis.CodeSize() == 0 {
		return catena.Outcome{
			Status:  catena.Success,
			GasLeft: params.Gas,
		}, nil
	}

	ctxt := &context{
		params:   params,
		analysis: analysis,
	}
	ctxt.pushFrame(params.Gas, params.Value)

	status, err := steps(ctxt)
	if err != nil {
		var fault catena.Fault
		if errors.As(err, &fault) {
			// A fault consumes the remaining gas and produces no
			// output.
			return catena.Outcome{
				Status:  catena.Faulted,
				Fault:   fault,
				GasLeft: 0,
			}, nil
		}
		return catena.Outcome{}, err
	}

	return generateOutcome(status, ctxt)
}

func generateOutcome(status status, ctxt *context) (catena.Outcome, error) {
	switch status {
	case statusStopped:
		return catena.Outcome{
			Status:  catena.Success,
			GasLeft: ctxt.exitGas,
		}, nil
	case statusReturned:
		return catena.Outcome{
			Status:  catena.Success,
			Output:  ctxt.returnData,
			GasLeft: ctxt.exitGas,
		}, nil
	case statusReverted:
		return catena.Outcome{
			Status:  catena.Reverted,
			Output:  ctxt.returnData,
			GasLeft: ctxt.exitGas,
		}, nil
	default:
		return catena.Outcome{}, fmt.Errorf("unexpected error in interpreter, unknown status: %v", status)
	}
}

// steps executes the code in the given context until the outermost frame
// exits or a fault occurs. Faults are reported as catena.Fault errors.
func steps(c *context) (status, error) {
	for {
		f := c.currentFrame()

		// Running off the end of the code is an implicit STOP.
		if int(f.pc) >= c.analysis.CodeSize() {
			if halt, done := c.leaveFrame(statusStopped); done {
				return halt, nil
			}
			continue
		}

		op := OpCode(c.analysis.padded[f.pc])

		// Consume the static gas price of the instruction before any
		// further precondition is evaluated; a fault leaves the prior
		// gas deduction in place.
		if err := f.useGas(staticGasPrices[op]); err != nil {
			return statusRunning, err
		}

		// Check the stack boundaries for every instruction.
		if err := checkStackLimits(f.stack.len(), op); err != nil {
			return statusRunning, err
		}

		var err error
		halt := statusRunning

		switch op {
		case STOP:
			halt = statusStopped
		case ADD:
			opAdd(f)
		case MUL:
			opMul(f)
		case SUB:
			opSub(f)
		case DIV:
			opDiv(f)
		case SDIV:
			opSDiv(f)
		case MOD:
			opMod(f)
		case SMOD:
			opSMod(f)
		case ADDMOD:
			opAddMod(f)
		case MULMOD:
			opMulMod(f)
		case EXP:
			err = opExp(f)
		case SIGNEXTEND:
			opSignExtend(f)
		case LT:
			opLt(f)
		case GT:
			opGt(f)
		case SLT:
			opSlt(f)
		case SGT:
			opSgt(f)
		case EQ:
			opEq(f)
		case ISZERO:
			opIszero(f)
		case AND:
			opAnd(f)
		case OR:
			opOr(f)
		case XOR:
			opXor(f)
		case NOT:
			opNot(f)
		case BYTE:
			opByte(f)
		case SHL:
			opShl(f)
		case SHR:
			opShr(f)
		case SAR:
			opSar(f)
		case CALLVALUE:
			opCallvalue(f)
		case CALLDATALOAD:
			opCallDataload(c, f)
		case CALLDATASIZE:
			opCallDatasize(c, f)
		case CALLDATACOPY:
			err = opCallDataCopy(c, f)
		case GASLIMIT:
			opGasLimit(f)
		case POP:
			opPop(f)
		case MLOAD:
			err = opMload(f)
		case MSTORE:
			err = opMstore(f)
		case MSTORE8:
			err = opMstore8(f)
		case SLOAD:
			opSload(f)
		case SSTORE:
			opSstore(f)
		case JUMP:
			err = opJump(c, f)
		case JUMPI:
			err = opJumpi(c, f)
		case PC:
			opPc(f)
		case MSIZE:
			opMsize(f)
		case GAS:
			opGas(f)
		case JUMPDEST:
			// nothing
		case RETURN:
			err = opEndWithResult(c, f)
			halt = statusReturned
		case REVERT:
			err = opEndWithResult(c, f)
			halt = statusReverted
		case INVALID:
			err = catena.FaultInvalidInstruction
		default:
			if PUSH1 <= op && op <= PUSH32 {
				opPush(c, f, int(op-PUSH1)+1)
			} else if DUP1 <= op && op <= DUP16 {
				opDup(f, int(op-DUP1)+1)
			} else if SWAP1 <= op && op <= SWAP16 {
				opSwap(f, int(op-SWAP1)+1)
			} else {
				err = catena.FaultUnsupportedOpcode
			}
		}

		if err != nil {
			return statusRunning, err
		}

		if halt != statusRunning {
			if halt, done := c.leaveFrame(halt); done {
				return halt, nil
			}
			continue
		}

		if c.jumpFlag {
			// A taken jump has placed the program counter on the
			// target; suppress the post-increment for this step.
			c.jumpFlag = false
			continue
		}

		f.pc++
	}
}

// leaveFrame exits the current frame with the given terminal status. The
// remaining gas of the frame is handed back to the parent frame when one
// exists; otherwise it becomes the gas level reported for the run and the
// second result indicates the termination of the execution.
func (c *context) leaveFrame(halt status) (status, bool) {
	gasLeft := c.popFrame()
	if c.depth() == 0 {
		c.exitGas = gasLeft
		return halt, true
	}
	c.currentFrame().gas += gasLeft
	return statusRunning, false
}
