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

func TestStaticGasPrices_MatchTheCancunSchedule(t *testing.T) {
	tests := map[OpCode]catena.Gas{
		STOP:         0,
		ADD:          3,
		SUB:          3,
		MUL:          5,
		DIV:          5,
		SDIV:         5,
		MOD:          5,
		SMOD:         5,
		ADDMOD:       8,
		MULMOD:       8,
		EXP:          10,
		SIGNEXTEND:   5,
		LT:           3,
		GT:           3,
		SLT:          3,
		SGT:          3,
		EQ:           3,
		ISZERO:       3,
		AND:          3,
		OR:           3,
		XOR:          3,
		NOT:          3,
		BYTE:         3,
		SHL:          3,
		SHR:          3,
		SAR:          3,
		CALLVALUE:    2,
		CALLDATALOAD: 3,
		CALLDATASIZE: 2,
		CALLDATACOPY: 3,
		GASLIMIT:     2,
		POP:          2,
		MLOAD:        3,
		MSTORE:       3,
		MSTORE8:      3,
		SLOAD:        100,
		SSTORE:       100,
		JUMP:         8,
		JUMPI:        10,
		PC:           2,
		MSIZE:        2,
		GAS:          2,
		JUMPDEST:     1,
		PUSH1:        3,
		PUSH32:       3,
		DUP1:         3,
		DUP16:        3,
		SWAP1:        3,
		SWAP16:       3,
		RETURN:       0,
		REVERT:       0,
		INVALID:      0,
	}
	for op, want := range tests {
		if got := staticGasPrices[op]; want != got {
			t.Errorf("unexpected static gas price for %v, wanted %d, got %d", op, want, got)
		}
	}
}

func TestStaticGasPrices_AllPushDupSwapVariantsShareOnePrice(t *testing.T) {
	for op := PUSH1; op <= PUSH32; op++ {
		if want, got := catena.Gas(3), staticGasPrices[op]; want != got {
			t.Errorf("unexpected price for %v, wanted %d, got %d", op, want, got)
		}
	}
	for op := DUP1; op <= DUP16; op++ {
		if want, got := catena.Gas(3), staticGasPrices[op]; want != got {
			t.Errorf("unexpected price for %v, wanted %d, got %d", op, want, got)
		}
	}
	for op := SWAP1; op <= SWAP16; op++ {
		if want, got := catena.Gas(3), staticGasPrices[op]; want != got {
			t.Errorf("unexpected price for %v, wanted %d, got %d", op, want, got)
		}
	}
}
