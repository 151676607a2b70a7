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

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package catena

// Interpreter is a component capable of executing EVM byte-code.
// To obtain an Interpreter instance, client code should use NewInterpreter()
// provided by the registry file in this package.
type Interpreter interface {
	// Run executes the code provided by the parameters and returns the
	// observed outcome. The resulting error is nil whenever the code was
	// correctly processed, even if the execution ended in a revert or a
	// fault; those are regular outcomes. The error is non-nil only if an
	// internal problem prevented the interpreter from processing the
	// program, in which case the outcome is undefined.
	// Interpreters are required to be thread-safe. Thus, multiple runs
	// may be conducted in parallel.
	Run(Parameters) (Outcome, error)
}

// Parameters summarizes the list of input parameters required for executing
// code.
type Parameters struct {
	// Gas is the budget available for the execution.
	Gas Gas
	// Value is the call value made available to the executed code.
	Value Value
	// Input is the call data of the invocation.
	Input Data
	// Code is the byte-code to be executed.
	Code Code
	// CodeHash, if non-nil, is a hash of Code used to cache pre-execution
	// code analyses. Providing a wrong hash leads to undefined behavior.
	CodeHash *Hash
	// Host provides access to world state beyond the scope of a single
	// execution. It may be nil; the self-contained opcode subset never
	// consults it.
	Host HostContext
}

// Status is the terminal state of an execution.
type Status byte

const (
	// Success indicates a regular termination through STOP, RETURN, or
	// by running off the end of the code.
	Success Status = iota
	// Reverted indicates a termination through REVERT; return data is
	// preserved and remaining gas is handed back to the caller.
	Reverted
	// Faulted indicates an abnormal termination; the fault kind is
	// reported in Outcome.Fault and the remaining gas is consumed.
	Faulted
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Reverted:
		return "reverted"
	case Faulted:
		return "faulted"
	}
	return "unknown"
}

// Outcome summarizes the result of an EVM code execution.
type Outcome struct {
	Status  Status
	Fault   Fault // != FaultNone if and only if Status == Faulted
	Output  Data  // produced by RETURN or REVERT, nil otherwise
	GasLeft Gas   // zero for faulted executions
}
