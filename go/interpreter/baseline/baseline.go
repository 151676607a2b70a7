// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package baseline provides a stack-based byte-code interpreter for the
// Ethereum Virtual Machine. It executes a program against a gas budget and
// an execution environment, metering gas at per-opcode granularity and
// enforcing the stack, memory, and control-flow rules of the Cancun
// revision for its supported opcode subset.
package baseline

import (
	"fmt"

	"github.com/catena-vm/catena/go/catena"
)

// Registers the baseline interpreter as an available implementation.
func init() {
	catena.MustRegisterInterpreterFactory(
		"baseline",
		func(any) (catena.Interpreter, error) {
			return NewInterpreter(Config{})
		},
	)
}

// Config contains the configuration options of the baseline interpreter.
type Config struct {
	AnalysisConfig
}

type baselineVM struct {
	analyzer *analyzer
}

// NewInterpreter creates a baseline interpreter instance with the provided
// configuration. The instance is thread-safe; executions share the analysis
// cache and nothing else.
func NewInterpreter(config Config) (catena.Interpreter, error) {
	analyzer, err := newAnalyzer(config.AnalysisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create code analyzer: %w", err)
	}
	return &baselineVM{analyzer: analyzer}, nil
}

func (v *baselineVM) Run(params catena.Parameters) (catena.Outcome, error) {
	analysis := v.analyzer.analyze(params.Code, params.CodeHash)
	return run(params, analysis)
}
