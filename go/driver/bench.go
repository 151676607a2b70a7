// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"math"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"

	"github.com/catena-vm/catena/go/catena"
	"github.com/catena-vm/catena/go/interpreter/baseline"
	"github.com/catena-vm/catena/go/loader"
)

var BenchCmd = cli.Command{
	Action:    doBench,
	Name:      "bench",
	Usage:     "Measure the execution rate of an EVM byte-code file",
	ArgsUsage: "<INPUT_FILE>",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "gas-limit",
			Usage: "gas budget for each execution",
			Value: 1_000_000,
		},
		&cli.IntFlag{
			Name:  "iterations",
			Usage: "number of executions to be measured",
			Value: 1000,
		},
		&cli.StringFlag{
			Name:  "interpreter",
			Usage: "interpreter implementation to be used",
			Value: "baseline",
		},
	},
}

func doBench(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one input file")
	}

	gasLimit := context.Uint64("gas-limit")
	if gasLimit > math.MaxInt64 {
		return fmt.Errorf("gas limit %d out of range", gasLimit)
	}
	iterations := context.Int("iterations")
	if iterations < 1 {
		return fmt.Errorf("invalid number of iterations: %d", iterations)
	}

	code, err := loader.LoadCode(context.Args().Get(0))
	if err != nil {
		return err
	}

	interpreter, err := catena.NewInterpreter(context.String("interpreter"))
	if err != nil {
		return err
	}

	// The code hash is provided to let repeated executions share the
	// cached code analysis, as a production client would.
	hash := baseline.Keccak256(code)
	params := catena.Parameters{
		Gas:      catena.Gas(gasLimit),
		Code:     code,
		CodeHash: &hash,
	}

	var gasUsed catena.Gas
	start := time.Now()
	for i := 0; i < iterations; i++ {
		outcome, err := interpreter.Run(params)
		if err != nil {
			return fmt.Errorf("interpreter failure: %w", err)
		}
		gasUsed += catena.Gas(gasLimit) - outcome.GasLeft
	}
	duration := time.Since(start)

	rate := float64(iterations) / duration.Seconds()
	gasRate := float64(gasUsed) / duration.Seconds()
	fmt.Printf("Executions: %d in %v\n", iterations, duration.Round(time.Millisecond))
	fmt.Printf("Rate: %s executions/second\n", unitconv.FormatPrefix(rate, unitconv.SI, 1))
	fmt.Printf("Gas rate: %s gas/second\n", unitconv.FormatPrefix(gasRate, unitconv.SI, 1))
	return nil
}
