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
	"sort"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"

	"github.com/catena-vm/catena/go/catena"
	"github.com/catena-vm/catena/go/loader"

	// Interpreter implementations offered by this binary.
	_ "github.com/catena-vm/catena/go/interpreter/baseline"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Execute an EVM byte-code file",
	ArgsUsage: "<INPUT_FILE>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Usage: "format of the input file",
			Value: "evm",
		},
		&cli.Uint64Flag{
			Name:  "gas-limit",
			Usage: "gas budget for the execution",
			Value: 1_000_000,
		},
		&cli.StringFlag{
			Name:  "input",
			Usage: "hex-encoded call data",
		},
		&cli.StringFlag{
			Name:  "interpreter",
			Usage: "interpreter implementation to be used",
			Value: "baseline",
		},
	},
}

func doRun(context *cli.Context) error {
	outcome, gasLimit, err := runInput(context)
	if err != nil {
		return err
	}

	fmt.Printf("\nStatus: %v\n", formatStatus(outcome))
	fmt.Printf("Total Gas used: %d\n", gasLimit-outcome.GasLeft)
	if len(outcome.Output) > 0 {
		fmt.Printf("Output: %s\n", hexutil.Encode(outcome.Output))
	}
	return nil
}

// runInput loads and executes the byte-code file named by the command line
// and returns the observed outcome together with the used gas budget.
func runInput(context *cli.Context) (catena.Outcome, catena.Gas, error) {
	if context.Args().Len() != 1 {
		return catena.Outcome{}, 0, fmt.Errorf("expected exactly one input file")
	}
	if format := context.String("format"); format != "evm" {
		return catena.Outcome{}, 0, fmt.Errorf("unsupported input format: %s", format)
	}

	gasLimit := context.Uint64("gas-limit")
	if gasLimit > math.MaxInt64 {
		return catena.Outcome{}, 0, fmt.Errorf("gas limit %d out of range", gasLimit)
	}

	code, err := loader.LoadCode(context.Args().Get(0))
	if err != nil {
		return catena.Outcome{}, 0, err
	}

	var input catena.Data
	if data := context.String("input"); data != "" {
		var code catena.Code
		code, err = loader.DecodeHex(data)
		input = catena.Data(code)
		if err != nil {
			return catena.Outcome{}, 0, fmt.Errorf("invalid call data: %w", err)
		}
	}

	name := context.String("interpreter")
	interpreter, err := catena.NewInterpreter(name)
	if err != nil {
		available := maps.Keys(catena.GetAllRegisteredInterpreters())
		sort.Strings(available)
		return catena.Outcome{}, 0, fmt.Errorf("%w, available: %v", err, available)
	}

	outcome, err := interpreter.Run(catena.Parameters{
		Gas:   catena.Gas(gasLimit),
		Input: input,
		Code:  code,
	})
	if err != nil {
		return catena.Outcome{}, 0, fmt.Errorf("interpreter failure: %w", err)
	}
	return outcome, catena.Gas(gasLimit), nil
}

func formatStatus(outcome catena.Outcome) string {
	if outcome.Status == catena.Faulted {
		return fmt.Sprintf("%v (%v)", outcome.Status, outcome.Fault)
	}
	return outcome.Status.String()
}
