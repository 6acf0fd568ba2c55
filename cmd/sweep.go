/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/gocrit/InputParameters"
	"github.com/notargets/gocrit/pipeline"
)

type ModelSweep struct {
	ParamFile string
	Objective string
	Dimension int
	Verbose   bool
	Profile   bool
}

// SweepCmd represents the sweep command
var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Degree sweep locating and classifying critical points of an objective",
	Long: `Runs the full discovery pipeline: surrogate fits of increasing degree,
homotopy continuation on each surrogate gradient system, refinement of the
candidates on the true objective, spectral classification and clustering.

gocrit sweep -o himmelblau`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		ms := &ModelSweep{}
		if ms.ParamFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			panic(err)
		}
		ms.Objective, _ = cmd.Flags().GetString("objective")
		ms.Dimension, _ = cmd.Flags().GetInt("dimension")
		ms.Verbose, _ = cmd.Flags().GetBool("verbose")
		ms.Profile, _ = cmd.Flags().GetBool("profile")
		sp := processSweepInput(ms)
		RunSweep(ms, sp)
	},
}

func processSweepInput(ms *ModelSweep) (sp *InputParameters.SweepParameters) {
	var (
		err error
	)
	sp = &InputParameters.SweepParameters{}
	if len(ms.ParamFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(ms.ParamFile); err != nil {
			panic(err)
		}
		if err = sp.Parse(data); err != nil {
			panic(err)
		}
	}
	// Flags override the file
	if len(ms.Objective) != 0 {
		sp.Objective = ms.Objective
	}
	if ms.Dimension != 0 {
		sp.Dimension = ms.Dimension
	}
	if len(sp.Objective) == 0 {
		err = fmt.Errorf("must supply an objective (-o, --objective) or an input parameters file (-I, --inputFile)")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Himmelblau"
Objective: himmelblau
DegreeStart: 2
DegreeCap: 8
ResidualTarget: 1.e-6
Basis: chebyshev
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	return
}

func RunSweep(ms *ModelSweep, sp *InputParameters.SweepParameters) {
	if ms.Profile {
		defer profile.Start().Stop()
	}
	sc, err := sp.SweepContext()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if ms.Verbose {
		logger, lerr := zap.NewProductionConfig().Build()
		if lerr != nil {
			panic(lerr)
		}
		defer logger.Sync()
		sc.Logger = logger
	}
	sp.Print()
	sc.Sink = &pipeline.TableWriter{Out: os.Stdout}
	if _, err = pipeline.RunSweep(context.Background(), sc); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(SweepCmd)
	SweepCmd.Flags().StringP("inputFile", "I", "", "YAML file of sweep parameters")
	SweepCmd.Flags().StringP("objective", "o", "", "benchmark objective to sweep: bowl, saddle, himmelblau, rosenbrock, deuflhard, trig")
	SweepCmd.Flags().IntP("dimension", "n", 0, "dimension for the scalable objectives")
	SweepCmd.Flags().BoolP("verbose", "v", false, "structured logging of each sweep step")
	SweepCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}
