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
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/gocrit/basis"
	"github.com/notargets/gocrit/model_problems"
	"github.com/notargets/gocrit/surrogate"
)

type ModelApprox struct {
	Objective string
	Dimension int
	Degree    int
	Basis     string
	GridRes   int
	VerifyRes int
}

// ApproxCmd represents the approx command
var ApproxCmd = &cobra.Command{
	Use:   "approx",
	Short: "Fit a single surrogate and report its quality",
	Long: `Fits one polynomial surrogate of the given degree and prints the fit
residuals, the design matrix condition number and the residual on an
independent verification grid. Useful for sizing a sweep before running it.

gocrit approx -o rosenbrock -d 6`,
	Run: func(cmd *cobra.Command, args []string) {
		ma := &ModelApprox{}
		ma.Objective, _ = cmd.Flags().GetString("objective")
		ma.Dimension, _ = cmd.Flags().GetInt("dimension")
		ma.Degree, _ = cmd.Flags().GetInt("degree")
		ma.Basis, _ = cmd.Flags().GetString("basis")
		ma.GridRes, _ = cmd.Flags().GetInt("gridRes")
		ma.VerifyRes, _ = cmd.Flags().GetInt("verifyRes")
		RunApprox(ma)
	},
}

func RunApprox(ma *ModelApprox) {
	bench, err := model_problems.Lookup(ma.Objective, ma.Dimension)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("available benchmarks: %v\n", model_problems.Names())
		os.Exit(1)
	}
	var kind basis.Kind
	if ma.Basis != "" {
		if kind, err = basis.ParseKind(ma.Basis); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}
	s, err := surrogate.Approximate(context.Background(), bench, bench.Domain(),
		surrogate.Params{
			Degree:  ma.Degree,
			Kind:    kind,
			GridRes: ma.GridRes,
		})
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	l2, linf := s.VerifyOnGrid(bench, ma.VerifyRes)
	fmt.Printf("%s degree %d: %d terms, %d samples\n",
		bench.Name(), ma.Degree, s.NumTerms(), s.NumSamples)
	fmt.Printf("%8.2e\t= fit residual L2\n", s.ResidualL2)
	fmt.Printf("%8.2e\t= fit residual Linf\n", s.ResidualInf)
	fmt.Printf("%8.2e\t= verification residual L2\n", l2)
	fmt.Printf("%8.2e\t= verification residual Linf\n", linf)
	fmt.Printf("%8.2e\t= design matrix condition\n", s.Cond)
	if s.CondWarning {
		fmt.Printf("warning: design matrix is badly conditioned\n")
	}
}

func init() {
	rootCmd.AddCommand(ApproxCmd)
	ApproxCmd.Flags().StringP("objective", "o", "himmelblau", "benchmark objective to fit")
	ApproxCmd.Flags().IntP("dimension", "n", 0, "dimension for the scalable objectives, 0 takes the default")
	ApproxCmd.Flags().IntP("degree", "d", 4, "surrogate polynomial degree")
	ApproxCmd.Flags().StringP("basis", "b", "", "basis family: chebyshev or legendre")
	ApproxCmd.Flags().Int("gridRes", 0, "sample grid nodes per axis, 0 for degree+2")
	ApproxCmd.Flags().Int("verifyRes", 9, "verification grid nodes per axis")
}
