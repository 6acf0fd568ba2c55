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
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/gocrit/model_problems"
	"github.com/notargets/gocrit/pipeline"
)

type ModelBench struct {
	Objective string
	Dimension int
	DegreeCap int
	Tol       float64
}

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Sweep a benchmark objective and score the result against its known critical points",
	Long: `Runs the discovery pipeline on a benchmark with a published critical point
catalog, then reports how many catalog points were recovered within tolerance.

gocrit bench -o rosenbrock -n 4`,
	Run: func(cmd *cobra.Command, args []string) {
		mb := &ModelBench{}
		mb.Objective, _ = cmd.Flags().GetString("objective")
		mb.Dimension, _ = cmd.Flags().GetInt("dimension")
		mb.DegreeCap, _ = cmd.Flags().GetInt("degreeCap")
		mb.Tol, _ = cmd.Flags().GetFloat64("tolerance")
		RunBench(mb)
	},
}

func RunBench(mb *ModelBench) {
	bench, err := model_problems.Lookup(mb.Objective, mb.Dimension)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("available benchmarks: %v\n", model_problems.Names())
		os.Exit(1)
	}
	sc := pipeline.SweepContext{
		Obj:       bench,
		Dom:       bench.Domain(),
		DegreeCap: mb.DegreeCap,
		Sink:      &pipeline.TableWriter{Out: os.Stdout},
	}
	res, err := pipeline.RunSweep(context.Background(), sc)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	var (
		known   = bench.KnownCriticalPoints()
		matched int
	)
	for _, kp := range known {
		if nearestRowDistance(kp.X, res.Table.Rows) <= mb.Tol {
			matched++
		}
	}
	fmt.Printf("\nrecovered %d of %d known critical points of %s within %.1e\n",
		matched, len(known), bench.Name(), mb.Tol)
}

func nearestRowDistance(x []float64, rows []pipeline.Row) (d float64) {
	d = math.Inf(1)
	for _, row := range rows {
		var s float64
		for k := range x {
			dx := row.X[k] - x[k]
			s += dx * dx
		}
		s = math.Sqrt(s)
		if s < d {
			d = s
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().StringP("objective", "o", "himmelblau", "benchmark to run: bowl, saddle, himmelblau, rosenbrock, deuflhard, trig")
	BenchCmd.Flags().IntP("dimension", "n", 0, "dimension for the scalable benchmarks, 0 takes the default")
	BenchCmd.Flags().IntP("degreeCap", "D", 8, "highest surrogate degree to try")
	BenchCmd.Flags().Float64P("tolerance", "t", 1.e-4, "match radius against the catalog")
}
