package pipeline

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"
)

// TableWriter renders a finished sweep as aligned text on Out. It implements
// Sink.
type TableWriter struct {
	Out io.Writer
}

func (tw *TableWriter) Write(res *SweepResult) error {
	fmt.Fprintf(tw.Out, "outcome: %s, final degree %d, %d points\n\n",
		res.Outcome, res.FinalDegree, len(res.Table.Rows))
	w := tabwriter.NewWriter(tw.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tTYPE\tX\tVALUE\t|GRAD|\tITERS\tEIG\tCOND\tCLUSTER\tNNDIST\tFLAGS")
	fmt.Fprintln(w, "---\t----\t-\t-----\t------\t-----\t---\t----\t-------\t------\t-----")
	for i, row := range res.Table.Rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.6e\t%s\t%d\t%s\t%s\t%d/%d\t%s\t%s\n",
			i, row.Spectral.Type, formatPoint(row.X), row.Value,
			formatScalar(row.GradNorm), row.Iterations,
			formatScalar(row.Spectral.CriticalEig), formatScalar(row.Spectral.Cond),
			row.SpatialID, row.ValueID, formatScalar(row.NNDist), rowFlags(row))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(tw.Out)
	sw := tabwriter.NewWriter(tw.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(sw, "DEGREE\tRESIDUAL\tCOND\tPATHS\tPOINTS\tMIN/MAX/SAD\tELAPSED")
	for _, st := range res.Stats {
		fmt.Fprintf(sw, "%d\t%.3e\t%.1e\t%d/%d\t%d\t%d/%d/%d\t%s\n",
			st.Degree, st.ResidualL2, st.Cond, st.PathsTracked, st.TotalPaths,
			st.Points, st.Minima, st.Maxima, st.Saddles,
			st.Elapsed.Round(time.Millisecond))
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	for _, cv := range res.Caveats {
		fmt.Fprintf(tw.Out, "caveat: %s\n", cv)
	}
	return nil
}

func formatPoint(x []float64) string {
	parts := make([]string, len(x))
	for k, v := range x {
		parts[k] = fmt.Sprintf("%.6f", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatScalar(v float64) string {
	switch {
	case math.IsNaN(v):
		return "-"
	case math.IsInf(v, 0):
		return "inf"
	}
	return fmt.Sprintf("%.2e", v)
}

func rowFlags(row Row) string {
	var flags []string
	if !row.Converged {
		flags = append(flags, "unconverged")
	}
	if row.Close {
		flags = append(flags, "boundary")
	}
	if row.PartialSolve {
		flags = append(flags, "partial")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
