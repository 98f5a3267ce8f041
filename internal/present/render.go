package present

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// Render writes m as a plain-text report.
func Render(w io.Writer, m Model) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if m.Fallback {
		fmt.Fprintln(tw, "No analysis supplied; showing sample assessment.")
	}
	if m.AssessmentID != "" {
		fmt.Fprintf(tw, "Assessment\t%s\n", m.AssessmentID)
	}
	fmt.Fprintf(tw, "Climate Credit Score\t%s\n", formatNumber(m.Score))
	fmt.Fprintf(tw, "Loan Adjustment\t%s\n", m.Recommendation.Text)

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "RISK\tLEVEL\tVALUE")
	for _, r := range m.Risks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Label, r.Level, formatNumber(r.Value))
	}

	if len(m.Projection.Labels) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "YEAR\t%s\n", m.Projection.Label)
		for i, year := range m.Projection.Labels {
			fmt.Fprintf(tw, "%s\t%s\n", year, formatNumber(m.Projection.Values[i]))
		}
	}
	return tw.Flush()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
