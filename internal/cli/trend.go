package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type seriesView struct {
	Metric    string `json:"metric"`
	Grade     string `json:"grade"`
	Window    string `json:"window"`
	Reference string `json:"reference_date"`
	Points    []struct {
		Label string `json:"label"`
		Value string `json:"value"`
	} `json:"points"`
	Total   string `json:"total"`
	Average string `json:"average"`
}

func trendCmd(opts *rootOptions) *cobra.Command {
	var (
		metric  string
		window  string
		grade   string
		date    string
		rawJSON bool
	)

	c := &cobra.Command{
		Use:     "trend",
		Short:   "Print a dashboard trend series",
		Example: "  stationctl trend --metric fuel_gallons --grade premium --window last_4_weeks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := opts.client()
			if err != nil {
				return err
			}
			q := url.Values{"metric": {metric}}
			if window != "" {
				q.Set("window", window)
			}
			if grade != "" {
				q.Set("grade", grade)
			}
			if date != "" {
				q.Set("date", date)
			}

			var raw json.RawMessage
			if err := api.GetJSON(cmd.Context(), "trends/series", q, &raw); err != nil {
				return err
			}
			if rawJSON {
				_, err := cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			var s seriesView
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("decode series: %w", err)
			}
			return printSeries(cmd.OutOrStdout(), s)
		},
	}

	c.Flags().StringVar(&metric, "metric", "", "fuel_gallons, fuel_sales, inside_sales, total_sales, lottery_sales, atm_dispensed or safedrops (required)")
	c.Flags().StringVar(&window, "window", "", "last_15_days, current_month or last_4_weeks")
	c.Flags().StringVar(&grade, "grade", "", "fuel grade for fuel metrics")
	c.Flags().StringVar(&date, "date", "", "reference day, YYYY-MM-DD (default: today at the station)")
	c.Flags().BoolVar(&rawJSON, "json", false, "print the raw JSON response")
	_ = c.MarkFlagRequired("metric")
	return c
}

func printSeries(w io.Writer, s seriesView) error {
	title := s.Metric
	if s.Grade != "" {
		title += " (" + s.Grade + ")"
	}
	fmt.Fprintf(w, "%s, %s ending %s\n", title, s.Window, s.Reference)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, p := range s.Points {
		fmt.Fprintf(tw, "%s\t%s\t\n", p.Label, p.Value)
	}
	fmt.Fprintf(tw, "total\t%s\t\n", s.Total)
	fmt.Fprintf(tw, "average\t%s\t\n", s.Average)
	return tw.Flush()
}
