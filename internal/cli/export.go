package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
)

var reportKinds = []string{"income", "expense", "balance"}

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		from string
		to   string
		dir  string
	)

	c := &cobra.Command{
		Use:       "export <income|expense|balance>",
		Short:     "Download a report as an XLSX workbook",
		Example:   "  stationctl export income --from 2026-01-01 --to 2026-03-31",
		Args:      cobra.ExactArgs(1),
		ValidArgs: reportKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if !slices.Contains(reportKinds, kind) {
				return fmt.Errorf("unknown report %q: must be one of %v", kind, reportKinds)
			}
			api, err := opts.client()
			if err != nil {
				return err
			}

			q := url.Values{"format": {"xlsx"}, "start_date": {from}, "end_date": {to}}
			data, name, err := api.Download(cmd.Context(), "reports/"+kind, q)
			if err != nil {
				return err
			}
			if name == "" {
				name = fmt.Sprintf("%s_%s_%s.xlsx", kind, from, to)
			}
			path := filepath.Join(dir, filepath.Base(name))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	c.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (required)")
	c.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (required)")
	c.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}
