package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"stationdesk/internal/infrastructure/export"
	"stationdesk/pkg/client"
)

var resources = []string{
	"bank-accounts", "owners", "daily-sales", "daily-fuel", "safedrops",
	"atm-records", "vendor-invoices", "provider-bills",
}

func listCmd(opts *rootOptions) *cobra.Command {
	var (
		params  client.ListParams
		filters []string
		xlsx    string
	)

	c := &cobra.Command{
		Use:   "list <resource>",
		Short: "Fetch every page of a record list",
		Example: "  stationctl list daily-sales --from 2026-03-01 --to 2026-03-31\n" +
			"  stationctl list vendor-invoices --filter status=unpaid --xlsx unpaid.xlsx",
		Args:      cobra.ExactArgs(1),
		ValidArgs: resources,
		RunE: func(cmd *cobra.Command, args []string) error {
			resource := args[0]
			if !slices.Contains(resources, resource) {
				return fmt.Errorf("unknown resource %q: must be one of %v", resource, resources)
			}
			f, err := parseFilters(filters)
			if err != nil {
				return err
			}
			params.Filters = f

			api, err := opts.client()
			if err != nil {
				return err
			}
			rows, err := client.FetchAll[map[string]any](cmd.Context(), api, resource, params)
			if err != nil {
				return err
			}

			if xlsx != "" {
				data, err := export.Workbook([]export.Sheet{recordSheet(resource, rows)})
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsx, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", xlsx, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", len(rows), xlsx)
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		},
	}

	c.Flags().StringVar(&params.StartDate, "from", "", "first day, YYYY-MM-DD")
	c.Flags().StringVar(&params.EndDate, "to", "", "last day, YYYY-MM-DD")
	c.Flags().StringVar(&params.SortBy, "sort", "", "sort column")
	c.Flags().StringVar(&params.SortDirection, "direction", "", "asc or desc")
	c.Flags().StringVar(&params.Search, "search", "", "free-text search")
	c.Flags().IntVar(&params.PerPage, "per-page", client.FetchAllPerPage, "page size used while walking pages")
	c.Flags().StringArrayVar(&filters, "filter", nil, "field=value or field__op=value (repeatable)")
	c.Flags().StringVar(&xlsx, "xlsx", "", "write an XLSX workbook instead of JSON")
	return c
}

func parseFilters(raw []string) (url.Values, error) {
	v := url.Values{}
	for _, f := range raw {
		key, val, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("filter %q must look like field=value", f)
		}
		v.Add(key, val)
	}
	return v, nil
}

// recordSheet lays rows out with one column per JSON key, sorted by name.
func recordSheet(resource string, rows []map[string]any) export.Sheet {
	keys := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			keys[k] = struct{}{}
		}
	}
	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)

	sheet := export.Sheet{Name: resource, Header: header}
	for _, r := range rows {
		row := make([]any, len(header))
		for i, k := range header {
			row[i] = cellValue(r[k])
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func cellValue(v any) any {
	switch v := v.(type) {
	case nil, string, bool, float64:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
