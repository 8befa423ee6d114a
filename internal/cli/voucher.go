package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	core "stationdesk/internal/core/numerator"
	"stationdesk/internal/domain/records/providerbill"
	"stationdesk/internal/domain/records/vendorinvoice"
	"stationdesk/pkg/numerator"
)

var voucherSeries = map[string]core.Series{
	vendorinvoice.VoucherPrefix: core.NewSeries(vendorinvoice.VoucherPrefix),
	providerbill.VoucherPrefix:  core.NewSeries(providerbill.VoucherPrefix),
}

// openNumerator connects to the station database. Replaced in tests.
var openNumerator = func(ctx context.Context, dsn string) (core.Generator, func(), error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return numerator.New(conn), func() { _ = conn.Close(context.Background()) }, nil
}

func voucherCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "voucher",
		Short: "Manage voucher numbering",
	}

	var (
		year int
		last int64
	)
	setLast := &cobra.Command{
		Use:   "set-last <VI|PB|voucher>",
		Short: "Continue numbering after vouchers imported from another system",
		Long: "Sets the last issued counter of a series. Pass a prefix with --year and --last,\n" +
			"or the last imported voucher itself, e.g. VI-2026-01234.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, y, n, err := parseVoucherTarget(args[0], year, last)
			if err != nil {
				return err
			}
			if opts.profile.DatabaseURL == "" {
				return fmt.Errorf("no database: set database_url in the profile or DATABASE_URL")
			}

			ctx := cmd.Context()
			gen, closeFn, err := openNumerator(ctx, opts.profile.DatabaseURL)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := gen.SetLast(ctx, series, y, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "next %s voucher: %s\n", series.Prefix, series.Format(y, n+1))
			return nil
		},
	}
	setLast.Flags().IntVar(&year, "year", time.Now().Year(), "voucher year")
	setLast.Flags().Int64Var(&last, "last", -1, "last issued counter")
	c.AddCommand(setLast)

	return c
}

// parseVoucherTarget accepts either a full voucher or a prefix plus flags.
func parseVoucherTarget(arg string, year int, last int64) (core.Series, int, int64, error) {
	prefix, _, full := strings.Cut(arg, "-")
	series, ok := voucherSeries[strings.ToUpper(prefix)]
	if !ok {
		return core.Series{}, 0, 0, fmt.Errorf("unknown voucher series %q (want VI or PB)", prefix)
	}
	if full {
		y, n, err := series.Parse(strings.ToUpper(arg))
		return series, y, n, err
	}
	if last < 0 {
		return core.Series{}, 0, 0, fmt.Errorf("--last is required with a bare prefix")
	}
	if year < 2000 || year > 9999 {
		return core.Series{}, 0, 0, fmt.Errorf("--year %d is out of range", year)
	}
	return series, year, last, nil
}
