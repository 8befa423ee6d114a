package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "stationdesk/internal/core/context"
	"stationdesk/internal/core/numerator"
	"stationdesk/internal/domain/auth"
)

func writeProfiles(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProfiles_Select(t *testing.T) {
	path := writeProfiles(t, `
default: main-st
profiles:
  main-st:
    api_url: http://main:8080/api/v1
    token: abc
  highway:
    api_url: http://highway:8080/api/v1
`)
	pf, err := LoadProfiles(path)
	require.NoError(t, err)

	p, err := pf.Select("")
	require.NoError(t, err)
	assert.Equal(t, "http://main:8080/api/v1", p.APIURL)
	assert.Equal(t, "abc", p.Token)

	p, err = pf.Select("highway")
	require.NoError(t, err)
	assert.Equal(t, "http://highway:8080/api/v1", p.APIURL)

	_, err = pf.Select("airport")
	assert.ErrorContains(t, err, `unknown profile "airport" (have [highway main-st])`)
}

func TestProfiles_MissingFileIsEmpty(t *testing.T) {
	pf, err := LoadProfiles(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	p, err := pf.Select("")
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)
}

func TestProfiles_BadYAML(t *testing.T) {
	_, err := LoadProfiles(writeProfiles(t, "profiles: [unclosed"))
	assert.ErrorContains(t, err, "parse profiles")
}

func TestTokenCommand(t *testing.T) {
	path := writeProfiles(t, `
profiles:
  only:
    jwt_secret: 0123456789abcdef
`)
	out, err := run(t, "--profiles", path, "token", "--subject", "maria", "--role", "manager", "--role", "clerk")
	require.NoError(t, err)

	svc := auth.NewJWTService(auth.DefaultJWTConfig("0123456789abcdef"))
	user, err := svc.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "maria", user.UserID)
	assert.Equal(t, []string{appctx.RoleManager, appctx.RoleClerk}, user.Roles)
}

func TestTokenCommand_Errors(t *testing.T) {
	path := writeProfiles(t, "profiles:\n  only:\n    jwt_secret: 0123456789abcdef\n")

	_, err := run(t, "--profiles", path, "token", "--subject", "maria", "--role", "janitor")
	assert.ErrorContains(t, err, `unknown role "janitor"`)

	_, err = run(t, "--profiles", path, "token", "--role", "clerk")
	assert.ErrorContains(t, err, "subject")
}

func TestListCommand_WalksPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/vendor-invoices", r.URL.Path)
		assert.Equal(t, "unpaid", r.URL.Query().Get("status"))
		page := r.URL.Query().Get("page")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"voucher_no": "VI-" + page, "amount": "10.00"}},
			"meta": map[string]any{"total": 2, "last_page": 2},
		})
	}))
	defer srv.Close()

	out, err := run(t, "--profiles", filepath.Join(t.TempDir(), "none.yaml"),
		"--api-url", srv.URL+"/api/v1", "--token", "tok",
		"list", "vendor-invoices", "--filter", "status=unpaid")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "VI-1", rows[0]["voucher_no"])
	assert.Equal(t, "VI-2", rows[1]["voucher_no"])
}

func TestListCommand_Validation(t *testing.T) {
	none := filepath.Join(t.TempDir(), "none.yaml")

	_, err := run(t, "--profiles", none, "--token", "tok", "list", "employees")
	assert.ErrorContains(t, err, `unknown resource "employees"`)

	_, err = run(t, "--profiles", none, "--token", "tok", "list", "owners", "--filter", "active")
	assert.ErrorContains(t, err, "field=value")
}

func TestExportCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/expense", r.URL.Path)
		assert.Equal(t, "xlsx", r.URL.Query().Get("format"))
		assert.Equal(t, "2026-01-01", r.URL.Query().Get("start_date"))
		w.Header().Set("Content-Disposition", `attachment; filename="expense_2026-01-01_2026-01-31.xlsx"`)
		_, _ = w.Write([]byte("PK-data"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	out, err := run(t, "--profiles", filepath.Join(dir, "none.yaml"),
		"--api-url", srv.URL+"/api/v1", "--token", "tok",
		"export", "expense", "--from", "2026-01-01", "--to", "2026-01-31", "--dir", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "expense_2026-01-01_2026-01-31.xlsx")
	assert.Equal(t, path, strings.TrimSpace(out))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PK-data", string(data))
}

func TestExportCommand_NeedsToken(t *testing.T) {
	t.Setenv("STATIONDESK_TOKEN", "")
	_, err := run(t, "--profiles", filepath.Join(t.TempDir(), "none.yaml"),
		"export", "income", "--from", "2026-01-01", "--to", "2026-01-31")
	assert.ErrorContains(t, err, "no API token")
}

func TestRecordSheet(t *testing.T) {
	sheet := recordSheet("owners", []map[string]any{
		{"name": "Ana", "ownership_percent": "60"},
		{"name": "Raj", "email": "raj@example.com", "tags": []any{"silent"}},
	})
	assert.Equal(t, []string{"email", "name", "ownership_percent", "tags"}, sheet.Header)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []any{nil, "Ana", "60", nil}, sheet.Rows[0])
	assert.Equal(t, []any{"raj@example.com", "Raj", nil, `["silent"]`}, sheet.Rows[1])
}

func TestPrintSeries(t *testing.T) {
	var buf bytes.Buffer
	s := seriesView{Metric: "fuel_gallons", Grade: "premium", Window: "last_4_weeks", Reference: "2026-03-10", Total: "40", Average: "10"}
	require.NoError(t, printSeries(&buf, s))
	assert.Contains(t, buf.String(), "fuel_gallons (premium), last_4_weeks ending 2026-03-10")
	assert.Contains(t, buf.String(), "average")
}

func TestVoucherSetLast(t *testing.T) {
	gen := numerator.NewMemory()
	var dsn string
	orig := openNumerator
	openNumerator = func(ctx context.Context, url string) (numerator.Generator, func(), error) {
		dsn = url
		return gen, func() {}, nil
	}
	t.Cleanup(func() { openNumerator = orig })

	path := writeProfiles(t, "profiles:\n  only:\n    database_url: postgres://station@db/stationdesk\n")

	out, err := run(t, "--profiles", path, "voucher", "set-last", "VI-2026-01234")
	require.NoError(t, err)
	assert.Equal(t, "next VI voucher: VI-2026-01235\n", out)
	assert.Equal(t, "postgres://station@db/stationdesk", dsn)

	out, err = run(t, "--profiles", path, "voucher", "set-last", "pb", "--year", "2025", "--last", "88")
	require.NoError(t, err)
	assert.Equal(t, "next PB voucher: PB-2025-00089\n", out)

	num, err := gen.Next(context.Background(), numerator.NewSeries("VI"), 2026)
	require.NoError(t, err)
	assert.Equal(t, "VI-2026-01235", num)
}

func TestVoucherSetLast_Errors(t *testing.T) {
	path := writeProfiles(t, "profiles:\n  only:\n    database_url: postgres://station@db/stationdesk\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown series", []string{"XX-2026-00001"}, "unknown voucher series"},
		{"bare prefix without last", []string{"VI"}, "--last is required"},
		{"bad counter", []string{"VI-2026-abc"}, "bad counter"},
		{"bad year", []string{"PB", "--last", "3", "--year", "26"}, "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"--profiles", path, "voucher", "set-last"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
