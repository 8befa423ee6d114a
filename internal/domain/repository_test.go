package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/internal/core/types"
)

func TestListFilter_Normalize(t *testing.T) {
	f := ListFilter{Page: 0, PerPage: 0, SortDirection: "ASC"}
	require.NoError(t, f.Normalize())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPerPage, f.PerPage)
	assert.Equal(t, SortAsc, f.SortDirection)
	assert.Equal(t, 0, f.Offset())

	f = ListFilter{Page: 3, PerPage: 20}
	require.NoError(t, f.Normalize())
	assert.Equal(t, SortDesc, f.SortDirection)
	assert.Equal(t, 40, f.Offset())
}

func TestListFilter_NormalizeRejectsInvertedRange(t *testing.T) {
	start, end := types.MustDate("2026-10-10"), types.MustDate("2026-10-01")
	f := ListFilter{StartDate: &start, EndDate: &end}
	assert.Error(t, f.Normalize())
}

func TestListResult_Pages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		perPage  int
		page     int
		items    int
		lastPage int
		from, to int
	}{
		{"empty", 0, 15, 1, 0, 1, 0, 0},
		{"exact", 30, 15, 2, 15, 2, 16, 30},
		{"partial last", 31, 15, 3, 1, 3, 31, 31},
		{"single", 5, 15, 1, 5, 1, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ListResult[int]{Items: make([]int, tt.items), Total: tt.total, Page: tt.page, PerPage: tt.perPage}
			assert.Equal(t, tt.lastPage, r.LastPage())
			assert.Equal(t, tt.from, r.From())
			assert.Equal(t, tt.to, r.To())
		})
	}
}
