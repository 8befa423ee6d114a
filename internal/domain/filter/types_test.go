package filter

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	values := map[string][]string{
		"page":            {"2"},
		"status":          {"unpaid"},
		"category":        {"fuel, maintenance"},
		"amount__gte":     {"100"},
		"paid_date__null": {"1"},
		"secret":          {"x"},
	}

	items, err := ParseQuery(values, []string{"status", "category", "amount", "paid_date"})
	require.NoError(t, err)
	sort.Slice(items, func(i, j int) bool { return items[i].Field < items[j].Field })

	require.Len(t, items, 4)
	assert.Equal(t, Item{Field: "amount", Operator: GreaterOrEqual, Value: "100"}, items[0])
	assert.Equal(t, Item{Field: "category", Operator: InList, Value: []string{"fuel", "maintenance"}}, items[1])
	assert.Equal(t, Item{Field: "paid_date", Operator: IsNull, Value: nil}, items[2])
	assert.Equal(t, Item{Field: "status", Operator: Equal, Value: "unpaid"}, items[3])
}

func TestParseQuery_UnknownOperator(t *testing.T) {
	_, err := ParseQuery(map[string][]string{"amount__between": {"1"}}, []string{"amount"})
	assert.Error(t, err)
}
