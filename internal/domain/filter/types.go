// Package filter describes ad-hoc list conditions passed from the API to repositories.
package filter

import (
	"fmt"
	"strings"
)

// ComparisonType is the operator of a single condition.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	LessOrEqual    ComparisonType = "lte"
	Greater        ComparisonType = "gt"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains" // ILIKE %val%
	IsNull         ComparisonType = "null"
	IsNotNull      ComparisonType = "not_null"
)

var knownOperators = map[ComparisonType]struct{}{
	Equal: {}, NotEqual: {}, Less: {}, LessOrEqual: {}, Greater: {}, GreaterOrEqual: {},
	InList: {}, NotInList: {}, Contains: {}, IsNull: {}, IsNotNull: {},
}

// Item is one condition.
type Item struct {
	Field    string         `json:"field"`
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}

// Separator splits a query key into field and operator: amount__gte=100.
const Separator = "__"

// ParseQuery turns query parameters into conditions for the allowed fields.
// Keys that are not in allowed are ignored so the list contract parameters
// (page, sort_by, ...) can share the same query string.
// A bare key means equality; a comma-separated value means IN.
func ParseQuery(values map[string][]string, allowed []string) ([]Item, error) {
	allow := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		allow[f] = struct{}{}
	}

	var items []Item
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		field, op := key, Equal
		if i := strings.LastIndex(key, Separator); i > 0 {
			field, op = key[:i], ComparisonType(key[i+len(Separator):])
		}
		if _, ok := allow[field]; !ok {
			continue
		}
		if _, ok := knownOperators[op]; !ok {
			return nil, fmt.Errorf("unknown operator %q for %s", op, field)
		}

		raw := vals[len(vals)-1]
		var value any = raw
		switch op {
		case Equal:
			if strings.Contains(raw, ",") {
				op, value = InList, splitList(raw)
			}
		case InList, NotInList:
			value = splitList(raw)
		case IsNull, IsNotNull:
			value = nil
		}
		items = append(items, Item{Field: field, Operator: op, Value: value})
	}
	return items, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
