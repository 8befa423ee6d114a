package postgres

import (
	"reflect"
	"sync"
)

// column is a db-tagged field and its index path, promoted fields included.
type column struct {
	name  string
	index []int
}

var columnCache sync.Map // reflect.Type -> []column

// columnsOf lists the db-tagged fields of t in declaration order, with the
// fields of an embedded struct in place of the struct itself.
func columnsOf(t reflect.Type) []column {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}

	var cols []column
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous {
			continue
		}
		name := f.Tag.Get("db")
		if name == "" || name == "-" {
			continue
		}
		cols = append(cols, column{name: name, index: f.Index})
	}
	columnCache.Store(t, cols)
	return cols
}

// ExtractDBColumns returns the column names of T, base record columns first.
// Repositories call it once, at construction.
//
//	ExtractDBColumns[safedrop.Safedrop]()
//	// ["id", "deletion_mark", "version", ..., "business_date", "amount", ...]
func ExtractDBColumns[T any]() []string {
	cols := columnsOf(reflect.TypeFor[T]())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap maps the db-tagged fields of v (a struct or pointer to one)
// by column name. It returns nil for anything else.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := columnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		fv, err := rv.FieldByIndexErr(c.index)
		if err != nil {
			continue // nil embedded pointer
		}
		res[c.name] = fv.Interface()
	}
	return res
}

// FilterColumns returns a copy of m restricted to the given columns.
func FilterColumns(m map[string]any, keep ...string) map[string]any {
	out := make(map[string]any, len(keep))
	for _, k := range keep {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// OmitColumns removes the given keys from m in place and returns it.
func OmitColumns(m map[string]any, drop ...string) map[string]any {
	for _, k := range drop {
		delete(m, k)
	}
	return m
}
