package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns extracts all column names from struct "db" tags.
// It handles embedded structs (like entity.Document) recursively.
// Called once at repository construction time, so reflection cost is acceptable.
//
// Usage:
//
//	columns := ExtractDBColumns[invoice.Invoice]()
//	// Returns: ["id", "created_at", "updated_at", "number", "date", ...]
func ExtractDBColumns[T any]() []string {
	var zero T
	return columnsForType(reflect.TypeOf(zero))
}

func columnsForType(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous {
			cols = append(cols, columnsForType(field.Type)...)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}

// fieldPath locates a tagged field inside a (possibly embedded) struct.
type fieldPath struct {
	index []int
	dbTag string
}

var fieldPathCache sync.Map // map[reflect.Type][]fieldPath

func fieldPathsForType(t reflect.Type) []fieldPath {
	if cached, ok := fieldPathCache.Load(t); ok {
		return cached.([]fieldPath)
	}

	var paths []fieldPath
	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			idx := append(append([]int{}, prefix...), i)

			if field.Anonymous {
				ft := field.Type
				if ft.Kind() == reflect.Ptr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					walk(ft, idx)
				}
				continue
			}

			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			paths = append(paths, fieldPath{index: idx, dbTag: tag})
		}
	}
	walk(t, nil)

	fieldPathCache.Store(t, paths)
	return paths
}

// StructToMap converts a struct to a column→value map using "db" tags.
// Embedded structs are flattened. Used by the generic repositories to build
// INSERT statements without per-entity boilerplate.
func StructToMap(entity any) map[string]any {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	paths := fieldPathsForType(v.Type())
	result := make(map[string]any, len(paths))
	for _, p := range paths {
		result[p.dbTag] = v.FieldByIndex(p.index).Interface()
	}
	return result
}
