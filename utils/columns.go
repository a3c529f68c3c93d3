package utils

import (
	"fmt"
	"reflect"
)

// ColumnList returns the `db` tag of every field of the dbmodel struct, in
// declaration order. Embedded structs are flattened.
func ColumnList[DBModel any](prefixes ...string) []string {
	var dbModel DBModel
	modelType := reflect.TypeOf(dbModel)
	if modelType.Kind() != reflect.Struct {
		panic(fmt.Sprintf("ColumnList: %T is not a struct", dbModel))
	}

	var prefix string
	if len(prefixes) > 0 {
		prefix = prefixes[0] + "."
	}

	return columnsOfStruct(modelType, prefix)
}

func columnsOfStruct(modelType reflect.Type, prefix string) []string {
	columns := make([]string, 0, modelType.NumField())
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, columnsOfStruct(field.Type, prefix)...)
			continue
		}
		tag, ok := field.Tag.Lookup("db")
		if !ok || tag == "-" {
			continue
		}
		columns = append(columns, prefix+tag)
	}
	return columns
}
