package utils

import (
	"reflect"

	"github.com/go-faker/faker/v4"
	"github.com/go-faker/faker/v4/pkg/options"
)

// FakeStruct fills a dbmodel struct with fake data and returns it together
// with its field values in declaration order, ready to feed into a pgxmock
// row. Panics on error: test helper only.
func FakeStruct[T any](opts ...options.OptionFunc) (T, []any) {
	var value T
	if err := faker.FakeData(&value, opts...); err != nil {
		panic(err)
	}
	return value, StructRow(value)
}

func FakeStructs[T any](n int, opts ...options.OptionFunc) ([]T, [][]any) {
	values := make([]T, n)
	rows := make([][]any, n)
	for i := range values {
		values[i], rows[i] = FakeStruct[T](opts...)
	}
	return values, rows
}

func StructRow(value any) []any {
	v := reflect.ValueOf(value)
	t := v.Type()
	row := make([]any, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			row = append(row, StructRow(v.Field(i).Interface())...)
			continue
		}
		if _, ok := field.Tag.Lookup("db"); !ok {
			continue
		}
		row = append(row, v.Field(i).Interface())
	}
	return row
}
