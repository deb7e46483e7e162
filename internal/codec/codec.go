// Package codec converts the external tool's raw output bytes into typed
// models. Decoding is all-or-nothing: a value is only returned when the bytes
// fully match the expected schema, and malformed input is reported as a
// domain.DecodeError, never a panic.
package codec

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// DecodeFunc turns raw tool output into a typed value or a decode error.
type DecodeFunc[T any] func(data []byte) (T, error)

// validate enforces `validate:"required"` tags on decoded models so that
// output missing required fields fails instead of yielding zero values.
// A shared instance is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// checkRequired validates the decoded value's required tags. Struct targets go
// straight to the validator; map and slice targets are walked so that struct
// elements are validated too, since validator.Struct rejects non-struct roots.
func checkRequired(v any) error {
	return checkValue(reflect.ValueOf(v))
}

func checkValue(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return checkValue(rv.Elem())
	case reflect.Struct:
		return validate.Struct(rv.Interface())
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if err := checkValue(iter.Value()); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := checkValue(rv.Index(i)); err != nil {
				return err
			}
		}
	}
	return nil
}
