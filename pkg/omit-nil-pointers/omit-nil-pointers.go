package omitnilpointers

import (
	"reflect"
)

// OmitNilPointers drops nil values from fields. Nil pointers, slices, maps
// and interfaces are treated as absent; non-nil pointers are dereferenced.
func OmitNilPointers(fields map[string]any) map[string]any {
	omitted := make(map[string]any, len(fields))
	for key, value := range fields {
		if value == nil {
			continue
		}

		v := reflect.ValueOf(value)
		switch v.Kind() {
		case reflect.Ptr:
			if v.IsNil() {
				continue
			}
			omitted[key] = v.Elem().Interface()
		case reflect.Slice, reflect.Map, reflect.Interface:
			if v.IsNil() {
				continue
			}
			omitted[key] = value
		default:
			omitted[key] = value
		}
	}

	return omitted
}
