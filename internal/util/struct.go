package util

import (
	"fmt"
	"reflect"
)

// IsStructInitialized returns an error naming the first nil pointer, interface,
// map, slice or func field of s (a struct or pointer to one).
func IsStructInitialized(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("%T is nil", s)
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%T is not a struct", s)
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)

		switch field.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if field.IsNil() {
				return fmt.Errorf("%s.%s is not initialized", t.Name(), t.Field(i).Name)
			}
		default:
		}
	}

	return nil
}
