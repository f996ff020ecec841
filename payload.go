package genalloc

import (
	"reflect"
)

// validatePayload rejects types that hold Go pointers. Block memory is not
// scanned by the garbage collector, so a pointer stored there would not keep
// its target alive.
func validatePayload(rt reflect.Type) error {
	if path, kind, ok := findPointer(rt, rt.String()); ok {
		return &UnsupportedTypeError{Type: rt, Path: path, Kind: kind}
	}
	return nil
}

func findPointer(rt reflect.Type, path string) (string, reflect.Kind, bool) {
	switch rt.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return "", 0, false
	case reflect.Array:
		if rt.Len() == 0 {
			return "", 0, false
		}
		return findPointer(rt.Elem(), path+"[]")
	case reflect.Struct:
		for i := range rt.NumField() {
			f := rt.Field(i)
			if p, k, ok := findPointer(f.Type, path+"."+f.Name); ok {
				return p, k, true
			}
		}
		return "", 0, false
	default:
		return path, rt.Kind(), true
	}
}
