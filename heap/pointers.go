package heap

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/joshuapare/kheap/heap/layout"
)

// pointerFreeCache maps reflect.Type -> bool.
var pointerFreeCache sync.Map

// PointerFree reports whether values of T hold no Go pointers, which makes
// them safe to store in memory the garbage collector does not scan.
// unsafe.Pointer fields count as pointers.
func PointerFree[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := pointerFreeCache.Load(t); ok {
		return v.(bool) //nolint:errcheck // cache holds only bool
	}
	ok := pointerFree(t)
	pointerFreeCache.Store(t, ok)
	return ok
}

func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || pointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MustPointerFree panics with ErrPointerType unless T is pointer-free.
func MustPointerFree[T any]() {
	if !PointerFree[T]() {
		panic(fmt.Errorf("%w: %s", ErrPointerType, reflect.TypeOf((*T)(nil)).Elem()))
	}
}

// typedLayout is the layout of one T for the typed tier. It panics for
// zero-sized or pointer-carrying types.
func typedLayout[T any]() layout.Layout {
	l := layout.Of[T]()
	if l.Size == 0 {
		panic(fmt.Errorf("%w: %s", ErrZeroSized, reflect.TypeOf((*T)(nil)).Elem()))
	}
	MustPointerFree[T]()
	return l
}
