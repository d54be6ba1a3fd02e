package cache

import (
	"reflect"
	"sync"

	"github.com/gosimple/slug"
)

var tags sync.Map // reflect.Type -> string

// TagFor returns the invalidation tag of type T. Pointer types share the tag
// of their element type.
func TagFor[T any]() string {
	return tagOfType(reflect.TypeFor[T]())
}

// TagOf returns the invalidation tag of v's dynamic type, or "" for nil.
func TagOf(v any) string {
	if v == nil {
		return ""
	}
	return tagOfType(reflect.TypeOf(v))
}

func tagOfType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if tag, ok := tags.Load(t); ok {
		return tag.(string)
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if pkg := t.PkgPath(); pkg != "" {
		name = pkg + "." + name
	}
	tag, _ := tags.LoadOrStore(t, slug.Make(name))
	return tag.(string)
}
