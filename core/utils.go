package core

import (
	"reflect"

	"github.com/dvnet/dvnet/state"
)

// Get fetches a registered module by its concrete type.
func Get[T state.Module](s *state.State) T {
	t := reflect.TypeFor[T]()
	return s.Modules[t.String()].(T)
}
