//go:build darwin || linux

// Package nativelib wraps the runtime loading of optional native solver
// libraries. Backends probe with Open at first use; a probe that fails
// simply marks the backend unavailable, it never aborts the process.
package nativelib

import (
	"errors"
	"fmt"

	"github.com/ebitengine/purego"
)

// Open tries each soname in order and returns a handle to the first
// library that loads. Symbols are resolved eagerly (RTLD_NOW) so a broken
// installation fails the probe instead of the first solve.
func Open(names ...string) (uintptr, error) {
	var errs []error
	for _, name := range names {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return h, nil
		}
		errs = append(errs, err)
	}
	return 0, fmt.Errorf("nativelib: no loadable library among %v: %w", names, errors.Join(errs...))
}

// Register resolves symbol name from lib into the function pointer fptr,
// converting purego's panic on a missing symbol into an error so probes
// stay non-fatal.
func Register(fptr any, lib uintptr, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("nativelib: symbol %q: %v", name, r)
		}
	}()
	purego.RegisterLibFunc(fptr, lib, name)
	return nil
}
