//go:build !(darwin || linux)

package nativelib

import (
	"errors"
	"fmt"
)

// ErrUnsupportedPlatform marks platforms without runtime library loading.
var ErrUnsupportedPlatform = errors.New("nativelib: runtime library loading is not supported on this platform")

// Open always fails on platforms without dlopen support; every backend
// probe reports unavailable there.
func Open(names ...string) (uintptr, error) {
	return 0, fmt.Errorf("nativelib: %v: %w", names, ErrUnsupportedPlatform)
}

// Register always fails on platforms without dlopen support.
func Register(fptr any, lib uintptr, name string) error {
	return fmt.Errorf("nativelib: symbol %q: %w", name, ErrUnsupportedPlatform)
}
