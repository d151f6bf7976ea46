package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrFetch indicates a network or decode failure while loading a resource
	ErrFetch = errors.New("fetch failed")

	// ErrUninitializedView indicates a view operation before render or after destroy
	ErrUninitializedView = errors.New("view is not rendered")
)

// FetchError records the resource that failed to load.
// errors.Is(err, ErrFetch) is true for every FetchError.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }
