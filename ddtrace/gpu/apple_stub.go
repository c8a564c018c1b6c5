//go:build !(darwin && arm64)

package gpu

import "errors"

// NewAppleBackend is unavailable on platforms other than darwin/arm64; the
// profiler's discovery fallthrough treats this as a normal "no backend"
// outcome, not a fatal error.
func NewAppleBackend() (Backend, error) {
	return nil, errors.New("apple: backend only available on darwin/arm64")
}
