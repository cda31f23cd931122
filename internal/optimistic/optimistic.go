// Package optimistic applies a local state change before a remote call and
// reverts it when the call fails.
package optimistic

import (
	"context"
	"errors"
)

// Apply runs forward, then remote. If remote fails, inverse is run and the
// remote error is returned. forward must not fail; if it reports that it
// changed nothing (applied == false) neither remote nor inverse runs.
//
// A panic in remote is treated as a failure: inverse runs before the panic
// propagates.
func Apply(ctx context.Context, forward func() (applied bool), remote func(ctx context.Context) error, inverse func()) error {
	if !forward() {
		return ErrNotApplied
	}

	defer func() {
		if r := recover(); r != nil {
			inverse()
			panic(r)
		}
	}()

	if err := remote(ctx); err != nil {
		inverse()
		return err
	}
	return nil
}

// ErrNotApplied is returned by Apply when forward reports no change.
var ErrNotApplied = errors.New("optimistic: forward step not applied")
