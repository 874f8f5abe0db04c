// Package ctxutil provides context utility functions.
package ctxutil

import (
	"context"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

// Canceled returns nil while ctx is live. Once ctx is done it returns an
// OPERATION_CANCELLED error that still unwraps to ctx.Err(), so callers can
// test for either errors.Is(err, context.Canceled) or ErrOperationCancelled.
func Canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return svperrors.Cancelled("").WithCause(err)
	}
	return nil
}
