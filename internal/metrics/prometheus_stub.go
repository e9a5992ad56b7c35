//go:build noprom

package metrics

import (
	"context"

	"go.uber.org/zap"
)

// When built with -tags noprom, provide a stub that does nothing.
func enablePrometheus(context.Context, string, *zap.Logger) error { return nil }
