// Package priority elevates the calling OS thread's scheduling priority on
// a best-effort basis. Failure to elevate is never fatal: the render and
// output threads fall back to normal priority and keep running.
package priority

import "go.uber.org/zap"

// Elevate attempts to raise the calling thread's scheduling priority.
// Callers must have already pinned the calling goroutine to its OS thread
// with runtime.LockOSThread, since the elevation is a per-thread property
// on the platforms that support it.
//
// Failure logs a warning and is not treated as an error by the caller.
func Elevate(logger *zap.Logger) {
	if err := elevate(); err != nil {
		logger.Warn("failed to elevate thread priority, continuing at normal priority", zap.Error(err))
	}
}
