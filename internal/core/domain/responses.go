package domain

import "fmt"

const (
	ResponseUnknownCommand  = "❓ Unknown command. Type /help"
	ResponseInvalidInterval = "❌ Invalid interval. Use e.g. 30s, 5m, 4h"
	ResponseEmptyMessage    = "❌ Message cannot be empty."
	ResponseMissingTargets  = "❌ No target groups given."
	ResponseTimersStopped   = "✓ All auto-send timers stopped."
)

// AutoSendStarted confirms a new recurring job.
func AutoSendStarted(job RecurringJob) string {
	return fmt.Sprintf("✓ Auto-send started to %d groups every %s.", job.Request.Len(), job.Interval.Label)
}

// ErrorResponse formats an unexpected failure for the caller.
func ErrorResponse(err error) string {
	return "❌ Error: " + err.Error()
}
