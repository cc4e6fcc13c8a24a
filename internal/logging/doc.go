// Package logging provides structured logging for tileboard.
//
// The package wraps Go's log/slog to write JSON lines. While the tile view
// owns the terminal, logs go to {dir}/tileboard.log; with an empty dir they
// go to stderr, which is what the non-interactive render command uses.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(dir, "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithComponent("bootstrap").Warn("fetch failed, retrying", "attempt", 2)
//
// # Bus Observation
//
// [Logger.Observe] traces every event on an [event.Bus] at DEBUG, with the
// event type as the message. Components still log their own failures at
// WARN and ERROR.
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a
// bytes.Buffer to assert on entries.
package logging
