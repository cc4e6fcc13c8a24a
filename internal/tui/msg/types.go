package msg

import (
	"time"

	"github.com/Iron-Ham/tileboard/internal/bootstrap"
)

// LoadedMsg carries the outcome of loading the definition document.
// Exactly one of Doc and Err is set.
type LoadedMsg struct {
	Doc *bootstrap.Document
	Err error
}

// FetchRetryMsg reports that an attempt failed and another follows after Delay.
type FetchRetryMsg struct {
	Attempt int
	Delay   time.Duration
	Err     error
}

// ClearStatusMsg expires the status line set with sequence number Seq.
// A newer status message has a higher Seq and is left alone.
type ClearStatusMsg struct {
	Seq int
}
