package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/tileboard/internal/errors"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

func TestRenderLoading(t *testing.T) {
	s := styles.Default()

	t.Run("first attempt", func(t *testing.T) {
		got := ansi.Strip(RenderLoading(s, LoadingState{Source: "http://host/def", Spinner: "|"}))
		if got != "| Loading board from http://host/def" {
			t.Errorf("RenderLoading() = %q", got)
		}
	})

	t.Run("after a failed attempt", func(t *testing.T) {
		got := ansi.Strip(RenderLoading(s, LoadingState{
			Source:         "http://host/def",
			Spinner:        "|",
			FailedAttempts: 2,
			LastError:      errors.New("connection refused"),
		}))
		if !strings.Contains(got, "attempt 2 failed, retrying: connection refused") {
			t.Errorf("RenderLoading() = %q, want the retry line", got)
		}
	})

	t.Run("retry line is truncated to width", func(t *testing.T) {
		got := RenderLoading(s, LoadingState{
			Source:         "x",
			FailedAttempts: 1,
			LastError:      errors.New(strings.Repeat("long ", 40)),
			Width:          30,
		})
		lines := strings.Split(got, "\n")
		if w := lipgloss.Width(lines[len(lines)-1]); w > 30 {
			t.Errorf("retry line width = %d, want <= 30", w)
		}
	})
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"timeout", errors.NewFetchError("request timed out", errors.ErrTimeout), "The source did not answer in time."},
		{"malformed", errors.NewDecodeError("bad title", errors.ErrMalformedDefinition), "The document is not a valid board definition."},
		{"status", errors.NewFetchError("unexpected status", nil).WithStatus(404), "The server answered HTTP 404."},
		{"gave up", errors.NewFetchError("dial failed", nil).WithAttempt(3), "Gave up after 3 attempts."},
		{"unreachable", errors.NewFetchError("dial failed", nil).WithAttempt(1), "The source could not be reached."},
		{"other", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err); got != tt.want {
				t.Errorf("Hint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderFailure(t *testing.T) {
	err := errors.NewFetchError("unexpected status", nil).WithURL("http://host/def").WithStatus(500)
	got := ansi.Strip(RenderFailure(styles.Default(), FailureState{Source: "http://host/def", Err: err, Width: 80}))

	for _, want := range []string{"Could not load the board", "Source: http://host/def", "HTTP 500", "unexpected status"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderFailure() missing %q:\n%s", want, got)
		}
	}
}

func TestRenderStatus(t *testing.T) {
	s := styles.Default()

	if got := RenderStatus(s, "", true, 80); got != "" {
		t.Errorf("RenderStatus(empty) = %q, want empty", got)
	}

	got := ansi.Strip(RenderStatus(s, "update rejected\nno such key", true, 80))
	if got != "update rejected no such key" {
		t.Errorf("RenderStatus() = %q, want newlines flattened", got)
	}

	if w := lipgloss.Width(RenderStatus(s, strings.Repeat("x", 100), false, 20)); w > 20 {
		t.Errorf("RenderStatus() width = %d, want <= 20", w)
	}
}
