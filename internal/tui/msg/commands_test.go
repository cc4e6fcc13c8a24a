package msg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Iron-Ham/tileboard/internal/bootstrap"
)

type stubSource struct {
	doc *bootstrap.Document
	err error
}

func (s stubSource) Load(context.Context) (*bootstrap.Document, error) { return s.doc, s.err }
func (s stubSource) String() string                                    { return "stub" }

func TestLoadDefinition(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		doc := &bootstrap.Document{Title: "Board"}
		result := LoadDefinition(context.Background(), stubSource{doc: doc})()

		loaded, ok := result.(LoadedMsg)
		if !ok {
			t.Fatalf("LoadDefinition() returned %T, want LoadedMsg", result)
		}
		if loaded.Err != nil || loaded.Doc != doc {
			t.Errorf("LoadedMsg = %+v, want the stub document", loaded)
		}
	})

	t.Run("failure", func(t *testing.T) {
		cause := errors.New("connection refused")
		result := LoadDefinition(context.Background(), stubSource{err: cause})()

		loaded := result.(LoadedMsg)
		if !errors.Is(loaded.Err, cause) {
			t.Errorf("LoadedMsg.Err = %v, want %v", loaded.Err, cause)
		}
		if loaded.Doc != nil {
			t.Error("LoadedMsg.Doc should be nil on failure")
		}
	})
}

func TestClearStatusAfter(t *testing.T) {
	start := time.Now()
	result := ClearStatusAfter(20*time.Millisecond, 7)()

	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("ClearStatusAfter() returned too quickly: %v", elapsed)
	}
	cleared, ok := result.(ClearStatusMsg)
	if !ok {
		t.Fatalf("ClearStatusAfter() returned %T, want ClearStatusMsg", result)
	}
	if cleared.Seq != 7 {
		t.Errorf("Seq = %d, want 7", cleared.Seq)
	}
}
