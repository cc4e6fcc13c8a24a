// Package bootstrap loads the definition document a board starts from.
//
// The document is fetched once, over HTTP or from a local file, and handed
// to the renderer. It is never consulted again: from then on the registry
// owns element state.
package bootstrap

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/tileboard/internal/element"
	"github.com/Iron-Ham/tileboard/internal/errors"
)

// Document is a decoded definition document.
type Document struct {
	// Title is rendered as the page heading.
	Title string

	// Root is the initial element tree, or nil when the document has no
	// rootElement.
	Root element.Element

	// Source names where the document came from.
	Source string

	// Attempts is the number of fetches it took to load the document.
	Attempts int
}

type wireDocument struct {
	Title       json.RawMessage `json:"title"`
	RootElement json.RawMessage `json:"rootElement"`
}

// Decode parses a JSON definition document.
func Decode(data []byte) (*Document, error) {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, malformed("document is not a JSON object", err)
	}

	// A title that is not a string leaves the board untitled
	doc := &Document{}
	if len(wire.Title) > 0 && string(wire.Title) != "null" {
		_ = json.Unmarshal(wire.Title, &doc.Title)
	}

	if len(wire.RootElement) == 0 || string(wire.RootElement) == "null" {
		return doc, nil
	}

	var rec element.Record
	if err := json.Unmarshal(wire.RootElement, &rec); err != nil || rec == nil {
		return nil, malformed("rootElement must be an object", err)
	}
	doc.Root = element.DecodeTolerant(rec, "rootElement")
	return doc, nil
}

// DecodeYAML parses a definition document written in YAML. The YAML is
// converted to JSON first, so both forms decode identically.
func DecodeYAML(data []byte) (*Document, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, malformed("document is not valid YAML", err)
	}
	if v == nil {
		v = map[string]any{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, malformed("document has non-string keys", err)
	}
	return Decode(data)
}

// DecodeFile picks the decoder by the file name's extension: .yaml and .yml
// are YAML, everything else is JSON.
func DecodeFile(name string, data []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return Decode(data)
	}
}

func malformed(message string, cause error) error {
	if cause == nil {
		cause = errors.ErrMalformedDefinition
	} else {
		cause = fmt.Errorf("%w: %w", errors.ErrMalformedDefinition, cause)
	}
	return errors.NewDecodeError(message, cause)
}
