package element

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Iron-Ham/tileboard/internal/errors"
)

// Decode parses one element from its JSON form.
func Decode(data []byte) (Element, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.NewDecodeError("element is not a JSON object", err)
	}
	return decodeRecord(rec, "")
}

// DecodeRecord decodes an element from a raw field record. Records with an
// unrecognized type decode to *Unknown without error.
func DecodeRecord(rec Record) (Element, error) {
	return decodeRecord(rec, "")
}

// DecodeAt is DecodeRecord with path used to locate errors in a larger document.
func DecodeAt(rec Record, path string) (Element, error) {
	return decodeRecord(rec, path)
}

// DecodeTolerant is DecodeAt for records that must not fail as a whole. A
// record that does not decode becomes *Unknown holding the failure.
func DecodeTolerant(rec Record, path string) Element {
	el, err := decodeRecord(rec, path)
	if err != nil {
		return unknownFrom(rec, err)
	}
	return el
}

// unknownFrom keeps whatever identity rec still has. A non-string
// elementKey leaves the element keyless.
func unknownFrom(rec Record, problem error) *Unknown {
	rec = rec.Clone()
	key, _ := stringField(rec, FieldKey)
	typ, _ := stringField(rec, FieldType)
	return &Unknown{base: base{key: key, typ: Type(typ), record: rec}, Problem: problem}
}

func decodeRecord(rec Record, path string) (Element, error) {
	rec = rec.Clone()

	key, err := stringField(rec, FieldKey)
	if err != nil {
		return nil, errors.NewDecodeError("elementKey must be a string", err).WithPath(path)
	}

	// A type tag that is not a string is as unrenderable as an unknown one.
	typ, _ := stringField(rec, FieldType)
	b := base{key: key, typ: Type(typ), record: rec}

	fail := func(field string, err error) error {
		return errors.NewDecodeError(fmt.Sprintf("field %q of %s", field, typ), err).
			WithPath(path).
			WithKey(key)
	}

	switch b.typ {
	case TypeText:
		e := &TextTile{base: b}
		if e.Title, err = stringField(rec, "title"); err != nil {
			return nil, fail("title", err)
		}
		if e.Text, err = stringField(rec, "text"); err != nil {
			return nil, fail("text", err)
		}
		color, err := stringField(rec, "color")
		if err != nil {
			return nil, fail("color", err)
		}
		e.Color = Color(color)
		return e, nil

	case TypeImage:
		e := &ImageTile{base: b}
		if e.Source, err = stringField(rec, "source"); err != nil {
			return nil, fail("source", err)
		}
		if e.Title, err = stringField(rec, "title"); err != nil {
			return nil, fail("title", err)
		}
		return e, nil

	case TypeButton:
		e := &ButtonTile{base: b}
		if e.Text, err = stringField(rec, "text"); err != nil {
			return nil, fail("text", err)
		}
		e.Action = decodeAction(rec["action"])
		return e, nil

	case TypeHorizontal:
		children, err := decodeChildren(rec, path)
		if err != nil {
			return nil, err
		}
		return &HorizontalSplitter{base: b, Elements: children}, nil

	case TypeVertical:
		children, err := decodeChildren(rec, path)
		if err != nil {
			return nil, err
		}
		return &VerticalSplitter{base: b, Elements: children}, nil

	default:
		return &Unknown{base: b}, nil
	}
}

// decodeChildren fails only when elements is not an array. A child that
// does not decode takes its place as *Unknown so its siblings survive.
func decodeChildren(rec Record, path string) ([]Element, error) {
	raw, ok := rec[FieldElements]
	if !ok || isNull(raw) {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.NewDecodeError("elements must be an array", err).WithPath(path)
	}

	children := make([]Element, 0, len(items))
	for i, item := range items {
		childPath := fmt.Sprintf("%s.elements[%d]", path, i)
		if path == "" {
			childPath = fmt.Sprintf("elements[%d]", i)
		}

		var child Record
		if err := json.Unmarshal(item, &child); err != nil || child == nil {
			problem := errors.NewDecodeError("element is not a JSON object", err).WithPath(childPath)
			children = append(children, unknownFrom(Record{}, problem))
			continue
		}
		children = append(children, DecodeTolerant(child, childPath))
	}
	return children, nil
}

// stringField returns the string value of a field. Absent and null fields
// decode to "".
func stringField(rec Record, name string) (string, error) {
	raw, ok := rec[name]
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Encode returns the JSON form of an element's record.
func Encode(e Element) ([]byte, error) {
	return json.Marshal(e.Record())
}

// NewRecord returns a record holding only an elementKey.
func NewRecord(key string) Record {
	raw, _ := json.Marshal(key)
	return Record{FieldKey: raw}
}

// Overlay returns a copy of rec with every field of patch applied on top.
// elementKey is never taken from patch. type is taken from patch only when
// rec has none, which is how a synthetic element becomes renderable.
func Overlay(rec, patch Record) Record {
	out := rec.Clone()
	_, typed := rec[FieldType]
	for name, value := range patch {
		if name == FieldKey || (name == FieldType && typed) {
			continue
		}
		out[name] = value
	}
	return out
}

// Merge overlays patch onto e and decodes the result. The returned element
// keeps e's elementKey, and its type if it had one.
func Merge(e Element, patch Record) (Element, error) {
	return DecodeRecord(Overlay(e.Record(), patch))
}
