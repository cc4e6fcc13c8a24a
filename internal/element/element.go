// Package element defines the tile element model decoded from a tileboard
// definition document.
//
// An element is one of five closed variants (text, image, button, horizontal
// splitter, vertical splitter) plus Unknown, which stands in for any record
// whose type tag is not recognized. Every element keeps the raw field record
// it was decoded from, so a merge-update can overlay fields by name and
// re-decode without losing fields the variant does not model.
//
// Dispatch on the variant goes through [Visitor]. Adding a variant means
// adding a Visitor method, which breaks compilation of every visitor that
// does not handle it yet.
package element

import (
	"encoding/json"
	"maps"
)

// Type is the closed tag selecting an element variant.
type Type string

// Known element types.
const (
	TypeText       Type = "textTile"
	TypeImage      Type = "imageTile"
	TypeButton     Type = "buttonTile"
	TypeHorizontal Type = "horizontalSplitter"
	TypeVertical   Type = "verticalSplitter"
)

// Known reports whether t is one of the five renderable types.
func (t Type) Known() bool {
	switch t {
	case TypeText, TypeImage, TypeButton, TypeHorizontal, TypeVertical:
		return true
	}
	return false
}

// Color is a text tile background from the fixed palette.
type Color string

// Palette colors.
const (
	ColorDark  Color = "dark"
	ColorMid   Color = "mid"
	ColorLight Color = "light"
)

// Valid reports whether c is a palette color.
func (c Color) Valid() bool {
	return c == ColorDark || c == ColorMid || c == ColorLight
}

// Record field names with special meaning.
const (
	FieldKey      = "elementKey"
	FieldType     = "type"
	FieldElements = "elements"
)

// Record is the raw field set of an element, keyed by field name.
type Record map[string]json.RawMessage

// Clone returns a shallow copy of r. Raw values are immutable by convention
// so sharing them is safe.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	return maps.Clone(r)
}

// Element is a decoded element of any variant.
type Element interface {
	// Key returns the elementKey, or "" when the record has none.
	Key() string
	// Type returns the type tag as written in the record.
	Type() Type
	// Record returns a copy of the raw field record.
	Record() Record
	// Accept calls the Visitor method matching the variant.
	Accept(v Visitor)
}

// Visitor handles each element variant.
type Visitor interface {
	VisitText(*TextTile)
	VisitImage(*ImageTile)
	VisitButton(*ButtonTile)
	VisitHorizontal(*HorizontalSplitter)
	VisitVertical(*VerticalSplitter)
	VisitUnknown(*Unknown)
}

type base struct {
	key    string
	typ    Type
	record Record
}

func (b *base) Key() string    { return b.key }
func (b *base) Type() Type     { return b.typ }
func (b *base) Record() Record { return b.record.Clone() }

// TextTile is a box of optional title and text on a palette background.
type TextTile struct {
	base
	Title string
	Text  string
	Color Color
}

func (e *TextTile) Accept(v Visitor) { v.VisitText(e) }

// ImageTile references an image by URI. Title doubles as alt text.
type ImageTile struct {
	base
	Source string
	Title  string
}

func (e *ImageTile) Accept(v Visitor) { v.VisitImage(e) }

// ButtonTile is an activatable control carrying an Action.
type ButtonTile struct {
	base
	Text   string
	Action Action
}

func (e *ButtonTile) Accept(v Visitor) { v.VisitButton(e) }

// HorizontalSplitter lays out its children left to right.
type HorizontalSplitter struct {
	base
	Elements []Element
}

func (e *HorizontalSplitter) Accept(v Visitor) { v.VisitHorizontal(e) }

// VerticalSplitter lays out its children top to bottom.
type VerticalSplitter struct {
	base
	Elements []Element
}

func (e *VerticalSplitter) Accept(v Visitor) { v.VisitVertical(e) }

// Unknown is a record whose type tag is missing or unrecognized, or a
// nested record that could not be decoded as its declared type.
// It is never rendered.
type Unknown struct {
	base
	// Problem is the decode failure for a record with a known type, nil
	// when the type itself was not recognized.
	Problem error
}

func (e *Unknown) Accept(v Visitor) { v.VisitUnknown(e) }

// Children returns the declared children of a splitter, or nil for leaves.
func Children(e Element) []Element {
	switch s := e.(type) {
	case *HorizontalSplitter:
		return s.Elements
	case *VerticalSplitter:
		return s.Elements
	}
	return nil
}
