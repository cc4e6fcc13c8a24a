package element

import "encoding/json"

// ActionType is the tag of a button action.
type ActionType string

// ActionUpdate overlays Value onto the element at ReferenceElementKey.
const ActionUpdate ActionType = "update"

// Action is a declarative state mutation attached to a button.
// Actions with an unrecognized Type are ignored by the dispatcher.
type Action struct {
	Type                ActionType `json:"type"`
	ReferenceElementKey string     `json:"referenceElementKey,omitempty"`
	Value               Record     `json:"value,omitempty"`
}

// decodeAction is lenient about the action shape: anything that is not an
// object decodes to the zero Action, which dispatches as a no-op.
func decodeAction(raw json.RawMessage) Action {
	var a Action
	if len(raw) == 0 {
		return a
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return Action{}
	}
	return a
}
