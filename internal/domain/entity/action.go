package entity

import "fmt"

// Action is one named browser action with its parameter mapping.
// Err is set when the wire entry could not be decoded into exactly one
// named action; such an entry dispatches nothing.
type Action struct {
	Name   string
	Params map[string]any
	Err    string
}

// ReferencesElement reports whether the action addresses a concrete
// element of the current selector map. Actions that do are the ones
// whose follow-ups become unsafe once the page layout drifts.
func (a Action) ReferencesElement() bool {
	if a.Params == nil {
		return false
	}
	_, ok := a.Params["index"]
	return ok
}

// ParseAction decodes the single-key wire form {"click_element": {"index": 3}}.
// The value may be null for parameterless actions.
func ParseAction(raw map[string]any) Action {
	if len(raw) != 1 {
		return Action{Err: fmt.Sprintf("invalid action format: expected exactly one action name, got %d keys", len(raw))}
	}
	for name, value := range raw {
		params := map[string]any{}
		switch v := value.(type) {
		case nil:
		case map[string]any:
			params = v
		default:
			return Action{Err: fmt.Sprintf("invalid action format: parameters of %q must be an object", name)}
		}
		return Action{Name: name, Params: params}
	}
	return Action{Err: "invalid action format: empty entry"}
}

// ActionResult is the outcome of one dispatched action. At most one of
// ExtractedContent and Error is set; both empty means bare success.
type ActionResult struct {
	Action           string
	ExtractedContent string
	Error            string
}

// Text renders the result the way it is sent back over the tool boundary.
func (r ActionResult) Text() string {
	switch {
	case r.Error != "":
		return "Error: " + r.Error
	case r.ExtractedContent != "":
		return r.ExtractedContent
	default:
		return fmt.Sprintf("Action %s executed successfully", r.Action)
	}
}
