package actions

import (
	"encoding/json"
	"fmt"
)

// Document is the wire form of an action, as produced by agents.
//
//	{"kind":"interaction","verb":"fill","params":{"value":"go"},
//	 "selectors":[{"strategy":"role","value":"textbox","name":"Search"}]}
type Document struct {
	Kind      Kind            `json:"kind"`
	Verb      string          `json:"verb"`
	Params    json.RawMessage `json:"params,omitempty"`
	Selectors []Selector      `json:"selectors,omitempty"`
}

// Decode parses a JSON action document into its variant and validates it.
func Decode(data []byte) (Action, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse action document: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument converts a parsed document into its variant and validates it.
func FromDocument(doc Document) (Action, error) {
	var action Action
	switch doc.Kind {
	case KindBrowser:
		a := BrowserAction{Verb: BrowserVerb(doc.Verb)}
		if err := decodeParams(doc.Params, &a.Params); err != nil {
			return nil, err
		}
		action = a
	case KindInteraction:
		a := InteractionAction{Verb: InteractionVerb(doc.Verb), Selectors: doc.Selectors}
		if err := decodeParams(doc.Params, &a.Params); err != nil {
			return nil, err
		}
		action = a
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, doc.Kind)
	}
	if err := action.Validate(); err != nil {
		return nil, err
	}
	return action, nil
}

// Encode renders a BrowserAction or InteractionAction as a JSON document.
func Encode(action Action) ([]byte, error) {
	var doc Document
	var params interface{}
	switch a := action.(type) {
	case BrowserAction:
		doc = Document{Kind: KindBrowser, Verb: string(a.Verb)}
		params = a.Params
	case InteractionAction:
		doc = Document{Kind: KindInteraction, Verb: string(a.Verb), Selectors: a.Selectors}
		params = a.Params
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, action)
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode action params: %w", err)
	}
	if string(raw) != "{}" {
		doc.Params = raw
	}
	return json.Marshal(doc)
}

func decodeParams(raw json.RawMessage, into interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
