package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// ElementKind tags a GraphElement as a node or an edge.
type ElementKind int

// Element kinds.
const (
	KindEdge ElementKind = iota
	KindNode
)

// String implements fmt.Stringer.
func (k ElementKind) String() string {
	if k == KindNode {
		return "node"
	}

	return "edge"
}

// Node is a graph vertex as sent by the analysis service.
type Node struct {
	ID          string
	Label       string
	Type        string
	Highlighted bool
}

// Edge connects two node identifiers.
type Edge struct {
	ID     string
	Source string
	Target string
	Label  string
}

// GraphElement is one entry of graph_data. Exactly one of Node or Edge is set;
// the variant is decided once, in UnmarshalJSON.
//
// Attrs holds the element's data object as received so attributes this
// package does not model survive re-encoding. Typed fields are written over
// Attrs on encode.
type GraphElement struct {
	Node    *Node
	Edge    *Edge
	Classes []string
	Attrs   map[string]json.RawMessage
}

// NewNode wraps n in a GraphElement.
func NewNode(n Node) GraphElement {
	return GraphElement{Node: &n}
}

// NewEdge wraps e in a GraphElement.
func NewEdge(e Edge) GraphElement {
	return GraphElement{Edge: &e}
}

// Kind reports which variant the element holds.
func (e GraphElement) Kind() ElementKind {
	if e.Node != nil {
		return KindNode
	}

	return KindEdge
}

// HasClass reports whether class is among the element's classes.
func (e GraphElement) HasClass(class string) bool {
	return slices.Contains(e.Classes, class)
}

// UnmarshalJSON decodes a cytoscape element ({"data": {...}, "classes": ...}).
// An element whose data carries a non-empty id and a highlighted key is a
// Node; everything else is an Edge. A non-zero numeric id counts and is kept
// as its literal text.
func (e *GraphElement) UnmarshalJSON(b []byte) error {
	var w struct {
		Data    map[string]json.RawMessage `json:"data"`
		Classes json.RawMessage            `json:"classes"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("decode graph element: %w", err)
	}

	if w.Data == nil {
		return ErrMissingData
	}

	classes, err := decodeClasses(w.Classes)
	if err != nil {
		return ErrInvalidField("classes", err)
	}

	*e = GraphElement{Classes: classes, Attrs: w.Data}

	id := idAttr(w.Data, "id")
	rawHighlight, hasHighlight := w.Data["highlighted"]

	if id != "" && hasHighlight {
		highlighted, err := decodeHighlight(rawHighlight)
		if err != nil {
			return fmt.Errorf("node %q: %w", id, err)
		}

		e.Node = &Node{
			ID:          id,
			Label:       stringAttr(w.Data, "label"),
			Type:        stringAttr(w.Data, "type"),
			Highlighted: highlighted,
		}

		return nil
	}

	e.Edge = &Edge{
		ID:     id,
		Source: stringAttr(w.Data, "source"),
		Target: stringAttr(w.Data, "target"),
		Label:  stringAttr(w.Data, "label"),
	}

	return nil
}

// MarshalJSON encodes the element in cytoscape element form.
func (e GraphElement) MarshalJSON() ([]byte, error) {
	data := make(map[string]any, len(e.Attrs)+4)
	for k, v := range e.Attrs {
		data[k] = v
	}

	switch {
	case e.Node != nil:
		data["id"] = e.Node.ID
		data["highlighted"] = e.Node.Highlighted
		setNonEmpty(data, "label", e.Node.Label)
		setNonEmpty(data, "type", e.Node.Type)
	case e.Edge != nil:
		setNonEmpty(data, "id", e.Edge.ID)
		setNonEmpty(data, "source", e.Edge.Source)
		setNonEmpty(data, "target", e.Edge.Target)
		setNonEmpty(data, "label", e.Edge.Label)
	}

	out := struct {
		Data    map[string]any `json:"data"`
		Classes string         `json:"classes,omitempty"`
	}{
		Data:    data,
		Classes: strings.Join(e.Classes, " "),
	}

	return json.Marshal(out)
}

func setNonEmpty(data map[string]any, key, value string) {
	if value != "" {
		data[key] = value
	}
}

// stringAttr returns data[key] when it is a JSON string, otherwise "".
func stringAttr(data map[string]json.RawMessage, key string) string {
	raw, ok := data[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return s
}

// idAttr reads an element id. Strings are returned as is. A non-zero number
// is returned as its literal text; zero reads as no id.
func idAttr(data map[string]json.RawMessage, key string) string {
	raw, ok := data[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}

	if f, err := n.Float64(); err != nil || f == 0 {
		return ""
	}

	return n.String()
}

// decodeHighlight accepts true, false or null (null reads as false).
func decodeHighlight(raw json.RawMessage) (bool, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false, nil
	}

	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, ErrInvalidHighlight
	}

	return v, nil
}

// decodeClasses accepts the two cytoscape spellings: "a b" or ["a", "b"].
func decodeClasses(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}

		return list, nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, err
	}

	return strings.Fields(s), nil
}
