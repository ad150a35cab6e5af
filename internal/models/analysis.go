// Package models defines the impact-analysis payload exchanged with the
// analysis service.
package models

import (
	"encoding/json"
	"slices"
)

// AnalyzeRequest is the body POSTed to the analysis service.
type AnalyzeRequest struct {
	CodebasePath string `json:"codebase_path"`
	ChangeIntent string `json:"change_intent"`
}

// AnalysisResult is the payload of one successful analysis. It is owned by a
// single render pass and never merged with a previous result.
type AnalysisResult struct {
	Intent     string         `json:"intent,omitempty"`
	StartNodes NodeSet        `json:"start_nodes"`
	GraphData  []GraphElement `json:"graph_data"`
	Impacts    []ImpactRecord `json:"impacts"`
}

// ImpactRecord describes one affected artifact. Every string field is
// untrusted and must be escaped before it reaches markup.
type ImpactRecord struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category"`
	IsDirect    bool   `json:"is_direct"`
	Explanation string `json:"explanation"`
}

// NodeSet is the set of artifact identifiers named directly by the change.
// It travels as a JSON array; duplicates collapse on decode.
type NodeSet map[string]struct{}

// NewNodeSet builds a NodeSet from ids.
func NewNodeSet(ids ...string) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Has reports whether id is in the set. A nil set contains nothing.
func (s NodeSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in sorted order.
func (s NodeSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// UnmarshalJSON decodes a JSON array of strings. null decodes to an empty set.
func (s *NodeSet) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return ErrInvalidField("start_nodes", err)
	}

	*s = NewNodeSet(ids...)

	return nil
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s NodeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}
