// Package render turns an analysis payload into the two projections shown to
// the user: a classified graph document for the canvas and a ranked impact
// list.
package render

import (
	"maps"
	"slices"

	"github.com/blastview/blastview/internal/models"
)

// Class is the highlight class assigned to a node.
type Class string

// Node classes. ClassNone leaves the node on the default style.
const (
	ClassNone     Class = ""
	ClassDirect   Class = "direct"
	ClassIndirect Class = "indirect"
)

// Classify assigns n its highlight class. Membership in start wins over the
// highlighted flag.
func Classify(n *models.Node, start models.NodeSet) Class {
	switch {
	case start.Has(n.ID):
		return ClassDirect
	case n.Highlighted:
		return ClassIndirect
	default:
		return ClassNone
	}
}

// ClassifyElements returns a copy of elements with every node carrying its
// class. Highlight classes already present on the input are dropped first so
// the result depends only on the node and start. Edges are copied unchanged.
func ClassifyElements(elements []models.GraphElement, start models.NodeSet) []models.GraphElement {
	out := make([]models.GraphElement, 0, len(elements))

	for _, el := range elements {
		cp := copyElement(el)

		if cp.Node != nil {
			cp.Classes = slices.DeleteFunc(cp.Classes, func(c string) bool {
				return c == string(ClassDirect) || c == string(ClassIndirect)
			})

			if class := Classify(cp.Node, start); class != ClassNone {
				cp.Classes = append(cp.Classes, string(class))
			}
		}

		out = append(out, cp)
	}

	return out
}

// copyElement deep-copies el so the rendering shares nothing with the payload.
func copyElement(el models.GraphElement) models.GraphElement {
	cp := models.GraphElement{
		Classes: slices.Clone(el.Classes),
		Attrs:   maps.Clone(el.Attrs),
	}

	if el.Node != nil {
		n := *el.Node
		cp.Node = &n
	}

	if el.Edge != nil {
		e := *el.Edge
		cp.Edge = &e
	}

	return cp
}
