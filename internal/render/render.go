package render

import (
	"html/template"

	"github.com/blastview/blastview/internal/models"
)

// Rendering is the complete displayed state derived from one AnalysisResult.
// It shares no memory with the payload and is not modified after Render
// returns.
type Rendering struct {
	Intent   string                `json:"intent,omitempty"`
	Elements []models.GraphElement `json:"elements"`
	Style    []StyleRule           `json:"style"`
	Layout   Layout                `json:"layout"`
	Stats    Stats                 `json:"stats"`
	Impacts  []models.ImpactRecord `json:"impacts"`
	ListHTML template.HTML         `json:"list_html"`
}

// Render builds the graph and list projections of res in one pass. Stats and
// list are derived from the same impacts slice.
func Render(res *models.AnalysisResult) *Rendering {
	impacts := SortImpacts(res.Impacts)

	return &Rendering{
		Intent:   res.Intent,
		Elements: ClassifyElements(res.GraphData, res.StartNodes),
		Style:    Stylesheet(),
		Layout:   RenderLayout,
		Stats:    ComputeStats(impacts),
		Impacts:  impacts,
		ListHTML: RenderList(impacts),
	}
}

// Empty returns the rendering shown before any analysis has completed.
func Empty() *Rendering {
	return &Rendering{
		Elements: []models.GraphElement{},
		Style:    Stylesheet(),
		Layout:   InitialLayout,
		Impacts:  []models.ImpactRecord{},
		ListHTML: RenderList(nil),
	}
}
