package render

// StyleRule is one selector/style pair of the canvas stylesheet.
type StyleRule struct {
	Selector string         `json:"selector"`
	Style    map[string]any `json:"style"`
}

// Layout names the canvas layout algorithm and its options.
type Layout struct {
	Name    string `json:"name"`
	Padding int    `json:"padding"`
}

// Canvas colours.
const (
	ColorNode        = "#2c303a"
	ColorEdge        = "#3a3f4c"
	ColorHighlighted = "#ff7e67"
	ColorDirect      = "#ff7e67"
	ColorIndirect    = "#f1c40f"
	ColorBorder      = "#fff"
)

// Layout presets. Every render re-runs the force-directed layout over the
// full element set.
var (
	InitialLayout = Layout{Name: "cose", Padding: 30}
	RenderLayout  = Layout{Name: "cose", Padding: 50}
)

// Stylesheet returns the canvas stylesheet. The class rules come after the
// node[?highlighted] rule so .direct and .indirect override it.
func Stylesheet() []StyleRule {
	return []StyleRule{
		{
			Selector: "node",
			Style: map[string]any{
				"label":            "data(label)",
				"color":            "#fff",
				"text-valign":      "bottom",
				"text-margin-y":    5,
				"font-size":        "12px",
				"font-family":      "Inter, sans-serif",
				"background-color": ColorNode,
				"width":            24,
				"height":           24,
			},
		},
		{
			Selector: "node[?highlighted]",
			Style: map[string]any{
				"background-color": ColorHighlighted,
				"width":            30,
				"height":           30,
				"border-width":     2,
				"border-color":     ColorBorder,
			},
		},
		{
			Selector: "edge",
			Style: map[string]any{
				"width":              2,
				"line-color":         ColorEdge,
				"target-arrow-color": ColorEdge,
				"target-arrow-shape": "triangle",
				"curve-style":        "bezier",
				"label":              "data(label)",
				"font-size":          "10px",
				"color":              "#888",
				"text-rotation":      "autorotate",
				"text-margin-y":      -8,
			},
		},
		{
			Selector: "." + string(ClassDirect),
			Style: map[string]any{
				"background-color": ColorDirect,
				"border-color":     ColorBorder,
			},
		},
		{
			Selector: "." + string(ClassIndirect),
			Style: map[string]any{
				"background-color": ColorIndirect,
				"border-color":     ColorBorder,
			},
		},
	}
}
