package render

import (
	"html/template"
	"slices"
	"strings"

	"github.com/blastview/blastview/internal/models"
)

// PlaceholderText is shown instead of the list when there are no impacts.
const PlaceholderText = "No impacts detected."

// Impact tag text and classes.
const (
	tagDirectText    = "Direct Impact"
	tagIndirectText  = "Indirect Impact"
	tagDirectClass   = "tag-direct"
	tagIndirectClass = "tag-indirect"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&#39;",
	`"`, "&quot;",
)

// Escape replaces the five HTML-significant characters in s with entities.
// Strings without them are returned unchanged.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// Stats summarises an impact list.
type Stats struct {
	Total    int `json:"total"`
	Direct   int `json:"direct"`
	Indirect int `json:"indirect"`
}

// ComputeStats counts impacts. Total always equals Direct + Indirect.
func ComputeStats(impacts []models.ImpactRecord) Stats {
	s := Stats{Total: len(impacts)}

	for _, imp := range impacts {
		if imp.IsDirect {
			s.Direct++
		} else {
			s.Indirect++
		}
	}

	return s
}

// SortImpacts returns a copy of impacts with direct impacts first. Relative
// order within each group is preserved.
func SortImpacts(impacts []models.ImpactRecord) []models.ImpactRecord {
	sorted := slices.Clone(impacts)
	if sorted == nil {
		sorted = []models.ImpactRecord{}
	}

	slices.SortStableFunc(sorted, func(a, b models.ImpactRecord) int {
		return directRank(b) - directRank(a)
	})

	return sorted
}

func directRank(imp models.ImpactRecord) int {
	if imp.IsDirect {
		return 1
	}

	return 0
}

// RenderList builds the impact list markup. impacts must already be sorted.
// Every untrusted field goes through Escape.
func RenderList(impacts []models.ImpactRecord) template.HTML {
	if len(impacts) == 0 {
		return template.HTML(`<p class="placeholder-text">` + PlaceholderText + `</p>`) //nolint:gosec // constant markup.
	}

	var b strings.Builder

	for _, imp := range impacts {
		tagClass, tagText := tagIndirectClass, tagIndirectText
		if imp.IsDirect {
			tagClass, tagText = tagDirectClass, tagDirectText
		}

		b.WriteString(`<div class="impact-item">`)
		b.WriteString(`<div class="impact-header">`)
		b.WriteString(`<span class="impact-title">` + Escape(imp.ID) + `</span>`)
		b.WriteString(`<div class="impact-tags">`)
		b.WriteString(`<span class="tag tag-category">` + Escape(imp.Category) + `</span>`)
		b.WriteString(`<span class="tag ` + tagClass + `">` + tagText + `</span>`)
		b.WriteString(`</div></div>`)
		b.WriteString(`<div class="impact-explanation">` + Escape(imp.Explanation) + `</div>`)
		b.WriteString(`</div>`)
	}

	return template.HTML(b.String()) //nolint:gosec // fields escaped above.
}
