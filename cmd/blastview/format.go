package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/blastview/blastview/internal/render"
)

func formatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func formatTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			width := 0
			if i < len(widths) {
				width = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", width, cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, width := range widths {
		seps[i] = strings.Repeat("-", width)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

// formatImpacts prints the summary line and the sorted impact table.
func formatImpacts(w io.Writer, r *render.Rendering) error {
	fmt.Fprintf(w, "Total: %d  Direct: %d  Indirect: %d\n\n", r.Stats.Total, r.Stats.Direct, r.Stats.Indirect)

	if len(r.Impacts) == 0 {
		_, err := fmt.Fprintln(w, render.PlaceholderText)
		return err
	}

	rows := make([][]string, 0, len(r.Impacts))
	for _, imp := range r.Impacts {
		scope := "indirect"
		if imp.IsDirect {
			scope = "direct"
		}
		rows = append(rows, []string{imp.ID, imp.Category, scope, imp.Explanation})
	}
	formatTable(w, []string{"ID", "CATEGORY", "SCOPE", "EXPLANATION"}, rows)

	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid --timeout %q: want a non-negative duration", s)
	}
	return d, nil
}
