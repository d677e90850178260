// Package score maps CET-6 translation scores to qualitative bands.
package score

import "github.com/charmbracelet/lipgloss"

// Band is a qualitative score range with its display colour.
type Band struct {
	Label string
	Min   int
	Color lipgloss.Color
}

// Bands are ordered from highest to lowest threshold.
var Bands = []Band{
	{Label: "优秀", Min: 13, Color: lipgloss.Color("#10B981")},
	{Label: "良好", Min: 10, Color: lipgloss.Color("#3B82F6")},
	{Label: "及格", Min: 7, Color: lipgloss.Color("#F59E0B")},
	{Label: "不及格", Min: 4, Color: lipgloss.Color("#F97316")},
	{Label: "需努力", Min: 0, Color: lipgloss.Color("#EF4444")},
}

// BandFor returns the band a score falls in. Scores below zero get the lowest band.
func BandFor(score int) Band {
	for _, b := range Bands {
		if score >= b.Min {
			return b
		}
	}
	return Bands[len(Bands)-1]
}
