// Package chart turns analysis results into bar and line charts and renders
// them either as terminal text or as inline SVG for the dashboard.
package chart

import (
	"io"
	"strconv"

	"github.com/KaramelBytes/paperlens/internal/analysis"
)

// Point is one labelled value.
type Point struct {
	Label string
	Value int
}

// Bar is a horizontal bar chart, drawn top to bottom in Points order.
type Bar struct {
	Title  string
	XLabel string
	YLabel string
	Points []Point
}

// Line is a line chart over ordered x labels.
type Line struct {
	Title  string
	XLabel string
	YLabel string
	Points []Point
}

// Renderer draws charts to w.
type Renderer interface {
	RenderBar(w io.Writer, b Bar) error
	RenderLine(w io.Writer, l Line) error
}

// FromFrequency builds a bar chart from a ranked frequency table.
func FromFrequency(title, xlabel, ylabel string, counts []analysis.CategoryCount) Bar {
	b := Bar{Title: title, XLabel: xlabel, YLabel: ylabel, Points: make([]Point, 0, len(counts))}
	for _, c := range counts {
		b.Points = append(b.Points, Point{Label: c.Value, Value: c.Count})
	}
	return b
}

// FromSeries builds a line chart from a year series.
func FromSeries(title, xlabel, ylabel string, ts analysis.TimeSeries) Line {
	l := Line{Title: title, XLabel: xlabel, YLabel: ylabel, Points: make([]Point, 0, len(ts))}
	for _, y := range ts {
		l.Points = append(l.Points, Point{Label: strconv.Itoa(y.Year), Value: y.Count})
	}
	return l
}

func maxValue(pts []Point) int {
	m := 0
	for _, p := range pts {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}
