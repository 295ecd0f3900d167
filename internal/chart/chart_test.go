package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/paperlens/internal/analysis"
)

func sampleBar() Bar {
	return FromFrequency("Top Journals", "Number of papers", "Journal", []analysis.CategoryCount{
		{Value: "Lancet", Count: 10}, {Value: "BMJ", Count: 5}, {Value: "Nature <Micro>", Count: 1},
	})
}

func sampleLine() Line {
	return FromSeries("Publications by Year", "Year", "Papers", analysis.TimeSeries{
		{Year: 2019, Count: 4}, {Year: 2020, Count: 40}, {Year: 2021, Count: 0},
	})
}

func TestFromSeries_Labels(t *testing.T) {
	l := sampleLine()
	require.Len(t, l.Points, 3)
	assert.Equal(t, "2019", l.Points[0].Label)
	assert.Equal(t, 40, l.Points[1].Value)
}

func TestTextRenderer_Bar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{Width: 20}.RenderBar(&buf, sampleBar()))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Top Journals", lines[0])
	assert.Contains(t, lines[3], strings.Repeat("█", 20)+" 10")
	assert.Contains(t, lines[4], strings.Repeat("█", 10)+" 5")
	assert.Contains(t, lines[5], "│██ 1")
	// labels are padded to the same width
	assert.Equal(t, strings.Index(lines[3], "│"), strings.Index(lines[4], "│"))
}

func TestTextRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.RenderLine(&buf, Line{Title: "Empty"}))
	assert.Contains(t, buf.String(), NoDataText)
}

func TestTextRenderer_Line(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{Width: 10}.RenderLine(&buf, sampleLine()))
	out := buf.String()
	assert.Contains(t, out, "2020 40 │·········●")
	assert.Contains(t, out, "2021  0 │○")
}

func TestSVGRenderer_Bar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVGRenderer{}.RenderBar(&buf, sampleBar()))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Find("rect.bar").Length())
	assert.Equal(t, "Top Journals", doc.Find("h3").First().Text())
	assert.Contains(t, doc.Text(), "Nature <Micro>")
}

func TestSVGRenderer_LineAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVGRenderer{Width: 400, Height: 200}.RenderLine(&buf, sampleLine()))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Find("circle.point").Length())
	assert.Equal(t, 1, doc.Find("polyline").Length())

	buf.Reset()
	require.NoError(t, SVGRenderer{}.RenderBar(&buf, Bar{Title: "Top Words"}))
	assert.Contains(t, buf.String(), NoDataMessage)
	assert.NotContains(t, buf.String(), "<svg")
}

func TestScaled_MinimumOneCell(t *testing.T) {
	assert.Equal(t, 1, scaled(1, 1000, 20))
	assert.Equal(t, 0, scaled(0, 1000, 20))
	assert.Equal(t, 0, scaled(5, 0, 20))
}
