package chart

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/KaramelBytes/paperlens/internal/utils"
)

// NoDataMessage replaces a chart when the filtered table is empty.
const NoDataMessage = "No data available for the selected year range."

// SVGRenderer emits self-contained inline SVG.
type SVGRenderer struct {
	Width  int // zero means 640
	Height int // zero means 360 for lines; bars size to their rows
	Color  string
}

const (
	svgPad      = 40
	svgRowH     = 22
	svgLabelW   = 200
	svgFontSize = 12
)

func (r SVGRenderer) dims() (int, int, string) {
	w, h, c := r.Width, r.Height, r.Color
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 360
	}
	if c == "" {
		c = "#4c78a8"
	}
	return w, h, c
}

func esc(s string) string { return template.HTMLEscapeString(s) }

func writeNoData(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, `<div class="chart empty"><h3>%s</h3><p class="no-data">%s</p></div>`+"\n", esc(title), esc(NoDataMessage))
	return err
}

// RenderBar draws horizontal bars with labels on the left and counts at the tips.
func (r SVGRenderer) RenderBar(w io.Writer, b Bar) error {
	if len(b.Points) == 0 {
		return writeNoData(w, b.Title)
	}
	width, _, color := r.dims()
	height := 2*svgPad + len(b.Points)*svgRowH
	plotW := width - svgLabelW - svgPad
	top := maxValue(b.Points)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="chart"><h3>%s</h3>`, esc(b.Title))
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" role="img" width="%d" height="%d" viewBox="0 0 %d %d" font-size="%d">`,
		width, height, width, height, svgFontSize)
	fmt.Fprintf(&sb, `<title>%s</title>`, esc(b.Title))
	for i, p := range b.Points {
		y := svgPad + i*svgRowH
		bw := scaled(p.Value, top, plotW-40)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" text-anchor="end" dominant-baseline="middle">%s</text>`,
			svgLabelW-6, y+svgRowH/2, esc(utils.Clip(p.Label, 30)))
		fmt.Fprintf(&sb, `<rect class="bar" x="%d" y="%d" width="%d" height="%d" fill="%s"><title>%s: %d</title></rect>`,
			svgLabelW, y+3, bw, svgRowH-6, esc(color), esc(p.Label), p.Value)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" dominant-baseline="middle">%d</text>`,
			svgLabelW+bw+4, y+svgRowH/2, p.Value)
	}
	fmt.Fprintf(&sb, `<text x="%d" y="%d" text-anchor="middle">%s</text>`, svgLabelW+plotW/2, height-8, esc(b.XLabel))
	fmt.Fprintf(&sb, `<text x="12" y="%d" text-anchor="middle" transform="rotate(-90 12 %d)">%s</text>`, height/2, height/2, esc(b.YLabel))
	sb.WriteString("</svg></div>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderLine draws a polyline with a marker per point and x labels underneath.
func (r SVGRenderer) RenderLine(w io.Writer, l Line) error {
	if len(l.Points) == 0 {
		return writeNoData(w, l.Title)
	}
	width, height, color := r.dims()
	plotW := width - 2*svgPad
	plotH := height - 2*svgPad
	top := maxValue(l.Points)

	x := func(i int) int {
		if len(l.Points) == 1 {
			return svgPad + plotW/2
		}
		return svgPad + i*plotW/(len(l.Points)-1)
	}
	y := func(v int) int {
		if top == 0 {
			return svgPad + plotH
		}
		return svgPad + plotH - v*plotH/top
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="chart"><h3>%s</h3>`, esc(l.Title))
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" role="img" width="%d" height="%d" viewBox="0 0 %d %d" font-size="%d">`,
		width, height, width, height, svgFontSize)
	fmt.Fprintf(&sb, `<title>%s</title>`, esc(l.Title))
	fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#999"/>`, svgPad, svgPad+plotH, svgPad+plotW, svgPad+plotH)

	pts := make([]string, len(l.Points))
	for i, p := range l.Points {
		pts[i] = fmt.Sprintf("%d,%d", x(i), y(p.Value))
	}
	fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="2" points="%s"/>`, esc(color), strings.Join(pts, " "))

	// thin out x labels so they do not overlap
	step := 1
	if n := len(l.Points); n > 12 {
		step = (n + 11) / 12
	}
	for i, p := range l.Points {
		fmt.Fprintf(&sb, `<circle class="point" cx="%d" cy="%d" r="3" fill="%s"><title>%s: %d</title></circle>`,
			x(i), y(p.Value), esc(color), esc(p.Label), p.Value)
		if i%step == 0 || i == len(l.Points)-1 {
			fmt.Fprintf(&sb, `<text x="%d" y="%d" text-anchor="middle">%s</text>`, x(i), svgPad+plotH+16, esc(p.Label))
		}
	}
	fmt.Fprintf(&sb, `<text x="%d" y="%d" text-anchor="middle">%s</text>`, svgPad+plotW/2, height-4, esc(l.XLabel))
	fmt.Fprintf(&sb, `<text x="12" y="%d" text-anchor="middle" transform="rotate(-90 12 %d)">%s</text>`, height/2, height/2, esc(l.YLabel))
	sb.WriteString("</svg></div>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
