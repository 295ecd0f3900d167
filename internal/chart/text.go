package chart

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/paperlens/internal/utils"
)

// NoDataText is printed in place of an empty chart.
const NoDataText = "(no data)"

// TextRenderer draws charts with block characters for terminals.
type TextRenderer struct {
	// Width is the widest bar in cells. Zero means 50.
	Width int
	// LabelWidth caps label columns. Zero means 32.
	LabelWidth int
}

func (r TextRenderer) width() int {
	if r.Width <= 0 {
		return 50
	}
	return r.Width
}

func (r TextRenderer) labelWidth(pts []Point) int {
	limit := r.LabelWidth
	if limit <= 0 {
		limit = 32
	}
	w := 0
	for _, p := range pts {
		if pw := utils.Width(p.Label); pw > w {
			w = pw
		}
	}
	if w > limit {
		w = limit
	}
	return w
}

func scaled(v, top, width int) int {
	if top <= 0 || v <= 0 {
		return 0
	}
	n := v * width / top
	if n == 0 {
		n = 1
	}
	return n
}

func writeHeader(w io.Writer, title, xlabel, ylabel string) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", utils.Width(title))); err != nil {
		return err
	}
	if xlabel != "" || ylabel != "" {
		if _, err := fmt.Fprintf(w, "x: %s, y: %s\n", xlabel, ylabel); err != nil {
			return err
		}
	}
	return nil
}

// RenderBar prints one row per point: label, bar, count.
func (r TextRenderer) RenderBar(w io.Writer, b Bar) error {
	if err := writeHeader(w, b.Title, b.XLabel, b.YLabel); err != nil {
		return err
	}
	if len(b.Points) == 0 {
		_, err := fmt.Fprintln(w, NoDataText)
		return err
	}
	lw := r.labelWidth(b.Points)
	top := maxValue(b.Points)
	for _, p := range b.Points {
		label := utils.PadRight(p.Label, lw)
		bar := strings.Repeat("█", scaled(p.Value, top, r.width()))
		if _, err := fmt.Fprintf(w, "%s │%s %d\n", label, bar, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// RenderLine prints a vertical timeline: one row per x label with a marker
// placed proportionally to the value.
func (r TextRenderer) RenderLine(w io.Writer, l Line) error {
	if err := writeHeader(w, l.Title, l.XLabel, l.YLabel); err != nil {
		return err
	}
	if len(l.Points) == 0 {
		_, err := fmt.Fprintln(w, NoDataText)
		return err
	}
	lw := r.labelWidth(l.Points)
	top := maxValue(l.Points)
	vw := len(strconv.Itoa(top))
	for _, p := range l.Points {
		pos := scaled(p.Value, top, r.width())
		marker := strings.Repeat("·", max0(pos-1)) + "●"
		if pos == 0 {
			marker = "○"
		}
		if _, err := fmt.Fprintf(w, "%s %s │%s\n", utils.PadRight(p.Label, lw), utils.PadLeft(strconv.Itoa(p.Value), vw), marker); err != nil {
			return err
		}
	}
	return nil
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
