package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/KaramelBytes/paperlens/internal/analysis"
	"github.com/KaramelBytes/paperlens/internal/chart"
	"github.com/KaramelBytes/paperlens/internal/dataset"
	"github.com/KaramelBytes/paperlens/internal/utils"
)

// APIError is the JSON body of a failed API call.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	e.RequestID = middleware.GetReqID(r.Context())
	render.Status(r, e.StatusCode)
	return nil
}

// errRange reports a malformed min or max query parameter.
var errRange = errors.New("invalid year range")

// apiError maps loader failures onto HTTP statuses.
func apiError(err error) *APIError {
	switch {
	case errors.Is(err, errRange):
		return &APIError{StatusCode: http.StatusBadRequest, ErrorCode: "INVALID_RANGE", Message: err.Error()}
	case errors.Is(err, dataset.ErrSourceNotFound):
		return &APIError{StatusCode: http.StatusNotFound, ErrorCode: "SOURCE_NOT_FOUND", Message: err.Error()}
	case errors.Is(err, dataset.ErrSchemaMismatch):
		return &APIError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "SCHEMA_MISMATCH", Message: err.Error()}
	case errors.Is(err, dataset.ErrSourceUnreadable):
		return &APIError{StatusCode: http.StatusInternalServerError, ErrorCode: "SOURCE_UNREADABLE", Message: err.Error()}
	default:
		return &APIError{StatusCode: http.StatusInternalServerError, ErrorCode: "INTERNAL", Message: err.Error()}
	}
}

// YearRange is an inclusive publication-year filter.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// parseRange reads min and max from the query, defaulting each to the data
// bounds. Reversed bounds are swapped; values outside the data are kept so a
// range can select nothing.
func parseRange(r *http.Request, lo, hi int) (YearRange, error) {
	rng := YearRange{Min: lo, Max: hi}
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"min", &rng.Min}, {"max", &rng.Max}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return YearRange{Min: lo, Max: hi}, fmt.Errorf("%w: %s=%q is not a year", errRange, p.name, raw)
		}
		*p.dst = v
	}
	if rng.Min > rng.Max {
		rng.Min, rng.Max = rng.Max, rng.Min
	}
	return rng, nil
}

// view is the filtered state for one request.
type view struct {
	ds       *Dataset
	lo, hi   int
	hasYears bool
	rng      YearRange
	filtered *dataset.Table
}

// resolve filters the dataset by the request's year range. The page works on
// its session's private table; the JSON API only reads, so it filters the
// shared cached table and never creates a session.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request, withSession bool) (*view, error) {
	ds, err := s.cache.Get(s.opt.SourcePath, s.opt.Load)
	if err != nil {
		return nil, err
	}
	v := &view{ds: ds}
	tbl := ds.Table
	if withSession {
		tbl = s.sessions.Attach(w, r, ds).Table
	}
	v.lo, v.hi, v.hasYears = tbl.YearBounds()
	v.rng, err = parseRange(r, v.lo, v.hi)
	v.filtered = tbl.FilterYears(v.rng.Min, v.rng.Max)
	return v, err
}

type summaryResponse struct {
	Range YearRange `json:"range"`
	*analysis.Summary
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	v, err := s.resolve(w, r, false)
	if err != nil {
		_ = render.Render(w, r, apiError(err))
		return
	}
	render.JSON(w, r, summaryResponse{Range: v.rng, Summary: analysis.Summarize(v.filtered, s.opt.Summary)})
}

type sampleResponse struct {
	Range   YearRange        `json:"range"`
	Total   int              `json:"total"`
	Records []dataset.Record `json:"records"`
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	v, err := s.resolve(w, r, false)
	if err != nil {
		_ = render.Render(w, r, apiError(err))
		return
	}
	recs := v.filtered.Head(SampleSize)
	if recs == nil {
		recs = []dataset.Record{}
	}
	render.JSON(w, r, sampleResponse{Range: v.rng, Total: v.filtered.Len(), Records: recs})
}

type pageData struct {
	Source   string
	Error    string
	Ready    bool
	Papers   int
	Range    YearRange
	BoundMin int
	BoundMax int
	Stats    dataset.CleanStats
	Charts   []template.HTML
	Sample   []dataset.Record
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{Source: s.opt.SourcePath}
	v, err := s.resolve(w, r, true)
	switch {
	case v == nil:
		s.log.Warn("dashboard load failed", "source", s.opt.SourcePath, "error", err)
		data.Error = err.Error()
	case !v.hasYears:
		data.Error = "No papers survived cleaning; nothing to chart."
	default:
		if err != nil {
			data.Error = err.Error()
		}
		data.Ready = true
		data.Papers = v.filtered.Len()
		data.Range = v.rng
		data.BoundMin, data.BoundMax = v.lo, v.hi
		data.Stats = v.ds.Stats
		data.Sample = v.filtered.Head(SampleSize)
		data.Charts, err = s.renderCharts(analysis.Summarize(v.filtered, s.opt.Summary))
		if err != nil {
			s.log.Error("render charts", "error", err)
			data.Error = "could not render charts: " + err.Error()
			data.Charts = nil
		}
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.log.Error("render page", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderCharts(sum *analysis.Summary) ([]template.HTML, error) {
	out := make([]template.HTML, 0, 3)
	var buf bytes.Buffer
	steps := []func() error{
		func() error {
			return s.svg.RenderBar(&buf, chart.FromFrequency("Top Journals", "Number of papers", "Journal", sum.Journals))
		},
		func() error {
			return s.svg.RenderLine(&buf, chart.FromSeries("Publications by Year", "Year", "Papers", sum.Years))
		},
		func() error {
			return s.svg.RenderBar(&buf, chart.FromFrequency("Most Frequent Words", "Occurrences", "Word", sum.Words))
		},
	}
	for _, step := range steps {
		buf.Reset()
		if err := step(); err != nil {
			return nil, err
		}
		// SVGRenderer escapes every text node it writes.
		out = append(out, template.HTML(buf.String()))
	}
	return out, nil
}

func clipCell(s string) string { return utils.Clip(s, 80) }
