package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/filter"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
	"go.uber.org/zap"
)

// filterWidget is the form control of one filter column. Fields are named
// by the column index so that arbitrary column names need no escaping.
type filterWidget struct {
	Index int
	Name  string
	Kind  string
	On    bool

	Options []optionView

	Min, Max, Step string
	Lo, Hi         string

	Start, End string
	From, To   string

	Pattern string
}

type optionView struct {
	Value    string
	Selected bool
}

type chartCard struct {
	Index int
	Title string
	Code  string
}

type pageView struct {
	Notice  string
	IsError bool

	HasData bool
	Source  string
	Rows    int

	FiltersOn   bool
	Widgets     []filterWidget
	Filter      string
	MatchedRows int

	Categorical  []string
	Numeric      []string
	Sel          models.Selection
	LabelOptions []string
	Tooltip      bool
	Warning      string
	Charts       []chartCard

	Slides    int
	StoryCode string
}

const dateLayout = "2006-01-02"

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// newWidget seeds the control of c from the active criterion, or from the
// column default when c is not filtered.
func newWidget(i int, c filter.Column, inputs []filter.Input) filterWidget {
	w := filterWidget{Index: i, Name: c.Name, Kind: c.Kind.String()}
	in := c.Default()
	for _, cur := range inputs {
		if cur.Column == c.Name {
			in, w.On = cur, true
			break
		}
	}

	switch c.Kind {
	case filter.KindCategorical:
		for _, o := range c.Options {
			w.Options = append(w.Options, optionView{Value: o, Selected: containsString(in.Values, o)})
		}
	case filter.KindNumeric:
		w.Min, w.Max, w.Step = formatNumber(c.Min), formatNumber(c.Max), "any"
		if c.Step > 0 {
			w.Step = formatNumber(c.Step)
		}
		w.Lo, w.Hi = formatNumber(in.Lo), formatNumber(in.Hi)
	case filter.KindTemporal:
		w.Start, w.End = c.Start.Format(dateLayout), c.End.Format(dateLayout)
		if len(in.Dates) == 2 {
			w.From, w.To = in.Dates[0].Format(dateLayout), in.Dates[1].Format(dateLayout)
		}
	case filter.KindText:
		w.Pattern = in.Pattern
	}
	return w
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// widgetInput reads the criterion of column i from a submitted filter form.
// Blank range fields fall back to the column bounds.
func widgetInput(r *http.Request, i int, c filter.Column) (filter.Input, error) {
	key := strconv.Itoa(i)
	in := c.Default()
	switch c.Kind {
	case filter.KindCategorical:
		in.Values = r.Form["values"+key]
	case filter.KindNumeric:
		for _, f := range []struct {
			field string
			dst   *float64
		}{{"lo", &in.Lo}, {"hi", &in.Hi}} {
			raw := strings.TrimSpace(r.FormValue(f.field + key))
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return in, fmt.Errorf("%s: invalid number %q", c.Name, raw)
			}
			*f.dst = v
		}
		if in.Lo > in.Hi {
			in.Lo, in.Hi = in.Hi, in.Lo
		}
	case filter.KindTemporal:
		for j, field := range []string{"from", "to"} {
			raw := strings.TrimSpace(r.FormValue(field + key))
			if raw == "" {
				continue
			}
			d, err := time.Parse(dateLayout, raw)
			if err != nil {
				return in, fmt.Errorf("%s: invalid date %q", c.Name, raw)
			}
			in.Dates[j] = d
		}
		// Date controls drop the time of day: an end on the last day keeps the
		// column end, earlier ends cover their whole day.
		to := in.Dates[1]
		switch {
		case to.Format(dateLayout) == c.End.Format(dateLayout):
			in.Dates[1] = c.End
		case !c.End.Equal(c.End.Truncate(24 * time.Hour)):
			in.Dates[1] = to.Add(24*time.Hour - time.Second)
		}
	case filter.KindText:
		in.Pattern = strings.TrimSpace(r.FormValue("pattern" + key))
	}
	return in, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, e *entry) {
	sess := e.session
	v := pageView{Notice: e.notice, IsError: e.isError}
	e.notice, e.isError = "", false

	if ds := sess.Dataset(); ds != nil {
		v.HasData, v.Source, v.Rows = true, sess.Source(), ds.Rows
		v.FiltersOn, v.Filter, v.MatchedRows = sess.FiltersEnabled(), sess.Filter(), sess.MatchedRows()

		inputs := sess.Inputs()
		for i, c := range sess.FilterColumns() {
			v.Widgets = append(v.Widgets, newWidget(i, c, inputs))
		}

		v.Categorical, v.Numeric = sess.Columns()
		v.Sel = sess.Selection()
		v.LabelOptions = v.Sel.LabelOptions()
		v.Tooltip = sess.Tooltip()

		charts, err := sess.Charts()
		if err != nil {
			v.Warning = err.Error()
		}
		for i, c := range charts {
			code, err := sess.ChartCode(i)
			if err != nil {
				s.logger.Warn("Chart code not formatted", zap.String("chart", c.Title), zap.Error(err))
			}
			v.Charts = append(v.Charts, chartCard{Index: i, Title: c.Title, Code: code})
		}

		v.Slides = sess.Story().Len()
		code, err := sess.StoryCode()
		if err != nil {
			s.logger.Warn("Story code not formatted", zap.Error(err))
		}
		v.StoryCode = code
	}
	render(w, s.logger, pageTemplate, v)
}

func render(w http.ResponseWriter, logger *zap.Logger, t *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		logger.Error("Template error", zap.Error(err))
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, e *entry) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, header, err := r.FormFile("dataset")
	if err != nil {
		e.flash("Upload failed: "+err.Error(), true)
		redirectHome(w, r)
		return
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "vizzu-builder-upload")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(header.Filename))
	out, err := os.Create(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, err = io.Copy(out, file)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		e.flash("Upload failed: "+err.Error(), true)
		redirectHome(w, r)
		return
	}

	if _, err := e.session.LoadFile(path); err != nil {
		e.flash("Could not read "+header.Filename+": "+err.Error(), true)
	}
	redirectHome(w, r)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request, e *entry) {
	if e.session.Dataset() == nil {
		e.flash(vizzubuilder.ErrNoDataset.Error(), true)
		redirectHome(w, r)
		return
	}
	e.session.SetFiltersEnabled(r.FormValue("enabled") == "on")

	if err := r.ParseForm(); err != nil {
		e.flash(err.Error(), true)
		redirectHome(w, r)
		return
	}

	var inputs []filter.Input
	for i, c := range e.session.FilterColumns() {
		if r.FormValue("use"+strconv.Itoa(i)) != "on" {
			continue
		}
		in, err := widgetInput(r, i, c)
		if err != nil {
			e.flash(err.Error(), true)
			redirectHome(w, r)
			return
		}
		inputs = append(inputs, in)
	}
	if err := e.session.ApplyFilters(inputs); err != nil {
		e.flash(err.Error(), true)
	}
	redirectHome(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, e *entry) {
	e.session.SetTooltip(r.FormValue("tooltip") == "on")
	sel := models.Selection{
		Cat1:   r.FormValue("cat1"),
		Cat2:   r.FormValue("cat2"),
		Value1: r.FormValue("value1"),
		Value2: r.FormValue("value2"),
		Label:  r.FormValue("label"),
	}
	if err := e.session.Select(sel); err != nil {
		e.flash(err.Error(), true)
	}
	redirectHome(w, r)
}

func chartIndex(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("i"))
}

// statusFor maps session errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, vizzubuilder.ErrNoChart), errors.Is(err, vizzubuilder.ErrNoDataset):
		return http.StatusNotFound
	case errors.Is(err, vizzubuilder.ErrUnknownKey), errors.Is(err, vizzubuilder.ErrInvalidSelection):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request, e *entry) {
	i, err := chartIndex(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := e.session.WriteChartHTML(w, i); err != nil {
		http.Error(w, err.Error(), statusFor(err))
	}
}

func (s *Server) handleChartCode(w http.ResponseWriter, r *http.Request, e *entry) {
	i, err := chartIndex(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	code, err := e.session.ChartCode(i)
	if code == "" && err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, code)
}

func (s *Server) handleStoryAdd(w http.ResponseWriter, r *http.Request, e *entry) {
	i, err := chartIndex(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := e.session.AddChartToStory(i); err != nil {
		e.flash(err.Error(), true)
	}
	redirectHome(w, r)
}

func (s *Server) handleStoryDelete(w http.ResponseWriter, r *http.Request, e *entry) {
	e.session.DeleteLastSlide()
	redirectHome(w, r)
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request, e *entry) {
	st := e.session.Story()
	if st == nil {
		http.Error(w, vizzubuilder.ErrNoDataset.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := st.WriteHTML(w); err != nil {
		s.logger.Error("Story render failed", zap.Error(err))
	}
}

func (s *Server) handleStoryDownload(w http.ResponseWriter, r *http.Request, e *entry) {
	doc, err := e.session.ExportStory()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Disposition", `attachment; filename="`+vizzubuilder.ExportFileName+`"`)
	w.Write(doc)
}

func (s *Server) handleStoryShare(w http.ResponseWriter, r *http.Request, e *entry) {
	if err := e.session.ShareStory(r.Context()); err != nil {
		s.logger.Warn("Share failed", zap.Error(err))
		e.flash(err.Error(), true)
	} else {
		e.flash("Story shared.", false)
	}
	redirectHome(w, r)
}

func (s *Server) handleStoryCode(w http.ResponseWriter, r *http.Request, e *entry) {
	code, err := e.session.StoryCode()
	if code == "" && err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, code)
}

func (s *Server) handleAPICharts(w http.ResponseWriter, r *http.Request, e *entry) {
	charts, err := e.session.Charts()
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, charts)
}

func (s *Server) handleAPIStory(w http.ResponseWriter, r *http.Request, e *entry) {
	st := e.session.Story()
	if st == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": vizzubuilder.ErrNoDataset.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st.Document())
}
