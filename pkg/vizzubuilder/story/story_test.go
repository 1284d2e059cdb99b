package story

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/parser"
	"github.com/stretchr/testify/require"
)

func testDataset(t *testing.T) *models.Dataset {
	t.Helper()
	ds, err := parser.FromRecords("sales", [][]string{
		{"Country", "Sales"},
		{"Hungary", "100"},
		{"Austria", ""},
	}, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func slideConfig(x string) models.SlideConfig {
	return models.SlideConfig{
		X:           x,
		Y:           models.YChannel{Set: "Sales", Range: models.Range{Min: "auto", Max: "auto"}},
		Align:       "none",
		CoordSystem: "cartesian",
		Geometry:    "rectangle",
		Orientation: "horizontal",
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(testDataset(t))
	w, h := s.Size()
	if w != 640 || h != 320 {
		t.Errorf("Expected size 640x320, got %dx%d", w, h)
	}
	if s.StartSlide() != LastSlide || !s.Tooltip() || s.Len() != 0 {
		t.Errorf("Unexpected defaults: start=%d tooltip=%v len=%d", s.StartSlide(), s.Tooltip(), s.Len())
	}
}

func TestAddAndDelete(t *testing.T) {
	s := New(testDataset(t))
	for i := 0; i < 3; i++ {
		s.AddSlide("", slideConfig("Country"))
	}
	if s.Len() != 3 {
		t.Fatalf("Expected 3 slides, got %d", s.Len())
	}
	for i := 0; i < 3; i++ {
		if !s.DeleteLast() {
			t.Fatalf("DeleteLast %d reported empty story", i)
		}
	}
	if s.DeleteLast() {
		t.Error("DeleteLast on an empty story should be a no-op")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty story, got %d slides", s.Len())
	}
}

func TestDeleteLastRemovesNewest(t *testing.T) {
	s := New(testDataset(t))
	s.AddSlide("record['Country'] == 'Hungary'", slideConfig("Country"))
	s.AddSlide("", slideConfig("Sales"))
	s.DeleteLast()

	slides := s.Slides()
	require.Len(t, slides, 1)
	require.Equal(t, "record['Country'] == 'Hungary'", slides[0].Filter)
}

func TestReset(t *testing.T) {
	s := New(testDataset(t))
	s.AddSlide("", slideConfig("Country"))
	s.SetSize(100, 50)
	s.SetTooltip(false)
	s.SetStartSlide(2)

	other := testDataset(t)
	s.Reset(other)
	w, h := s.Size()
	if s.Len() != 0 || w != DefaultWidth || h != DefaultHeight || !s.Tooltip() || s.StartSlide() != LastSlide {
		t.Errorf("Reset did not restore defaults: %+v", s.Document())
	}
	if s.Dataset() != other {
		t.Error("Reset did not switch the dataset")
	}
}

func TestWriteHTML(t *testing.T) {
	s := New(testDataset(t))
	s.AddSlide("record['Country'] == 'Hungary'", slideConfig("Country"))
	s.AddSlide("", slideConfig("Sales"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteHTML(&buf))
	html := buf.String()

	require.Contains(t, html, `start-slide="-1"`)
	require.Contains(t, html, "width: 640px; height: 320px;")
	require.Contains(t, html, "filter: record => (record['Country'] == 'Hungary')")
	require.Contains(t, html, "filter: null")
	require.Contains(t, html, `"coordSystem":"cartesian"`)
	require.Contains(t, html, `"type":"measure"`)
	require.Contains(t, html, `chart.feature("tooltip", true)`)
}

func TestExportHTMLStartsAtFirstSlide(t *testing.T) {
	s := New(testDataset(t))
	s.AddSlide("", slideConfig("Country"))

	doc, err := s.ExportHTML()
	require.NoError(t, err)
	require.Contains(t, string(doc), `start-slide="0"`)
	require.Equal(t, LastSlide, s.StartSlide(), "start slide must be restored after export")
}

func TestFilterJSCannotCloseScript(t *testing.T) {
	if got := filterJS("'</script>'"); strings.Contains(string(got), "</script") {
		t.Errorf("filterJS leaked a closing tag: %s", got)
	}
	if got := filterJS("  "); got != "null" {
		t.Errorf("Expected null for blank filter, got %s", got)
	}
}

func TestWriteChartHTML(t *testing.T) {
	var buf bytes.Buffer
	cfg := models.Config{"x": "Country", "y": map[string]any{"set": "Sales"}}
	err := WriteChartHTML(&buf, testDataset(t), "", cfg, ChartOptions{Tooltip: false})
	require.NoError(t, err)

	html := buf.String()
	require.Contains(t, html, "height: 300px;")
	require.Contains(t, html, `chart.feature("tooltip", false)`)
	require.Contains(t, html, "filter: null")
	require.Contains(t, html, `"x":"Country"`)
}

func TestUpload(t *testing.T) {
	type upload struct{ method, name, body string }
	got := make(chan upload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile(ShareField)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		got <- upload{r.Method, header.Filename, string(b)}
	}))
	defer srv.Close()

	u := &Uploader{Endpoint: srv.URL, Client: srv.Client()}
	require.NoError(t, u.Upload(context.Background(), "story.html", []byte("<html></html>")))
	require.Equal(t, upload{http.MethodPost, "story.html", "<html></html>"}, <-got)
}

func TestUploadFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	u := &Uploader{Endpoint: srv.URL, Client: srv.Client()}
	err := u.Upload(context.Background(), "story.html", nil)
	var shareErr *ShareError
	require.True(t, errors.As(err, &shareErr), "expected *ShareError, got %v", err)
	require.Equal(t, http.StatusInternalServerError, shareErr.StatusCode)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer slow.Close()

	u = &Uploader{Endpoint: slow.URL, Client: slow.Client(), Timeout: 50 * time.Millisecond}
	err = u.Upload(context.Background(), "story.html", nil)
	require.True(t, errors.As(err, &shareErr))
	require.Zero(t, shareErr.StatusCode)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
