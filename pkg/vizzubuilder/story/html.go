package story

import (
	"html/template"
	"io"
	"strings"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

const (
	// VizzuURL is the ES module of the Vizzu charting library.
	VizzuURL = "https://cdn.jsdelivr.net/npm/vizzu@0.9/dist/vizzu.min.js"
	// PlayerURL is the ES module of the vizzu-story player.
	PlayerURL = "https://cdn.jsdelivr.net/npm/vizzu-story@0.6/dist/vizzu-story.min.js"
	// PreviewHeight is the default single-chart preview height in pixels.
	PreviewHeight = 300
)

// series is one column in the Vizzu data format.
type series struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Values []any  `json:"values"`
}

type data struct {
	Series []series `json:"series"`
}

func toData(ds *models.Dataset) data {
	out := data{Series: []series{}}
	if ds == nil {
		return out
	}
	for i := range ds.Columns {
		col := &ds.Columns[i]
		s := series{Name: col.Name, Type: "dimension", Values: make([]any, ds.Rows)}
		if col.Kind == models.KindNumber {
			s.Type = "measure"
		}
		for row := 0; row < ds.Rows; row++ {
			s.Values[row] = col.Value(row)
		}
		out.Series = append(out.Series, s)
	}
	return out
}

// filterJS turns a record-filter expression into a JS function, or null.
func filterJS(expr string) template.JS {
	if strings.TrimSpace(expr) == "" {
		return "null"
	}
	expr = strings.ReplaceAll(expr, "</", `<\/`)
	return template.JS("record => (" + expr + ")")
}

type slideView struct {
	Filter template.JS
	Config models.SlideConfig
}

type storyView struct {
	PlayerURL  string
	Width      int
	Height     int
	StartSlide int
	Tooltip    bool
	Data       data
	Slides     []slideView
}

func (s *Story) view() storyView {
	v := storyView{
		PlayerURL:  PlayerURL,
		Width:      s.width,
		Height:     s.height,
		StartSlide: s.startSlide,
		Tooltip:    s.tooltip,
		Data:       toData(s.data),
	}
	for _, sl := range s.slides {
		v.Slides = append(v.Slides, slideView{Filter: filterJS(sl.Filter), Config: sl.Config})
	}
	return v
}

var storyTemplate = template.Must(template.New("story").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Vizzu story</title>
</head>
<body>
<vizzu-player controller start-slide="{{.StartSlide}}" style="width: {{.Width}}px; height: {{.Height}}px;"></vizzu-player>
<script type="module">
import VizzuPlayer from {{.PlayerURL}};

const vp = document.querySelector("vizzu-player");
const slides = [
{{- range .Slides}}
	{ filter: {{.Filter}}, config: {{.Config}} },
{{- end}}
];
vp.slides = { data: {{.Data}}, slides: slides };
vp.initializing.then((chart) => {
	chart.feature("tooltip", {{if .Tooltip}}true{{else}}false{{end}});
});
</script>
</body>
</html>
`))

// ChartOptions control a single-chart preview.
type ChartOptions struct {
	// Tooltip enables the tooltip feature.
	Tooltip bool
	// Height is the chart height in pixels; zero means PreviewHeight.
	Height int
}

type chartView struct {
	VizzuURL string
	Height   int
	Tooltip  bool
	Data     data
	Filter   template.JS
	Config   models.Config
}

var chartTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Vizzu chart</title>
</head>
<body style="margin: 0;">
<div id="chart" style="width: 100%; height: {{.Height}}px;"></div>
<script type="module">
import Vizzu from {{.VizzuURL}};

const chart = new Vizzu("chart", { data: {{.Data}} });
chart.initializing.then((chart) => {
	chart.feature("tooltip", {{if .Tooltip}}true{{else}}false{{end}});
	chart.animate({ data: { filter: {{.Filter}} }, config: {{.Config}} });
});
</script>
</body>
</html>
`))

// WriteChartHTML renders a preview document animating ds to cfg with the
// given filter applied.
func WriteChartHTML(w io.Writer, ds *models.Dataset, filter string, cfg models.Config, opts ChartOptions) error {
	if opts.Height <= 0 {
		opts.Height = PreviewHeight
	}
	return chartTemplate.Execute(w, chartView{
		VizzuURL: VizzuURL,
		Height:   opts.Height,
		Tooltip:  opts.Tooltip,
		Data:     toData(ds),
		Filter:   filterJS(filter),
		Config:   cfg,
	})
}
