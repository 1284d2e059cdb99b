package server

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Vizzu Builder</title>
<style>
*{box-sizing:border-box}
body{font-family:sans-serif;background:#fafafa;color:#1f2328;font-size:14px;line-height:1.5;margin:0}
header{background:#161b22;color:#f0f6fc;padding:10px 16px;font-weight:700}
main{padding:16px;max-width:1400px;margin:0 auto}
h2{font-size:15px;margin:20px 0 8px}
.section{background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:12px 16px;margin-bottom:16px}
.notice{padding:8px 12px;border-radius:6px;margin-bottom:12px;background:#ddf4ff;border:1px solid #54aeff}
.notice.err{background:#ffebe9;border-color:#ff8182}
.warn{color:#9a6700}
.row{display:flex;gap:12px;flex-wrap:wrap;align-items:end}
.row label{display:flex;flex-direction:column;font-size:12px;color:#57606a}
.grid{display:grid;grid-template-columns:1fr 1fr;gap:16px}
.card{background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:8px 12px}
.card h3{margin:4px 0 8px;font-size:14px}
iframe{width:100%;border:0}
table{border-collapse:collapse;font-size:12px}
td,th{padding:2px 8px;text-align:left;border-bottom:1px solid #eaeef2}
pre{background:#f6f8fa;padding:8px;overflow-x:auto;font-size:12px}
select[multiple]{min-width:160px}
.dim{color:#57606a}
</style>
</head>
<body>
<header>Vizzu Builder</header>
<main>
{{if .Notice}}<div class="notice{{if .IsError}} err{{end}}">{{.Notice}}</div>{{end}}

<div class="section">
<form method="post" action="/upload" enctype="multipart/form-data" class="row">
<label>Dataset (CSV or XLSX)<input type="file" name="dataset" accept=".csv,.tsv,.txt,.xlsx,.xlsm"></label>
<button type="submit">Upload</button>
{{if .HasData}}<span class="dim">{{.Source}}: {{.Rows}} rows</span>{{end}}
</form>
</div>

{{if .HasData}}
<h2>Filters</h2>
<div class="section">
<form method="post" action="/filters">
<label><input type="checkbox" name="enabled"{{if .FiltersOn}} checked{{end}}> Add filters</label>
<table>
<tr><th>Filter</th><th>Column</th><th>Criterion</th></tr>
{{range .Widgets}}<tr>
<td><input type="checkbox" name="use{{.Index}}"{{if .On}} checked{{end}}></td>
<td>{{.Name}} <span class="dim">{{.Kind}}</span></td>
<td>{{if eq .Kind "categorical"}}<select multiple name="values{{.Index}}">{{range .Options}}<option{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}</select>
{{else if eq .Kind "numeric"}}<input type="number" name="lo{{.Index}}" min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" value="{{.Lo}}"> .. <input type="number" name="hi{{.Index}}" min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" value="{{.Hi}}">
{{else if eq .Kind "temporal"}}<input type="date" name="from{{.Index}}" min="{{.Start}}" max="{{.End}}" value="{{.From}}"> .. <input type="date" name="to{{.Index}}" min="{{.Start}}" max="{{.End}}" value="{{.To}}">
{{else}}<input type="text" name="pattern{{.Index}}" placeholder="substring" value="{{.Pattern}}">{{end}}</td>
</tr>
{{end}}</table>
<button type="submit">Apply filters</button>
{{if .Filter}}<p><code>{{.Filter}}</code> <span class="dim">({{.MatchedRows}} of {{.Rows}} rows)</span></p>{{end}}
</form>
</div>

<h2>Create Chart</h2>
<div class="section">
<form method="post" action="/select" class="row">
<label><span><input type="checkbox" name="tooltip"{{if .Tooltip}} checked{{end}}> Show tooltips</span></label>
<label>Category 1 (mandatory)<select name="cat1">{{$sel := .Sel}}
{{range .Categorical}}<option{{if eq . $sel.Cat1}} selected{{end}}>{{.}}</option>{{end}}
</select></label>
<label>Category 2 (optional)<select name="cat2"><option value="">None</option>
{{range .Categorical}}{{if ne . $sel.Cat1}}<option{{if eq . $sel.Cat2}} selected{{end}}>{{.}}</option>{{end}}{{end}}
</select></label>
<label>Value 1 (mandatory)<select name="value1">
{{range .Numeric}}<option{{if eq . $sel.Value1}} selected{{end}}>{{.}}</option>{{end}}
</select></label>
<label>Value 2 (optional)<select name="value2"><option value="">None</option>
{{range .Numeric}}{{if ne . $sel.Value1}}<option{{if eq . $sel.Value2}} selected{{end}}>{{.}}</option>{{end}}{{end}}
</select></label>
<label>Label (optional)<select name="label"><option value="">None</option>
{{range .LabelOptions}}<option{{if eq . $sel.Label}} selected{{end}}>{{.}}</option>{{end}}
</select></label>
<button type="submit">Update charts</button>
</form>
{{if .Warning}}<p class="warn">{{.Warning}}</p>{{end}}
</div>

<div class="grid">
{{range .Charts}}<div class="card">
<h3>{{.Title}}</h3>
<iframe src="/chart/{{.Index}}" height="310" loading="lazy"></iframe>
<details><summary>Show code</summary><pre>{{.Code}}</pre></details>
<form method="post" action="/story/add/{{.Index}}"><button type="submit">Add Chart to Story</button></form>
</div>
{{end}}</div>

{{if .Slides}}
<h2>Create Story</h2>
<div class="section">
<iframe src="/story" height="360"></iframe>
<div class="row">
<form method="post" action="/story/delete"><button type="submit">Delete last Slide</button></form>
<a href="/story/download" download="story.html"><button type="button">Download Story</button></a>
<form method="post" action="/story/share"><button type="submit">Share Story</button></form>
</div>
<details><summary>Show code</summary><pre>{{.StoryCode}}</pre></details>
</div>
{{end}}
{{end}}
</main>
</body>
</html>
`))
