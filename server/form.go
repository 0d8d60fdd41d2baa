package server

import (
	"html/template"

	"github.com/lixenwraith/ascii-mosaic/config"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type formData struct {
	Details   []option
	Resamples []option
	Formats   []option
	Width     int
	MinWidth  int
	MaxWidth  int
	Colorize  bool
	Invert    bool
}

func newFormData(cfg *config.Config) formData {
	rc := cfg.Raster()
	return formData{
		Details: options(rc.Detail.String(),
			option{Value: "low", Label: "Regular"},
			option{Value: "medium", Label: "Intermediate"},
			option{Value: "high", Label: "Detailed"},
		),
		Resamples: options(rc.Resample.String(),
			option{Value: "nearest", Label: "Nearest"},
			option{Value: "box", Label: "Box average"},
			option{Value: "bilinear", Label: "Bilinear"},
			option{Value: "catmullrom", Label: "Catmull-Rom"},
		),
		Formats: options(cfg.Format,
			option{Value: "auto", Label: "Auto (HTML when colorized)"},
			option{Value: "text", Label: "Text"},
			option{Value: "html", Label: "HTML"},
			option{Value: "ansi", Label: "ANSI"},
		),
		Width:    rc.OutputWidth,
		MinWidth: config.MinWidth,
		MaxWidth: config.MaxWidth,
		Colorize: rc.Colorize,
		Invert:   rc.Invert,
	}
}

func options(selected string, opts ...option) []option {
	for i := range opts {
		opts[i].Selected = opts[i].Value == selected
	}
	return opts
}

var uploadTemplate = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>ASCII Mosaic</title>
  <style>
    body { font-family: sans-serif; max-width: 40em; margin: 2em auto; }
    label { display: block; margin: 0.5em 0; }
  </style>
</head>
<body>
  <h1>ASCII Mosaic</h1>
  <form action="/convert" method="post" enctype="multipart/form-data">
    <label>Image <input type="file" name="image" accept="image/*" required></label>
    <label>Detail
      <select name="detail">
        {{range .Details}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
      </select>
    </label>
    <label>Width
      <input type="range" name="width" min="{{.MinWidth}}" max="{{.MaxWidth}}" value="{{.Width}}">
    </label>
    <label>Resampling
      <select name="resample">
        {{range .Resamples}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
      </select>
    </label>
    <label><input type="checkbox" name="color"{{if .Colorize}} checked{{end}}> Colorize</label>
    <label><input type="checkbox" name="invert"{{if .Invert}} checked{{end}}> Invert</label>
    <label>Format
      <select name="format">
        {{range .Formats}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
      </select>
    </label>
    <button type="submit">Convert</button>
  </form>
</body>
</html>`))
