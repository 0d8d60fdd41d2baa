package export

import (
	"html"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/lixenwraith/ascii-mosaic/raster"
)

// documentShell is the standalone page wrapped around the markup
const documentShell = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Colorful ASCII Art</title>
  <style>
    body {
      background: #000;
      display: flex;
      justify-content: center;
      align-items: center;
      min-height: 100vh;
      margin: 0;
      padding: 20px;
    }
    pre {
      font-family: monospace;
      line-height: 1;
      letter-spacing: 0;
      font-size: 10px;
      white-space: pre-wrap;
    }
  </style>
</head>
<body>
  <pre>{{.}}</pre>
</body>
</html>`

var documentTemplate = template.Must(template.New("document").Parse(documentShell))

// Markup renders the grid body: one color span per glyph when colorized,
// bare escaped glyphs otherwise, rows separated by <br>
func Markup(g *raster.Grid) string {
	var b strings.Builder
	if g.Colorized {
		b.Grow(g.Cols * g.Rows * 40)
	} else {
		b.Grow((g.Cols + 4) * g.Rows)
	}

	for y := 0; y < g.Rows; y++ {
		for _, c := range g.Row(y) {
			s := html.EscapeString(string(c.Glyph))
			if !g.Colorized {
				b.WriteString(s)
				continue
			}
			b.WriteString(`<span style="color:rgb(`)
			b.WriteString(strconv.Itoa(int(c.Color.R)))
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(int(c.Color.G)))
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(int(c.Color.B)))
			b.WriteString(`)">`)
			b.WriteString(s)
			b.WriteString(`</span>`)
		}
		b.WriteString("<br>")
	}
	return b.String()
}

// WriteHTML writes the grid as a standalone HTML document
func WriteHTML(w io.Writer, g *raster.Grid) error {
	return documentTemplate.Execute(w, template.HTML(Markup(g)))
}
