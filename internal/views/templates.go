package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcMap = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
}

// Templates parses the embedded page templates. Names are the file names,
// e.g. "dashboard.html".
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))
}
