// web/templates.go
package web

import (
	"database/sql"
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcMap = template.FuncMap{
	// date renders a nullable DATE column as YYYY-MM-DD, empty when unset.
	"date": func(t sql.NullTime) string {
		if !t.Valid {
			return ""
		}
		return t.Time.Format("2006-01-02")
	},
}

// Templates parses the embedded page templates once at startup.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
}
