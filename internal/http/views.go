package http

import (
	"embed"
	"html/template"
	"time"

	"tasktracker/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"formatTime":  formatTime,
		"isCompleted": func(status domain.TaskStatus) bool { return status == domain.TaskStatusCompleted },
	}
	return template.Must(template.New("views").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}

var viewTitles = map[string]string{
	"login.tmpl":    "Log in",
	"register.tmpl": "Register",
	"tasks.tmpl":    "Tasks",
	"error.tmpl":    "Error",
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04")
}
