package handler

import (
	"html/template"
	"time"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"year": func() int {
			return time.Now().Year()
		},
		"clock": func(t time.Time) string {
			return t.Local().Format("15:04:05")
		},
	}
}
