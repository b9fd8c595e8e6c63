package pages

import "embed"

// TemplateFS — встроенные HTML-шаблоны страниц.
//
//go:embed templates/*.html
var TemplateFS embed.FS
