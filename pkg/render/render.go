package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"text/template"
)

// Engine renders a parsed set of named templates. Substitution is literal
// text/template execution with no output escaping; callers that need
// syntax-aware escaping must supply pre-escaped values.
type Engine struct {
	templates *template.Template
}

// New initialises an Engine by parsing every template matching glob in fsys.
func New(fsys fs.FS, glob string) (*Engine, error) {
	t, err := template.New("render").Funcs(template.FuncMap{}).ParseFS(fsys, glob)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Engine{templates: t}, nil
}

// Render executes the named template with the provided data and returns the rendered string.
func (e *Engine) Render(name string, data any) (string, error) {
	if e == nil || e.templates == nil {
		return "", fmt.Errorf("nil engine")
	}

	buf := bytes.NewBuffer(nil)
	if err := e.templates.ExecuteTemplate(buf, name, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
