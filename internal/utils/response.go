package utils

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/brizzai/oauth-relay/internal/logger"
	"go.uber.org/zap"
)

// WriteHTML renders tmpl into a buffer first so a template failure never
// produces a half written page
func WriteHTML(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.Error("Failed to render page", zap.String("template", tmpl.Name()), zap.Error(err))
		WriteText(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Debug("Failed to write response", zap.Error(err))
	}
}

// WriteText writes a plain text response
func WriteText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(message)); err != nil {
		logger.Debug("Failed to write response", zap.Error(err))
	}
}
