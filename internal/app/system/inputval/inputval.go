// Package inputval validates request inputs: file extensions against the
// configured allow-list, logical folder and module names against their enums,
// and identifier strings.
package inputval

import (
	"path/filepath"
	"strings"

	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAllowedExtensions is the extension allow-list applied when the
// configuration does not override it.
var DefaultAllowedExtensions = []string{
	"txt", "pdf", "png", "jpg", "jpeg", "gif",
	"doc", "docx", "xls", "xlsx", "ppt", "pptx",
	"mp4", "avi", "mov", "mp3", "wav",
}

// Extensions answers whether a given filename is acceptable for upload.
type Extensions struct {
	permitidas map[string]bool
}

// NewExtensions builds the allow-list. An empty slice falls back to
// DefaultAllowedExtensions.
func NewExtensions(permitidas []string) *Extensions {
	if len(permitidas) == 0 {
		permitidas = DefaultAllowedExtensions
	}
	m := make(map[string]bool, len(permitidas))
	for _, ext := range permitidas {
		m[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Extensions{permitidas: m}
}

// Allowed reports whether the filename's extension is in the allow-list.
// A file with no extension is never allowed.
func (e *Extensions) Allowed(nombre string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(nombre), "."))
	if ext == "" {
		return false
	}
	return e.permitidas[ext]
}

// List returns the allowed extensions for error messages.
func (e *Extensions) List() []string {
	out := make([]string, 0, len(e.permitidas))
	for ext := range e.permitidas {
		out = append(out, ext)
	}
	return out
}

// IsValidCarpeta reports whether carpeta names one of the two logical
// folders.
func IsValidCarpeta(carpeta string) bool {
	return carpeta == models.CarpetaPersonal || carpeta == models.CarpetaEducativa
}

// IsValidModulo reports whether modulo names a courseware module files can
// attach to.
func IsValidModulo(modulo string) bool {
	return models.ModuloValido(modulo)
}

// IsValidTipoUsuario reports whether tipo is a known uploader role.
func IsValidTipoUsuario(tipo string) bool {
	return tipo == models.TipoDocente || tipo == models.TipoEstudiante
}

// IsValidObjectID checks if the given string is a valid MongoDB ObjectID hex.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// ParseTodo parses the bulk flag from its truthy-string set,
// case-insensitively. Anything outside the set is false.
func ParseTodo(valor string) bool {
	switch strings.ToLower(strings.TrimSpace(valor)) {
	case "true", "1", "t", "yes", "y":
		return true
	}
	return false
}

// SanitizeFilename strips path separators and parent references so a stored
// name can never escape its folder. The result is the base name with
// problematic characters replaced.
func SanitizeFilename(nombre string) string {
	nombre = filepath.Base(nombre)
	nombre = strings.ReplaceAll(nombre, "..", "")
	var b strings.Builder
	for _, r := range nombre {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	limpio := strings.TrimSpace(b.String())
	if limpio == "" || limpio == "." {
		return "archivo"
	}
	return limpio
}
