package archivos

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the content file endpoints.
//
// When mounted at /api/archivos:
//   - POST   /api/archivos/subir          - Upload one file
//   - POST   /api/archivos/subir/multiple - Upload several files
//   - POST   /api/archivos/listar         - List a folder
//   - POST   /api/archivos/info           - File metadata
//   - POST   /api/archivos/descargar      - Download one file
//   - POST   /api/archivos/descargar/zip  - Download a folder as a zip
//   - PUT    /api/archivos/actualizar     - Rename or move a file
//   - DELETE /api/archivos/eliminar       - Soft delete a file
//   - DELETE /api/archivos/usuario        - Remove all content for a user
//
// Identity travels in the request body (userId); callers are trusted
// services behind the platform gateway.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/subir", h.Subir)
	r.Post("/subir/multiple", h.SubirMultiples)
	r.Post("/listar", h.Listar)
	r.Post("/info", h.Info)
	r.Post("/descargar", h.Descargar)
	r.Post("/descargar/zip", h.DescargarZip)
	r.Put("/actualizar", h.Actualizar)
	r.Delete("/eliminar", h.Eliminar)
	r.Delete("/usuario", h.EliminarUsuario)

	return r
}
