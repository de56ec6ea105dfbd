package registros

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the generic record endpoints.
//
// When mounted at /api/registros, {coleccion} must name a registered
// schema:
//   - POST   /api/registros/{coleccion}            - Insert one or many
//   - POST   /api/registros/{coleccion}/listar     - Find with filter and projection
//   - PUT    /api/registros/{coleccion}/actualizar - Update matching documents
//   - DELETE /api/registros/{coleccion}/eliminar   - Delete matching documents
//   - POST   /api/registros/{coleccion}/relacion   - Lookup join into another collection
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Route("/{coleccion}", func(sr chi.Router) {
		sr.Post("/", h.Crear)
		sr.Post("/listar", h.Listar)
		sr.Put("/actualizar", h.Actualizar)
		sr.Delete("/eliminar", h.Eliminar)
		sr.Post("/relacion", h.Relacion)
	})

	return r
}
