package educativo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the courseware endpoints.
//
// When mounted at /api/educativo it serves CRUD for cursos, temas,
// publicaciones, tareas, entregas and anuncios, plus the file attachments
// under /archivos.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Route("/cursos", func(sr chi.Router) {
		sr.Post("/", h.CrearCurso)
		sr.Get("/", h.ListarCursos)
		sr.Get("/docente/{idDocente}", h.ListarCursosDeDocente)
		sr.Get("/{id}", h.ObtenerCurso)
		sr.Put("/{id}", h.ActualizarCurso)
		sr.Delete("/{id}", h.EliminarCurso)
	})

	r.Route("/temas", func(sr chi.Router) {
		sr.Post("/", h.CrearTema)
		sr.Get("/curso/{idCurso}", h.ListarTemas)
		sr.Get("/{id}", h.ObtenerTema)
		sr.Put("/{id}", h.ActualizarTema)
		sr.Delete("/{id}", h.EliminarTema)
	})

	r.Route("/publicaciones", func(sr chi.Router) {
		sr.Post("/", h.CrearPublicacion)
		sr.Get("/tema/{idTema}", h.ListarPublicaciones)
		sr.Get("/{id}", h.ObtenerPublicacion)
		sr.Put("/{id}", h.ActualizarPublicacion)
		sr.Delete("/{id}", h.EliminarPublicacion)
	})

	r.Route("/tareas", func(sr chi.Router) {
		sr.Post("/", h.CrearTarea)
		sr.Get("/tema/{idTema}", h.ListarTareas)
		sr.Get("/{id}", h.ObtenerTarea)
		sr.Put("/{id}", h.ActualizarTarea)
		sr.Delete("/{id}", h.EliminarTarea)
	})

	r.Route("/entregas", func(sr chi.Router) {
		sr.Post("/", h.CrearEntrega)
		sr.Get("/tarea/{idTarea}/estudiante/{idEstudiante}", h.ObtenerEntregaDeEstudiante)
		sr.Get("/tarea/{idTarea}", h.ListarEntregas)
		sr.Get("/{id}", h.ObtenerEntrega)
		sr.Put("/{id}", h.ActualizarEntrega)
		sr.Delete("/{id}", h.EliminarEntrega)
	})

	r.Route("/anuncios", func(sr chi.Router) {
		sr.Post("/", h.CrearAnuncio)
		sr.Get("/curso/{idCurso}", h.ListarAnuncios)
		sr.Get("/{id}", h.ObtenerAnuncio)
		sr.Put("/{id}", h.ActualizarAnuncio)
		sr.Delete("/{id}", h.EliminarAnuncio)
	})

	r.Route("/archivos", func(sr chi.Router) {
		sr.Post("/subir", h.SubirAdjuntos)
		sr.Post("/listar", h.ListarAdjuntos)
		sr.Post("/listar/usuario", h.ListarAdjuntosDeUsuario)
		sr.Delete("/eliminar", h.EliminarAdjunto)
		sr.Delete("/usuario", h.EliminarAdjuntosDeUsuario)
	})

	return r
}
