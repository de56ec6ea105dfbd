package educativo

import (
	"net/http"

	"github.com/educonnect/contenido/internal/app/store/entrega"
	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/educonnect/contenido/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CrearEntrega handles POST /entregas. The compound unique index keeps a
// student to one submission per assignment.
func (h *Handler) CrearEntrega(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDTarea      string `json:"id_tarea"`
		IDEstudiante string `json:"id_estudiante"`
		Respuesta    string `json:"respuesta"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.IDTarea == "" || in.IDEstudiante == "" {
		jsonutil.BadRequest(w, "Faltan los campos id_tarea o id_estudiante.")
		return
	}

	creada, err := h.entregas.Create(r.Context(), entrega.CreateInput{
		IDTarea:      in.IDTarea,
		IDEstudiante: in.IDEstudiante,
		Respuesta:    in.Respuesta,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.Created(w, "Datos insertados correctamente.", creada)
}

// ListarEntregas handles GET /entregas/tarea/{idTarea}.
func (h *Handler) ListarEntregas(w http.ResponseWriter, r *http.Request) {
	entregas, err := h.entregas.ListByTask(r.Context(), chi.URLParam(r, "idTarea"))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", entregas)
}

// ObtenerEntrega handles GET /entregas/{id}.
func (h *Handler) ObtenerEntrega(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	encontrada, err := h.entregas.GetByID(r.Context(), oid)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", encontrada)
}

// ObtenerEntregaDeEstudiante handles GET /entregas/tarea/{idTarea}/estudiante/{idEstudiante}.
func (h *Handler) ObtenerEntregaDeEstudiante(w http.ResponseWriter, r *http.Request) {
	encontrada, err := h.entregas.GetByTaskStudent(r.Context(),
		chi.URLParam(r, "idTarea"), chi.URLParam(r, "idEstudiante"))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", encontrada)
}

// ActualizarEntrega handles PUT /entregas/{id}.
func (h *Handler) ActualizarEntrega(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	var in struct {
		Respuesta *string `json:"respuesta"`
		Estado    *string `json:"estado"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}

	err := h.entregas.Update(r.Context(), oid, entrega.UpdateInput{
		Respuesta: in.Respuesta,
		Estado:    in.Estado,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos actualizados correctamente.", nil)
}

// EliminarEntrega handles DELETE /entregas/{id}. Submissions and their
// attached files are removed for good so the student can submit again.
func (h *Handler) EliminarEntrega(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.entregas.GetByID(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	if _, err := h.svc.EliminarAdjuntosDe(r.Context(), models.ModuloEntrega, oid.Hex()); err != nil {
		h.logger.Warn("fallo al limpiar adjuntos de la entrega",
			zap.String("id", oid.Hex()), zap.Error(err))
	}
	if err := h.entregas.Delete(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos eliminados correctamente.", nil)
}
