package educativo

import (
	"net/http"
	"time"

	"github.com/educonnect/contenido/internal/app/store/tarea"
	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/educonnect/contenido/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CrearTarea handles POST /tareas.
func (h *Handler) CrearTarea(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDTema       string    `json:"id_tema"`
		Titulo       string    `json:"titulo"`
		Descripcion  string    `json:"descripcion"`
		FechaEntrega time.Time `json:"fecha_entrega"`
		AutorID      string    `json:"autor_id"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.IDTema == "" || in.Titulo == "" || in.AutorID == "" {
		jsonutil.BadRequest(w, "Faltan los campos id_tema, titulo o autor_id.")
		return
	}

	creada, err := h.tareas.Create(r.Context(), tarea.CreateInput{
		IDTema:       in.IDTema,
		Titulo:       in.Titulo,
		Descripcion:  in.Descripcion,
		FechaEntrega: in.FechaEntrega,
		AutorID:      in.AutorID,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.Created(w, "Datos insertados correctamente.", creada)
}

// ListarTareas handles GET /tareas/tema/{idTema}.
func (h *Handler) ListarTareas(w http.ResponseWriter, r *http.Request) {
	tareas, err := h.tareas.ListByTopic(r.Context(), chi.URLParam(r, "idTema"))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", tareas)
}

// ObtenerTarea handles GET /tareas/{id}.
func (h *Handler) ObtenerTarea(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	encontrada, err := h.tareas.GetByID(r.Context(), oid)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", encontrada)
}

// ActualizarTarea handles PUT /tareas/{id}.
func (h *Handler) ActualizarTarea(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	var in struct {
		Titulo       *string    `json:"titulo"`
		Descripcion  *string    `json:"descripcion"`
		FechaEntrega *time.Time `json:"fecha_entrega"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}

	err := h.tareas.Update(r.Context(), oid, tarea.UpdateInput{
		Titulo:       in.Titulo,
		Descripcion:  in.Descripcion,
		FechaEntrega: in.FechaEntrega,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos actualizados correctamente.", nil)
}

// EliminarTarea handles DELETE /tareas/{id}. Attached files are removed for
// good; the assignment record is soft-deleted.
func (h *Handler) EliminarTarea(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.tareas.GetByID(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	if _, err := h.svc.EliminarAdjuntosDe(r.Context(), models.ModuloTarea, oid.Hex()); err != nil {
		h.logger.Warn("fallo al limpiar adjuntos de la tarea",
			zap.String("id", oid.Hex()), zap.Error(err))
	}
	if err := h.tareas.SoftDelete(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos eliminados correctamente.", nil)
}
