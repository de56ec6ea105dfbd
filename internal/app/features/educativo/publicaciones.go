package educativo

import (
	"net/http"

	"github.com/educonnect/contenido/internal/app/store/publicacion"
	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/educonnect/contenido/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CrearPublicacion handles POST /publicaciones.
func (h *Handler) CrearPublicacion(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDTema    string `json:"id_tema"`
		Titulo    string `json:"titulo"`
		Contenido string `json:"contenido"`
		AutorID   string `json:"autor_id"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.IDTema == "" || in.Titulo == "" || in.AutorID == "" {
		jsonutil.BadRequest(w, "Faltan los campos id_tema, titulo o autor_id.")
		return
	}

	creada, err := h.publicaciones.Create(r.Context(), publicacion.CreateInput{
		IDTema:    in.IDTema,
		Titulo:    in.Titulo,
		Contenido: in.Contenido,
		AutorID:   in.AutorID,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.Created(w, "Datos insertados correctamente.", creada)
}

// ListarPublicaciones handles GET /publicaciones/tema/{idTema}. With
// ?con_autor=1 the response carries the authors' display names alongside.
func (h *Handler) ListarPublicaciones(w http.ResponseWriter, r *http.Request) {
	publicaciones, err := h.publicaciones.ListByTopic(r.Context(), chi.URLParam(r, "idTema"))
	if err != nil {
		h.responder(w, err)
		return
	}

	ids := make([]string, 0, len(publicaciones))
	for i := range publicaciones {
		ids = append(ids, publicaciones[i].AutorID)
	}
	if autores := h.autoresDe(r, ids); autores != nil {
		jsonutil.OK(w, "Datos encontrados correctamente.", map[string]any{
			"datos":   publicaciones,
			"autores": autores,
		})
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", publicaciones)
}

// ObtenerPublicacion handles GET /publicaciones/{id}.
func (h *Handler) ObtenerPublicacion(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	encontrada, err := h.publicaciones.GetByID(r.Context(), oid)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", encontrada)
}

// ActualizarPublicacion handles PUT /publicaciones/{id}.
func (h *Handler) ActualizarPublicacion(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	var in struct {
		Titulo    *string `json:"titulo"`
		Contenido *string `json:"contenido"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}

	err := h.publicaciones.Update(r.Context(), oid, publicacion.UpdateInput{
		Titulo:    in.Titulo,
		Contenido: in.Contenido,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos actualizados correctamente.", nil)
}

// EliminarPublicacion handles DELETE /publicaciones/{id}. The post is
// soft-deleted; its attached files go away for good.
func (h *Handler) EliminarPublicacion(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.publicaciones.GetByID(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	if _, err := h.svc.EliminarAdjuntosDe(r.Context(), models.ModuloPublicacion, oid.Hex()); err != nil {
		h.logger.Warn("fallo al limpiar adjuntos de la publicacion",
			zap.String("id", oid.Hex()), zap.Error(err))
	}
	if err := h.publicaciones.SoftDelete(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos eliminados correctamente.", nil)
}
