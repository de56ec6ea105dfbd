package educativo

import (
	"net/http"
	"strconv"

	"github.com/educonnect/contenido/internal/app/store/anuncio"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/educonnect/contenido/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CrearAnuncio handles POST /anuncios.
func (h *Handler) CrearAnuncio(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDCurso     string `json:"id_curso"`
		Titulo      string `json:"titulo"`
		Contenido   string `json:"contenido"`
		AutorID     string `json:"autor_id"`
		TipoUsuario string `json:"tipo_usuario"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.IDCurso == "" || in.Titulo == "" || in.AutorID == "" {
		jsonutil.BadRequest(w, "Faltan los campos id_curso, titulo o autor_id.")
		return
	}
	if !inputval.IsValidTipoUsuario(in.TipoUsuario) {
		jsonutil.BadRequest(w, "El tipo de usuario no es valido.")
		return
	}

	creado, err := h.anuncios.Create(r.Context(), anuncio.CreateInput{
		IDCurso:     in.IDCurso,
		Titulo:      in.Titulo,
		Contenido:   in.Contenido,
		AutorID:     in.AutorID,
		TipoUsuario: in.TipoUsuario,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.Created(w, "Datos insertados correctamente.", creado)
}

// ListarAnuncios handles GET /anuncios/curso/{idCurso}. Supports ?limit and
// ?page; with ?con_autor=1 the response carries the authors' display names
// alongside.
func (h *Handler) ListarAnuncios(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	anuncios, err := h.anuncios.ListByCourse(r.Context(), chi.URLParam(r, "idCurso"), limit, page)
	if err != nil {
		h.responder(w, err)
		return
	}

	ids := make([]string, 0, len(anuncios))
	for i := range anuncios {
		ids = append(ids, anuncios[i].AutorID)
	}
	if autores := h.autoresDe(r, ids); autores != nil {
		jsonutil.OK(w, "Datos encontrados correctamente.", map[string]any{
			"datos":   anuncios,
			"autores": autores,
		})
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", anuncios)
}

// ObtenerAnuncio handles GET /anuncios/{id}.
func (h *Handler) ObtenerAnuncio(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	encontrado, err := h.anuncios.GetByID(r.Context(), oid)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", encontrado)
}

// ActualizarAnuncio handles PUT /anuncios/{id}.
func (h *Handler) ActualizarAnuncio(w http.ResponseWriter, r *http.Request) {
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

	err := h.anuncios.Update(r.Context(), oid, anuncio.UpdateInput{
		Titulo:    in.Titulo,
		Contenido: in.Contenido,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos actualizados correctamente.", nil)
}

// EliminarAnuncio handles DELETE /anuncios/{id}.
func (h *Handler) EliminarAnuncio(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.anuncios.GetByID(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	if _, err := h.svc.EliminarAdjuntosDe(r.Context(), models.ModuloAnuncio, oid.Hex()); err != nil {
		h.logger.Warn("fallo al limpiar adjuntos del anuncio",
			zap.String("id", oid.Hex()), zap.Error(err))
	}
	if err := h.anuncios.SoftDelete(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos eliminados correctamente.", nil)
}
