package educativo

import (
	"net/http"

	"github.com/educonnect/contenido/internal/app/store/tema"
	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
)

// CrearTema handles POST /temas.
func (h *Handler) CrearTema(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDCurso     string `json:"id_curso"`
		Titulo      string `json:"titulo"`
		Descripcion string `json:"descripcion"`
		Orden       int    `json:"orden"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.IDCurso == "" || in.Titulo == "" {
		jsonutil.BadRequest(w, "Faltan los campos id_curso o titulo.")
		return
	}

	creado, err := h.temas.Create(r.Context(), tema.CreateInput{
		IDCurso:     in.IDCurso,
		Titulo:      in.Titulo,
		Descripcion: in.Descripcion,
		Orden:       in.Orden,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.Created(w, "Datos insertados correctamente.", creado)
}

// ListarTemas handles GET /temas/curso/{idCurso}.
func (h *Handler) ListarTemas(w http.ResponseWriter, r *http.Request) {
	temas, err := h.temas.ListByCourse(r.Context(), chi.URLParam(r, "idCurso"))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", temas)
}

// ObtenerTema handles GET /temas/{id}.
func (h *Handler) ObtenerTema(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	encontrado, err := h.temas.GetByID(r.Context(), oid)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", encontrado)
}

// ActualizarTema handles PUT /temas/{id}.
func (h *Handler) ActualizarTema(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	var in struct {
		Titulo      *string `json:"titulo"`
		Descripcion *string `json:"descripcion"`
		Orden       *int    `json:"orden"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}

	err := h.temas.Update(r.Context(), oid, tema.UpdateInput{
		Titulo:      in.Titulo,
		Descripcion: in.Descripcion,
		Orden:       in.Orden,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos actualizados correctamente.", nil)
}

// EliminarTema handles DELETE /temas/{id}.
func (h *Handler) EliminarTema(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.temas.GetByID(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	if err := h.temas.SoftDelete(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos eliminados correctamente.", nil)
}
