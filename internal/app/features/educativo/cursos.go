package educativo

import (
	"net/http"

	"github.com/educonnect/contenido/internal/app/store/curso"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
)

// CrearCurso handles POST /cursos. A new course starts as a draft unless
// the body names another state.
func (h *Handler) CrearCurso(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Nombre      string `json:"nombre"`
		Descripcion string `json:"descripcion"`
		DocenteID   string `json:"docente_id"`
		Estado      string `json:"estado"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.Nombre == "" || in.DocenteID == "" {
		jsonutil.BadRequest(w, "Faltan los campos nombre o docente_id.")
		return
	}

	creado, err := h.cursos.Create(r.Context(), curso.CreateInput{
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		DocenteID:   in.DocenteID,
		Estado:      in.Estado,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.Created(w, "Datos insertados correctamente.", creado)
}

// ListarCursos handles GET /cursos; ?estado= narrows to one state.
func (h *Handler) ListarCursos(w http.ResponseWriter, r *http.Request) {
	cursos, err := h.cursos.ListAll(r.Context(), r.URL.Query().Get("estado"))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", cursos)
}

// ListarCursosDeDocente handles GET /cursos/docente/{idDocente}.
func (h *Handler) ListarCursosDeDocente(w http.ResponseWriter, r *http.Request) {
	cursos, err := h.cursos.ListByDocente(r.Context(), chi.URLParam(r, "idDocente"))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", cursos)
}

// ObtenerCurso handles GET /cursos/{id}.
func (h *Handler) ObtenerCurso(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	encontrado, err := h.cursos.GetByID(r.Context(), oid)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", encontrado)
}

// ActualizarCurso handles PUT /cursos/{id}.
func (h *Handler) ActualizarCurso(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	var in struct {
		Nombre      *string `json:"nombre"`
		Descripcion *string `json:"descripcion"`
		Estado      *string `json:"estado"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}

	err := h.cursos.Update(r.Context(), oid, curso.UpdateInput{
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Estado:      in.Estado,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos actualizados correctamente.", nil)
}

// EliminarCurso handles DELETE /cursos/{id}. The default delete is a
// suspension; ?fisico=1 removes the document for good.
func (h *Handler) EliminarCurso(w http.ResponseWriter, r *http.Request) {
	oid, ok := h.idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.cursos.GetByID(r.Context(), oid); err != nil {
		h.responder(w, err)
		return
	}

	var err error
	if inputval.ParseTodo(r.URL.Query().Get("fisico")) {
		err = h.cursos.Delete(r.Context(), oid)
	} else {
		err = h.cursos.Suspend(r.Context(), oid)
	}
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos eliminados correctamente.", nil)
}
