package educativo

import (
	"net/http"

	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/educonnect/contenido/internal/app/system/metrics"
)

// SubirAdjuntos handles POST /archivos/subir: multipart with modulo,
// referenciaId, userId, tipoUsuario and one or more "files" parts.
func (h *Handler) SubirAdjuntos(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxSubida); err != nil {
		jsonutil.BadRequest(w, "Formulario multipart invalido.")
		return
	}
	in := SubidaAdjunto{
		Modulo:       r.FormValue("modulo"),
		ReferenciaID: r.FormValue("referenciaId"),
		UsuarioID:    r.FormValue("userId"),
		TipoUsuario:  r.FormValue("tipoUsuario"),
	}
	if in.Modulo == "" || in.ReferenciaID == "" || in.UsuarioID == "" || in.TipoUsuario == "" {
		jsonutil.BadRequest(w, "Faltan los campos modulo, referenciaId, userId o tipoUsuario.")
		return
	}
	fhs := r.MultipartForm.File["files"]
	if len(fhs) == 0 {
		jsonutil.BadRequest(w, "Faltan los archivos a subir.")
		return
	}

	subidos, fallos, err := h.svc.SubirAdjuntos(r.Context(), in, fhs)
	for range subidos {
		metrics.RecordUpload("ok", 0)
	}
	for range fallos {
		metrics.RecordUpload("error", 0)
	}
	if err != nil {
		jsonutil.JSON(w, http.StatusBadRequest, "Ningun archivo pudo subirse.", map[string]any{
			"errores": fallos,
		})
		return
	}
	jsonutil.Created(w, "Archivos procesados.", map[string]any{
		"subidos": subidos,
		"errores": fallos,
	})
}

// ListarAdjuntos handles POST /archivos/listar with {modulo, referenciaId}.
func (h *Handler) ListarAdjuntos(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Modulo       string `json:"modulo"`
		ReferenciaID string `json:"referenciaId"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.Modulo == "" || in.ReferenciaID == "" {
		jsonutil.BadRequest(w, "Faltan los campos modulo o referenciaId.")
		return
	}

	adjuntos, err := h.svc.ListarAdjuntos(r.Context(), in.Modulo, in.ReferenciaID)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", map[string]any{
		"archivos": adjuntos,
		"total":    len(adjuntos),
	})
}

// ListarAdjuntosDeUsuario handles POST /archivos/listar/usuario with
// {userId, tipoUsuario?}.
func (h *Handler) ListarAdjuntosDeUsuario(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UsuarioID   string `json:"userId"`
		TipoUsuario string `json:"tipoUsuario"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.UsuarioID == "" {
		jsonutil.BadRequest(w, "Falta el campo userId.")
		return
	}

	adjuntos, err := h.svc.ListarAdjuntosDeUsuario(r.Context(), in.UsuarioID, in.TipoUsuario)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos encontrados correctamente.", map[string]any{
		"archivos": adjuntos,
		"total":    len(adjuntos),
	})
}

// EliminarAdjuntosDeUsuario handles DELETE /archivos/usuario with {userId}.
func (h *Handler) EliminarAdjuntosDeUsuario(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UsuarioID string `json:"userId"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.UsuarioID == "" {
		jsonutil.BadRequest(w, "Falta el campo userId.")
		return
	}

	eliminados, err := h.svc.EliminarAdjuntosDeUsuario(r.Context(), in.UsuarioID)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos eliminados correctamente.", map[string]any{
		"archivos_eliminados": eliminados,
	})
}

// EliminarAdjunto handles DELETE /archivos/eliminar with {fileId}.
func (h *Handler) EliminarAdjunto(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ArchivoID string `json:"fileId"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.ArchivoID == "" {
		jsonutil.BadRequest(w, "Falta el campo fileId.")
		return
	}

	if err := h.svc.EliminarAdjunto(r.Context(), in.ArchivoID); err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Datos eliminados correctamente.", nil)
}
