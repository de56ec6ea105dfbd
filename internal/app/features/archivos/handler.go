package archivos

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/educonnect/contenido/internal/app/system/directory"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/educonnect/contenido/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Handler exposes the content file endpoints.
type Handler struct {
	svc        *Service
	directorio *directory.Client // nil disables the external user check
	maxSubida  int64
	logger     *zap.Logger
}

// NewHandler creates the content files handler. maxSubida caps how much of
// an upload request's multipart body gets parsed.
func NewHandler(svc *Service, directorio *directory.Client, maxSubida int64, logger *zap.Logger) *Handler {
	if maxSubida <= 0 {
		maxSubida = 50 << 20
	}
	return &Handler{
		svc:        svc,
		directorio: directorio,
		maxSubida:  maxSubida,
		logger:     logger,
	}
}

// responder maps service errors onto the envelope.
func (h *Handler) responder(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCarpeta):
		jsonutil.BadRequest(w, "La carpeta indicada no es valida.")
	case errors.Is(err, ErrExtension):
		jsonutil.BadRequest(w, "La extension del archivo no esta permitida.")
	case errors.Is(err, ErrNoEncontrado):
		jsonutil.NotFound(w, "El archivo no existe.")
	case errors.Is(err, ErrNoAutorizado):
		jsonutil.Forbidden(w, "El archivo pertenece a otro usuario.")
	case errors.Is(err, directory.ErrUsuarioNoEncontrado):
		jsonutil.NotFound(w, "El usuario no existe.")
	default:
		h.logger.Error("fallo en operacion de archivos", zap.Error(err))
		jsonutil.InternalError(w, "Error interno del servidor.")
	}
}

// verificarUsuario consults the external directory when configured.
func (h *Handler) verificarUsuario(r *http.Request, usuarioID string) error {
	if h.directorio == nil {
		return nil
	}
	_, err := h.directorio.ObtenerUsuario(r.Context(), usuarioID)
	return err
}

// Subir handles POST /subir: multipart with userId, carpeta and one "file"
// part.
func (h *Handler) Subir(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxSubida); err != nil {
		jsonutil.BadRequest(w, "Formulario multipart invalido.")
		return
	}
	usuarioID := r.FormValue("userId")
	carpeta := r.FormValue("carpeta")
	if usuarioID == "" || carpeta == "" {
		jsonutil.BadRequest(w, "Faltan los campos userId o carpeta.")
		return
	}
	fhs := r.MultipartForm.File["file"]
	if len(fhs) == 0 {
		jsonutil.BadRequest(w, "Falta el archivo a subir.")
		return
	}
	if err := h.verificarUsuario(r, usuarioID); err != nil {
		h.responder(w, err)
		return
	}

	resumen, err := h.svc.Subir(r.Context(), usuarioID, carpeta, fhs[0])
	if err != nil {
		metrics.RecordUpload("error", 0)
		h.responder(w, err)
		return
	}
	metrics.RecordUpload("ok", resumen.Peso)
	jsonutil.Created(w, "Archivo subido correctamente.", resumen)
}

// SubirMultiples handles POST /subir/multiple: multipart with userId,
// carpeta and repeated "files" parts. Succeeds when at least one file made
// it; the error list rides along in the data.
func (h *Handler) SubirMultiples(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxSubida); err != nil {
		jsonutil.BadRequest(w, "Formulario multipart invalido.")
		return
	}
	usuarioID := r.FormValue("userId")
	carpeta := r.FormValue("carpeta")
	if usuarioID == "" || carpeta == "" {
		jsonutil.BadRequest(w, "Faltan los campos userId o carpeta.")
		return
	}
	fhs := r.MultipartForm.File["files"]
	if len(fhs) == 0 {
		jsonutil.BadRequest(w, "Faltan los archivos a subir.")
		return
	}
	if err := h.verificarUsuario(r, usuarioID); err != nil {
		h.responder(w, err)
		return
	}

	subidos, fallos, err := h.svc.SubirMultiples(r.Context(), usuarioID, carpeta, fhs)
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

// Listar handles POST /listar with {userId, carpeta}.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UsuarioID string `json:"userId"`
		Carpeta   string `json:"carpeta"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.UsuarioID == "" || in.Carpeta == "" {
		jsonutil.BadRequest(w, "Faltan los campos userId o carpeta.")
		return
	}

	resumenes, err := h.svc.Listar(r.Context(), in.UsuarioID, in.Carpeta)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Archivos encontrados.", map[string]any{
		"archivos": resumenes,
		"total":    len(resumenes),
	})
}

// Info handles POST /info with {fileId, userId}.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ArchivoID string `json:"fileId"`
		UsuarioID string `json:"userId"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.ArchivoID == "" || in.UsuarioID == "" {
		jsonutil.BadRequest(w, "Faltan los campos fileId o userId.")
		return
	}

	resumen, err := h.svc.Info(r.Context(), in.ArchivoID, in.UsuarioID)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Archivo encontrado.", resumen)
}

// Descargar handles POST /descargar with {fileId, userId}; answers the raw
// bytes with Content-Disposition attachment.
func (h *Handler) Descargar(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ArchivoID string `json:"fileId"`
		UsuarioID string `json:"userId"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.ArchivoID == "" || in.UsuarioID == "" {
		jsonutil.BadRequest(w, "Faltan los campos fileId o userId.")
		return
	}

	local, nombre, err := h.svc.Descargar(r.Context(), in.ArchivoID, in.UsuarioID)
	if err != nil {
		h.responder(w, err)
		return
	}
	defer os.RemoveAll(filepath.Dir(local))

	w.Header().Set("Content-Disposition", `attachment; filename="`+nombre+`"`)
	http.ServeFile(w, r, local)
}

// DescargarZip handles POST /descargar/zip with {userId, carpeta}; streams
// the whole folder as one zip.
func (h *Handler) DescargarZip(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UsuarioID string `json:"userId"`
		Carpeta   string `json:"carpeta"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.UsuarioID == "" || in.Carpeta == "" {
		jsonutil.BadRequest(w, "Faltan los campos userId o carpeta.")
		return
	}
	// Validate before writing headers; once the zip headers are out the
	// response can no longer carry an error envelope.
	if !inputval.IsValidCarpeta(in.Carpeta) {
		h.responder(w, ErrCarpeta)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+in.Carpeta+`.zip"`)
	if _, err := h.svc.EscribirZip(r.Context(), in.UsuarioID, in.Carpeta, w); err != nil {
		// Headers are already out; log and cut the stream.
		h.logger.Error("fallo al generar zip",
			zap.String("usuario_id", in.UsuarioID),
			zap.String("carpeta", in.Carpeta),
			zap.Error(err))
	}
}

// Actualizar handles PUT /actualizar with {fileId, userId, nuevoNombre?,
// nuevaCarpeta?}.
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ArchivoID    string `json:"fileId"`
		UsuarioID    string `json:"userId"`
		NuevoNombre  string `json:"nuevoNombre"`
		NuevaCarpeta string `json:"nuevaCarpeta"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.ArchivoID == "" || in.UsuarioID == "" {
		jsonutil.BadRequest(w, "Faltan los campos fileId o userId.")
		return
	}

	actualizado, err := h.svc.Actualizar(r.Context(), in.ArchivoID, in.UsuarioID, CambiosActualizacion{
		NuevoNombre:  in.NuevoNombre,
		NuevaCarpeta: in.NuevaCarpeta,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Archivo actualizado.", map[string]any{"campos": actualizado})
}

// Eliminar handles DELETE /eliminar with {fileId, userId}.
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ArchivoID string `json:"fileId"`
		UsuarioID string `json:"userId"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.ArchivoID == "" || in.UsuarioID == "" {
		jsonutil.BadRequest(w, "Faltan los campos fileId o userId.")
		return
	}

	if err := h.svc.Eliminar(r.Context(), in.ArchivoID, in.UsuarioID); err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Archivo eliminado.", nil)
}

// EliminarUsuario handles DELETE /usuario with {userId}: the whole-user
// wipe.
func (h *Handler) EliminarUsuario(w http.ResponseWriter, r *http.Request) {
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

	resultado, err := h.svc.EliminarUsuario(r.Context(), in.UsuarioID)
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, "Contenido del usuario eliminado.", resultado)
}
