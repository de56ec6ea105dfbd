package educativo

import (
	"errors"
	"net/http"

	"github.com/educonnect/contenido/internal/app/store/anuncio"
	"github.com/educonnect/contenido/internal/app/store/curso"
	"github.com/educonnect/contenido/internal/app/store/entrega"
	"github.com/educonnect/contenido/internal/app/store/publicacion"
	"github.com/educonnect/contenido/internal/app/store/tarea"
	"github.com/educonnect/contenido/internal/app/store/tema"
	"github.com/educonnect/contenido/internal/app/system/directory"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/educonnect/contenido/internal/blobstore"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler exposes the courseware endpoints.
type Handler struct {
	cursos        *curso.Store
	temas         *tema.Store
	publicaciones *publicacion.Store
	tareas        *tarea.Store
	entregas      *entrega.Store
	anuncios      *anuncio.Store
	svc           *Service
	directorio    *directory.Client // nil disables author resolution
	maxSubida     int64
	logger        *zap.Logger
}

// NewHandler creates the courseware handler.
func NewHandler(db *mongo.Database, blobs blobstore.Store, ext *inputval.Extensions, directorio *directory.Client, maxSubida int64, logger *zap.Logger) *Handler {
	if maxSubida <= 0 {
		maxSubida = 50 << 20
	}
	return &Handler{
		cursos:        curso.New(db),
		temas:         tema.New(db),
		publicaciones: publicacion.New(db),
		tareas:        tarea.New(db),
		entregas:      entrega.New(db),
		anuncios:      anuncio.New(db),
		svc:           NewService(db, blobs, ext, logger),
		directorio:    directorio,
		maxSubida:     maxSubida,
		logger:        logger,
	}
}

// autoresDe resolves author display names through the directory service.
// Lookups are best effort; an unreachable directory leaves names out rather
// than failing the read.
func (h *Handler) autoresDe(r *http.Request, ids []string) map[string]string {
	if h.directorio == nil || !inputval.ParseTodo(r.URL.Query().Get("con_autor")) {
		return nil
	}
	autores := make(map[string]string, len(ids))
	vistos := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || vistos[id] {
			continue
		}
		vistos[id] = true
		usuario, err := h.directorio.ObtenerUsuario(r.Context(), id)
		if err != nil {
			h.logger.Warn("no se pudo resolver el autor",
				zap.String("autor_id", id), zap.Error(err))
			continue
		}
		autores[id] = usuario.Nombre
	}
	return autores
}

// idDeRuta parses the {id} URL parameter; ok=false means the 404 was already
// written.
func (h *Handler) idDeRuta(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, "No se encontraron datos.")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// responder maps service and store errors onto the envelope.
func (h *Handler) responder(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments), errors.Is(err, ErrNoEncontrado):
		jsonutil.NotFound(w, "No se encontraron datos.")
	case errors.Is(err, entrega.ErrDuplicada):
		jsonutil.Conflict(w, "El estudiante ya tiene una entrega para esta tarea.")
	case errors.Is(err, ErrModulo):
		jsonutil.BadRequest(w, "El modulo indicado no es valido.")
	case errors.Is(err, ErrTipoUsuario):
		jsonutil.BadRequest(w, "El tipo de usuario no es valido.")
	case errors.Is(err, ErrExtension):
		jsonutil.BadRequest(w, "La extension del archivo no esta permitida.")
	default:
		h.logger.Error("fallo en operacion educativa", zap.Error(err))
		jsonutil.InternalError(w, "Error interno del servidor.")
	}
}
