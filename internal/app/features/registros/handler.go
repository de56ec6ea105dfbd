// Package registros exposes the schema-driven record endpoints: generic
// create, list, update, delete and relation queries against the registered
// collections.
package registros

import (
	"context"
	"errors"
	"net/http"

	"github.com/educonnect/contenido/internal/app/store/generic"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler routes generic record operations to the query layer.
type Handler struct {
	query    *generic.Query
	registry *generic.Registry
	logger   *zap.Logger
}

// NewHandler creates the generic records handler.
func NewHandler(db *mongo.Database, registry *generic.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		query:    generic.New(db, logger),
		registry: registry,
		logger:   logger,
	}
}

// Preparar creates every registered collection with its validator and
// indexes. Called once at startup.
func (h *Handler) Preparar(ctx context.Context) error {
	for _, esquema := range h.registry.Todos() {
		if err := h.query.Preparar(ctx, esquema); err != nil {
			return err
		}
	}
	return nil
}

// esquema resolves the {coleccion} URL parameter; ok=false means the 404
// was already written.
func (h *Handler) esquema(w http.ResponseWriter, r *http.Request) (generic.Schema, bool) {
	nombre := chi.URLParam(r, "coleccion")
	esquema, ok := h.registry.Obtener(nombre)
	if !ok {
		jsonutil.NotFound(w, "La coleccion no esta registrada: "+nombre)
		return generic.Schema{}, false
	}
	return esquema, true
}

// responder maps query-layer errors onto the envelope. Validation failures
// carry the offending column in the message.
func (h *Handler) responder(w http.ResponseWriter, err error) {
	var ev *generic.ErrValidacion
	switch {
	case errors.As(err, &ev):
		jsonutil.BadRequest(w, ev.Mensaje)
	case errors.Is(err, mongo.ErrNoDocuments):
		jsonutil.NotFound(w, "No se encontraron datos.")
	default:
		h.logger.Error("fallo en operacion de registros", zap.Error(err))
		jsonutil.InternalError(w, "Error interno del servidor.")
	}
}

// Crear handles POST /{coleccion} with {data, todo}.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	esquema, ok := h.esquema(w, r)
	if !ok {
		return
	}
	var in struct {
		Data any `json:"data"`
		Todo any `json:"todo"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.Data == nil {
		jsonutil.BadRequest(w, "Falta el campo data.")
		return
	}

	resultado, err := h.query.Insertar(r.Context(), esquema, in.Data, esTodo(in.Todo))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.Created(w, resultado.Mensaje, resultado.Datos)
}

// Listar handles POST /{coleccion}/listar with {data, filter, todo}. data is
// the filter; filter is the projection.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	esquema, ok := h.esquema(w, r)
	if !ok {
		return
	}
	var in struct {
		Data   map[string]any `json:"data"`
		Filter map[string]any `json:"filter"`
		Todo   any            `json:"todo"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}

	resultado, err := h.query.Encontrar(r.Context(), esquema, in.Data, in.Filter, esTodo(in.Todo))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, resultado.Mensaje, resultado.Datos)
}

// Actualizar handles PUT /{coleccion}/actualizar with {data, filter, todo}.
// filter selects the documents; data carries the new column values.
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	esquema, ok := h.esquema(w, r)
	if !ok {
		return
	}
	var in struct {
		Data   map[string]any `json:"data"`
		Filter map[string]any `json:"filter"`
		Todo   any            `json:"todo"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if len(in.Data) == 0 || len(in.Filter) == 0 {
		jsonutil.BadRequest(w, "Faltan los campos data o filter.")
		return
	}

	resultado, err := h.query.Actualizar(r.Context(), esquema, in.Filter, in.Data, esTodo(in.Todo))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, resultado.Mensaje, resultado.Datos)
}

// Eliminar handles DELETE /{coleccion}/eliminar with {data, todo}. data is
// the filter.
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	esquema, ok := h.esquema(w, r)
	if !ok {
		return
	}
	var in struct {
		Data map[string]any `json:"data"`
		Todo any            `json:"todo"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if len(in.Data) == 0 {
		jsonutil.BadRequest(w, "Falta el campo data.")
		return
	}

	resultado, err := h.query.Eliminar(r.Context(), esquema, in.Data, esTodo(in.Todo))
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, resultado.Mensaje, resultado.Datos)
}

// Relacion handles POST /{coleccion}/relacion with {coleccion, id_local,
// id_relacion, as, data}: a lookup join from the URL collection into the
// named one.
func (h *Handler) Relacion(w http.ResponseWriter, r *http.Request) {
	esquema, ok := h.esquema(w, r)
	if !ok {
		return
	}
	var in struct {
		Coleccion  string         `json:"coleccion"`
		IDLocal    string         `json:"id_local"`
		IDRelacion string         `json:"id_relacion"`
		Como       string         `json:"as"`
		Data       map[string]any `json:"data"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Cuerpo JSON invalido.")
		return
	}
	if in.Coleccion == "" || in.IDLocal == "" || in.IDRelacion == "" {
		jsonutil.BadRequest(w, "Faltan los campos coleccion, id_local o id_relacion.")
		return
	}
	if in.Como == "" {
		in.Como = in.Coleccion
	}

	resultado, err := h.query.EncontrarRelacion(r.Context(), esquema, generic.Relacion{
		Coleccion:    in.Coleccion,
		CampoLocal:   in.IDLocal,
		CampoForaneo: in.IDRelacion,
		Como:         in.Como,
		Filtro:       in.Data,
	})
	if err != nil {
		h.responder(w, err)
		return
	}
	jsonutil.OK(w, resultado.Mensaje, resultado.Datos)
}

// esTodo accepts the loose truthy values callers send for the todo flag.
func esTodo(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return inputval.ParseTodo(t)
	case float64:
		return t == 1
	}
	return false
}
