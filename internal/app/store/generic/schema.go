// Package generic implements the schema-driven record layer: a declarative
// description of a collection (required fields, column whitelist, unique key,
// indexes, validator) drives uniform insert/find/update/delete operations plus
// one relation lookup.
package generic

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Schema describes one collection's shape. Defined once at startup, never
// persisted.
type Schema struct {
	Coleccion  string   // collection name
	CampoID    string   // primary identifier field, system generated
	Requeridas []string // fields a create payload must carry
	Columnas   []string // full column whitelist
	Unica      string   // field backed by a unique index, may be empty
	Indices    []string // additional single-field indexes
	Validador  bson.M   // $jsonSchema validator applied at collection creation
}

// permitida reports whether col is in the column whitelist.
func (s Schema) permitida(col string) bool {
	for _, c := range s.Columnas {
		if c == col {
			return true
		}
	}
	return false
}

// validarDocumento applies the create-time checks in order: first every
// required field (the primary identifier excluded, it is generated), then the
// whitelist. The first offending field names the error.
func (s Schema) validarDocumento(doc map[string]any) error {
	for _, req := range s.Requeridas {
		if req == s.CampoID {
			continue
		}
		if _, ok := doc[req]; !ok {
			return &ErrValidacion{Mensaje: fmt.Sprintf("Falta la columna obligatoria %s", req)}
		}
	}
	for clave := range doc {
		if clave == "filter" || clave == "todo" {
			continue
		}
		if !s.permitida(clave) {
			return &ErrValidacion{Mensaje: fmt.Sprintf("Columna desconocida %s", clave)}
		}
	}
	return nil
}

// ErrValidacion is a request-shape failure detected before any store call.
// Handlers map it to a 400 response.
type ErrValidacion struct {
	Mensaje string
}

func (e *ErrValidacion) Error() string { return e.Mensaje }

// Registry holds the schemas known to the service, keyed by collection name.
type Registry struct {
	esquemas map[string]Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{esquemas: make(map[string]Schema)}
}

// Registrar adds or replaces a schema.
func (r *Registry) Registrar(s Schema) {
	r.esquemas[s.Coleccion] = s
}

// Obtener looks a schema up by collection name.
func (r *Registry) Obtener(coleccion string) (Schema, bool) {
	s, ok := r.esquemas[coleccion]
	return s, ok
}

// Todos returns every registered schema.
func (r *Registry) Todos() []Schema {
	out := make([]Schema, 0, len(r.esquemas))
	for _, s := range r.esquemas {
		out = append(out, s)
	}
	return out
}

// Default returns the registry with the course content schemas the service
// exposes through the generic records API.
func Default() *Registry {
	r := NewRegistry()
	r.Registrar(Schema{
		Coleccion:  "contenido",
		CampoID:    "id_contenido",
		Requeridas: []string{"id_modulo", "title", "type"},
		Columnas:   []string{"id_contenido", "id_modulo", "title", "files", "type", "content"},
		Unica:      "id_contenido",
		Indices:    []string{"id_modulo"},
		Validador: bson.M{
			"$jsonSchema": bson.M{
				"bsonType": "object",
				"required": bson.A{"id_contenido", "id_modulo", "title", "type"},
				"properties": bson.M{
					"id_contenido": bson.M{"bsonType": "objectId"},
					"id_modulo":    bson.M{"bsonType": "string"},
					"title":        bson.M{"bsonType": "string"},
					"files":        bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
					"type":         bson.M{"bsonType": "string"},
					"content":      bson.M{"bsonType": "object"},
				},
			},
		},
	})
	r.Registrar(Schema{
		Coleccion:  "modulo",
		CampoID:    "id_modulo",
		Requeridas: []string{"id_docente", "id_materia", "title"},
		Columnas:   []string{"id_modulo", "id_docente", "id_materia", "title", "description", "image"},
		Unica:      "id_modulo",
		Indices:    []string{"id_docente", "id_materia"},
		Validador: bson.M{
			"$jsonSchema": bson.M{
				"bsonType": "object",
				"required": bson.A{"id_modulo", "id_docente", "id_materia", "title"},
				"properties": bson.M{
					"id_modulo":   bson.M{"bsonType": "objectId"},
					"id_docente":  bson.M{"bsonType": "int"},
					"id_materia":  bson.M{"bsonType": "int"},
					"title":       bson.M{"bsonType": "string"},
					"description": bson.M{"bsonType": "string"},
					"image":       bson.M{"bsonType": "string"},
				},
			},
		},
	})
	return r
}
