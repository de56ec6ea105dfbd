package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Courseware modules a file can be attached to.
const (
	ModuloPublicacion = "publicacion"
	ModuloTarea       = "tarea"
	ModuloEntrega     = "entrega"
	ModuloAnuncio     = "anuncio"
)

// Roles of the uploading user.
const (
	TipoDocente    = "docente"
	TipoEstudiante = "estudiante"
)

// ArchivoEducativo is one record in the archivos collection: a file attached
// to a courseware entity. (ModuloOrigen, ReferenciaID) identifies the parent
// whose archivos array must list this record's id. Unlike content files,
// educational files are hard-deleted.
type ArchivoEducativo struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UsuarioID        string             `bson:"usuario_id" json:"usuario_id"`
	TipoUsuario      string             `bson:"tipo_usuario" json:"tipo_usuario"` // TipoDocente or TipoEstudiante
	NombreOriginal   string             `bson:"nombre_original" json:"nombre_original"`
	NombreAlmacenado string             `bson:"nombre_almacenado" json:"nombre_almacenado"`
	URL              string             `bson:"url" json:"url"`
	Tipo             string             `bson:"tipo" json:"tipo"` // MIME type
	Peso             int64              `bson:"peso" json:"peso"`
	ModuloOrigen     string             `bson:"modulo_origen" json:"modulo_origen"`
	ReferenciaID     string             `bson:"referencia_id" json:"referencia_id"`
	NodoID           string             `bson:"nodo_id" json:"nodo_id"`
	FechaSubida      time.Time          `bson:"fecha_subida" json:"fecha_subida"`
}

// ModuloValido reports whether m names a known courseware module.
func ModuloValido(m string) bool {
	switch m {
	case ModuloPublicacion, ModuloTarea, ModuloEntrega, ModuloAnuncio:
		return true
	}
	return false
}

// Resumen builds the embedded summary stored on the parent entity.
func (a *ArchivoEducativo) Resumen() ResumenArchivo {
	return ResumenArchivo{
		ID:               a.ID.Hex(),
		NombreOriginal:   a.NombreOriginal,
		NombreAlmacenado: a.NombreAlmacenado,
		URL:              a.URL,
		Tipo:             a.Tipo,
		Peso:             a.Peso,
	}
}
