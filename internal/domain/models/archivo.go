package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Logical folders every user owns in the blob store.
const (
	CarpetaPersonal  = "Contenido Personal"
	CarpetaEducativa = "Contenido Educativo"
)

// Lifecycle states for content file records. Deletes are soft: the record
// stays in the collection with Estado set to EstadoEliminado.
const (
	EstadoActivo    = "activo"
	EstadoArchivado = "archivado"
	EstadoEliminado = "eliminado"
)

// DatosArchivo is the embedded "archivo" document holding the physical
// placement of one uploaded blob.
type DatosArchivo struct {
	Nombre         string `bson:"nombre"`          // stored name (uuid-prefixed)
	NombreOriginal string `bson:"nombre_original"` // name as uploaded
	Tipo           string `bson:"tipo"`            // MIME type
	Peso           int64  `bson:"peso"`            // size in bytes
	Link           string `bson:"link"`            // shareable URL
	Ruta           string `bson:"ruta"`            // full path in the blob store
	NodoID         string `bson:"nodo_id"`         // opaque blob-store handle
}

// Archivo is one record in the archivos_subidos collection. NodoID is set
// exactly when the blob exists in the store; a record with Estado
// EstadoEliminado has had its blob deleted (best effort).
type Archivo struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	UsuarioID        string             `bson:"usuario_id"`
	Carpeta          string             `bson:"carpeta"` // CarpetaPersonal or CarpetaEducativa
	Archivo          DatosArchivo       `bson:"archivo"`
	FechaSubida      time.Time          `bson:"fecha_subida"`
	Etiquetas        []string           `bson:"etiquetas"`
	Estado           string             `bson:"estado"`
	FechaEliminacion *time.Time         `bson:"fecha_eliminacion,omitempty"`
}

// EsActivo reports whether the file should appear in listings.
func (a *Archivo) EsActivo() bool {
	return a.Estado == EstadoActivo
}
