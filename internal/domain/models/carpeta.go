package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RutaCarpeta holds the blob-store root path for one logical folder kind.
type RutaCarpeta struct {
	Ruta string `bson:"ruta"`
}

// CarpetaUsuario is one record in the carpetas_usuarios collection: the
// registry entry mapping a user to their two blob-store root folders.
// Created lazily on the user's first upload; usuario_id carries a unique
// index so a racing second insert fails with a duplicate key, which callers
// treat as success.
type CarpetaUsuario struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty"`
	UsuarioID string                 `bson:"usuario_id"`
	Carpetas  map[string]RutaCarpeta `bson:"carpetas"` // keys: "personal", "educativo"
}

// Folder-kind keys inside CarpetaUsuario.Carpetas.
const (
	TipoContenidoPersonal  = "personal"
	TipoContenidoEducativo = "educativo"
)

// RutaPersonal returns the blob-store root for a user's personal content.
func RutaPersonal(usuarioID string) string {
	return "/" + CarpetaPersonal + "/" + usuarioID + "/"
}

// RutaEducativa returns the blob-store root for a user's educational content.
func RutaEducativa(usuarioID string) string {
	return "/" + CarpetaEducativa + "/" + usuarioID + "/"
}
