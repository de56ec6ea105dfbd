// Package archivo provides storage for content file records.
package archivo

import (
	"context"
	"time"

	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the archivos_subidos collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new content file store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("archivos_subidos"),
	}
}

// CreateInput contains the input for recording an uploaded file.
type CreateInput struct {
	UsuarioID string
	Carpeta   string
	Archivo   models.DatosArchivo
	Etiquetas []string
}

// Create records a freshly uploaded file in state activo.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Archivo, error) {
	archivo := models.Archivo{
		ID:          primitive.NewObjectID(),
		UsuarioID:   input.UsuarioID,
		Carpeta:     input.Carpeta,
		Archivo:     input.Archivo,
		FechaSubida: time.Now().UTC(),
		Etiquetas:   input.Etiquetas,
		Estado:      models.EstadoActivo,
	}
	if archivo.Etiquetas == nil {
		archivo.Etiquetas = []string{}
	}

	if _, err := s.c.InsertOne(ctx, archivo); err != nil {
		return nil, err
	}
	return &archivo, nil
}

// GetByID retrieves a file record by ID regardless of state. Soft-deleted
// records stay reachable by direct lookup.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Archivo, error) {
	var archivo models.Archivo
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&archivo); err != nil {
		return nil, err
	}
	return &archivo, nil
}

// ListByFolder returns a user's non-deleted files in one logical folder,
// newest first.
func (s *Store) ListByFolder(ctx context.Context, usuarioID, carpeta string) ([]models.Archivo, error) {
	filter := bson.M{
		"usuario_id": usuarioID,
		"carpeta":    carpeta,
		"estado":     bson.M{"$ne": models.EstadoEliminado},
	}
	opts := options.Find().SetSort(bson.D{{Key: "fecha_subida", Value: -1}})

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var archivos []models.Archivo
	if err := cursor.All(ctx, &archivos); err != nil {
		return nil, err
	}
	return archivos, nil
}

// ListByUser returns every non-deleted file a user owns, across folders.
func (s *Store) ListByUser(ctx context.Context, usuarioID string) ([]models.Archivo, error) {
	filter := bson.M{
		"usuario_id": usuarioID,
		"estado":     bson.M{"$ne": models.EstadoEliminado},
	}
	cursor, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var archivos []models.Archivo
	if err := cursor.All(ctx, &archivos); err != nil {
		return nil, err
	}
	return archivos, nil
}

// UpdateInput contains the metadata fields a rename/move may change.
type UpdateInput struct {
	NombreOriginal *string
	Carpeta        *string
	Ruta           *string
	Link           *string
	NodoID         *string
	Etiquetas      []string
	Estado         *string
}

// Update applies the set fields to a file record.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{}

	if input.NombreOriginal != nil {
		set["archivo.nombre_original"] = *input.NombreOriginal
	}
	if input.Carpeta != nil {
		set["carpeta"] = *input.Carpeta
	}
	if input.Ruta != nil {
		set["archivo.ruta"] = *input.Ruta
	}
	if input.Link != nil {
		set["archivo.link"] = *input.Link
	}
	if input.NodoID != nil {
		set["archivo.nodo_id"] = *input.NodoID
	}
	if input.Etiquetas != nil {
		set["etiquetas"] = input.Etiquetas
	}
	if input.Estado != nil {
		set["estado"] = *input.Estado
	}
	if len(set) == 0 {
		return nil
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SoftDelete flags the record eliminado and stamps the deletion time. The
// record stays retrievable by id but drops out of listings.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"estado":            models.EstadoEliminado,
		"fecha_eliminacion": time.Now().UTC(),
	}})
	return err
}

// DeleteByUser removes every file record a user owns, soft-deleted ones
// included. Used by whole-user wipe.
func (s *Store) DeleteByUser(ctx context.Context, usuarioID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"usuario_id": usuarioID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByFolder returns how many non-deleted files a user has in a folder.
func (s *Store) CountByFolder(ctx context.Context, usuarioID, carpeta string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"usuario_id": usuarioID,
		"carpeta":    carpeta,
		"estado":     bson.M{"$ne": models.EstadoEliminado},
	})
}

// EnsureIndexes creates the indexes listing queries depend on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "usuario_id", Value: 1}, {Key: "carpeta", Value: 1}, {Key: "estado", Value: 1}}},
		{Keys: bson.D{{Key: "fecha_subida", Value: -1}}},
	})
	return err
}
