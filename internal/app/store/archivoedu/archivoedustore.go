// Package archivoedu provides storage for files attached to courseware
// entities.
package archivoedu

import (
	"context"
	"time"

	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the archivos collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new educational file store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("archivos"),
	}
}

// CreateInput contains the input for recording an attached file.
type CreateInput struct {
	UsuarioID        string
	TipoUsuario      string
	NombreOriginal   string
	NombreAlmacenado string
	URL              string
	Tipo             string
	Peso             int64
	ModuloOrigen     string
	ReferenciaID     string
	NodoID           string
}

// Create records a file attached to a courseware entity.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.ArchivoEducativo, error) {
	archivo := models.ArchivoEducativo{
		ID:               primitive.NewObjectID(),
		UsuarioID:        input.UsuarioID,
		TipoUsuario:      input.TipoUsuario,
		NombreOriginal:   input.NombreOriginal,
		NombreAlmacenado: input.NombreAlmacenado,
		URL:              input.URL,
		Tipo:             input.Tipo,
		Peso:             input.Peso,
		ModuloOrigen:     input.ModuloOrigen,
		ReferenciaID:     input.ReferenciaID,
		NodoID:           input.NodoID,
		FechaSubida:      time.Now().UTC(),
	}

	if _, err := s.c.InsertOne(ctx, archivo); err != nil {
		return nil, err
	}
	return &archivo, nil
}

// GetByID retrieves an attached file record by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ArchivoEducativo, error) {
	var archivo models.ArchivoEducativo
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&archivo); err != nil {
		return nil, err
	}
	return &archivo, nil
}

// ListByReference returns every file attached to one parent entity.
func (s *Store) ListByReference(ctx context.Context, modulo, referenciaID string) ([]models.ArchivoEducativo, error) {
	cursor, err := s.c.Find(ctx, bson.M{
		"modulo_origen": modulo,
		"referencia_id": referenciaID,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var archivos []models.ArchivoEducativo
	if err := cursor.All(ctx, &archivos); err != nil {
		return nil, err
	}
	return archivos, nil
}

// ListByUser returns every attached file a user uploaded. tipoUsuario
// narrows the result when non-empty.
func (s *Store) ListByUser(ctx context.Context, usuarioID, tipoUsuario string) ([]models.ArchivoEducativo, error) {
	filter := bson.M{"usuario_id": usuarioID}
	if tipoUsuario != "" {
		filter["tipo_usuario"] = tipoUsuario
	}
	cursor, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var archivos []models.ArchivoEducativo
	if err := cursor.All(ctx, &archivos); err != nil {
		return nil, err
	}
	return archivos, nil
}

// Delete removes the record outright. Educational files are hard-deleted,
// unlike content files.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByReference removes every file record attached to one parent entity.
func (s *Store) DeleteByReference(ctx context.Context, modulo, referenciaID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"modulo_origen": modulo,
		"referencia_id": referenciaID,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes every attached file record a user owns.
func (s *Store) DeleteByUser(ctx context.Context, usuarioID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"usuario_id": usuarioID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the parent-reference index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "modulo_origen", Value: 1}, {Key: "referencia_id", Value: 1}}},
		{Keys: bson.D{{Key: "usuario_id", Value: 1}}},
	})
	return err
}
