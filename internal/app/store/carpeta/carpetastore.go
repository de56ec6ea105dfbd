// Package carpeta provides storage for the user folder registry.
package carpeta

import (
	"context"

	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the carpetas_usuarios collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new folder registry store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("carpetas_usuarios"),
	}
}

// GetByUser retrieves a user's registry entry.
func (s *Store) GetByUser(ctx context.Context, usuarioID string) (*models.CarpetaUsuario, error) {
	var carpeta models.CarpetaUsuario
	if err := s.c.FindOne(ctx, bson.M{"usuario_id": usuarioID}).Decode(&carpeta); err != nil {
		return nil, err
	}
	return &carpeta, nil
}

// Create inserts the registry entry for a user. usuario_id carries a unique
// index: when two uploads race, the loser gets a duplicate-key error and must
// re-read the winner's entry. That is the expected path, not a failure.
func (s *Store) Create(ctx context.Context, usuarioID string) (*models.CarpetaUsuario, error) {
	carpeta := models.CarpetaUsuario{
		ID:        primitive.NewObjectID(),
		UsuarioID: usuarioID,
		Carpetas: map[string]models.RutaCarpeta{
			models.TipoContenidoPersonal:  {Ruta: models.RutaPersonal(usuarioID)},
			models.TipoContenidoEducativo: {Ruta: models.RutaEducativa(usuarioID)},
		},
	}

	if _, err := s.c.InsertOne(ctx, carpeta); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return s.GetByUser(ctx, usuarioID)
		}
		return nil, err
	}
	return &carpeta, nil
}

// DeleteByUser removes a user's registry entry.
func (s *Store) DeleteByUser(ctx context.Context, usuarioID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"usuario_id": usuarioID})
	return err
}

// EnsureIndexes creates the unique index that makes lazy provisioning
// race-safe.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "usuario_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
