// Package publicacion provides storage for posts inside topics.
package publicacion

import (
	"context"
	"time"

	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the publicaciones collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new post store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("publicaciones"),
	}
}

// CreateInput contains the input for creating a post.
type CreateInput struct {
	IDTema    string
	Titulo    string
	Contenido string
	AutorID   string
}

// Create creates a post in state activo with an empty file list.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Publicacion, error) {
	publicacion := models.Publicacion{
		ID:            primitive.NewObjectID(),
		IDTema:        input.IDTema,
		Titulo:        input.Titulo,
		Contenido:     input.Contenido,
		AutorID:       input.AutorID,
		Archivos:      []models.ResumenArchivo{},
		FechaCreacion: time.Now().UTC(),
		Estado:        models.EstadoActivo,
	}

	if _, err := s.c.InsertOne(ctx, publicacion); err != nil {
		return nil, err
	}
	return &publicacion, nil
}

// GetByID retrieves a post by ID regardless of state.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Publicacion, error) {
	var publicacion models.Publicacion
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&publicacion); err != nil {
		return nil, err
	}
	return &publicacion, nil
}

// ListByTopic returns a topic's non-deleted posts, newest first.
func (s *Store) ListByTopic(ctx context.Context, idTema string) ([]models.Publicacion, error) {
	filter := bson.M{
		"id_tema": idTema,
		"estado":  bson.M{"$ne": models.EstadoEliminado},
	}
	opts := options.Find().SetSort(bson.D{{Key: "fecha_creacion", Value: -1}})

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var publicaciones []models.Publicacion
	if err := cursor.All(ctx, &publicaciones); err != nil {
		return nil, err
	}
	return publicaciones, nil
}

// UpdateInput contains the fields a post update may change.
type UpdateInput struct {
	Titulo    *string
	Contenido *string
}

// Update applies the set fields and stamps fecha_modificacion.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{"fecha_modificacion": time.Now().UTC()}

	if input.Titulo != nil {
		set["titulo"] = *input.Titulo
	}
	if input.Contenido != nil {
		set["contenido"] = *input.Contenido
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SoftDelete flags the post eliminado.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"estado":            models.EstadoEliminado,
		"fecha_eliminacion": time.Now().UTC(),
	}})
	return err
}

// AppendArchivo adds a file summary to the post's archivos array.
func (s *Store) AppendArchivo(ctx context.Context, id primitive.ObjectID, resumen models.ResumenArchivo) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"archivos": resumen}})
	return err
}

// RemoveArchivo drops the file summary with the given id from the post's
// archivos array.
func (s *Store) RemoveArchivo(ctx context.Context, id primitive.ObjectID, archivoID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"archivos": bson.M{"id": archivoID}}})
	return err
}

// EnsureIndexes creates the topic listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id_tema", Value: 1}, {Key: "estado", Value: 1}},
	})
	return err
}
