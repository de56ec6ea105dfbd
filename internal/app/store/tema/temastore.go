// Package tema provides storage for course topics.
package tema

import (
	"context"
	"time"

	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the temas collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new topic store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("temas"),
	}
}

// CreateInput contains the input for creating a topic.
type CreateInput struct {
	IDCurso     string
	Titulo      string
	Descripcion string
	Orden       int
}

// Create creates a topic in state activo with an empty file list.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Tema, error) {
	tema := models.Tema{
		ID:            primitive.NewObjectID(),
		IDCurso:       input.IDCurso,
		Titulo:        input.Titulo,
		Descripcion:   input.Descripcion,
		Orden:         input.Orden,
		Archivos:      []models.ResumenArchivo{},
		FechaCreacion: time.Now().UTC(),
		Estado:        models.EstadoActivo,
	}

	if _, err := s.c.InsertOne(ctx, tema); err != nil {
		return nil, err
	}
	return &tema, nil
}

// GetByID retrieves a topic by ID regardless of state.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tema, error) {
	var tema models.Tema
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&tema); err != nil {
		return nil, err
	}
	return &tema, nil
}

// ListByCourse returns a course's non-deleted topics ordered by orden.
func (s *Store) ListByCourse(ctx context.Context, idCurso string) ([]models.Tema, error) {
	filter := bson.M{
		"id_curso": idCurso,
		"estado":   bson.M{"$ne": models.EstadoEliminado},
	}
	opts := options.Find().SetSort(bson.D{{Key: "orden", Value: 1}})

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var temas []models.Tema
	if err := cursor.All(ctx, &temas); err != nil {
		return nil, err
	}
	return temas, nil
}

// UpdateInput contains the fields a topic update may change.
type UpdateInput struct {
	Titulo      *string
	Descripcion *string
	Orden       *int
}

// Update applies the set fields and stamps fecha_modificacion.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{"fecha_modificacion": time.Now().UTC()}

	if input.Titulo != nil {
		set["titulo"] = *input.Titulo
	}
	if input.Descripcion != nil {
		set["descripcion"] = *input.Descripcion
	}
	if input.Orden != nil {
		set["orden"] = *input.Orden
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SoftDelete flags the topic eliminado.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"estado":            models.EstadoEliminado,
		"fecha_eliminacion": time.Now().UTC(),
	}})
	return err
}

// AppendArchivo adds a file summary to the topic's archivos array.
func (s *Store) AppendArchivo(ctx context.Context, id primitive.ObjectID, resumen models.ResumenArchivo) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"archivos": resumen}})
	return err
}

// RemoveArchivo drops the file summary with the given id from the topic's
// archivos array.
func (s *Store) RemoveArchivo(ctx context.Context, id primitive.ObjectID, archivoID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"archivos": bson.M{"id": archivoID}}})
	return err
}

// EnsureIndexes creates the course listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id_curso", Value: 1}, {Key: "estado", Value: 1}, {Key: "orden", Value: 1}},
	})
	return err
}
