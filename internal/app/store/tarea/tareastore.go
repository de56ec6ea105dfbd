// Package tarea provides storage for assignments inside topics.
package tarea

import (
	"context"
	"time"

	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the tareas collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new assignment store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("tareas"),
	}
}

// CreateInput contains the input for creating an assignment.
type CreateInput struct {
	IDTema       string
	Titulo       string
	Descripcion  string
	FechaEntrega time.Time
	AutorID      string
}

// Create creates an assignment in state activo with an empty file list.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Tarea, error) {
	tarea := models.Tarea{
		ID:            primitive.NewObjectID(),
		IDTema:        input.IDTema,
		Titulo:        input.Titulo,
		Descripcion:   input.Descripcion,
		FechaEntrega:  input.FechaEntrega,
		AutorID:       input.AutorID,
		Archivos:      []models.ResumenArchivo{},
		FechaCreacion: time.Now().UTC(),
		Estado:        models.EstadoActivo,
	}

	if _, err := s.c.InsertOne(ctx, tarea); err != nil {
		return nil, err
	}
	return &tarea, nil
}

// GetByID retrieves an assignment by ID regardless of state.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tarea, error) {
	var tarea models.Tarea
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&tarea); err != nil {
		return nil, err
	}
	return &tarea, nil
}

// ListByTopic returns a topic's non-deleted assignments ordered by due date.
func (s *Store) ListByTopic(ctx context.Context, idTema string) ([]models.Tarea, error) {
	filter := bson.M{
		"id_tema": idTema,
		"estado":  bson.M{"$ne": models.EstadoEliminado},
	}
	opts := options.Find().SetSort(bson.D{{Key: "fecha_entrega", Value: 1}})

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tareas []models.Tarea
	if err := cursor.All(ctx, &tareas); err != nil {
		return nil, err
	}
	return tareas, nil
}

// UpdateInput contains the fields an assignment update may change.
type UpdateInput struct {
	Titulo       *string
	Descripcion  *string
	FechaEntrega *time.Time
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
	if input.FechaEntrega != nil {
		set["fecha_entrega"] = *input.FechaEntrega
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SoftDelete flags the assignment eliminado.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"estado":            models.EstadoEliminado,
		"fecha_eliminacion": time.Now().UTC(),
	}})
	return err
}

// AppendArchivo adds a file summary to the assignment's archivos array.
func (s *Store) AppendArchivo(ctx context.Context, id primitive.ObjectID, resumen models.ResumenArchivo) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"archivos": resumen}})
	return err
}

// RemoveArchivo drops the file summary with the given id from the
// assignment's archivos array.
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
