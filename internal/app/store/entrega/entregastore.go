// Package entrega provides storage for student submissions.
package entrega

import (
	"context"
	"errors"
	"time"

	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicada is returned when a student already submitted for the
// assignment. The (id_tarea, id_estudiante) pair carries a unique index, so
// the check holds under concurrent submissions.
var ErrDuplicada = errors.New("entrega: el estudiante ya tiene una entrega para esta tarea")

// Store provides access to the entregas collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new submission store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("entregas"),
	}
}

// CreateInput contains the input for creating a submission.
type CreateInput struct {
	IDTarea      string
	IDEstudiante string
	Respuesta    string
}

// Create creates a submission in state entregado. A second submission by the
// same student for the same assignment returns ErrDuplicada.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Entrega, error) {
	entrega := models.Entrega{
		ID:           primitive.NewObjectID(),
		IDTarea:      input.IDTarea,
		IDEstudiante: input.IDEstudiante,
		Respuesta:    input.Respuesta,
		Archivos:     []models.ResumenArchivo{},
		FechaEntrega: time.Now().UTC(),
		Estado:       models.EstadoEntregado,
	}

	if _, err := s.c.InsertOne(ctx, entrega); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicada
		}
		return nil, err
	}
	return &entrega, nil
}

// GetByID retrieves a submission by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Entrega, error) {
	var entrega models.Entrega
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&entrega); err != nil {
		return nil, err
	}
	return &entrega, nil
}

// GetByTaskStudent retrieves the one submission a student has for an
// assignment.
func (s *Store) GetByTaskStudent(ctx context.Context, idTarea, idEstudiante string) (*models.Entrega, error) {
	var entrega models.Entrega
	filter := bson.M{"id_tarea": idTarea, "id_estudiante": idEstudiante}
	if err := s.c.FindOne(ctx, filter).Decode(&entrega); err != nil {
		return nil, err
	}
	return &entrega, nil
}

// ListByTask returns every submission for an assignment, newest first.
func (s *Store) ListByTask(ctx context.Context, idTarea string) ([]models.Entrega, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha_entrega", Value: -1}})
	cursor, err := s.c.Find(ctx, bson.M{"id_tarea": idTarea}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entregas []models.Entrega
	if err := cursor.All(ctx, &entregas); err != nil {
		return nil, err
	}
	return entregas, nil
}

// UpdateInput contains the fields a submission update may change.
type UpdateInput struct {
	Respuesta *string
	Estado    *string
}

// Update applies the set fields and stamps fecha_modificacion.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{"fecha_modificacion": time.Now().UTC()}

	if input.Respuesta != nil {
		set["respuesta"] = *input.Respuesta
	}
	if input.Estado != nil {
		set["estado"] = *input.Estado
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Delete removes a submission outright.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AppendArchivo adds a file summary to the submission's archivos array.
func (s *Store) AppendArchivo(ctx context.Context, id primitive.ObjectID, resumen models.ResumenArchivo) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"archivos": resumen}})
	return err
}

// RemoveArchivo drops the file summary with the given id from the
// submission's archivos array.
func (s *Store) RemoveArchivo(ctx context.Context, id primitive.ObjectID, archivoID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"archivos": bson.M{"id": archivoID}}})
	return err
}

// EnsureIndexes creates the compound unique index enforcing one submission
// per student per assignment.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id_tarea", Value: 1}, {Key: "id_estudiante", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
