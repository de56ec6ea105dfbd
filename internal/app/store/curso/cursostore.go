// Package curso provides storage for courses.
package curso

import (
	"context"
	"time"

	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the cursos collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new course store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("cursos"),
	}
}

// CreateInput contains the input for creating a course.
type CreateInput struct {
	Nombre      string
	Descripcion string
	DocenteID   string
	Estado      string // empty means borrador
}

// Create creates a course. A course without an explicit state starts as a
// draft, with empty topic and file lists.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Curso, error) {
	estado := input.Estado
	if estado == "" {
		estado = models.EstadoBorrador
	}
	curso := models.Curso{
		ID:            primitive.NewObjectID(),
		Nombre:        input.Nombre,
		Descripcion:   input.Descripcion,
		DocenteID:     input.DocenteID,
		Temas:         []string{},
		Archivos:      []models.ResumenArchivo{},
		FechaCreacion: time.Now().UTC(),
		Estado:        estado,
	}

	if _, err := s.c.InsertOne(ctx, curso); err != nil {
		return nil, err
	}
	return &curso, nil
}

// GetByID retrieves a course by ID regardless of state.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Curso, error) {
	var curso models.Curso
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&curso); err != nil {
		return nil, err
	}
	return &curso, nil
}

// ListByDocente returns every course a teacher owns, newest first. Suspended
// courses are included so the owner can still see them.
func (s *Store) ListByDocente(ctx context.Context, docenteID string) ([]models.Curso, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha_creacion", Value: -1}})
	cursor, err := s.c.Find(ctx, bson.M{"docente_id": docenteID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cursos []models.Curso
	if err := cursor.All(ctx, &cursos); err != nil {
		return nil, err
	}
	return cursos, nil
}

// ListAll returns every course, optionally narrowed to one state.
func (s *Store) ListAll(ctx context.Context, estado string) ([]models.Curso, error) {
	filter := bson.M{}
	if estado != "" {
		filter["estado"] = estado
	}
	opts := options.Find().SetSort(bson.D{{Key: "fecha_creacion", Value: -1}})

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cursos []models.Curso
	if err := cursor.All(ctx, &cursos); err != nil {
		return nil, err
	}
	return cursos, nil
}

// UpdateInput contains the fields a course update may change.
type UpdateInput struct {
	Nombre      *string
	Descripcion *string
	Estado      *string
}

// Update applies the set fields and stamps fecha_modificacion.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{"fecha_modificacion": time.Now().UTC()}

	if input.Nombre != nil {
		set["nombre"] = *input.Nombre
	}
	if input.Descripcion != nil {
		set["descripcion"] = *input.Descripcion
	}
	if input.Estado != nil {
		set["estado"] = *input.Estado
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Suspend flags the course suspendido and stamps fecha_suspension. The
// document stays in the collection.
func (s *Store) Suspend(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"estado":             models.EstadoSuspendido,
		"fecha_suspension":   now,
		"fecha_modificacion": now,
	}})
	return err
}

// Delete removes the course document outright.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// EnsureIndexes creates the teacher listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "docente_id", Value: 1}, {Key: "estado", Value: 1}},
	})
	return err
}
