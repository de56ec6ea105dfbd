// Package anuncio provides storage for course announcements.
package anuncio

import (
	"context"
	"time"

	"github.com/educonnect/contenido/internal/app/store/storeutil"
	"github.com/educonnect/contenido/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the anuncios collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new announcement store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("anuncios"),
	}
}

// CreateInput contains the input for creating an announcement.
type CreateInput struct {
	IDCurso     string
	Titulo      string
	Contenido   string
	AutorID     string
	TipoUsuario string
}

// Create creates an announcement in state activo with an empty file list.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Anuncio, error) {
	anuncio := models.Anuncio{
		ID:            primitive.NewObjectID(),
		IDCurso:       input.IDCurso,
		Titulo:        input.Titulo,
		Contenido:     input.Contenido,
		AutorID:       input.AutorID,
		TipoUsuario:   input.TipoUsuario,
		Archivos:      []models.ResumenArchivo{},
		FechaCreacion: time.Now().UTC(),
		Estado:        models.EstadoActivo,
	}

	if _, err := s.c.InsertOne(ctx, anuncio); err != nil {
		return nil, err
	}
	return &anuncio, nil
}

// GetByID retrieves an announcement by ID regardless of state.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Anuncio, error) {
	var anuncio models.Anuncio
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&anuncio); err != nil {
		return nil, err
	}
	return &anuncio, nil
}

// ListByCourse returns a course's non-deleted announcements, newest first.
// limit and page are 1-based paging knobs; zero values mean the defaults.
func (s *Store) ListByCourse(ctx context.Context, idCurso string, limit, page int64) ([]models.Anuncio, error) {
	filter := bson.M{
		"id_curso": idCurso,
		"estado":   bson.M{"$ne": models.EstadoEliminado},
	}
	opts := storeutil.Paginate(limit, page).SetSort(bson.D{{Key: "fecha_creacion", Value: -1}})

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var anuncios []models.Anuncio
	if err := cursor.All(ctx, &anuncios); err != nil {
		return nil, err
	}
	return anuncios, nil
}

// UpdateInput contains the fields an announcement update may change.
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

// SoftDelete flags the announcement eliminado.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"estado":            models.EstadoEliminado,
		"fecha_eliminacion": time.Now().UTC(),
	}})
	return err
}

// AppendArchivo adds a file summary to the announcement's archivos array.
func (s *Store) AppendArchivo(ctx context.Context, id primitive.ObjectID, resumen models.ResumenArchivo) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"archivos": resumen}})
	return err
}

// RemoveArchivo drops the file summary with the given id from the
// announcement's archivos array.
func (s *Store) RemoveArchivo(ctx context.Context, id primitive.ObjectID, archivoID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"archivos": bson.M{"id": archivoID}}})
	return err
}

// EnsureIndexes creates the course listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id_curso", Value: 1}, {Key: "estado", Value: 1}},
	})
	return err
}
