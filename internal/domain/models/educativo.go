package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResumenArchivo is the lightweight file summary embedded in the archivos
// array of courseware entities. ID refers to a record in the archivos
// collection; both sides are kept in sync at the application level.
type ResumenArchivo struct {
	ID               string `bson:"id" json:"id"`
	NombreOriginal   string `bson:"nombre_original" json:"nombre_original"`
	NombreAlmacenado string `bson:"nombre_almacenado" json:"nombre_almacenado"`
	URL              string `bson:"url" json:"url"`
	Tipo             string `bson:"tipo" json:"tipo"`
	Peso             int64  `bson:"peso" json:"peso"`
}

// Course lifecycle states. A new course starts as a draft; deleting one is
// a suspension, the document stays in the collection.
const (
	EstadoBorrador   = "borrador"
	EstadoSuspendido = "suspendido"
)

// Curso is a teacher's course. Temas holds the ids of its topics; the
// topics themselves live in the temas collection.
type Curso struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nombre            string             `bson:"nombre" json:"nombre"`
	Descripcion       string             `bson:"descripcion" json:"descripcion"`
	DocenteID         string             `bson:"docente_id" json:"docente_id"`
	Temas             []string           `bson:"temas" json:"temas"`
	Archivos          []ResumenArchivo   `bson:"archivos" json:"archivos"`
	FechaCreacion     time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaModificacion *time.Time         `bson:"fecha_modificacion,omitempty" json:"fecha_modificacion,omitempty"`
	FechaSuspension   *time.Time         `bson:"fecha_suspension,omitempty" json:"fecha_suspension,omitempty"`
	Estado            string             `bson:"estado" json:"estado"`
}

// Tema belongs to a course and orders its content.
type Tema struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDCurso           string             `bson:"id_curso" json:"id_curso"`
	Titulo            string             `bson:"titulo" json:"titulo"`
	Descripcion       string             `bson:"descripcion" json:"descripcion"`
	Orden             int                `bson:"orden" json:"orden"`
	Archivos          []ResumenArchivo   `bson:"archivos" json:"archivos"`
	FechaCreacion     time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaModificacion *time.Time         `bson:"fecha_modificacion,omitempty" json:"fecha_modificacion,omitempty"`
	FechaEliminacion  *time.Time         `bson:"fecha_eliminacion,omitempty" json:"fecha_eliminacion,omitempty"`
	Estado            string             `bson:"estado" json:"estado"`
}

// Publicacion is a post inside a topic.
type Publicacion struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDTema            string             `bson:"id_tema" json:"id_tema"`
	Titulo            string             `bson:"titulo" json:"titulo"`
	Contenido         string             `bson:"contenido" json:"contenido"`
	AutorID           string             `bson:"autor_id" json:"autor_id"`
	Archivos          []ResumenArchivo   `bson:"archivos" json:"archivos"`
	FechaCreacion     time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaModificacion *time.Time         `bson:"fecha_modificacion,omitempty" json:"fecha_modificacion,omitempty"`
	FechaEliminacion  *time.Time         `bson:"fecha_eliminacion,omitempty" json:"fecha_eliminacion,omitempty"`
	Estado            string             `bson:"estado" json:"estado"`
}

// Tarea is an assignment inside a topic.
type Tarea struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDTema            string             `bson:"id_tema" json:"id_tema"`
	Titulo            string             `bson:"titulo" json:"titulo"`
	Descripcion       string             `bson:"descripcion" json:"descripcion"`
	FechaEntrega      time.Time          `bson:"fecha_entrega" json:"fecha_entrega"` // due date
	AutorID           string             `bson:"autor_id" json:"autor_id"`
	Archivos          []ResumenArchivo   `bson:"archivos" json:"archivos"`
	FechaCreacion     time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaModificacion *time.Time         `bson:"fecha_modificacion,omitempty" json:"fecha_modificacion,omitempty"`
	FechaEliminacion  *time.Time         `bson:"fecha_eliminacion,omitempty" json:"fecha_eliminacion,omitempty"`
	Estado            string             `bson:"estado" json:"estado"`
}

// EstadoEntregado is the initial state of a submission.
const EstadoEntregado = "entregado"

// Entrega is a student's submission for one assignment. The pair
// (id_tarea, id_estudiante) carries a compound unique index: one submission
// per student per assignment.
type Entrega struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDTarea           string             `bson:"id_tarea" json:"id_tarea"`
	IDEstudiante      string             `bson:"id_estudiante" json:"id_estudiante"`
	Respuesta         string             `bson:"respuesta" json:"respuesta"`
	Archivos          []ResumenArchivo   `bson:"archivos" json:"archivos"`
	FechaEntrega      time.Time          `bson:"fecha_entrega" json:"fecha_entrega"` // when submitted
	FechaModificacion *time.Time         `bson:"fecha_modificacion,omitempty" json:"fecha_modificacion,omitempty"`
	Estado            string             `bson:"estado" json:"estado"`
}

// Anuncio is an announcement for a course.
type Anuncio struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDCurso           string             `bson:"id_curso" json:"id_curso"`
	Titulo            string             `bson:"titulo" json:"titulo"`
	Contenido         string             `bson:"contenido" json:"contenido"`
	AutorID           string             `bson:"autor_id" json:"autor_id"`
	TipoUsuario       string             `bson:"tipo_usuario" json:"tipo_usuario"`
	Archivos          []ResumenArchivo   `bson:"archivos" json:"archivos"`
	FechaCreacion     time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaModificacion *time.Time         `bson:"fecha_modificacion,omitempty" json:"fecha_modificacion,omitempty"`
	FechaEliminacion  *time.Time         `bson:"fecha_eliminacion,omitempty" json:"fecha_eliminacion,omitempty"`
	Estado            string             `bson:"estado" json:"estado"`
}
