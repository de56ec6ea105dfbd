package generic

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Resultado is the uniform outcome of a record operation. An empty find is a
// successful Resultado with nil Datos, never an error.
type Resultado struct {
	Datos   any
	Mensaje string
}

// Query executes schema-driven operations against the database. One instance
// is shared by every request; the underlying client is safe for concurrent
// use.
type Query struct {
	db     *mongo.Database
	logger *zap.Logger
}

// New creates a Query bound to db.
func New(db *mongo.Database, logger *zap.Logger) *Query {
	return &Query{db: db, logger: logger}
}

// Preparar creates the schema's collection with its validator when missing and
// ensures its indexes. Safe to call on every startup.
func (q *Query) Preparar(ctx context.Context, esquema Schema) error {
	if len(esquema.Validador) > 0 {
		opts := options.CreateCollection().SetValidator(esquema.Validador)
		if err := q.db.CreateCollection(ctx, esquema.Coleccion, opts); err != nil {
			var cmdErr mongo.CommandError
			// 48 = NamespaceExists
			if !errors.As(err, &cmdErr) || cmdErr.Code != 48 {
				return err
			}
		}
	}

	col := q.db.Collection(esquema.Coleccion)
	var modelos []mongo.IndexModel
	if esquema.Unica != "" {
		modelos = append(modelos, mongo.IndexModel{
			Keys:    bson.D{{Key: esquema.Unica, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}
	for _, campo := range esquema.Indices {
		if campo == esquema.Unica {
			continue
		}
		modelos = append(modelos, mongo.IndexModel{
			Keys: bson.D{{Key: campo, Value: 1}},
		})
	}
	if len(modelos) == 0 {
		return nil
	}
	_, err := col.Indexes().CreateMany(ctx, modelos)
	return err
}

// estampar stamps a new document with a generated identifier and the
// insertion timestamp. Caller-supplied values for either are discarded.
func estampar(esquema Schema, doc map[string]any) bson.M {
	salida := make(bson.M, len(doc)+2)
	for clave, valor := range doc {
		if clave == esquema.CampoID || clave == "fecha_creacion" || clave == "filter" || clave == "todo" {
			continue
		}
		salida[clave] = valor
	}
	salida[esquema.CampoID] = primitive.NewObjectID()
	salida["fecha_creacion"] = time.Now().UTC()
	return salida
}

// Insertar validates datos against the schema and inserts it. With todo=true
// datos must be a list of documents and every element is validated before any
// write happens.
func (q *Query) Insertar(ctx context.Context, esquema Schema, datos any, todo bool) (Resultado, error) {
	col := q.db.Collection(esquema.Coleccion)

	if todo {
		lista, ok := datos.([]any)
		if !ok {
			return Resultado{}, &ErrValidacion{Mensaje: "Los datos no son una lista."}
		}
		docs := make([]any, 0, len(lista))
		for _, elem := range lista {
			doc, ok := elem.(map[string]any)
			if !ok {
				return Resultado{}, &ErrValidacion{Mensaje: "Los datos no son una lista de documentos."}
			}
			if err := esquema.validarDocumento(doc); err != nil {
				return Resultado{}, err
			}
			docs = append(docs, estampar(esquema, doc))
		}
		if _, err := col.InsertMany(ctx, docs); err != nil {
			q.logger.Error("fallo insert_many",
				zap.String("coleccion", esquema.Coleccion),
				zap.Error(err))
			return Resultado{}, err
		}
		return Resultado{Mensaje: "Lista de datos insertados correctamente."}, nil
	}

	doc, ok := datos.(map[string]any)
	if !ok {
		return Resultado{}, &ErrValidacion{Mensaje: "Los datos no son un documento."}
	}
	if err := esquema.validarDocumento(doc); err != nil {
		return Resultado{}, err
	}
	estampado := estampar(esquema, doc)
	if _, err := col.InsertOne(ctx, estampado); err != nil {
		q.logger.Error("fallo insert_one",
			zap.String("coleccion", esquema.Coleccion),
			zap.Error(err))
		return Resultado{}, err
	}
	return Resultado{
		Datos:   bson.M{esquema.CampoID: estampado[esquema.CampoID].(primitive.ObjectID).Hex()},
		Mensaje: "Datos insertados correctamente.",
	}, nil
}

// Encontrar reads documents matching filtro. With todo=true it returns every
// match, otherwise at most one. Identifier values come back as hex strings.
func (q *Query) Encontrar(ctx context.Context, esquema Schema, filtro, proyeccion map[string]any, todo bool) (Resultado, error) {
	col := q.db.Collection(esquema.Coleccion)
	consulta := CoerceIDs(filtro)

	if todo {
		opts := options.Find()
		if len(proyeccion) > 0 {
			opts.SetProjection(proyeccion)
		}
		cursor, err := col.Find(ctx, consulta, opts)
		if err != nil {
			return Resultado{}, err
		}
		defer cursor.Close(ctx)

		var docs []bson.M
		if err := cursor.All(ctx, &docs); err != nil {
			return Resultado{}, err
		}
		if len(docs) == 0 {
			return Resultado{Datos: []any{}, Mensaje: "No se encontraron datos."}, nil
		}
		return Resultado{Datos: StringifyIDs(docs), Mensaje: "Datos encontrados correctamente."}, nil
	}

	opts := options.FindOne()
	if len(proyeccion) > 0 {
		opts.SetProjection(proyeccion)
	}
	var doc bson.M
	if err := col.FindOne(ctx, consulta, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Resultado{Mensaje: "No se encontraron datos."}, nil
		}
		return Resultado{}, err
	}
	return Resultado{Datos: StringifyIDs(doc), Mensaje: "Datos encontrados correctamente."}, nil
}

// Actualizar applies cambios as a $set to matching documents. Every changed
// key must be in the column whitelist.
func (q *Query) Actualizar(ctx context.Context, esquema Schema, filtro, cambios map[string]any, todo bool) (Resultado, error) {
	for clave := range cambios {
		if clave == esquema.CampoID || clave == "fecha_creacion" {
			return Resultado{}, &ErrValidacion{Mensaje: "La columna " + clave + " no se puede modificar."}
		}
		if !esquema.permitida(clave) {
			return Resultado{}, &ErrValidacion{Mensaje: "Columna desconocida " + clave}
		}
	}

	col := q.db.Collection(esquema.Coleccion)
	consulta := CoerceIDs(filtro)
	actualizacion := bson.M{"$set": bson.M(cambios)}

	var (
		res *mongo.UpdateResult
		err error
	)
	if todo {
		res, err = col.UpdateMany(ctx, consulta, actualizacion)
	} else {
		res, err = col.UpdateOne(ctx, consulta, actualizacion)
	}
	if err != nil {
		q.logger.Error("fallo update",
			zap.String("coleccion", esquema.Coleccion),
			zap.Error(err))
		return Resultado{}, err
	}
	if res.MatchedCount == 0 {
		return Resultado{Mensaje: "No se encontraron datos."}, nil
	}
	return Resultado{Mensaje: "Datos actualizados correctamente."}, nil
}

// Eliminar removes matching documents.
func (q *Query) Eliminar(ctx context.Context, esquema Schema, filtro map[string]any, todo bool) (Resultado, error) {
	col := q.db.Collection(esquema.Coleccion)
	consulta := CoerceIDs(filtro)

	var (
		res *mongo.DeleteResult
		err error
	)
	if todo {
		res, err = col.DeleteMany(ctx, consulta)
	} else {
		res, err = col.DeleteOne(ctx, consulta)
	}
	if err != nil {
		q.logger.Error("fallo delete",
			zap.String("coleccion", esquema.Coleccion),
			zap.Error(err))
		return Resultado{}, err
	}
	if res.DeletedCount == 0 {
		return Resultado{Mensaje: "No se encontraron datos."}, nil
	}
	if todo {
		return Resultado{Mensaje: "Lista de datos eliminados correctamente."}, nil
	}
	return Resultado{Mensaje: "Datos eliminados correctamente."}, nil
}

// Relacion describes a join from the schema's collection to another one. The
// joined documents land in an array named Como on every source document.
type Relacion struct {
	Coleccion    string         // target collection
	CampoLocal   string         // field on the source documents
	CampoForaneo string         // field on the target documents
	Como         string         // name of the embedded array
	Filtro       map[string]any // optional equality pre-filter on the source
}

// EncontrarRelacion runs the one multi-collection read: an optional $match on
// the source followed by a $lookup into rel.Coleccion. Output documents carry
// the same stringified-id shape ordinary finds return.
func (q *Query) EncontrarRelacion(ctx context.Context, esquema Schema, rel Relacion) (Resultado, error) {
	pipeline := mongo.Pipeline{}
	if len(rel.Filtro) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: CoerceIDs(rel.Filtro)}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.M{
		"from":         rel.Coleccion,
		"localField":   rel.CampoLocal,
		"foreignField": rel.CampoForaneo,
		"as":           rel.Como,
	}}})

	cursor, err := q.db.Collection(esquema.Coleccion).Aggregate(ctx, pipeline)
	if err != nil {
		q.logger.Error("fallo lookup",
			zap.String("coleccion", esquema.Coleccion),
			zap.String("relacion", rel.Coleccion),
			zap.Error(err))
		return Resultado{}, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return Resultado{}, err
	}
	if len(docs) == 0 {
		return Resultado{Datos: []any{}, Mensaje: "No se encontraron datos."}, nil
	}
	return Resultado{Datos: StringifyIDs(docs), Mensaje: "Datos encontrados correctamente."}, nil
}
