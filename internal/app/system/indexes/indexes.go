// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureArchivosSubidos(ctx, db); err != nil {
		problems = append(problems, "archivos_subidos: "+err.Error())
	}
	if err := ensureCarpetasUsuarios(ctx, db); err != nil {
		problems = append(problems, "carpetas_usuarios: "+err.Error())
	}
	if err := ensureArchivos(ctx, db); err != nil {
		problems = append(problems, "archivos: "+err.Error())
	}
	if err := ensureCursos(ctx, db); err != nil {
		problems = append(problems, "cursos: "+err.Error())
	}
	if err := ensureTemas(ctx, db); err != nil {
		problems = append(problems, "temas: "+err.Error())
	}
	if err := ensurePublicaciones(ctx, db); err != nil {
		problems = append(problems, "publicaciones: "+err.Error())
	}
	if err := ensureTareas(ctx, db); err != nil {
		problems = append(problems, "tareas: "+err.Error())
	}
	if err := ensureEntregas(ctx, db); err != nil {
		problems = append(problems, "entregas: "+err.Error())
	}
	if err := ensureAnuncios(ctx, db); err != nil {
		problems = append(problems, "anuncios: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			defer cur.Close(ctx)
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Bool("unique", ex.Unique != nil && *ex.Unique),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Warn("index ensure failed (options conflict)",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}

			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureArchivosSubidos(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("archivos_subidos")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Folder listings: owner + folder + state
		{
			Keys: bson.D{
				{Key: "usuario_id", Value: 1},
				{Key: "carpeta", Value: 1},
				{Key: "estado", Value: 1},
			},
			Options: options.Index().SetName("idx_archivos_usuario_carpeta_estado"),
		},
		// Newest-first sort
		{
			Keys: bson.D{
				{Key: "fecha_subida", Value: -1},
			},
			Options: options.Index().SetName("idx_archivos_fecha_subida"),
		},
	})
}

func ensureCarpetasUsuarios(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("carpetas_usuarios")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One registry entry per user; makes lazy provisioning race-safe
		{
			Keys: bson.D{
				{Key: "usuario_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_carpetas_usuario"),
		},
	})
}

func ensureArchivos(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("archivos")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Files attached to one parent entity
		{
			Keys: bson.D{
				{Key: "modulo_origen", Value: 1},
				{Key: "referencia_id", Value: 1},
			},
			Options: options.Index().SetName("idx_archivosedu_modulo_referencia"),
		},
		// Whole-user wipe
		{
			Keys: bson.D{
				{Key: "usuario_id", Value: 1},
			},
			Options: options.Index().SetName("idx_archivosedu_usuario"),
		},
	})
}

func ensureCursos(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("cursos")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "docente_id", Value: 1},
				{Key: "estado", Value: 1},
			},
			Options: options.Index().SetName("idx_cursos_docente_estado"),
		},
	})
}

func ensureTemas(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("temas")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "id_curso", Value: 1},
				{Key: "estado", Value: 1},
				{Key: "orden", Value: 1},
			},
			Options: options.Index().SetName("idx_temas_curso_estado_orden"),
		},
	})
}

func ensurePublicaciones(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("publicaciones")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "id_tema", Value: 1},
				{Key: "estado", Value: 1},
			},
			Options: options.Index().SetName("idx_publicaciones_tema_estado"),
		},
	})
}

func ensureTareas(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("tareas")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "id_tema", Value: 1},
				{Key: "estado", Value: 1},
			},
			Options: options.Index().SetName("idx_tareas_tema_estado"),
		},
	})
}

func ensureEntregas(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("entregas")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One submission per student per assignment
		{
			Keys: bson.D{
				{Key: "id_tarea", Value: 1},
				{Key: "id_estudiante", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_entregas_tarea_estudiante"),
		},
	})
}

func ensureAnuncios(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("anuncios")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "id_curso", Value: 1},
				{Key: "estado", Value: 1},
			},
			Options: options.Index().SetName("idx_anuncios_curso_estado"),
		},
	})
}
