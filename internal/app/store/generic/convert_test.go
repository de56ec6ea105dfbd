package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCoerceIDs(t *testing.T) {
	oid := primitive.NewObjectID()

	filtro := map[string]any{
		"_id":     oid.Hex(),
		"usuario": "u123",
		"estado":  "activo",
		"anidado": map[string]any{
			"id_tema": oid.Hex(),
		},
		"lista": []any{oid.Hex(), "texto"},
	}

	out := CoerceIDs(filtro)

	assert.Equal(t, oid, out["_id"])
	assert.Equal(t, "u123", out["usuario"])
	assert.Equal(t, "activo", out["estado"])

	anidado, ok := out["anidado"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, oid, anidado["id_tema"])

	lista, ok := out["lista"].([]any)
	require.True(t, ok)
	assert.Equal(t, oid, lista[0])
	assert.Equal(t, "texto", lista[1])
}

func TestCoerceIDs_NoFalsosPositivos(t *testing.T) {
	// 24 characters but not hex: must stay a string.
	filtro := map[string]any{
		"titulo": "zzzzzzzzzzzzzzzzzzzzzzzz",
		"corto":  "abc123",
	}
	out := CoerceIDs(filtro)
	assert.Equal(t, "zzzzzzzzzzzzzzzzzzzzzzzz", out["titulo"])
	assert.Equal(t, "abc123", out["corto"])
}

func TestCoerceIDs_NativoPasa(t *testing.T) {
	oid := primitive.NewObjectID()
	out := CoerceIDs(map[string]any{"_id": oid})
	assert.Equal(t, oid, out["_id"])
}

func TestStringifyIDs(t *testing.T) {
	oid := primitive.NewObjectID()
	otro := primitive.NewObjectID()

	doc := bson.M{
		"_id":    oid,
		"titulo": "Tema 1",
		"archivos": bson.A{
			bson.M{"id": otro, "nombre": "a.pdf"},
		},
	}

	out, ok := StringifyIDs(doc).(bson.M)
	require.True(t, ok)

	assert.Equal(t, oid.Hex(), out["_id"])
	assert.Equal(t, "Tema 1", out["titulo"])

	archivos, ok := out["archivos"].([]any)
	require.True(t, ok)
	primero, ok := archivos[0].(bson.M)
	require.True(t, ok)
	assert.Equal(t, otro.Hex(), primero["id"])
	assert.Equal(t, "a.pdf", primero["nombre"])
}

func TestStringifyIDs_ListaDeDocumentos(t *testing.T) {
	oid := primitive.NewObjectID()
	docs := []bson.M{{"_id": oid}}

	out, ok := StringifyIDs(docs).([]any)
	require.True(t, ok)
	primero, ok := out[0].(bson.M)
	require.True(t, ok)
	assert.Equal(t, oid.Hex(), primero["_id"])
}

func TestRoundTrip(t *testing.T) {
	// A stringified id submitted back as a filter value must coerce to the
	// same native id.
	oid := primitive.NewObjectID()
	doc := StringifyIDs(bson.M{"_id": oid}).(bson.M)
	filtro := CoerceIDs(map[string]any{"_id": doc["_id"]})
	assert.Equal(t, oid, filtro["_id"])
}
