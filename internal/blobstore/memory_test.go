package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archivoLocal(t *testing.T, contenido string) string {
	t.Helper()
	dir := t.TempDir()
	ruta := filepath.Join(dir, "subida.txt")
	require.NoError(t, os.WriteFile(ruta, []byte(contenido), 0o600))
	return ruta
}

func TestMemoryUploadDownload(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	obj, err := m.Upload(ctx, archivoLocal(t, "hola"), "/Contenido Personal/u1/", "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, NodeID("Contenido Personal/u1/doc.txt"), obj.Node)
	assert.NotEmpty(t, obj.Link)

	local, err := m.Download(ctx, obj.Node)
	require.NoError(t, err)
	defer os.RemoveAll(filepath.Dir(local))

	datos, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "hola", string(datos))
}

func TestMemoryDownloadDirFresco(t *testing.T) {
	// Two downloads of the same handle must land in different directories.
	ctx := context.Background()
	m := NewMemory()

	obj, err := m.Upload(ctx, archivoLocal(t, "x"), "/c/", "a.txt")
	require.NoError(t, err)

	uno, err := m.Download(ctx, obj.Node)
	require.NoError(t, err)
	defer os.RemoveAll(filepath.Dir(uno))
	dos, err := m.Download(ctx, obj.Node)
	require.NoError(t, err)
	defer os.RemoveAll(filepath.Dir(dos))

	assert.NotEqual(t, filepath.Dir(uno), filepath.Dir(dos))
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	obj, err := m.Upload(ctx, archivoLocal(t, "x"), "/c/", "a.txt")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, obj.Node))
	assert.False(t, m.Existe(obj.Node))

	assert.ErrorIs(t, m.Delete(ctx, obj.Node), ErrNodoNoEncontrado)
	_, err = m.Download(ctx, obj.Node)
	assert.ErrorIs(t, err, ErrNodoNoEncontrado)
}

func TestMemoryMove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	obj, err := m.Upload(ctx, archivoLocal(t, "contenido"), "/Contenido Personal/u1/", "a.txt")
	require.NoError(t, err)

	nuevo, err := m.Move(ctx, obj.Node, "/Contenido Educativo/u1/")
	require.NoError(t, err)
	assert.Equal(t, NodeID("Contenido Educativo/u1/a.txt"), nuevo)
	assert.False(t, m.Existe(obj.Node))
	assert.True(t, m.Existe(nuevo))
}

func TestMemoryDeleteFolder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	dentro, err := m.Upload(ctx, archivoLocal(t, "1"), "/Contenido Personal/u1/", "a.txt")
	require.NoError(t, err)
	fuera, err := m.Upload(ctx, archivoLocal(t, "2"), "/Contenido Personal/u2/", "b.txt")
	require.NoError(t, err)

	require.NoError(t, m.DeleteFolder(ctx, "/Contenido Personal/u1/"))
	assert.False(t, m.Existe(dentro.Node))
	assert.True(t, m.Existe(fuera.Node))
}

func TestClavePrefijo(t *testing.T) {
	assert.Equal(t, "Contenido Personal/u1/", clavePrefijo("/Contenido Personal/u1/"))
	assert.Equal(t, "a/b/", clavePrefijo("a/b"))
	assert.Equal(t, "", clavePrefijo("/"))
	assert.Equal(t, "", clavePrefijo(""))
}
