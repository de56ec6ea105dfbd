package blobstore

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Memory is an in-memory Store used by tests and local development
// (storage_type=memory). Semantics mirror the S3 backend: folders are
// prefixes, handles are full keys.
type Memory struct {
	mu       sync.Mutex
	objetos  map[NodeID][]byte
	carpetas map[string]bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		objetos:  make(map[NodeID][]byte),
		carpetas: make(map[string]bool),
	}
}

func (m *Memory) EnsureFolder(_ context.Context, ruta string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acumulado := ""
	for _, seg := range strings.Split(strings.Trim(ruta, "/"), "/") {
		if seg == "" {
			continue
		}
		acumulado += seg + "/"
		m.carpetas[acumulado] = true
	}
	return nil
}

func (m *Memory) Upload(ctx context.Context, localPath, destFolder, nombre string) (*Object, error) {
	datos, err := os.ReadFile(localPath)
	if err != nil {
		return nil, err
	}
	if err := m.EnsureFolder(ctx, destFolder); err != nil {
		return nil, err
	}
	clave := NodeID(clavePrefijo(destFolder) + nombre)

	m.mu.Lock()
	m.objetos[clave] = datos
	m.mu.Unlock()

	return &Object{Link: "memory://" + string(clave), Node: clave}, nil
}

func (m *Memory) Download(_ context.Context, nodo NodeID) (string, error) {
	m.mu.Lock()
	datos, ok := m.objetos[nodo]
	m.mu.Unlock()
	if !ok {
		return "", ErrNodoNoEncontrado
	}

	dir, err := os.MkdirTemp("", "contenido-descarga-*")
	if err != nil {
		return "", err
	}
	destino := filepath.Join(dir, path.Base(string(nodo)))
	if err := os.WriteFile(destino, datos, 0o600); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return destino, nil
}

func (m *Memory) Delete(_ context.Context, nodo NodeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objetos[nodo]; !ok {
		return ErrNodoNoEncontrado
	}
	delete(m.objetos, nodo)
	return nil
}

func (m *Memory) Move(ctx context.Context, nodo NodeID, nuevaCarpeta string) (NodeID, error) {
	m.mu.Lock()
	datos, ok := m.objetos[nodo]
	m.mu.Unlock()
	if !ok {
		return "", ErrNodoNoEncontrado
	}
	if err := m.EnsureFolder(ctx, nuevaCarpeta); err != nil {
		return "", err
	}
	nuevaClave := NodeID(clavePrefijo(nuevaCarpeta) + path.Base(string(nodo)))

	m.mu.Lock()
	m.objetos[nuevaClave] = datos
	delete(m.objetos, nodo)
	m.mu.Unlock()

	return nuevaClave, nil
}

func (m *Memory) DeleteFolder(_ context.Context, ruta string) error {
	prefijo := clavePrefijo(ruta)
	m.mu.Lock()
	defer m.mu.Unlock()
	for clave := range m.objetos {
		if strings.HasPrefix(string(clave), prefijo) {
			delete(m.objetos, clave)
		}
	}
	for carpeta := range m.carpetas {
		if strings.HasPrefix(carpeta, prefijo) {
			delete(m.carpetas, carpeta)
		}
	}
	return nil
}

// Existe reports whether a handle still resolves to a blob. Test helper.
func (m *Memory) Existe(nodo NodeID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objetos[nodo]
	return ok
}
