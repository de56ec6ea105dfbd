// Package blobstore abstracts the remote object storage holding file bytes.
// Metadata lives in MongoDB; the blob store only ever sees paths, names and
// opaque node handles.
package blobstore

import (
	"context"
	"errors"
)

// NodeID is the opaque handle the store hands back for an uploaded object.
// It is produced once at the adapter boundary and is the only shape callers
// ever see, regardless of how the backing provider identifies objects.
type NodeID string

// Object describes one stored blob.
type Object struct {
	Link string // shareable URL
	Node NodeID
}

// ErrNodoNoEncontrado is returned when a handle does not resolve to a blob.
var ErrNodoNoEncontrado = errors.New("blobstore: nodo no encontrado")

// Store is the contract every blob backend implements. Folder paths are
// slash-separated, e.g. "/Contenido Personal/u1/". All calls are synchronous
// and honor ctx for cancellation and timeouts.
type Store interface {
	// EnsureFolder creates the folder chain segment by segment, creating only
	// missing segments. Idempotent.
	EnsureFolder(ctx context.Context, ruta string) error

	// Upload guarantees the destination folder exists, stores the file at
	// localPath under destFolder/nombre and returns the link and handle.
	Upload(ctx context.Context, localPath, destFolder, nombre string) (*Object, error)

	// Download fetches the blob into a fresh temporary directory (never
	// reused across calls) and returns the local path. The caller removes
	// the directory when done.
	Download(ctx context.Context, nodo NodeID) (string, error)

	// Delete removes the blob.
	Delete(ctx context.Context, nodo NodeID) error

	// Move relocates the blob under a different folder and returns the
	// handle valid after the move.
	Move(ctx context.Context, nodo NodeID, nuevaCarpeta string) (NodeID, error)

	// DeleteFolder removes every blob stored under ruta. Best effort: the
	// first listing error aborts, individual delete failures are collected.
	DeleteFolder(ctx context.Context, ruta string) error
}
