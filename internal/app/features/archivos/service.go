// Package archivos implements the content file endpoints: upload, listing,
// download, metadata update and delete for the files a user keeps in their
// two logical folders.
package archivos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/educonnect/contenido/internal/app/store/archivo"
	"github.com/educonnect/contenido/internal/app/store/carpeta"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/blobstore"
	"github.com/educonnect/contenido/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service errors the handlers map to HTTP statuses. Existence is always
// checked before ownership, so a caller probing someone else's file id gets
// 404 only when the record truly does not exist.
var (
	ErrNoEncontrado  = errors.New("archivos: archivo no encontrado")
	ErrNoAutorizado  = errors.New("archivos: el archivo pertenece a otro usuario")
	ErrExtension     = errors.New("archivos: extension no permitida")
	ErrCarpeta       = errors.New("archivos: carpeta no valida")
	ErrTodosFallaron = errors.New("archivos: ningun archivo pudo subirse")
)

// Service binds uploaded blobs to file records and keeps both sides
// consistent.
type Service struct {
	archivos *archivo.Store
	carpetas *carpeta.Store
	blobs    blobstore.Store
	ext      *inputval.Extensions
	logger   *zap.Logger
}

// NewService creates the content file service.
func NewService(archivos *archivo.Store, carpetas *carpeta.Store, blobs blobstore.Store, ext *inputval.Extensions, logger *zap.Logger) *Service {
	return &Service{
		archivos: archivos,
		carpetas: carpetas,
		blobs:    blobs,
		ext:      ext,
		logger:   logger,
	}
}

// Resumen is the file summary handed back through the API.
type Resumen struct {
	ID             string `json:"id"`
	Nombre         string `json:"nombre"`
	NombreOriginal string `json:"nombre_original"`
	Tipo           string `json:"tipo"`
	Peso           int64  `json:"peso"`
	Link           string `json:"link"`
	Carpeta        string `json:"carpeta"`
	Estado         string `json:"estado"`
}

func resumenDe(a *models.Archivo) Resumen {
	return Resumen{
		ID:             a.ID.Hex(),
		Nombre:         a.Archivo.Nombre,
		NombreOriginal: a.Archivo.NombreOriginal,
		Tipo:           a.Archivo.Tipo,
		Peso:           a.Archivo.Peso,
		Link:           a.Archivo.Link,
		Carpeta:        a.Carpeta,
		Estado:         a.Estado,
	}
}

// provisionar makes sure the user's registry entry and both blob-store root
// folders exist. Idempotent; the registry insert tolerates a racing winner.
func (s *Service) provisionar(ctx context.Context, usuarioID string) (*models.CarpetaUsuario, error) {
	existente, err := s.carpetas.GetByUser(ctx, usuarioID)
	if err == nil {
		return existente, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if err := s.blobs.EnsureFolder(ctx, models.RutaPersonal(usuarioID)); err != nil {
		return nil, err
	}
	if err := s.blobs.EnsureFolder(ctx, models.RutaEducativa(usuarioID)); err != nil {
		return nil, err
	}
	return s.carpetas.Create(ctx, usuarioID)
}

func rutaDeCarpeta(usuarioID, carpeta string) string {
	if carpeta == models.CarpetaEducativa {
		return models.RutaEducativa(usuarioID)
	}
	return models.RutaPersonal(usuarioID)
}

// guardarTemporal copies one multipart file into a fresh temp dir and
// returns the local path. The caller removes the directory.
func guardarTemporal(fh *multipart.FileHeader, nombre string) (string, error) {
	origen, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer origen.Close()

	dir, err := os.MkdirTemp("", "contenido-subida-*")
	if err != nil {
		return "", err
	}
	destino := filepath.Join(dir, nombre)
	f, err := os.Create(destino)
	if err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, origen); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return destino, nil
}

// Subir uploads one file into the user's folder. The blob goes up first; if
// the metadata insert then fails the blob is deleted so no orphan survives
// the request.
func (s *Service) Subir(ctx context.Context, usuarioID, carpetaNombre string, fh *multipart.FileHeader) (*Resumen, error) {
	if !inputval.IsValidCarpeta(carpetaNombre) {
		return nil, ErrCarpeta
	}
	if !s.ext.Allowed(fh.Filename) {
		return nil, fmt.Errorf("%w: %s", ErrExtension, fh.Filename)
	}
	if _, err := s.provisionar(ctx, usuarioID); err != nil {
		return nil, err
	}

	original := inputval.SanitizeFilename(fh.Filename)
	almacenado := uuid.New().String() + "_" + original

	local, err := guardarTemporal(fh, almacenado)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(filepath.Dir(local))

	ruta := rutaDeCarpeta(usuarioID, carpetaNombre)
	obj, err := s.blobs.Upload(ctx, local, ruta, almacenado)
	if err != nil {
		return nil, err
	}

	registro, err := s.archivos.Create(ctx, archivo.CreateInput{
		UsuarioID: usuarioID,
		Carpeta:   carpetaNombre,
		Archivo: models.DatosArchivo{
			Nombre:         almacenado,
			NombreOriginal: original,
			Tipo:           fh.Header.Get("Content-Type"),
			Peso:           fh.Size,
			Link:           obj.Link,
			Ruta:           ruta,
			NodoID:         string(obj.Node),
		},
	})
	if err != nil {
		// Compensate: the blob went up but the metadata did not.
		if delErr := s.blobs.Delete(ctx, obj.Node); delErr != nil {
			s.logger.Error("blob huerfano tras fallo de metadatos",
				zap.String("nodo", string(obj.Node)),
				zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("archivo subido",
		zap.String("usuario_id", usuarioID),
		zap.String("carpeta", carpetaNombre),
		zap.String("archivo_id", registro.ID.Hex()),
		zap.Int64("peso", fh.Size))

	res := resumenDe(registro)
	return &res, nil
}

// ErrorSubida describes one failed file in a multi-file upload.
type ErrorSubida struct {
	Nombre string `json:"nombre"`
	Motivo string `json:"motivo"`
}

// SubirMultiples processes each file independently. It fails only when every
// file failed; otherwise the caller gets the successes plus the error list.
func (s *Service) SubirMultiples(ctx context.Context, usuarioID, carpetaNombre string, fhs []*multipart.FileHeader) ([]Resumen, []ErrorSubida, error) {
	var (
		subidos []Resumen
		fallos  []ErrorSubida
	)
	for _, fh := range fhs {
		res, err := s.Subir(ctx, usuarioID, carpetaNombre, fh)
		if err != nil {
			fallos = append(fallos, ErrorSubida{Nombre: fh.Filename, Motivo: err.Error()})
			continue
		}
		subidos = append(subidos, *res)
	}
	if len(subidos) == 0 && len(fallos) > 0 {
		return nil, fallos, ErrTodosFallaron
	}
	return subidos, fallos, nil
}

// Listar returns the user's non-deleted files in one folder.
func (s *Service) Listar(ctx context.Context, usuarioID, carpetaNombre string) ([]Resumen, error) {
	if !inputval.IsValidCarpeta(carpetaNombre) {
		return nil, ErrCarpeta
	}
	archivos, err := s.archivos.ListByFolder(ctx, usuarioID, carpetaNombre)
	if err != nil {
		return nil, err
	}
	resumenes := make([]Resumen, 0, len(archivos))
	for i := range archivos {
		resumenes = append(resumenes, resumenDe(&archivos[i]))
	}
	return resumenes, nil
}

// resolver fetches a record and enforces ownership, existence first.
func (s *Service) resolver(ctx context.Context, archivoID, usuarioID string) (*models.Archivo, error) {
	oid, err := primitive.ObjectIDFromHex(archivoID)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	registro, err := s.archivos.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	if registro.UsuarioID != usuarioID {
		return nil, ErrNoAutorizado
	}
	return registro, nil
}

// Info returns one file's summary. Soft-deleted files stay reachable here.
func (s *Service) Info(ctx context.Context, archivoID, usuarioID string) (*Resumen, error) {
	registro, err := s.resolver(ctx, archivoID, usuarioID)
	if err != nil {
		return nil, err
	}
	res := resumenDe(registro)
	return &res, nil
}

// Descargar fetches the blob to a fresh local path. The caller removes the
// containing directory when done streaming.
func (s *Service) Descargar(ctx context.Context, archivoID, usuarioID string) (localPath, nombre string, err error) {
	registro, err := s.resolver(ctx, archivoID, usuarioID)
	if err != nil {
		return "", "", err
	}
	if registro.Estado == models.EstadoEliminado {
		return "", "", ErrNoEncontrado
	}
	local, err := s.blobs.Download(ctx, blobstore.NodeID(registro.Archivo.NodoID))
	if err != nil {
		if errors.Is(err, blobstore.ErrNodoNoEncontrado) {
			return "", "", ErrNoEncontrado
		}
		return "", "", err
	}
	return local, registro.Archivo.NombreOriginal, nil
}

// CambiosActualizacion is what a metadata update may change.
type CambiosActualizacion struct {
	NuevoNombre  string
	NuevaCarpeta string
}

// Actualizar renames a file and/or moves it between the two logical folders.
// A move relocates the blob and rewrites path and handle; the returned slice
// names the fields that changed.
func (s *Service) Actualizar(ctx context.Context, archivoID, usuarioID string, cambios CambiosActualizacion) ([]string, error) {
	registro, err := s.resolver(ctx, archivoID, usuarioID)
	if err != nil {
		return nil, err
	}

	var (
		input       archivo.UpdateInput
		actualizado []string
	)
	if cambios.NuevoNombre != "" {
		nombre := inputval.SanitizeFilename(cambios.NuevoNombre)
		input.NombreOriginal = &nombre
		actualizado = append(actualizado, "nombre_original")
	}
	if cambios.NuevaCarpeta != "" && cambios.NuevaCarpeta != registro.Carpeta {
		if !inputval.IsValidCarpeta(cambios.NuevaCarpeta) {
			return nil, ErrCarpeta
		}
		nuevaRuta := rutaDeCarpeta(usuarioID, cambios.NuevaCarpeta)
		nuevoNodo, err := s.blobs.Move(ctx, blobstore.NodeID(registro.Archivo.NodoID), nuevaRuta)
		if err != nil {
			return nil, err
		}
		nodo := string(nuevoNodo)
		input.Carpeta = &cambios.NuevaCarpeta
		input.Ruta = &nuevaRuta
		input.NodoID = &nodo
		actualizado = append(actualizado, "carpeta", "ruta", "nodo_id")
	}
	if len(actualizado) == 0 {
		return []string{}, nil
	}

	if err := s.archivos.Update(ctx, registro.ID, input); err != nil {
		return nil, err
	}
	return actualizado, nil
}

// Eliminar removes the blob and soft-deletes the record. A blob already gone
// from the store does not block the soft delete.
func (s *Service) Eliminar(ctx context.Context, archivoID, usuarioID string) error {
	registro, err := s.resolver(ctx, archivoID, usuarioID)
	if err != nil {
		return err
	}
	if registro.Estado == models.EstadoEliminado {
		return ErrNoEncontrado
	}

	if err := s.blobs.Delete(ctx, blobstore.NodeID(registro.Archivo.NodoID)); err != nil {
		if !errors.Is(err, blobstore.ErrNodoNoEncontrado) {
			return err
		}
		s.logger.Warn("el blob ya no existe",
			zap.String("archivo_id", archivoID),
			zap.String("nodo", registro.Archivo.NodoID))
	}
	return s.archivos.SoftDelete(ctx, registro.ID)
}

// ResultadoEliminacionUsuario reports what a whole-user wipe removed.
type ResultadoEliminacionUsuario struct {
	ArchivosEliminados int64 `json:"archivos_eliminados"`
	BlobsPendientes    bool  `json:"blobs_pendientes"`
}

// EliminarUsuario wipes everything a user owns: both blob-store root folders,
// every file record, and the folder registry entry. Best effort on the blob
// side; the metadata deletion always proceeds because the metadata is
// authoritative.
func (s *Service) EliminarUsuario(ctx context.Context, usuarioID string) (*ResultadoEliminacionUsuario, error) {
	resultado := &ResultadoEliminacionUsuario{}

	for _, ruta := range []string{models.RutaPersonal(usuarioID), models.RutaEducativa(usuarioID)} {
		if err := s.blobs.DeleteFolder(ctx, ruta); err != nil {
			resultado.BlobsPendientes = true
			s.logger.Warn("fallo al vaciar carpeta remota",
				zap.String("usuario_id", usuarioID),
				zap.String("ruta", ruta),
				zap.Error(err))
		}
	}

	n, err := s.archivos.DeleteByUser(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	resultado.ArchivosEliminados = n

	if err := s.carpetas.DeleteByUser(ctx, usuarioID); err != nil {
		return nil, err
	}
	return resultado, nil
}
