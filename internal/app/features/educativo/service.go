// Package educativo implements the courseware endpoints: topics, posts,
// assignments, submissions and announcements, plus the files attached to
// them. Attached files are hard-deleted together with their parent entity.
package educativo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/educonnect/contenido/internal/app/store/anuncio"
	"github.com/educonnect/contenido/internal/app/store/archivoedu"
	"github.com/educonnect/contenido/internal/app/store/entrega"
	"github.com/educonnect/contenido/internal/app/store/publicacion"
	"github.com/educonnect/contenido/internal/app/store/tarea"
	"github.com/educonnect/contenido/internal/app/store/tema"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/blobstore"
	"github.com/educonnect/contenido/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrNoEncontrado  = errors.New("educativo: registro no encontrado")
	ErrModulo        = errors.New("educativo: modulo no valido")
	ErrTipoUsuario   = errors.New("educativo: tipo de usuario no valido")
	ErrExtension     = errors.New("educativo: extension no permitida")
	ErrTodosFallaron = errors.New("educativo: ningun archivo pudo subirse")
)

// Service manages the files attached to courseware entities and keeps the
// parent's archivos array in sync with the archivos collection.
type Service struct {
	temas         *tema.Store
	publicaciones *publicacion.Store
	tareas        *tarea.Store
	entregas      *entrega.Store
	anuncios      *anuncio.Store
	adjuntos      *archivoedu.Store
	blobs         blobstore.Store
	ext           *inputval.Extensions
	logger        *zap.Logger
}

// NewService creates the courseware file service.
func NewService(db *mongo.Database, blobs blobstore.Store, ext *inputval.Extensions, logger *zap.Logger) *Service {
	return &Service{
		temas:         tema.New(db),
		publicaciones: publicacion.New(db),
		tareas:        tarea.New(db),
		entregas:      entrega.New(db),
		anuncios:      anuncio.New(db),
		adjuntos:      archivoedu.New(db),
		blobs:         blobs,
		ext:           ext,
		logger:        logger,
	}
}

// sincronizador is what every parent store offers for keeping its embedded
// archivos array aligned with the archivos collection.
type sincronizador interface {
	AppendArchivo(ctx context.Context, id primitive.ObjectID, resumen models.ResumenArchivo) error
	RemoveArchivo(ctx context.Context, id primitive.ObjectID, archivoID string) error
}

// padreDe resolves the parent store for a module name. The name may come
// from client input or from a stored modulo_origen, so an unknown value is
// an error, never a nil store.
func (s *Service) padreDe(modulo string) (sincronizador, error) {
	switch modulo {
	case models.ModuloPublicacion:
		return s.publicaciones, nil
	case models.ModuloTarea:
		return s.tareas, nil
	case models.ModuloEntrega:
		return s.entregas, nil
	case models.ModuloAnuncio:
		return s.anuncios, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrModulo, modulo)
}

// existePadre verifies the parent entity exists and is not soft-deleted.
func (s *Service) existePadre(ctx context.Context, modulo string, id primitive.ObjectID) error {
	var (
		estado string
		err    error
	)
	switch modulo {
	case models.ModuloPublicacion:
		var p *models.Publicacion
		if p, err = s.publicaciones.GetByID(ctx, id); err == nil {
			estado = p.Estado
		}
	case models.ModuloTarea:
		var t *models.Tarea
		if t, err = s.tareas.GetByID(ctx, id); err == nil {
			estado = t.Estado
		}
	case models.ModuloEntrega:
		var e *models.Entrega
		if e, err = s.entregas.GetByID(ctx, id); err == nil {
			estado = e.Estado
		}
	case models.ModuloAnuncio:
		var a *models.Anuncio
		if a, err = s.anuncios.GetByID(ctx, id); err == nil {
			estado = a.Estado
		}
	default:
		return ErrModulo
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNoEncontrado
		}
		return err
	}
	if estado == models.EstadoEliminado {
		return ErrNoEncontrado
	}
	return nil
}

// rutaAdjuntos is the blob-store folder for one entity's attachments.
func rutaAdjuntos(usuarioID, modulo, referenciaID string) string {
	return models.RutaEducativa(usuarioID) + modulo + "/" + referenciaID + "/"
}

// copiarTemporal writes one multipart file into a fresh temp dir.
func copiarTemporal(fh *multipart.FileHeader, nombre string) (string, error) {
	origen, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer origen.Close()

	dir, err := os.MkdirTemp("", "contenido-adjunto-*")
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

// SubidaAdjunto identifies where an attachment goes and who uploads it.
type SubidaAdjunto struct {
	Modulo       string
	ReferenciaID string
	UsuarioID    string
	TipoUsuario  string
}

// SubirAdjunto uploads one file and attaches it to the parent entity. The
// blob goes up first; any later failure unwinds what was already written so
// record, blob and parent array never disagree at the end of the request.
func (s *Service) SubirAdjunto(ctx context.Context, in SubidaAdjunto, fh *multipart.FileHeader) (*models.ArchivoEducativo, error) {
	padre, err := s.padreDe(in.Modulo)
	if err != nil {
		return nil, err
	}
	if !inputval.IsValidTipoUsuario(in.TipoUsuario) {
		return nil, ErrTipoUsuario
	}
	if !s.ext.Allowed(fh.Filename) {
		return nil, fmt.Errorf("%w: %s", ErrExtension, fh.Filename)
	}
	refOID, err := primitive.ObjectIDFromHex(in.ReferenciaID)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	if err := s.existePadre(ctx, in.Modulo, refOID); err != nil {
		return nil, err
	}

	original := inputval.SanitizeFilename(fh.Filename)
	almacenado := uuid.New().String() + "_" + original

	local, err := copiarTemporal(fh, almacenado)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(filepath.Dir(local))

	ruta := rutaAdjuntos(in.UsuarioID, in.Modulo, in.ReferenciaID)
	obj, err := s.blobs.Upload(ctx, local, ruta, almacenado)
	if err != nil {
		return nil, err
	}

	registro, err := s.adjuntos.Create(ctx, archivoedu.CreateInput{
		UsuarioID:        in.UsuarioID,
		TipoUsuario:      in.TipoUsuario,
		NombreOriginal:   original,
		NombreAlmacenado: almacenado,
		URL:              obj.Link,
		Tipo:             fh.Header.Get("Content-Type"),
		Peso:             fh.Size,
		ModuloOrigen:     in.Modulo,
		ReferenciaID:     in.ReferenciaID,
		NodoID:           string(obj.Node),
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, obj.Node); delErr != nil {
			s.logger.Error("blob huerfano tras fallo de metadatos",
				zap.String("nodo", string(obj.Node)),
				zap.Error(delErr))
		}
		return nil, err
	}

	if err := padre.AppendArchivo(ctx, refOID, registro.Resumen()); err != nil {
		if delErr := s.adjuntos.Delete(ctx, registro.ID); delErr != nil {
			s.logger.Error("registro huerfano tras fallo de sincronizacion",
				zap.String("archivo_id", registro.ID.Hex()),
				zap.Error(delErr))
		}
		if delErr := s.blobs.Delete(ctx, obj.Node); delErr != nil {
			s.logger.Error("blob huerfano tras fallo de sincronizacion",
				zap.String("nodo", string(obj.Node)),
				zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("adjunto subido",
		zap.String("modulo", in.Modulo),
		zap.String("referencia_id", in.ReferenciaID),
		zap.String("archivo_id", registro.ID.Hex()))
	return registro, nil
}

// ErrorSubida describes one failed file in a multi-file attachment upload.
type ErrorSubida struct {
	Nombre string `json:"nombre"`
	Motivo string `json:"motivo"`
}

// SubirAdjuntos processes each file independently; it fails only when every
// file failed.
func (s *Service) SubirAdjuntos(ctx context.Context, in SubidaAdjunto, fhs []*multipart.FileHeader) ([]models.ArchivoEducativo, []ErrorSubida, error) {
	var (
		subidos []models.ArchivoEducativo
		fallos  []ErrorSubida
	)
	for _, fh := range fhs {
		registro, err := s.SubirAdjunto(ctx, in, fh)
		if err != nil {
			fallos = append(fallos, ErrorSubida{Nombre: fh.Filename, Motivo: err.Error()})
			continue
		}
		subidos = append(subidos, *registro)
	}
	if len(subidos) == 0 && len(fallos) > 0 {
		return nil, fallos, ErrTodosFallaron
	}
	return subidos, fallos, nil
}

// ListarAdjuntos returns every file attached to one entity.
func (s *Service) ListarAdjuntos(ctx context.Context, modulo, referenciaID string) ([]models.ArchivoEducativo, error) {
	if !models.ModuloValido(modulo) {
		return nil, ErrModulo
	}
	return s.adjuntos.ListByReference(ctx, modulo, referenciaID)
}

// EliminarAdjunto hard-deletes one attached file: blob, record and the
// parent's embedded summary. A blob already gone does not block the rest.
func (s *Service) EliminarAdjunto(ctx context.Context, archivoID string) error {
	oid, err := primitive.ObjectIDFromHex(archivoID)
	if err != nil {
		return ErrNoEncontrado
	}
	registro, err := s.adjuntos.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNoEncontrado
		}
		return err
	}

	if err := s.blobs.Delete(ctx, blobstore.NodeID(registro.NodoID)); err != nil {
		if !errors.Is(err, blobstore.ErrNodoNoEncontrado) {
			return err
		}
		s.logger.Warn("el blob ya no existe",
			zap.String("archivo_id", archivoID),
			zap.String("nodo", registro.NodoID))
	}
	if err := s.adjuntos.Delete(ctx, oid); err != nil {
		return err
	}

	refOID, err := primitive.ObjectIDFromHex(registro.ReferenciaID)
	if err != nil {
		return nil
	}
	padre, err := s.padreDe(registro.ModuloOrigen)
	if err != nil {
		// A stored record with an unknown module has no parent to unlink.
		s.logger.Warn("modulo de origen desconocido en el registro",
			zap.String("archivo_id", archivoID),
			zap.String("modulo", registro.ModuloOrigen))
		return nil
	}
	if err := padre.RemoveArchivo(ctx, refOID, archivoID); err != nil {
		s.logger.Warn("no se pudo desvincular el adjunto del padre",
			zap.String("modulo", registro.ModuloOrigen),
			zap.String("referencia_id", registro.ReferenciaID),
			zap.Error(err))
	}
	return nil
}

// ListarAdjuntosDeUsuario returns every file a user attached anywhere,
// optionally narrowed by tipoUsuario.
func (s *Service) ListarAdjuntosDeUsuario(ctx context.Context, usuarioID, tipoUsuario string) ([]models.ArchivoEducativo, error) {
	if tipoUsuario != "" && !inputval.IsValidTipoUsuario(tipoUsuario) {
		return nil, ErrTipoUsuario
	}
	return s.adjuntos.ListByUser(ctx, usuarioID, tipoUsuario)
}

// EliminarAdjuntosDeUsuario removes every file a user attached anywhere:
// blobs and parent links best effort, records for good.
func (s *Service) EliminarAdjuntosDeUsuario(ctx context.Context, usuarioID string) (int64, error) {
	registros, err := s.adjuntos.ListByUser(ctx, usuarioID, "")
	if err != nil {
		return 0, err
	}
	for i := range registros {
		registro := &registros[i]
		if err := s.blobs.Delete(ctx, blobstore.NodeID(registro.NodoID)); err != nil && !errors.Is(err, blobstore.ErrNodoNoEncontrado) {
			s.logger.Warn("fallo al borrar blob adjunto",
				zap.String("archivo_id", registro.ID.Hex()),
				zap.Error(err))
		}
		refOID, err := primitive.ObjectIDFromHex(registro.ReferenciaID)
		if err != nil {
			continue
		}
		padre, err := s.padreDe(registro.ModuloOrigen)
		if err != nil {
			s.logger.Warn("modulo de origen desconocido en el registro",
				zap.String("archivo_id", registro.ID.Hex()),
				zap.String("modulo", registro.ModuloOrigen))
			continue
		}
		if err := padre.RemoveArchivo(ctx, refOID, registro.ID.Hex()); err != nil {
			s.logger.Warn("no se pudo desvincular el adjunto del padre",
				zap.String("modulo", registro.ModuloOrigen),
				zap.String("referencia_id", registro.ReferenciaID),
				zap.Error(err))
		}
	}
	return s.adjuntos.DeleteByUser(ctx, usuarioID)
}

// EliminarAdjuntosDe removes every file attached to one entity. Used when
// the entity itself is deleted; blob failures are logged and skipped because
// the metadata is authoritative.
func (s *Service) EliminarAdjuntosDe(ctx context.Context, modulo, referenciaID string) (int64, error) {
	registros, err := s.adjuntos.ListByReference(ctx, modulo, referenciaID)
	if err != nil {
		return 0, err
	}
	for i := range registros {
		if err := s.blobs.Delete(ctx, blobstore.NodeID(registros[i].NodoID)); err != nil && !errors.Is(err, blobstore.ErrNodoNoEncontrado) {
			s.logger.Warn("fallo al borrar blob adjunto",
				zap.String("archivo_id", registros[i].ID.Hex()),
				zap.Error(err))
		}
	}
	return s.adjuntos.DeleteByReference(ctx, modulo, referenciaID)
}
