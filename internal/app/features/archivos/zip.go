package archivos

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/blobstore"
	"go.uber.org/zap"
)

// EscribirZip streams every active file in the folder into one zip archive
// written to w. Files whose blob cannot be fetched are skipped with a
// warning; the count of archived files is returned so the caller can tell an
// empty folder from a full failure.
func (s *Service) EscribirZip(ctx context.Context, usuarioID, carpetaNombre string, w io.Writer) (int, error) {
	if !inputval.IsValidCarpeta(carpetaNombre) {
		return 0, ErrCarpeta
	}
	archivos, err := s.archivos.ListByFolder(ctx, usuarioID, carpetaNombre)
	if err != nil {
		return 0, err
	}

	zw := zip.NewWriter(w)
	agregados := 0
	for i := range archivos {
		registro := &archivos[i]
		local, err := s.blobs.Download(ctx, blobstore.NodeID(registro.Archivo.NodoID))
		if err != nil {
			s.logger.Warn("archivo omitido del zip",
				zap.String("archivo_id", registro.ID.Hex()),
				zap.Error(err))
			continue
		}
		err = s.agregarAlZip(zw, local, registro.Archivo.NombreOriginal)
		os.RemoveAll(filepath.Dir(local))
		if err != nil {
			zw.Close()
			return agregados, err
		}
		agregados++
	}
	if err := zw.Close(); err != nil {
		return agregados, err
	}
	return agregados, nil
}

func (s *Service) agregarAlZip(zw *zip.Writer, local, nombre string) error {
	f, err := os.Open(local)
	if err != nil {
		return err
	}
	defer f.Close()

	entrada, err := zw.Create(nombre)
	if err != nil {
		return err
	}
	_, err = io.Copy(entrada, f)
	return err
}
