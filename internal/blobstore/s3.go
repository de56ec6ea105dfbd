package blobstore

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

// S3Config configures the S3-compatible backend. Endpoint is set for
// non-AWS providers (Cloudflare R2: https://<account>.r2.cloudflarestorage.com).
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	LinkTTL   time.Duration // presigned link lifetime
	Timeout   time.Duration // per-request HTTP timeout
}

// S3Store implements Store against any S3-compatible bucket. Folders are key
// prefixes; empty folders are held open by zero-byte marker objects whose key
// ends in "/". Credentials are resolved once at construction; an expired or
// revoked credential surfaces as an error on the failing call, it is never
// retried here.
type S3Store struct {
	client     *s3.S3
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
	bucket     string
	linkTTL    time.Duration
	logger     *zap.Logger
}

// NewS3 builds the session and verifies the bucket is reachable.
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("blobstore: bucket requerido")
	}
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("blobstore: crear sesion: %w", err)
	}

	client := s3.New(sess)
	if _, err := client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("blobstore: bucket %s inaccesible: %w", cfg.Bucket, err)
	}

	return &S3Store{
		client:     client,
		uploader:   s3manager.NewUploaderWithClient(client),
		downloader: s3manager.NewDownloaderWithClient(client),
		bucket:     cfg.Bucket,
		linkTTL:    cfg.LinkTTL,
		logger:     logger,
	}, nil
}

// clavePrefijo normalizes "/Contenido Personal/u1/" into the key prefix
// "Contenido Personal/u1/".
func clavePrefijo(ruta string) string {
	p := strings.Trim(ruta, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// EnsureFolder walks the chain creating marker objects for missing segments.
// Matching is by full prefix, so a segment only matches under its own parent;
// same-named folders elsewhere in the tree cannot collide.
func (s *S3Store) EnsureFolder(ctx context.Context, ruta string) error {
	segmentos := strings.Split(strings.Trim(ruta, "/"), "/")
	acumulado := ""
	for _, seg := range segmentos {
		if seg == "" {
			continue
		}
		acumulado += seg + "/"
		existe, err := s.existeClave(ctx, acumulado)
		if err != nil {
			return fmt.Errorf("blobstore: verificar carpeta %s: %w", acumulado, err)
		}
		if existe {
			continue
		}
		if _, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(acumulado),
			Body:   strings.NewReader(""),
		}); err != nil {
			return fmt.Errorf("blobstore: crear carpeta %s: %w", acumulado, err)
		}
		s.logger.Debug("carpeta creada", zap.String("prefijo", acumulado))
	}
	return nil
}

func (s *S3Store) existeClave(ctx context.Context, clave string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clave),
	})
	if err == nil {
		return true, nil
	}
	if reqErr, ok := err.(awserr.RequestFailure); ok && reqErr.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

// Upload re-derives the destination from the folder walk on every call; it
// never trusts a handle cached from an earlier request.
func (s *S3Store) Upload(ctx context.Context, localPath, destFolder, nombre string) (*Object, error) {
	if err := s.EnsureFolder(ctx, destFolder); err != nil {
		return nil, err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("blobstore: abrir archivo local: %w", err)
	}
	defer f.Close()

	clave := clavePrefijo(destFolder) + nombre
	if _, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clave),
		Body:   f,
	}); err != nil {
		return nil, fmt.Errorf("blobstore: subir %s: %w", clave, err)
	}

	link, err := s.presignar(clave)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("archivo subido",
		zap.String("clave", clave),
		zap.String("bucket", s.bucket))

	return &Object{Link: link, Node: NodeID(clave)}, nil
}

func (s *S3Store) presignar(clave string) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clave),
	})
	link, err := req.Presign(s.linkTTL)
	if err != nil {
		return "", fmt.Errorf("blobstore: presignar %s: %w", clave, err)
	}
	return link, nil
}

// Download writes into a fresh temporary directory so concurrent requests for
// same-named files never collide.
func (s *S3Store) Download(ctx context.Context, nodo NodeID) (string, error) {
	dir, err := os.MkdirTemp("", "contenido-descarga-*")
	if err != nil {
		return "", fmt.Errorf("blobstore: crear directorio temporal: %w", err)
	}

	destino := filepath.Join(dir, path.Base(string(nodo)))
	f, err := os.Create(destino)
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("blobstore: crear archivo temporal: %w", err)
	}
	defer f.Close()

	if _, err := s.downloader.DownloadWithContext(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(nodo)),
	}); err != nil {
		os.RemoveAll(dir)
		if reqErr, ok := err.(awserr.RequestFailure); ok && reqErr.StatusCode() == http.StatusNotFound {
			return "", ErrNodoNoEncontrado
		}
		return "", fmt.Errorf("blobstore: descargar %s: %w", nodo, err)
	}
	return destino, nil
}

func (s *S3Store) Delete(ctx context.Context, nodo NodeID) error {
	if _, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(nodo)),
	}); err != nil {
		return fmt.Errorf("blobstore: eliminar %s: %w", nodo, err)
	}
	return nil
}

// Move copies then deletes; S3 has no rename.
func (s *S3Store) Move(ctx context.Context, nodo NodeID, nuevaCarpeta string) (NodeID, error) {
	if err := s.EnsureFolder(ctx, nuevaCarpeta); err != nil {
		return "", err
	}
	nuevaClave := clavePrefijo(nuevaCarpeta) + path.Base(string(nodo))
	if _, err := s.client.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + string(nodo)),
		Key:        aws.String(nuevaClave),
	}); err != nil {
		return "", fmt.Errorf("blobstore: copiar %s: %w", nodo, err)
	}
	if err := s.Delete(ctx, nodo); err != nil {
		return "", err
	}
	return NodeID(nuevaClave), nil
}

// DeleteFolder lists everything under the prefix and deletes in batches.
func (s *S3Store) DeleteFolder(ctx context.Context, ruta string) error {
	prefijo := clavePrefijo(ruta)
	var fallos int

	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefijo),
	}, func(pagina *s3.ListObjectsV2Output, _ bool) bool {
		if len(pagina.Contents) == 0 {
			return true
		}
		objetos := make([]*s3.ObjectIdentifier, 0, len(pagina.Contents))
		for _, obj := range pagina.Contents {
			objetos = append(objetos, &s3.ObjectIdentifier{Key: obj.Key})
		}
		salida, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3.Delete{Objects: objetos},
		})
		if err != nil {
			s.logger.Warn("fallo al eliminar lote",
				zap.String("prefijo", prefijo),
				zap.Error(err))
			fallos += len(objetos)
			return true
		}
		fallos += len(salida.Errors)
		return true
	})
	if err != nil {
		return fmt.Errorf("blobstore: listar %s: %w", prefijo, err)
	}
	if fallos > 0 {
		return fmt.Errorf("blobstore: %d objetos no eliminados bajo %s", fallos, prefijo)
	}
	return nil
}
