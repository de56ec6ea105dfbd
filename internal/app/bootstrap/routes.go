// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/educonnect/contenido/internal/app/features/archivos"
	"github.com/educonnect/contenido/internal/app/features/educativo"
	"github.com/educonnect/contenido/internal/app/features/health"
	"github.com/educonnect/contenido/internal/app/features/registros"
	"github.com/educonnect/contenido/internal/app/system/apicors"
	"github.com/educonnect/contenido/internal/app/system/metrics"
	"github.com/educonnect/contenido/internal/app/store/archivo"
	"github.com/educonnect/contenido/internal/app/store/carpeta"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler assembles the HTTP surface:
//
//	/api/archivos   - content files (upload, list, download, update, delete)
//	/api/educativo  - courseware entities and their attachments
//	/api/registros  - schema-driven generic records
//	/health         - health checks (also /ready, /readyz, /livez at root)
//	/metrics        - Prometheus metrics
func BuildHandler(cfg Config, deps Deps, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(metrics.Middleware)

	svc := archivos.NewService(
		archivo.New(deps.MongoDatabase),
		carpeta.New(deps.MongoDatabase),
		deps.Blobs,
		deps.Ext,
		logger,
	)
	archivosHandler := archivos.NewHandler(svc, deps.Directorio, cfg.MaxUploadSize, logger)
	educativoHandler := educativo.NewHandler(deps.MongoDatabase, deps.Blobs, deps.Ext, deps.Directorio, cfg.MaxUploadSize, logger)
	registrosHandler := registros.NewHandler(deps.MongoDatabase, deps.Registry, logger)
	healthHandler := health.NewHandler(deps.MongoClient, logger)

	r.Route("/api", func(api chi.Router) {
		api.Use(apicors.Middleware())
		api.Mount("/archivos", archivos.Routes(archivosHandler))
		api.Mount("/educativo", educativo.Routes(educativoHandler))
		api.Mount("/registros", registros.Routes(registrosHandler))
	})

	r.Mount("/health", health.Routes(healthHandler))
	health.MountRootEndpoints(r, healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inicio := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(inicio)),
				zap.String("request_id", chimw.GetReqID(r.Context())))
		})
	}
}
