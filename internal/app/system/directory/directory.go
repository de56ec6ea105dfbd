// Package directory looks users up in the external user-directory service.
// This is the only adapter that retries: lookups are idempotent GETs and the
// directory is the flakiest upstream the service talks to.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/educonnect/contenido/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ErrUsuarioNoEncontrado is returned when the directory has no such user.
// Never retried: a 404 is an answer, not a failure.
var ErrUsuarioNoEncontrado = errors.New("directory: usuario no encontrado")

// Usuario is the directory's view of a user.
type Usuario struct {
	ID     string `json:"usuario_id"`
	Nombre string `json:"nombre_usuario"`
}

// Client queries the user directory over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	maxIntentos int
	esperaBase  time.Duration
}

// New creates a directory client. baseURL is the prefix the user id is
// appended to.
func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		http:        &http.Client{Timeout: timeouts.Medium()},
		logger:      logger,
		maxIntentos: 3,
		esperaBase:  time.Second,
	}
}

// ObtenerUsuario fetches a user by id, retrying transport errors and 5xx
// responses up to three attempts with exponential backoff.
func (c *Client) ObtenerUsuario(ctx context.Context, usuarioID string) (*Usuario, error) {
	url := c.baseURL + usuarioID

	var ultimoErr error
	for intento := 1; intento <= c.maxIntentos; intento++ {
		if intento > 1 {
			espera := c.esperaBase * time.Duration(1<<(intento-2))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(espera):
			}
		}

		usuario, reintentable, err := c.consultar(ctx, url)
		if err == nil {
			return usuario, nil
		}
		if !reintentable {
			return nil, err
		}
		ultimoErr = err
		c.logger.Warn("fallo consultando directorio de usuarios",
			zap.String("usuario_id", usuarioID),
			zap.Int("intento", intento),
			zap.Error(err))
	}
	return nil, fmt.Errorf("directory: agotados los reintentos: %w", ultimoErr)
}

// consultar performs one attempt. The second return value says whether the
// failure is worth retrying.
func (c *Client) consultar(ctx context.Context, url string) (*Usuario, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "MicroService-Content/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var usuario Usuario
		if err := json.NewDecoder(resp.Body).Decode(&usuario); err != nil {
			return nil, false, fmt.Errorf("directory: respuesta invalida: %w", err)
		}
		return &usuario, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrUsuarioNoEncontrado
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("directory: estado %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("directory: estado %d", resp.StatusCode)
	}
}
