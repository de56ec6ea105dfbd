package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func clientePrueba(baseURL string) *Client {
	c := New(baseURL, zap.NewNop())
	c.esperaBase = time.Millisecond
	return c
}

func TestObtenerUsuario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/usuarios/u123" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"usuario_id":"u123","nombre_usuario":"María González"}`))
	}))
	defer srv.Close()

	c := clientePrueba(srv.URL + "/usuarios/")
	usuario, err := c.ObtenerUsuario(context.Background(), "u123")
	if err != nil {
		t.Fatalf("ObtenerUsuario() error = %v", err)
	}
	if usuario.ID != "u123" || usuario.Nombre != "María González" {
		t.Errorf("usuario = %+v", usuario)
	}
}

func TestObtenerUsuarioNoEncontrado(t *testing.T) {
	var llamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := clientePrueba(srv.URL + "/usuarios/")
	_, err := c.ObtenerUsuario(context.Background(), "nadie")
	if !errors.Is(err, ErrUsuarioNoEncontrado) {
		t.Fatalf("error = %v, want ErrUsuarioNoEncontrado", err)
	}
	if n := llamadas.Load(); n != 1 {
		t.Errorf("llamadas = %d, want 1 (404 must not retry)", n)
	}
}

func TestObtenerUsuarioReintenta(t *testing.T) {
	var llamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if llamadas.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"usuario_id":"u1","nombre_usuario":"Ana"}`))
	}))
	defer srv.Close()

	c := clientePrueba(srv.URL + "/usuarios/")
	usuario, err := c.ObtenerUsuario(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ObtenerUsuario() error = %v", err)
	}
	if usuario.Nombre != "Ana" {
		t.Errorf("Nombre = %q", usuario.Nombre)
	}
	if n := llamadas.Load(); n != 3 {
		t.Errorf("llamadas = %d, want 3", n)
	}
}

func TestObtenerUsuarioAgotaReintentos(t *testing.T) {
	var llamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := clientePrueba(srv.URL + "/usuarios/")
	_, err := c.ObtenerUsuario(context.Background(), "u1")
	if err == nil {
		t.Fatal("ObtenerUsuario() error = nil, want failure")
	}
	if n := llamadas.Load(); n != 3 {
		t.Errorf("llamadas = %d, want 3", n)
	}
}
