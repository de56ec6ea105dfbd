package carpeta

import (
	"errors"
	"testing"

	"github.com/educonnect/contenido/internal/domain/models"
	"github.com/educonnect/contenido/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	carpeta, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if carpeta.UsuarioID != "u1" {
		t.Errorf("UsuarioID = %v, want u1", carpeta.UsuarioID)
	}
	personal := carpeta.Carpetas[models.TipoContenidoPersonal]
	if personal.Ruta != "/Contenido Personal/u1/" {
		t.Errorf("personal Ruta = %v", personal.Ruta)
	}
	educativa := carpeta.Carpetas[models.TipoContenidoEducativo]
	if educativa.Ruta != "/Contenido Educativo/u1/" {
		t.Errorf("educativa Ruta = %v", educativa.Ruta)
	}
}

func TestStore_Create_DuplicadoDevuelveExistente(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	primero, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A racing second insert hits the unique index and resolves to the
	// winner's entry.
	segundo, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create() second error = %v", err)
	}
	if segundo.ID != primero.ID {
		t.Errorf("second ID = %v, want %v", segundo.ID, primero.ID)
	}
}

func TestStore_GetByUser_NoExiste(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByUser(ctx, "nadie")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByUser() error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_DeleteByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "u1"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.DeleteByUser(ctx, "u1"); err != nil {
		t.Fatalf("DeleteByUser() error = %v", err)
	}
	if _, err := store.GetByUser(ctx, "u1"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByUser() after delete error = %v, want ErrNoDocuments", err)
	}
}
