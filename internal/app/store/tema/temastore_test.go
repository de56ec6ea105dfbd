package tema

import (
	"testing"

	"github.com/educonnect/contenido/internal/domain/models"
	"github.com/educonnect/contenido/internal/testutil"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	segundo, err := store.Create(ctx, CreateInput{IDCurso: "c1", Titulo: "Unidad 2", Orden: 2})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	primero, err := store.Create(ctx, CreateInput{IDCurso: "c1", Titulo: "Unidad 1", Orden: 1})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, CreateInput{IDCurso: "c2", Titulo: "Otro curso", Orden: 1}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	temas, err := store.ListByCourse(ctx, "c1")
	if err != nil {
		t.Fatalf("ListByCourse() error = %v", err)
	}
	if len(temas) != 2 {
		t.Fatalf("len(temas) = %d, want 2", len(temas))
	}
	// Ordered by orden, not insertion.
	if temas[0].ID != primero.ID || temas[1].ID != segundo.ID {
		t.Errorf("order = [%v %v], want [%v %v]", temas[0].ID, temas[1].ID, primero.ID, segundo.ID)
	}
}

func TestStore_SoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tema, err := store.Create(ctx, CreateInput{IDCurso: "c1", Titulo: "Unidad 1", Orden: 1})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.SoftDelete(ctx, tema.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	temas, err := store.ListByCourse(ctx, "c1")
	if err != nil {
		t.Fatalf("ListByCourse() error = %v", err)
	}
	if len(temas) != 0 {
		t.Errorf("len(temas) = %d, want 0 after soft delete", len(temas))
	}

	got, err := store.GetByID(ctx, tema.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Estado != models.EstadoEliminado {
		t.Errorf("Estado = %v, want eliminado", got.Estado)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tema, err := store.Create(ctx, CreateInput{IDCurso: "c1", Titulo: "Unidad 1", Orden: 1})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	titulo := "Unidad 1 revisada"
	if err := store.Update(ctx, tema.ID, UpdateInput{Titulo: &titulo}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.GetByID(ctx, tema.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Titulo != titulo {
		t.Errorf("Titulo = %v, want %v", got.Titulo, titulo)
	}
	if got.FechaModificacion == nil {
		t.Error("FechaModificacion should be stamped")
	}
	if got.Descripcion != tema.Descripcion {
		t.Errorf("Descripcion changed unexpectedly")
	}
}
