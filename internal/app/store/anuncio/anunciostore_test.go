package anuncio

import (
	"fmt"
	"testing"

	"github.com/educonnect/contenido/internal/testutil"
)

func TestStore_ListByCourse_ExcluyeEliminados(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	primero, err := store.Create(ctx, CreateInput{
		IDCurso: "c1", Titulo: "Bienvenida", AutorID: "d1", TipoUsuario: "docente",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, CreateInput{
		IDCurso: "c1", Titulo: "Examen", AutorID: "d1", TipoUsuario: "docente",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.SoftDelete(ctx, primero.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	anuncios, err := store.ListByCourse(ctx, "c1", 0, 0)
	if err != nil {
		t.Fatalf("ListByCourse() error = %v", err)
	}
	if len(anuncios) != 1 {
		t.Fatalf("len(anuncios) = %d, want 1", len(anuncios))
	}
	if anuncios[0].Titulo != "Examen" {
		t.Errorf("Titulo = %q, want Examen", anuncios[0].Titulo)
	}
}

func TestStore_ListByCourse_Paginado(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 5; i++ {
		if _, err := store.Create(ctx, CreateInput{
			IDCurso: "c1", Titulo: fmt.Sprintf("Aviso %d", i), AutorID: "d1", TipoUsuario: "docente",
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	pagina, err := store.ListByCourse(ctx, "c1", 2, 1)
	if err != nil {
		t.Fatalf("ListByCourse() error = %v", err)
	}
	if len(pagina) != 2 {
		t.Fatalf("len(pagina 1) = %d, want 2", len(pagina))
	}

	ultima, err := store.ListByCourse(ctx, "c1", 2, 3)
	if err != nil {
		t.Fatalf("ListByCourse() error = %v", err)
	}
	if len(ultima) != 1 {
		t.Errorf("len(pagina 3) = %d, want 1", len(ultima))
	}
}
