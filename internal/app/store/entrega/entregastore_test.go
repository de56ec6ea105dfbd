package entrega

import (
	"errors"
	"testing"

	"github.com/educonnect/contenido/internal/domain/models"
	"github.com/educonnect/contenido/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	entrega, err := store.Create(ctx, CreateInput{
		IDTarea:      "t1",
		IDEstudiante: "e1",
		Respuesta:    "mi respuesta",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if entrega.Estado != models.EstadoEntregado {
		t.Errorf("Estado = %v, want entregado", entrega.Estado)
	}
	if entrega.FechaEntrega.IsZero() {
		t.Error("FechaEntrega should be stamped")
	}
}

func TestStore_Create_Duplicada(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	input := CreateInput{IDTarea: "t1", IDEstudiante: "e1", Respuesta: "primera"}
	if _, err := store.Create(ctx, input); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Same student, same assignment: rejected by the unique index.
	input.Respuesta = "segunda"
	_, err := store.Create(ctx, input)
	if !errors.Is(err, ErrDuplicada) {
		t.Fatalf("Create() second error = %v, want ErrDuplicada", err)
	}

	// Other student on the same assignment is fine.
	if _, err := store.Create(ctx, CreateInput{IDTarea: "t1", IDEstudiante: "e2"}); err != nil {
		t.Fatalf("Create() other student error = %v", err)
	}
	// Same student on another assignment is fine.
	if _, err := store.Create(ctx, CreateInput{IDTarea: "t2", IDEstudiante: "e1"}); err != nil {
		t.Fatalf("Create() other task error = %v", err)
	}
}

func TestStore_ListByTask(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, estudiante := range []string{"e1", "e2", "e3"} {
		if _, err := store.Create(ctx, CreateInput{IDTarea: "t1", IDEstudiante: estudiante}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := store.Create(ctx, CreateInput{IDTarea: "t2", IDEstudiante: "e1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	entregas, err := store.ListByTask(ctx, "t1")
	if err != nil {
		t.Fatalf("ListByTask() error = %v", err)
	}
	if len(entregas) != 3 {
		t.Errorf("len(entregas) = %d, want 3", len(entregas))
	}
}

func TestStore_ArchivosSync(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	entrega, err := store.Create(ctx, CreateInput{IDTarea: "t1", IDEstudiante: "e1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	resumen := models.ResumenArchivo{
		ID:             "abc123abc123abc123abc123",
		NombreOriginal: "tarea.pdf",
		URL:            "https://bucket/tarea.pdf",
	}
	if err := store.AppendArchivo(ctx, entrega.ID, resumen); err != nil {
		t.Fatalf("AppendArchivo() error = %v", err)
	}

	got, err := store.GetByID(ctx, entrega.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.Archivos) != 1 || got.Archivos[0].ID != resumen.ID {
		t.Fatalf("Archivos = %+v, want the appended summary", got.Archivos)
	}

	if err := store.RemoveArchivo(ctx, entrega.ID, resumen.ID); err != nil {
		t.Fatalf("RemoveArchivo() error = %v", err)
	}
	got, err = store.GetByID(ctx, entrega.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.Archivos) != 0 {
		t.Errorf("Archivos = %+v, want empty", got.Archivos)
	}
}
