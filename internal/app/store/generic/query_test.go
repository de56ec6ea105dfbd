package generic

import (
	"errors"
	"testing"

	"github.com/educonnect/contenido/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func esquemaPrueba() Schema {
	return Schema{
		Coleccion:  "pruebas",
		CampoID:    "id_prueba",
		Requeridas: []string{"nombre", "grupo"},
		Columnas:   []string{"id_prueba", "nombre", "grupo", "detalle"},
		Unica:      "id_prueba",
		Indices:    []string{"grupo"},
	}
}

func TestQueryInsertarYEncontrar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	q := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	esquema := esquemaPrueba()
	res, err := q.Insertar(ctx, esquema, map[string]any{"nombre": "uno", "grupo": "a"}, false)
	if err != nil {
		t.Fatalf("Insertar() error = %v", err)
	}
	if res.Mensaje != "Datos insertados correctamente." {
		t.Errorf("Mensaje = %q", res.Mensaje)
	}

	datos, ok := res.Datos.(bson.M)
	if !ok {
		t.Fatalf("Datos = %T, want bson.M", res.Datos)
	}
	id, ok := datos["id_prueba"].(string)
	if !ok || id == "" {
		t.Fatalf("id_prueba = %v, want hex string", datos["id_prueba"])
	}

	// The stringified id used as a filter must locate the same document.
	encontrado, err := q.Encontrar(ctx, esquema, map[string]any{"id_prueba": id}, nil, false)
	if err != nil {
		t.Fatalf("Encontrar() error = %v", err)
	}
	doc, ok := encontrado.Datos.(bson.M)
	if !ok {
		t.Fatalf("Datos = %T, want bson.M", encontrado.Datos)
	}
	if doc["nombre"] != "uno" {
		t.Errorf("nombre = %v, want uno", doc["nombre"])
	}
	if _, esString := doc["id_prueba"].(string); !esString {
		t.Errorf("id_prueba = %T, want string", doc["id_prueba"])
	}
	if _, tiene := doc["fecha_creacion"]; !tiene {
		t.Error("fecha_creacion missing, want server stamp")
	}
}

func TestQueryInsertarValidacion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	q := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	esquema := esquemaPrueba()

	var ev *ErrValidacion
	_, err := q.Insertar(ctx, esquema, map[string]any{"nombre": "sin grupo"}, false)
	if !errors.As(err, &ev) {
		t.Fatalf("Insertar() error = %v, want ErrValidacion", err)
	}

	_, err = q.Insertar(ctx, esquema, map[string]any{"nombre": "x", "grupo": "a", "otra": 1}, false)
	if !errors.As(err, &ev) {
		t.Fatalf("Insertar() with unknown column error = %v, want ErrValidacion", err)
	}

	// todo=true requires a list.
	_, err = q.Insertar(ctx, esquema, map[string]any{"nombre": "x", "grupo": "a"}, true)
	if !errors.As(err, &ev) {
		t.Fatalf("Insertar(todo) with non-list error = %v, want ErrValidacion", err)
	}
}

func TestQueryInsertarLista(t *testing.T) {
	db := testutil.SetupTestDB(t)
	q := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	esquema := esquemaPrueba()
	lista := []any{
		map[string]any{"nombre": "uno", "grupo": "a"},
		map[string]any{"nombre": "dos", "grupo": "a"},
	}
	res, err := q.Insertar(ctx, esquema, lista, true)
	if err != nil {
		t.Fatalf("Insertar(todo) error = %v", err)
	}
	if res.Mensaje != "Lista de datos insertados correctamente." {
		t.Errorf("Mensaje = %q", res.Mensaje)
	}

	todos, err := q.Encontrar(ctx, esquema, map[string]any{"grupo": "a"}, nil, true)
	if err != nil {
		t.Fatalf("Encontrar(todo) error = %v", err)
	}
	docs, ok := todos.Datos.([]any)
	if !ok {
		t.Fatalf("Datos = %T, want []any", todos.Datos)
	}
	if len(docs) != 2 {
		t.Errorf("len(docs) = %d, want 2", len(docs))
	}
}

func TestQueryEncontrarVacio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	q := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	esquema := esquemaPrueba()

	// Empty result is success, not an error.
	res, err := q.Encontrar(ctx, esquema, map[string]any{"nombre": "nadie"}, nil, false)
	if err != nil {
		t.Fatalf("Encontrar() error = %v", err)
	}
	if res.Datos != nil {
		t.Errorf("Datos = %v, want nil", res.Datos)
	}
	if res.Mensaje != "No se encontraron datos." {
		t.Errorf("Mensaje = %q", res.Mensaje)
	}
}

func TestQueryActualizar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	q := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	esquema := esquemaPrueba()
	res, err := q.Insertar(ctx, esquema, map[string]any{"nombre": "uno", "grupo": "a"}, false)
	if err != nil {
		t.Fatalf("Insertar() error = %v", err)
	}
	id := res.Datos.(bson.M)["id_prueba"].(string)

	actualizado, err := q.Actualizar(ctx, esquema,
		map[string]any{"id_prueba": id},
		map[string]any{"detalle": "cambiado"}, false)
	if err != nil {
		t.Fatalf("Actualizar() error = %v", err)
	}
	if actualizado.Mensaje != "Datos actualizados correctamente." {
		t.Errorf("Mensaje = %q", actualizado.Mensaje)
	}

	// Unknown and protected columns are rejected before any write.
	var ev *ErrValidacion
	_, err = q.Actualizar(ctx, esquema, map[string]any{"id_prueba": id}, map[string]any{"otra": 1}, false)
	if !errors.As(err, &ev) {
		t.Fatalf("Actualizar() unknown column error = %v, want ErrValidacion", err)
	}
	_, err = q.Actualizar(ctx, esquema, map[string]any{"id_prueba": id}, map[string]any{"id_prueba": "x"}, false)
	if !errors.As(err, &ev) {
		t.Fatalf("Actualizar() id column error = %v, want ErrValidacion", err)
	}
}

func TestQueryEliminar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	q := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	esquema := esquemaPrueba()
	for _, nombre := range []string{"uno", "dos", "tres"} {
		if _, err := q.Insertar(ctx, esquema, map[string]any{"nombre": nombre, "grupo": "b"}, false); err != nil {
			t.Fatalf("Insertar() error = %v", err)
		}
	}

	res, err := q.Eliminar(ctx, esquema, map[string]any{"grupo": "b"}, false)
	if err != nil {
		t.Fatalf("Eliminar() error = %v", err)
	}
	if res.Mensaje != "Datos eliminados correctamente." {
		t.Errorf("Mensaje = %q", res.Mensaje)
	}

	res, err = q.Eliminar(ctx, esquema, map[string]any{"grupo": "b"}, true)
	if err != nil {
		t.Fatalf("Eliminar(todo) error = %v", err)
	}
	if res.Mensaje != "Lista de datos eliminados correctamente." {
		t.Errorf("Mensaje = %q", res.Mensaje)
	}

	quedan, err := q.Encontrar(ctx, esquema, map[string]any{"grupo": "b"}, nil, true)
	if err != nil {
		t.Fatalf("Encontrar() error = %v", err)
	}
	if docs := quedan.Datos.([]any); len(docs) != 0 {
		t.Errorf("len(docs) = %d, want 0", len(docs))
	}
}

func TestQueryEncontrarRelacion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	q := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	padres := Schema{
		Coleccion:  "grupos",
		CampoID:    "id_grupo",
		Requeridas: []string{"clave", "nombre"},
		Columnas:   []string{"id_grupo", "clave", "nombre"},
	}
	hijos := esquemaPrueba()

	if _, err := q.Insertar(ctx, padres, map[string]any{"clave": "a", "nombre": "Grupo A"}, false); err != nil {
		t.Fatalf("Insertar() padre error = %v", err)
	}
	for _, nombre := range []string{"uno", "dos"} {
		if _, err := q.Insertar(ctx, hijos, map[string]any{"nombre": nombre, "grupo": "a"}, false); err != nil {
			t.Fatalf("Insertar() hijo error = %v", err)
		}
	}

	res, err := q.EncontrarRelacion(ctx, padres, Relacion{
		Coleccion:    "pruebas",
		CampoLocal:   "clave",
		CampoForaneo: "grupo",
		Como:         "miembros",
		Filtro:       map[string]any{"clave": "a"},
	})
	if err != nil {
		t.Fatalf("EncontrarRelacion() error = %v", err)
	}

	docs, ok := res.Datos.([]any)
	if !ok || len(docs) != 1 {
		t.Fatalf("Datos = %v, want one document", res.Datos)
	}
	doc := docs[0].(bson.M)
	miembros, ok := doc["miembros"].([]any)
	if !ok {
		t.Fatalf("miembros = %T, want []any", doc["miembros"])
	}
	if len(miembros) != 2 {
		t.Errorf("len(miembros) = %d, want 2", len(miembros))
	}
	primero := miembros[0].(bson.M)
	if _, esString := primero["id_prueba"].(string); !esString {
		t.Errorf("embedded id_prueba = %T, want string", primero["id_prueba"])
	}
}

func TestQueryPreparar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	q := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	esquema := esquemaPrueba()
	if err := q.Preparar(ctx, esquema); err != nil {
		t.Fatalf("Preparar() error = %v", err)
	}
	// Second call must be a no-op.
	if err := q.Preparar(ctx, esquema); err != nil {
		t.Fatalf("Preparar() second call error = %v", err)
	}

	if _, err := q.Insertar(ctx, esquema, map[string]any{"nombre": "uno", "grupo": "a"}, false); err != nil {
		t.Fatalf("Insertar() error = %v", err)
	}
}
