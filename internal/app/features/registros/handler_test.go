package registros

import (
	"net/http"
	"testing"

	"github.com/educonnect/contenido/internal/app/store/generic"
	"github.com/educonnect/contenido/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)

	registry := generic.NewRegistry()
	registry.Registrar(generic.Schema{
		Coleccion:  "cursos",
		CampoID:    "id_curso",
		Requeridas: []string{"nombre", "docente"},
		Columnas:   []string{"id_curso", "nombre", "docente", "creditos"},
		Unica:      "id_curso",
		Indices:    []string{"docente"},
	})

	h := NewHandler(db, registry, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, h.Preparar(ctx))
	return Routes(h)
}

type envelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func enviar(t *testing.T, router http.Handler, method, target string, cuerpo any) (*testutil.ResponseRecorder, envelope) {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, target, cuerpo)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	rec.DecodeJSON(t, &env)
	return rec, env
}

func TestCrearYListar(t *testing.T) {
	router := setupRouter(t)

	rec, env := enviar(t, router, http.MethodPost, "/cursos", map[string]any{
		"data": map[string]any{"nombre": "Algebra", "docente": "d1", "creditos": 6},
	})
	rec.AssertStatus(t, http.StatusCreated)
	require.Equal(t, "Datos insertados correctamente.", env.Message)

	insertado := env.Data.(map[string]any)
	require.NotEmpty(t, insertado["id_curso"])
	require.NotEmpty(t, insertado["fecha_creacion"])

	rec, env = enviar(t, router, http.MethodPost, "/cursos/listar", map[string]any{
		"data": map[string]any{"docente": "d1"},
	})
	rec.AssertStatus(t, http.StatusOK)
	require.Equal(t, "Datos encontrados correctamente.", env.Message)
	require.Equal(t, "Algebra", env.Data.(map[string]any)["nombre"])
}

func TestCrearLista(t *testing.T) {
	router := setupRouter(t)

	rec, env := enviar(t, router, http.MethodPost, "/cursos", map[string]any{
		"data": []map[string]any{
			{"nombre": "Algebra", "docente": "d1"},
			{"nombre": "Calculo", "docente": "d1"},
		},
		"todo": true,
	})
	rec.AssertStatus(t, http.StatusCreated)
	require.Equal(t, "Lista de datos insertados correctamente.", env.Message)
	require.Len(t, env.Data, 2)

	// todo tambien acepta las variantes laxas de verdadero.
	rec, env = enviar(t, router, http.MethodPost, "/cursos/listar", map[string]any{
		"data": map[string]any{"docente": "d1"},
		"todo": "1",
	})
	rec.AssertStatus(t, http.StatusOK)
	require.Len(t, env.Data, 2)
}

func TestCrear_Validaciones(t *testing.T) {
	router := setupRouter(t)

	rec, env := enviar(t, router, http.MethodPost, "/cursos", map[string]any{
		"data": map[string]any{"nombre": "Algebra"},
	})
	rec.AssertStatus(t, http.StatusBadRequest)
	require.Equal(t, "Falta la columna obligatoria docente", env.Message)

	rec, env = enviar(t, router, http.MethodPost, "/cursos", map[string]any{
		"data": map[string]any{"nombre": "Algebra", "docente": "d1", "color": "azul"},
	})
	rec.AssertStatus(t, http.StatusBadRequest)
	require.Equal(t, "Columna desconocida color", env.Message)

	// todo exige una lista.
	rec, env = enviar(t, router, http.MethodPost, "/cursos", map[string]any{
		"data": map[string]any{"nombre": "Algebra", "docente": "d1"},
		"todo": true,
	})
	rec.AssertStatus(t, http.StatusBadRequest)
	require.Equal(t, "Los datos no son una lista.", env.Message)
}

func TestColeccionNoRegistrada(t *testing.T) {
	router := setupRouter(t)

	rec, _ := enviar(t, router, http.MethodPost, "/materias", map[string]any{
		"data": map[string]any{"nombre": "x"},
	})
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestListarVacio(t *testing.T) {
	router := setupRouter(t)

	// Una busqueda sin resultados es exito, no error.
	rec, env := enviar(t, router, http.MethodPost, "/cursos/listar", map[string]any{
		"data": map[string]any{"docente": "nadie"},
		"todo": true,
	})
	rec.AssertStatus(t, http.StatusOK)
	require.Equal(t, "No se encontraron datos.", env.Message)
}

func TestActualizarYEliminar(t *testing.T) {
	router := setupRouter(t)

	_, creado := enviar(t, router, http.MethodPost, "/cursos", map[string]any{
		"data": map[string]any{"nombre": "Algebra", "docente": "d1"},
	})
	id := creado.Data.(map[string]any)["id_curso"].(string)

	rec, env := enviar(t, router, http.MethodPut, "/cursos/actualizar", map[string]any{
		"filter": map[string]any{"id_curso": id},
		"data":   map[string]any{"nombre": "Algebra Lineal"},
	})
	rec.AssertStatus(t, http.StatusOK)
	require.Equal(t, "Datos actualizados correctamente.", env.Message)

	rec, env = enviar(t, router, http.MethodPost, "/cursos/listar", map[string]any{
		"data": map[string]any{"id_curso": id},
	})
	rec.AssertStatus(t, http.StatusOK)
	require.Equal(t, "Algebra Lineal", env.Data.(map[string]any)["nombre"])

	rec, env = enviar(t, router, http.MethodDelete, "/cursos/eliminar", map[string]any{
		"data": map[string]any{"id_curso": id},
	})
	rec.AssertStatus(t, http.StatusOK)
	require.Equal(t, "Datos eliminados correctamente.", env.Message)

	rec, env = enviar(t, router, http.MethodPost, "/cursos/listar", map[string]any{
		"data": map[string]any{"id_curso": id},
	})
	rec.AssertStatus(t, http.StatusOK)
	require.Equal(t, "No se encontraron datos.", env.Message)
}

func TestActualizar_RechazaColumnas(t *testing.T) {
	router := setupRouter(t)

	_, creado := enviar(t, router, http.MethodPost, "/cursos", map[string]any{
		"data": map[string]any{"nombre": "Algebra", "docente": "d1"},
	})
	id := creado.Data.(map[string]any)["id_curso"].(string)

	// Ni el identificador ni columnas desconocidas pueden cambiarse.
	rec, _ := enviar(t, router, http.MethodPut, "/cursos/actualizar", map[string]any{
		"filter": map[string]any{"id_curso": id},
		"data":   map[string]any{"id_curso": "otro"},
	})
	rec.AssertStatus(t, http.StatusBadRequest)

	rec, _ = enviar(t, router, http.MethodPut, "/cursos/actualizar", map[string]any{
		"filter": map[string]any{"id_curso": id},
		"data":   map[string]any{"color": "azul"},
	})
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestRelacion(t *testing.T) {
	db := testutil.SetupTestDB(t)

	registry := generic.NewRegistry()
	registry.Registrar(generic.Schema{
		Coleccion:  "docentes",
		CampoID:    "id_docente",
		Requeridas: []string{"nombre", "clave"},
		Columnas:   []string{"id_docente", "nombre", "clave"},
		Unica:      "id_docente",
	})
	registry.Registrar(generic.Schema{
		Coleccion:  "cursos",
		CampoID:    "id_curso",
		Requeridas: []string{"nombre", "docente"},
		Columnas:   []string{"id_curso", "nombre", "docente"},
		Unica:      "id_curso",
		Indices:    []string{"docente"},
	})

	h := NewHandler(db, registry, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, h.Preparar(ctx))
	router := Routes(h)

	enviar(t, router, http.MethodPost, "/docentes", map[string]any{
		"data": map[string]any{"nombre": "Ada", "clave": "d1"},
	})
	enviar(t, router, http.MethodPost, "/cursos", map[string]any{
		"data": map[string]any{"nombre": "Algebra", "docente": "d1"},
	})

	rec, env := enviar(t, router, http.MethodPost, "/docentes/relacion", map[string]any{
		"coleccion":   "cursos",
		"id_local":    "clave",
		"id_relacion": "docente",
		"as":          "cursos",
		"data":        map[string]any{"clave": "d1"},
	})
	rec.AssertStatus(t, http.StatusOK)

	docentes := env.Data.([]any)
	require.Len(t, docentes, 1)
	cursos := docentes[0].(map[string]any)["cursos"].([]any)
	require.Len(t, cursos, 1)
	require.Equal(t, "Algebra", cursos[0].(map[string]any)["nombre"])
}
