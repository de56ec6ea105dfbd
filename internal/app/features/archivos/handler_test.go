package archivos

import (
	"archive/zip"
	"bytes"
	"net/http"
	"testing"

	"github.com/educonnect/contenido/internal/app/store/archivo"
	"github.com/educonnect/contenido/internal/app/store/carpeta"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/blobstore"
	"github.com/educonnect/contenido/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) (http.Handler, *blobstore.Memory, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	blobs := blobstore.NewMemory()
	svc := NewService(archivo.New(db), carpeta.New(db), blobs, inputval.NewExtensions(nil), zap.NewNop())
	h := NewHandler(svc, nil, 0, zap.NewNop())
	return Routes(h), blobs, db
}

type envelope struct {
	Status  string         `json:"status"`
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func subirArchivo(t *testing.T, router http.Handler, usuarioID, carpetaNombre, nombre, contenido string) envelope {
	t.Helper()
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/subir",
		map[string]string{"userId": usuarioID, "carpeta": carpetaNombre},
		testutil.MultipartFile{Field: "file", Filename: nombre, Content: []byte(contenido)},
	)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var env envelope
	rec.DecodeJSON(t, &env)
	return env
}

func TestSubirYListar(t *testing.T) {
	router, _, _ := setupRouter(t)

	env := subirArchivo(t, router, "u1", "Contenido Personal", "apuntes.pdf", "pdf bytes")
	require.Equal(t, "success", env.Status)
	require.Equal(t, "apuntes.pdf", env.Data["nombre_original"])
	require.NotEmpty(t, env.Data["id"])
	require.NotEmpty(t, env.Data["link"])

	req := testutil.NewJSONRequest(t, http.MethodPost, "/listar",
		map[string]string{"userId": "u1", "carpeta": "Contenido Personal"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var lista envelope
	rec.DecodeJSON(t, &lista)
	require.EqualValues(t, 1, lista.Data["total"])
}

func TestSubir_Rechazos(t *testing.T) {
	router, _, _ := setupRouter(t)

	// Extension fuera de la lista permitida.
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/subir",
		map[string]string{"userId": "u1", "carpeta": "Contenido Personal"},
		testutil.MultipartFile{Field: "file", Filename: "virus.exe", Content: []byte("mz")},
	)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	// Carpeta desconocida.
	req = testutil.NewMultipartRequest(t, http.MethodPost, "/subir",
		map[string]string{"userId": "u1", "carpeta": "Otra Carpeta"},
		testutil.MultipartFile{Field: "file", Filename: "apuntes.pdf", Content: []byte("pdf")},
	)
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	// Campos obligatorios ausentes.
	req = testutil.NewMultipartRequest(t, http.MethodPost, "/subir",
		map[string]string{"carpeta": "Contenido Personal"},
		testutil.MultipartFile{Field: "file", Filename: "apuntes.pdf", Content: []byte("pdf")},
	)
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestSubirMultiples_Parciales(t *testing.T) {
	router, _, _ := setupRouter(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/subir/multiple",
		map[string]string{"userId": "u1", "carpeta": "Contenido Personal"},
		testutil.MultipartFile{Field: "files", Filename: "bueno.txt", Content: []byte("hola")},
		testutil.MultipartFile{Field: "files", Filename: "malo.exe", Content: []byte("mz")},
	)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var env envelope
	rec.DecodeJSON(t, &env)
	subidos := env.Data["subidos"].([]any)
	errores := env.Data["errores"].([]any)
	require.Len(t, subidos, 1)
	require.Len(t, errores, 1)
}

func TestSubirMultiples_TodosFallan(t *testing.T) {
	router, _, _ := setupRouter(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/subir/multiple",
		map[string]string{"userId": "u1", "carpeta": "Contenido Personal"},
		testutil.MultipartFile{Field: "files", Filename: "uno.exe", Content: []byte("mz")},
		testutil.MultipartFile{Field: "files", Filename: "dos.bat", Content: []byte("rem")},
	)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestInfo_ExistenciaYPropiedad(t *testing.T) {
	router, _, _ := setupRouter(t)

	env := subirArchivo(t, router, "u1", "Contenido Personal", "apuntes.pdf", "pdf")
	id := env.Data["id"].(string)

	// Id inexistente pero bien formado.
	req := testutil.NewJSONRequest(t, http.MethodPost, "/info",
		map[string]string{"fileId": "aaaaaaaaaaaaaaaaaaaaaaaa", "userId": "u1"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)

	// Archivo de otro usuario: existe, asi que la respuesta es 403.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/info",
		map[string]string{"fileId": id, "userId": "u2"})
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// Dueno correcto.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/info",
		map[string]string{"fileId": id, "userId": "u1"})
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)
}

func TestDescargar(t *testing.T) {
	router, _, _ := setupRouter(t)

	env := subirArchivo(t, router, "u1", "Contenido Personal", "notas.txt", "contenido de prueba")
	id := env.Data["id"].(string)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/descargar",
		map[string]string{"fileId": id, "userId": "u1"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	require.Contains(t, rec.Header().Get("Content-Disposition"), `filename="notas.txt"`)
	require.Equal(t, "contenido de prueba", rec.Body.String())
}

func TestDescargarZip(t *testing.T) {
	router, _, _ := setupRouter(t)

	subirArchivo(t, router, "u1", "Contenido Personal", "uno.txt", "primero")
	subirArchivo(t, router, "u1", "Contenido Personal", "dos.txt", "segundo")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/descargar/zip",
		map[string]string{"userId": "u1", "carpeta": "Contenido Personal"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	require.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	nombres := map[string]bool{}
	for _, f := range zr.File {
		nombres[f.Name] = true
	}
	require.True(t, nombres["uno.txt"])
	require.True(t, nombres["dos.txt"])
}

func TestDescargarZip_CarpetaInvalida(t *testing.T) {
	router, _, _ := setupRouter(t)

	// La carpeta se valida antes de emitir cabeceras: la respuesta debe ser
	// el sobre de error, no un zip vacio con estado 200.
	req := testutil.NewJSONRequest(t, http.MethodPost, "/descargar/zip",
		map[string]string{"userId": "u1", "carpeta": "Carpeta Invalida"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	require.NotEqual(t, "application/zip", rec.Header().Get("Content-Type"))

	var env envelope
	rec.DecodeJSON(t, &env)
	require.Equal(t, "La carpeta indicada no es valida.", env.Message)
}

func TestActualizar_RenombrarYMover(t *testing.T) {
	router, blobs, _ := setupRouter(t)

	env := subirArchivo(t, router, "u1", "Contenido Personal", "borrador.txt", "texto")
	id := env.Data["id"].(string)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/actualizar", map[string]string{
		"fileId":       id,
		"userId":       "u1",
		"nuevoNombre":  "version-final.txt",
		"nuevaCarpeta": "Contenido Educativo",
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var upd envelope
	rec.DecodeJSON(t, &upd)
	campos := upd.Data["campos"].([]any)
	require.Contains(t, campos, "nombre_original")
	require.Contains(t, campos, "carpeta")

	// El registro quedo en la carpeta destino con su blob movido.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/info",
		map[string]string{"fileId": id, "userId": "u1"})
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	var info envelope
	rec.DecodeJSON(t, &info)
	require.Equal(t, "Contenido Educativo", info.Data["carpeta"])
	require.Equal(t, "version-final.txt", info.Data["nombre_original"])
	require.True(t, blobs.Existe(blobstore.NodeID("Contenido Educativo/u1/"+info.Data["nombre"].(string))))
}

func TestEliminar(t *testing.T) {
	router, _, _ := setupRouter(t)

	env := subirArchivo(t, router, "u1", "Contenido Personal", "temporal.txt", "x")
	id := env.Data["id"].(string)

	req := testutil.NewJSONRequest(t, http.MethodDelete, "/eliminar",
		map[string]string{"fileId": id, "userId": "u1"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	// Ya no aparece en el listado.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/listar",
		map[string]string{"userId": "u1", "carpeta": "Contenido Personal"})
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	var lista envelope
	rec.DecodeJSON(t, &lista)
	require.EqualValues(t, 0, lista.Data["total"])

	// Borrar dos veces responde 404.
	req = testutil.NewJSONRequest(t, http.MethodDelete, "/eliminar",
		map[string]string{"fileId": id, "userId": "u1"})
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)

	// Descargar un archivo eliminado tambien responde 404.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/descargar",
		map[string]string{"fileId": id, "userId": "u1"})
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestEliminarUsuario(t *testing.T) {
	router, _, _ := setupRouter(t)

	subirArchivo(t, router, "u1", "Contenido Personal", "uno.txt", "1")
	subirArchivo(t, router, "u1", "Contenido Educativo", "dos.txt", "2")
	subirArchivo(t, router, "u2", "Contenido Personal", "ajeno.txt", "3")

	req := testutil.NewJSONRequest(t, http.MethodDelete, "/usuario",
		map[string]string{"userId": "u1"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var env envelope
	rec.DecodeJSON(t, &env)
	require.EqualValues(t, 2, env.Data["archivos_eliminados"])

	// El contenido del otro usuario sigue intacto.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/listar",
		map[string]string{"userId": "u2", "carpeta": "Contenido Personal"})
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	var lista envelope
	rec.DecodeJSON(t, &lista)
	require.EqualValues(t, 1, lista.Data["total"])
}
