package tests

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/tutoria/tests"
)

func newWorkbook(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for name, rows := range sheets {
		f.NewSheet(name)
		for i, row := range rows {
			row := row
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func (app *testApp) upload(t *testing.T, query, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(part, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/"+query, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func Test_uploadApi(t *testing.T) {
	app := newTestApp(t)
	wb := newWorkbook(t, map[string][][]interface{}{
		"notas": {
			{"grado_seccion", "nom", "1_matematicas_c1", "1_matematicas_c1_conclusion", "1_comunicacion_c1", "1_apreciacion_tutor"},
			{"1A", "Ana Torres", "A", "Resuelve bien", 3, "Muy participativa"},
			{"1A", "Luis Quispe", "C", "", "X", ""},
			{"1A", "", "B", "", "B", ""},
		},
		"inteligencias": {
			{"grado_seccion", "nom", "Lógico-matemática", "Musical"},
			{"1A", "Ana Torres", 85.5, 60},
			{"1A", "Luis Quispe", "n/a", 70},
		},
		"ci": {
			{"nom", "ci"},
			{"Ana Torres", 112},
		},
	})

	t.Run("wrong extension", func(t *testing.T) {
		rec := app.upload(t, "", "notas.csv", wb)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"detail": "Formato de archivo no válido. Solo se permiten archivos .xlsx y .xls"}`, rec.Body.String())
	})

	t.Run("legacy xls", func(t *testing.T) {
		rec := app.upload(t, "", "notas.xls", wb)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"detail": "Formato .xls no soportado; guarde el archivo como .xlsx"}`, rec.Body.String())
	})

	t.Run("not a workbook", func(t *testing.T) {
		rec := app.upload(t, "", "notas.xlsx", []byte("hello"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, gjson.Get(rec.Body.String(), "detail").String(), "Error procesando archivo")
	})

	t.Run("import", func(t *testing.T) {
		rec := app.upload(t, "", "notas.xlsx", wb)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := rec.Body.String()
		assert.Equal(t, "Archivo Excel procesado exitosamente", gjson.Get(body, "mensaje").String())
		assert.Equal(t, int64(2), gjson.Get(body, "alumnos_procesados").Int())
		assert.Equal(t, int64(2), gjson.Get(body, "alumnos_creados").Int())
		assert.Equal(t, int64(2), gjson.Get(body, "competencias_procesadas").Int())
		assert.Equal(t, int64(2), gjson.Get(body, "cursos_procesados").Int())
		assert.Equal(t, int64(3), gjson.Get(body, "inteligencias.procesadas").Int())
		assert.Equal(t, "ci", gjson.Get(body, "ci.hoja_detectada").String())

		rec = app.do(t, http.MethodGet, "/api/alumnos", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body = rec.Body.String()
		assert.Equal(t, "Ana Torres", gjson.Get(body, "0.Nombre").String())
		assert.Equal(t, int64(112), gjson.Get(body, "0.CI").Int())
		assert.Equal(t, 3.5, gjson.Get(body, "0.Promedio_Calificaciones").Float())
		assert.Equal(t, "Muy participativa", gjson.Get(body, "0.Recomendaciones_Basicas").String())
		assert.Equal(t, int64(2), gjson.Get(body, "0.inteligencias.#").Int())
		assert.Equal(t, int64(1), gjson.Get(body, "1.Cantidad_Competencias").Int())
	})

	t.Run("existing alumnos are skipped", func(t *testing.T) {
		rec := app.upload(t, "?actualizar_existentes=false", "notas.xlsx", wb)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := rec.Body.String()
		assert.Equal(t, int64(0), gjson.Get(body, "alumnos_procesados").Int())
		assert.Equal(t, int64(0), gjson.Get(body, "alumnos_creados").Int())
		assert.Equal(t, int64(0), gjson.Get(body, "inteligencias.procesadas").Int())
	})

	t.Run("existing alumnos are updated", func(t *testing.T) {
		rec := app.upload(t, "", "notas.xlsx", wb)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := rec.Body.String()
		assert.Equal(t, int64(2), gjson.Get(body, "alumnos_actualizados").Int())
		assert.Equal(t, int64(0), gjson.Get(body, "alumnos_creados").Int())

		// scores are replaced, not duplicated
		rec = app.do(t, http.MethodGet, "/api/inteligencias?limit=100", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(3), gjson.Get(rec.Body.String(), "#").Int())
	})
}

func Test_uploadApi_bodyLimit(t *testing.T) {
	conf := testutil.NewConfig()
	conf.Server.MaxUploadSize = 512
	app := newTestAppWithConfig(t, conf)

	rec := app.upload(t, "", "notas.xlsx", bytes.Repeat([]byte("x"), 1024))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/alumnos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), gjson.Get(rec.Body.String(), "#").Int())
}
