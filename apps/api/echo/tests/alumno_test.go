package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/trezcool/tutoria/tests"
)

func alumnoView(id int, nombre string, promedio float64, cantidad int) map[string]interface{} {
	return map[string]interface{}{
		"id":                      id,
		"nombre":                  nombre,
		"apellido":                "",
		"email":                   "",
		"edad":                    nil,
		"Alumno_ID":               id,
		"Nombre":                  nombre,
		"Promedio_Calificaciones": promedio,
		"Cantidad_Competencias":   cantidad,
		"CI":                      nil,
		"Cluster_KMeans":          0,
		"Cluster_DBSCAN":          0,
		"Recomendaciones_Basicas": "",
		"inteligencias":           []interface{}{},
	}
}

func Test_alumnoApi(t *testing.T) {
	app := newTestApp(t)

	app.run(t, []httpTest{
		{
			name:     "create: missing apellido",
			method:   http.MethodPost,
			path:     "/api/alumnos",
			body:     map[string]string{"nombre": "Ana"},
			wantCode: http.StatusBadRequest,
			wantData: detail(map[string]string{"apellido": "this field is required"}),
		},
		{
			name:     "create: invalid name",
			method:   http.MethodPost,
			path:     "/api/alumnos",
			body:     map[string]string{"nombre": "Ana2", "apellido": "Torres"},
			wantCode: http.StatusBadRequest,
			wantData: detail(map[string]string{"nombre": "only letters, spaces, apostrophes, dots and hyphens are allowed"}),
		},
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/api/alumnos/", // trailing slash is tolerated
			body:     map[string]interface{}{"nombre": " Ana ", "apellido": "Torres", "edad": 12},
			wantCode: http.StatusOK,
			wantData: alumnoView(1, "Ana Torres", 0, 0),
		},
		{
			name:     "list",
			method:   http.MethodGet,
			path:     "/api/alumnos?skip=0&limit=10",
			wantCode: http.StatusOK,
			wantData: []interface{}{alumnoView(1, "Ana Torres", 0, 0)},
		},
		{
			name:     "nombres",
			method:   http.MethodGet,
			path:     "/api/alumnos/nombres",
			wantCode: http.StatusOK,
			wantData: []map[string]interface{}{{"Alumno_ID": 1, "Nombre": "Ana Torres"}},
		},
		{
			name:     "retrieve: invalid id",
			method:   http.MethodGet,
			path:     "/api/alumnos/abc",
			wantCode: http.StatusBadRequest,
			wantData: detail(map[string]string{"id": "value is not a valid integer"}),
		},
		{
			name:     "retrieve: not found",
			method:   http.MethodGet,
			path:     "/api/alumnos/99",
			wantCode: http.StatusNotFound,
			wantData: detail("Alumno no encontrado"),
		},
		{
			name:     "update: only nombre is ignored",
			method:   http.MethodPut,
			path:     "/api/alumnos/1",
			body:     map[string]string{"nombre": "Lucia"},
			wantCode: http.StatusOK,
			wantData: alumnoView(1, "Ana Torres", 0, 0),
		},
		{
			name:     "update: rename",
			method:   http.MethodPut,
			path:     "/api/alumnos/1",
			body:     map[string]string{"nombre": "Ana", "apellido": "Quispe"},
			wantCode: http.StatusOK,
			wantData: alumnoView(1, "Ana Quispe", 0, 0),
		},
	})
}

func Test_alumnoApi_calificaciones(t *testing.T) {
	app := newTestApp(t)
	c := testutil.CreateCurso(t, app.repos.Curso, "matematicas")
	comp1 := testutil.CreateCompetencia(t, app.repos.Competencia, c.ID, "1_matematicas_c1", "Resuelve problemas")
	comp2 := testutil.CreateCompetencia(t, app.repos.Competencia, c.ID, "1_matematicas_c2", "Razona")
	a := testutil.CreateAlumno(t, app.repos.Alumno, "Ana Torres", nil)
	path := "/api/alumnos/" + strconv.Itoa(a.ID) + "/calificaciones"

	app.run(t, []httpTest{
		{
			name:     "invalid grade",
			method:   http.MethodPost,
			path:     path,
			body:     map[string]interface{}{"CompetenciaPlantilla_ID": comp1.ID, "Calificacion": "E"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown competencia",
			method:   http.MethodPost,
			path:     path,
			body:     map[string]interface{}{"CompetenciaPlantilla_ID": 99, "Calificacion": "A"},
			wantCode: http.StatusNotFound,
			wantData: detail("Competencia no encontrada"),
		},
		{
			name:     "grade A",
			method:   http.MethodPost,
			path:     path,
			body:     map[string]interface{}{"CompetenciaPlantilla_ID": comp1.ID, "Calificacion": "a", "Conclusion_descriptiva": "Bien"},
			wantCode: http.StatusOK,
		},
		{
			name:     "grade C",
			method:   http.MethodPost,
			path:     path,
			body:     map[string]interface{}{"CompetenciaPlantilla_ID": comp2.ID, "Calificacion": "C"},
			wantCode: http.StatusOK,
		},
		{
			name:     "regrade B",
			method:   http.MethodPost,
			path:     path,
			body:     map[string]interface{}{"CompetenciaPlantilla_ID": comp1.ID, "Calificacion": "B"},
			wantCode: http.StatusOK,
		},
	})

	rec := app.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(2), gjson.Get(body, "#").Int())
	assert.Equal(t, "B", gjson.Get(body, `#(competencia=="1_matematicas_c1").calificacion`).String())
	assert.Equal(t, "matematicas", gjson.Get(body, "0.curso").String())

	// promedio = (3 + 2) / 2
	rec = app.do(t, http.MethodGet, "/api/alumnos/"+strconv.Itoa(a.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.5, gjson.Get(rec.Body.String(), "Promedio_Calificaciones").Float())
	assert.Equal(t, int64(2), gjson.Get(rec.Body.String(), "Cantidad_Competencias").Int())

	app.run(t, []httpTest{
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/api/alumnos/" + strconv.Itoa(a.ID),
			wantCode: http.StatusOK,
			wantData: map[string]string{"message": "Alumno eliminado exitosamente"},
		},
		{
			name:     "delete again",
			method:   http.MethodDelete,
			path:     "/api/alumnos/" + strconv.Itoa(a.ID),
			wantCode: http.StatusNotFound,
			wantData: detail("Alumno no encontrado"),
		},
		{
			name:     "calificaciones of deleted alumno",
			method:   http.MethodGet,
			path:     path,
			wantCode: http.StatusNotFound,
		},
	})
}
