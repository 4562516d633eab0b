package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/trezcool/tutoria/core/clustering"
	"github.com/trezcool/tutoria/tests"
)

func Test_clusteringApi(t *testing.T) {
	app := newTestApp(t)

	app.run(t, []httpTest{
		{
			name:     "process: no alumnos",
			method:   http.MethodPost,
			path:     "/api/clustering/process",
			wantCode: http.StatusNotFound,
			wantData: detail("No hay alumnos para procesar"),
		},
		{
			name:     "alumnos: empty",
			method:   http.MethodGet,
			path:     "/api/clustering/alumnos",
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{"success": true, "alumnos": []interface{}{}, "total": 0},
		},
	})

	c := testutil.CreateCurso(t, app.repos.Curso, "matematicas")
	comp := testutil.CreateCompetencia(t, app.repos.Competencia, c.ID, "1_matematicas_c1", "")
	students := []struct {
		nombre string
		ci     int
		grade  string
		score  float64
	}{
		{"Ana Torres", 130, "A", 95},
		{"Luis Quispe", 128, "A", 90},
		{"Rosa Mamani", 100, "B", 60},
		{"Juan Flores", 98, "B", 55},
		{"Mia Rojas", 75, "D", 20},
	}
	var lastID int
	for _, s := range students {
		a := testutil.CreateAlumno(t, app.repos.Alumno, s.nombre, testutil.IntPtr(s.ci))
		testutil.Grade(t, app.repos.Alumno, a.ID, comp.ID, s.grade)
		testutil.CreateInteligencia(t, app.repos.Inteligencia, a.ID, "Musical", s.score)
		lastID = a.ID
	}

	rec := app.do(t, http.MethodPost, "/api/clustering/process", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.NotEmpty(t, gjson.Get(body, "run_id").String())
	assert.Equal(t, int64(5), gjson.Get(body, "alumnos_procesados").Int())
	assert.Equal(t, int64(5), gjson.Get(body, "alumnos_actualizados").Int())
	assert.Equal(t, clustering.TypeKMeans, gjson.Get(body, "analisis.kmeans.cluster_type").String())
	assert.Equal(t, int64(3), gjson.Get(body, "analisis.kmeans.n_clusters").Int())
	assert.Equal(t, clustering.TypeDBSCAN, gjson.Get(body, "analisis.dbscan.cluster_type").String())
	assert.NotEmpty(t, gjson.Get(body, "recomendaciones.kmeans.general_insights").Array())

	// every alumno lands in exactly one K-Means cluster
	rec = app.do(t, http.MethodGet, "/api/clustering/statistics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var total int64
	gjson.Get(rec.Body.String(), "statistics.kmeans").ForEach(func(_, v gjson.Result) bool {
		total += v.Get("total").Int()
		return true
	})
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(0), gjson.Get(rec.Body.String(), "statistics.sin_cluster").Int())

	rec = app.do(t, http.MethodGet, "/api/clustering/alumnos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(5), gjson.Get(rec.Body.String(), "total").Int())

	// the two strongest alumnos share a cluster, away from the weakest one
	clusters := gjson.Get(rec.Body.String(), "alumnos.#.cluster_kmeans").Array()
	require.Len(t, clusters, 5)
	assert.Equal(t, clusters[0].Int(), clusters[1].Int())
	assert.NotEqual(t, clusters[0].Int(), clusters[4].Int())

	rec = app.do(t, http.MethodGet, "/api/clustering/alumnos/"+strconv.Itoa(lastID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = rec.Body.String()
	assert.Equal(t, "Mia Rojas", gjson.Get(body, "alumno.nombre").String())
	assert.Equal(t, "Musical", gjson.Get(body, "alumno.inteligencias.0.tipo").String())
	assert.Equal(t, "D", gjson.Get(body, "alumno.calificaciones.0.calificacion").String())

	rec = app.do(t, http.MethodGet, "/api/clustering/analysis", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(5), gjson.Get(rec.Body.String(), "analysis.total_alumnos").Int())

	app.run(t, []httpTest{
		{
			name:     "alumno: not found",
			method:   http.MethodGet,
			path:     "/api/clustering/alumnos/99",
			wantCode: http.StatusNotFound,
			wantData: detail("Alumno no encontrado"),
		},
	})
}
